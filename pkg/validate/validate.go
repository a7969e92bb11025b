// Package validate checks deal inputs against structural bounds (blocking
// errors) and commercially typical ranges (advisory warnings). The run entry
// points refuse to calculate when a blocking error is present; this is the
// only hard gate in the pipeline.
package validate

import (
	"math"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/deal"
)

// Underwriting validates a buy-and-hold input record.
func Underwriting(in deal.UnderwritingInputs) deal.ValidationResult {
	result := deal.ValidationResult{IsValid: true}

	checkFrequency(&result, in.Frequency)
	checkAcquisition(&result, in.Acquisition)
	checkFinancing(&result, in.Financing)
	checkOperations(&result, in.Operations)
	checkExit(&result, in.Exit)

	return result
}

// BRRRR validates a buy-rehab-rent-refinance input record.
func BRRRR(in deal.BRRRRInputs) deal.ValidationResult {
	result := deal.ValidationResult{IsValid: true}

	checkAcquisition(&result, in.Acquisition)
	checkOperations(&result, in.Operations)
	checkExit(&result, in.Exit)

	if in.Bridge.DownPaymentPct < 0 || in.Bridge.DownPaymentPct > 1 {
		result.AddError("bridge.downPaymentPct", "down payment must be between 0 and 1, got %.4f", in.Bridge.DownPaymentPct)
	}
	if in.Bridge.InterestRate <= -1 {
		result.AddError("bridge.interestRate", "interest rate must exceed -100%%, got %.4f", in.Bridge.InterestRate)
	}
	if in.Bridge.TermMonths <= 0 {
		result.AddError("bridge.termMonths", "bridge term must be at least 1 month, got %d", in.Bridge.TermMonths)
	}
	if in.Bridge.InterestRate > constants.TypicalInterestCeiling {
		result.AddWarning("bridge.interestRate", "bridge rate %.2f%% is above the typical range", in.Bridge.InterestRate*100)
	}

	if in.Refinance.ARV <= 0 {
		result.AddError("refinance.arv", "after-repair value must be positive, got %.2f", in.Refinance.ARV)
	}
	if in.Refinance.LTV <= 0 || in.Refinance.LTV > 1 {
		result.AddError("refinance.ltv", "refinance LTV must be between 0 and 1, got %.4f", in.Refinance.LTV)
	}
	if in.Refinance.InterestRate <= -1 {
		result.AddError("refinance.interestRate", "interest rate must exceed -100%%, got %.4f", in.Refinance.InterestRate)
	}
	if in.Refinance.AmortizationMonths <= 0 {
		result.AddError("refinance.amortizationMonths", "amortization must be at least 1 month, got %d", in.Refinance.AmortizationMonths)
	}
	if in.Refinance.RefinanceMonth <= 0 {
		result.AddError("refinance.refinanceMonth", "refinance month must be at least 1, got %d", in.Refinance.RefinanceMonth)
	}
	if in.Exit.HoldYears > 0 && in.Refinance.RefinanceMonth >= in.Exit.HoldYears*constants.MonthsPerYear {
		result.AddError("refinance.refinanceMonth", "refinance month %d falls at or after the sale month %d",
			in.Refinance.RefinanceMonth, in.Exit.HoldYears*constants.MonthsPerYear)
	}
	if in.Refinance.ClosingCosts.Value < 0 {
		result.AddError("refinance.closingCosts", "closing costs cannot be negative, got %.2f", in.Refinance.ClosingCosts.Value)
	}
	if in.Refinance.ARV > 0 && in.Refinance.ARV < in.Acquisition.PurchasePrice {
		result.AddWarning("refinance.arv", "ARV %.2f is below the purchase price %.2f", in.Refinance.ARV, in.Acquisition.PurchasePrice)
	}

	return result
}

// Syndication validates an LP/GP syndicated input record.
func Syndication(in deal.SyndicationInputs) deal.ValidationResult {
	result := deal.ValidationResult{IsValid: true}

	checkFrequency(&result, in.Frequency)
	checkAcquisition(&result, in.Acquisition)
	checkFinancing(&result, in.Financing)
	checkOperations(&result, in.Operations)
	checkExit(&result, in.Exit)

	shareSum := in.Equity.LPSharePct + in.Equity.GPSharePct
	if math.Abs(shareSum-1.0) > constants.EquityShareTolerance {
		result.AddError("equity", "LP and GP shares must sum to 1.0 within %.3f, got %.4f",
			constants.EquityShareTolerance, shareSum)
	}
	if in.Equity.LPSharePct < 0 || in.Equity.GPSharePct < 0 {
		result.AddError("equity", "equity shares cannot be negative (LP %.4f, GP %.4f)",
			in.Equity.LPSharePct, in.Equity.GPSharePct)
	}
	if in.Equity.PreferredReturn < 0 {
		result.AddError("equity.preferredReturn", "preferred return cannot be negative, got %.4f", in.Equity.PreferredReturn)
	}
	promoteSum := in.Equity.PromoteLPShare + in.Equity.PromoteGPShare
	if math.Abs(promoteSum-1.0) > constants.ShareSumTolerance {
		result.AddError("equity.promote", "promote shares must sum to 1.0 within %.3f, got %.4f",
			constants.ShareSumTolerance, promoteSum)
	}
	if in.Equity.PromoteLPShare < 0 || in.Equity.PromoteGPShare < 0 {
		result.AddError("equity.promote", "promote shares cannot be negative (LP %.4f, GP %.4f)",
			in.Equity.PromoteLPShare, in.Equity.PromoteGPShare)
	}
	if in.Equity.PreferredReturn > 0.12 {
		result.AddWarning("equity.preferredReturn", "preferred return %.2f%% is above the typical range", in.Equity.PreferredReturn*100)
	}

	return result
}

func checkFrequency(result *deal.ValidationResult, f deal.Frequency) {
	if f != "" && f != deal.Monthly && f != deal.Annual {
		result.AddError("frequency", "frequency must be %q or %q, got %q", deal.Monthly, deal.Annual, f)
	}
}

func checkAcquisition(result *deal.ValidationResult, a deal.Acquisition) {
	if a.PurchasePrice <= 0 {
		result.AddError("acquisition.purchasePrice", "purchase price must be positive, got %.2f", a.PurchasePrice)
	}
	if a.ClosingCosts < 0 {
		result.AddError("acquisition.closingCosts", "closing costs cannot be negative, got %.2f", a.ClosingCosts)
	}
	if a.RehabBudget < 0 {
		result.AddError("acquisition.rehabBudget", "rehab budget cannot be negative, got %.2f", a.RehabBudget)
	}
}

func checkFinancing(result *deal.ValidationResult, f deal.Financing) {
	if f.DownPaymentPct < 0 || f.DownPaymentPct > 1 {
		result.AddError("financing.downPaymentPct", "down payment must be between 0 and 1, got %.4f", f.DownPaymentPct)
	}
	if f.InterestRate <= -1 {
		result.AddError("financing.interestRate", "interest rate must exceed -100%%, got %.4f", f.InterestRate)
	}
	if !f.InterestOnly && f.AmortizationMonths <= 0 {
		result.AddError("financing.amortizationMonths", "amortization must be at least 1 month, got %d", f.AmortizationMonths)
	}
	if f.PointsPct < 0 {
		result.AddError("financing.pointsPct", "points cannot be negative, got %.4f", f.PointsPct)
	}
	if f.InterestRate > constants.TypicalInterestCeiling {
		result.AddWarning("financing.interestRate", "interest rate %.2f%% is above the typical range", f.InterestRate*100)
	}
}

func checkOperations(result *deal.ValidationResult, o deal.Operations) {
	if o.GrossRentMonthly < 0 {
		result.AddError("operations.grossRentMonthly", "gross rent cannot be negative, got %.2f", o.GrossRentMonthly)
	}
	if o.OtherIncomeMonthly < 0 {
		result.AddError("operations.otherIncomeMonthly", "other income cannot be negative, got %.2f", o.OtherIncomeMonthly)
	}
	if o.VacancyRate < 0 || o.VacancyRate >= 1 {
		result.AddError("operations.vacancyRate", "vacancy rate must be in [0, 1), got %.4f", o.VacancyRate)
	}
	if o.OperatingExpensesMonthly < 0 {
		result.AddError("operations.operatingExpensesMonthly", "operating expenses cannot be negative, got %.2f", o.OperatingExpensesMonthly)
	}
	if o.ManagementFee.Value < 0 {
		result.AddError("operations.managementFee", "management fee cannot be negative, got %.4f", o.ManagementFee.Value)
	}
	if o.Reserves.Value < 0 {
		result.AddError("operations.reserves", "reserves cannot be negative, got %.4f", o.Reserves.Value)
	}
	if o.VacancyRate > constants.TypicalVacancyCeiling {
		result.AddWarning("operations.vacancyRate", "vacancy rate %.1f%% is above the typical range", o.VacancyRate*100)
	}
	if o.RentGrowthAnnual > 0.10 {
		result.AddWarning("operations.rentGrowthAnnual", "rent growth %.1f%% per year is aggressive", o.RentGrowthAnnual*100)
	}
}

func checkExit(result *deal.ValidationResult, e deal.Exit) {
	if e.HoldYears <= 0 {
		result.AddError("exit.holdYears", "hold period must be at least 1 year, got %d", e.HoldYears)
	}
	if e.ExitCapRate <= 0 {
		result.AddError("exit.exitCapRate", "exit cap rate must be positive, got %.4f", e.ExitCapRate)
	}
	if e.SellingCostsPct < 0 || e.SellingCostsPct > 1 {
		result.AddError("exit.sellingCostsPct", "selling costs must be between 0 and 1, got %.4f", e.SellingCostsPct)
	}
	if e.ExitCapRate > 0 && (e.ExitCapRate < constants.TypicalCapRateFloor || e.ExitCapRate > constants.TypicalCapRateCeiling) {
		result.AddWarning("exit.exitCapRate", "exit cap rate %.2f%% is outside the typical %.0f%%-%.0f%% range",
			e.ExitCapRate*100, constants.TypicalCapRateFloor*100, constants.TypicalCapRateCeiling*100)
	}
}
