// Package presets supplies named, pre-built deal input templates. Presets
// are starting points for callers; the engine never computes or mutates
// them.
package presets

import (
	"fmt"
	"sort"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
)

// Names of the built-in presets.
const (
	Conservative = "conservative"
	Base         = "base"
	Aggressive   = "aggressive"
)

// Names lists the available preset names in stable order.
func Names() []string {
	names := []string{Conservative, Base, Aggressive}
	sort.Strings(names)
	return names
}

// Underwriting returns the named buy-and-hold template.
func Underwriting(name string) (deal.UnderwritingInputs, error) {
	in := deal.UnderwritingInputs{
		Frequency: deal.Monthly,
		Acquisition: deal.Acquisition{
			PurchasePrice: 250000,
			ClosingCosts:  7500,
			RehabBudget:   10000,
		},
		Financing: deal.Financing{
			DownPaymentPct:     0.25,
			InterestRate:       0.0675,
			AmortizationMonths: 360,
			PointsPct:          0.01,
		},
		Operations: deal.Operations{
			GrossRentMonthly:         2400,
			OtherIncomeMonthly:       50,
			VacancyRate:              0.05,
			OperatingExpensesMonthly: 700,
			RentGrowthAnnual:         0.03,
			ExpenseGrowthAnnual:      0.025,
			ManagementFee:            deal.Amount{Value: 0.08, AsFraction: true},
			Reserves:                 deal.Amount{Value: 0.05, AsFraction: true},
		},
		Exit: deal.Exit{
			HoldYears:       5,
			ExitCapRate:     0.06,
			SellingCostsPct: 0.06,
		},
	}

	switch name {
	case Base:
	case Conservative:
		in.Operations.VacancyRate = 0.08
		in.Operations.RentGrowthAnnual = 0.02
		in.Exit.ExitCapRate = 0.07
	case Aggressive:
		in.Operations.VacancyRate = 0.03
		in.Operations.RentGrowthAnnual = 0.04
		in.Exit.ExitCapRate = 0.05
	default:
		return deal.UnderwritingInputs{}, fmt.Errorf("unknown preset %q", name)
	}

	return in, nil
}

// BRRRR returns the named buy-rehab-rent-refinance template.
func BRRRR(name string) (deal.BRRRRInputs, error) {
	in := deal.BRRRRInputs{
		Acquisition: deal.Acquisition{
			PurchasePrice: 200000,
			ClosingCosts:  5000,
			RehabBudget:   45000,
		},
		Bridge: deal.BridgeLoan{
			DownPaymentPct: 0.20,
			InterestRate:   0.115,
			TermMonths:     12,
			PointsPct:      0.02,
		},
		Refinance: deal.Refinance{
			ARV:                320000,
			LTV:                0.75,
			InterestRate:       0.0725,
			AmortizationMonths: 360,
			RefinanceMonth:     12,
			ClosingCosts:       deal.Amount{Value: 0.02, AsFraction: true},
		},
		Operations: deal.Operations{
			GrossRentMonthly:         2600,
			VacancyRate:              0.05,
			OperatingExpensesMonthly: 800,
			RentGrowthAnnual:         0.03,
			ExpenseGrowthAnnual:      0.025,
			ManagementFee:            deal.Amount{Value: 0.08, AsFraction: true},
			Reserves:                 deal.Amount{Value: 150, AsFraction: false},
		},
		Exit: deal.Exit{
			HoldYears:       5,
			ExitCapRate:     0.065,
			SellingCostsPct: 0.06,
		},
	}

	switch name {
	case Base:
	case Conservative:
		in.Refinance.ARV = 300000
		in.Refinance.LTV = 0.70
		in.Operations.VacancyRate = 0.08
	case Aggressive:
		in.Refinance.ARV = 340000
		in.Operations.VacancyRate = 0.03
		in.Exit.ExitCapRate = 0.055
	default:
		return deal.BRRRRInputs{}, fmt.Errorf("unknown preset %q", name)
	}

	return in, nil
}

// Syndication returns the named syndicated-deal template.
func Syndication(name string) (deal.SyndicationInputs, error) {
	in := deal.SyndicationInputs{
		Frequency: deal.Annual,
		Acquisition: deal.Acquisition{
			PurchasePrice: 4000000,
			ClosingCosts:  80000,
			RehabBudget:   250000,
		},
		Financing: deal.Financing{
			DownPaymentPct:     0.30,
			InterestRate:       0.0625,
			AmortizationMonths: 360,
			PointsPct:          0.01,
		},
		Operations: deal.Operations{
			GrossRentMonthly:         45000,
			OtherIncomeMonthly:       2000,
			VacancyRate:              0.06,
			OperatingExpensesMonthly: 18000,
			RentGrowthAnnual:         0.03,
			ExpenseGrowthAnnual:      0.025,
			ManagementFee:            deal.Amount{Value: 0.04, AsFraction: true},
			Reserves:                 deal.Amount{Value: 0.03, AsFraction: true},
		},
		Exit: deal.Exit{
			HoldYears:       5,
			ExitCapRate:     0.055,
			SellingCostsPct: 0.03,
		},
		Equity: deal.Equity{
			LPSharePct:      0.90,
			GPSharePct:      0.10,
			PreferredReturn: 0.08,
			PromoteLPShare:  0.70,
			PromoteGPShare:  0.30,
		},
	}

	switch name {
	case Base:
	case Conservative:
		in.Operations.VacancyRate = 0.08
		in.Exit.ExitCapRate = 0.06
		in.Equity.PreferredReturn = 0.07
	case Aggressive:
		in.Operations.VacancyRate = 0.04
		in.Exit.ExitCapRate = 0.05
		in.Operations.RentGrowthAnnual = 0.04
	default:
		return deal.SyndicationInputs{}, fmt.Errorf("unknown preset %q", name)
	}

	return in, nil
}
