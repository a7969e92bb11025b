package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
)

func baseUnderwriting() deal.UnderwritingInputs {
	return deal.UnderwritingInputs{
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
}

func TestRunUnderwriting(t *testing.T) {
	eng := New(nil)
	result, err := eng.RunUnderwriting(baseUnderwriting())
	if err != nil {
		t.Fatalf("RunUnderwriting() error: %v", err)
	}
	if !result.Validation.IsValid {
		t.Fatalf("valid inputs rejected: %v", result.Validation.Errors)
	}

	// 75% of the price is financed; cash in is down payment, closing
	// costs, rehab, and one point on the loan.
	if math.Abs(result.LoanAmount-187500) > 0.01 {
		t.Errorf("loan amount = %v, expected 187500", result.LoanAmount)
	}
	wantCash := 62500.0 + 7500 + 10000 + 1875
	if math.Abs(result.TotalCashInvested-wantCash) > 0.01 {
		t.Errorf("total cash invested = %v, expected %v", result.TotalCashInvested, wantCash)
	}

	if len(result.SignedCashFlows) != 61 {
		t.Fatalf("signed series length = %d, expected 61 (5 years monthly + period 0)", len(result.SignedCashFlows))
	}
	if math.Abs(result.SignedCashFlows[0]+wantCash) > 0.01 {
		t.Errorf("period 0 flow = %v, expected %v", result.SignedCashFlows[0], -wantCash)
	}

	// Sale price is the annualized terminal NOI capitalized at the exit cap.
	terminalNOI := result.CashFlows.Periods[59].NOI * 12
	if math.Abs(result.Sale.SalePrice-terminalNOI/0.06) > 0.01 {
		t.Errorf("sale price = %v, expected %v", result.Sale.SalePrice, terminalNOI/0.06)
	}

	// The final flow carries the last operating month plus net proceeds.
	wantFinal := result.CashFlows.Periods[59].PreTaxCashFlow + result.Sale.NetProceeds
	if math.Abs(result.SignedCashFlows[60]-wantFinal) > 0.01 {
		t.Errorf("final flow = %v, expected %v", result.SignedCashFlows[60], wantFinal)
	}

	if !result.Metrics.IRRFound {
		t.Errorf("IRR not found for a healthy deal: %v", result.ComputationErrors)
	}
	if result.Metrics.EquityMultiple <= 1.0 {
		t.Errorf("equity multiple = %v, expected above 1.0 for a profitable deal", result.Metrics.EquityMultiple)
	}
	if !result.Metrics.HasDSCR {
		t.Errorf("DSCR missing for a financed deal")
	}
	if result.Metrics.DSCR <= 0 {
		t.Errorf("DSCR = %v, expected positive", result.Metrics.DSCR)
	}
}

func TestRunUnderwritingAnnualFrequency(t *testing.T) {
	in := baseUnderwriting()
	in.Frequency = deal.Annual

	eng := New(nil)
	result, err := eng.RunUnderwriting(in)
	if err != nil {
		t.Fatalf("RunUnderwriting() error: %v", err)
	}
	if !result.Validation.IsValid {
		t.Fatalf("valid inputs rejected: %v", result.Validation.Errors)
	}

	if len(result.SignedCashFlows) != 6 {
		t.Fatalf("signed series length = %d, expected 6 (5 annual periods + period 0)", len(result.SignedCashFlows))
	}
	if len(result.DebtService) != 5 {
		t.Errorf("aggregated debt service length = %d, expected 5", len(result.DebtService))
	}

	// Annual period 1 debt service is twelve monthly payments.
	monthly, err := eng.RunUnderwriting(baseUnderwriting())
	if err != nil {
		t.Fatalf("RunUnderwriting() monthly error: %v", err)
	}
	var wantYearOne float64
	for i := 0; i < 12; i++ {
		wantYearOne += monthly.DebtService[i].Payment
	}
	if math.Abs(result.DebtService[0].Payment-wantYearOne) > 0.01 {
		t.Errorf("annual debt service = %v, expected %v", result.DebtService[0].Payment, wantYearOne)
	}
}

func TestRunUnderwritingInvalidInputs(t *testing.T) {
	in := baseUnderwriting()
	in.Acquisition.PurchasePrice = -100

	eng := New(nil)
	result, err := eng.RunUnderwriting(in)
	if err != nil {
		t.Fatalf("invalid inputs must not produce a Go error, got %v", err)
	}
	if result.Validation.IsValid {
		t.Fatalf("negative purchase price accepted")
	}
	if result.CashFlows != nil || result.SignedCashFlows != nil {
		t.Errorf("calculation ran despite failed validation")
	}
	if result.Metrics.IRRFound {
		t.Errorf("metrics populated despite failed validation")
	}
}

func TestRunUnderwritingIsDeterministic(t *testing.T) {
	eng := New(nil)
	first, err := eng.RunUnderwriting(baseUnderwriting())
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}
	second, err := eng.RunUnderwriting(baseUnderwriting())
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different results")
	}
}

func TestRunUnderwritingDoesNotMutateInputs(t *testing.T) {
	in := baseUnderwriting()
	want := baseUnderwriting()

	eng := New(nil)
	if _, err := eng.RunUnderwriting(in); err != nil {
		t.Fatalf("RunUnderwriting() error: %v", err)
	}
	if !reflect.DeepEqual(in, want) {
		t.Errorf("input record mutated by the run")
	}
}

func TestRunUnderwritingNOIIdentityHolds(t *testing.T) {
	eng := New(nil)
	result, err := eng.RunUnderwriting(baseUnderwriting())
	if err != nil {
		t.Fatalf("RunUnderwriting() error: %v", err)
	}
	for _, period := range result.CashFlows.Periods {
		noi := period.GrossIncome - period.VacancyLoss - period.OperatingExpenses
		if math.Abs(noi-period.NOI) > 1e-9 {
			t.Fatalf("period %d violates the NOI identity", period.PeriodIndex)
		}
		if math.Abs(period.PreTaxCashFlow-(period.NOI-period.DebtService)) > 1e-9 {
			t.Fatalf("period %d violates the cash-flow identity", period.PeriodIndex)
		}
	}
}
