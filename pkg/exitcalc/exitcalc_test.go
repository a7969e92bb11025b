package exitcalc

import (
	"math"
	"testing"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
)

func TestSale(t *testing.T) {
	tests := []struct {
		name         string
		in           SaleInputs
		wantPrice    float64
		wantProceeds float64
	}{
		{
			"Standard disposition",
			SaleInputs{
				TerminalNOIAnnual: 24000,
				ExitCapRate:       0.06,
				SellingCostsPct:   0.06,
				LoanPayoff:        180000,
			},
			400000,
			400000 - 24000 - 180000,
		},
		{
			"Free and clear",
			SaleInputs{
				TerminalNOIAnnual: 30000,
				ExitCapRate:       0.05,
				SellingCostsPct:   0.0,
				LoanPayoff:        0,
			},
			600000,
			600000,
		},
		{
			"Underwater sale is reported, not rejected",
			SaleInputs{
				TerminalNOIAnnual: 10000,
				ExitCapRate:       0.10,
				SellingCostsPct:   0.05,
				LoanPayoff:        150000,
			},
			100000,
			100000 - 5000 - 150000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Sale(tt.in)
			if err != nil {
				t.Fatalf("Sale() error: %v", err)
			}
			if math.Abs(result.SalePrice-tt.wantPrice) > 0.01 {
				t.Errorf("sale price = %v, expected %v", result.SalePrice, tt.wantPrice)
			}
			if math.Abs(result.NetProceeds-tt.wantProceeds) > 0.01 {
				t.Errorf("net proceeds = %v, expected %v", result.NetProceeds, tt.wantProceeds)
			}
		})
	}
}

func TestSaleRejectsNonPositiveCapRate(t *testing.T) {
	if _, err := Sale(SaleInputs{TerminalNOIAnnual: 24000, ExitCapRate: 0}); err == nil {
		t.Errorf("expected an error for a zero cap rate")
	}
	if _, err := Sale(SaleInputs{TerminalNOIAnnual: 24000, ExitCapRate: -0.05}); err == nil {
		t.Errorf("expected an error for a negative cap rate")
	}
}

func TestRefinance(t *testing.T) {
	// A $200k purchase with $45k rehab reaching a $320k ARV at 75% LTV,
	// retiring a $160k bridge with 2% closing costs on the new loan.
	result := Refinance(RefinanceInputs{
		ARV:               320000,
		RefiLTV:           0.75,
		BridgePayoff:      160000,
		ClosingCosts:      deal.Amount{Value: 0.02, AsFraction: true},
		TotalCashInvested: 88200,
	})

	if math.Abs(result.NewLoanAmount-240000) > 0.01 {
		t.Errorf("new loan = %v, expected 240000", result.NewLoanAmount)
	}
	if math.Abs(result.ClosingCosts-4800) > 0.01 {
		t.Errorf("closing costs = %v, expected 4800", result.ClosingCosts)
	}
	if math.Abs(result.CashOut-75200) > 0.01 {
		t.Errorf("cash out = %v, expected 240000 - 160000 - 4800 = 75200", result.CashOut)
	}
	if math.Abs(result.RemainingCashInDeal-13000) > 0.01 {
		t.Errorf("remaining cash = %v, expected 13000", result.RemainingCashInDeal)
	}
	if result.EffectiveLoanBalance != result.NewLoanAmount {
		t.Errorf("effective balance = %v, expected the new loan amount when costs are paid in cash", result.EffectiveLoanBalance)
	}
}

func TestRefinanceRollsCostsIntoLoan(t *testing.T) {
	result := Refinance(RefinanceInputs{
		ARV:               320000,
		RefiLTV:           0.75,
		BridgePayoff:      160000,
		ClosingCosts:      deal.Amount{Value: 0.02, AsFraction: true},
		RollCostsIntoLoan: true,
		TotalCashInvested: 88200,
	})

	if math.Abs(result.CashOut-80000) > 0.01 {
		t.Errorf("cash out = %v, expected 80000 with costs rolled in", result.CashOut)
	}
	if math.Abs(result.EffectiveLoanBalance-244800) > 0.01 {
		t.Errorf("effective balance = %v, expected 244800", result.EffectiveLoanBalance)
	}
}

func TestRefinanceNegativeRemainingCashIsValid(t *testing.T) {
	// Pulling out more than was invested is the textbook BRRRR outcome.
	result := Refinance(RefinanceInputs{
		ARV:               360000,
		RefiLTV:           0.75,
		BridgePayoff:      160000,
		ClosingCosts:      deal.Amount{Value: 0, AsFraction: false},
		TotalCashInvested: 88200,
	})

	if math.Abs(result.CashOut-110000) > 0.01 {
		t.Errorf("cash out = %v, expected 110000", result.CashOut)
	}
	if result.RemainingCashInDeal >= 0 {
		t.Errorf("remaining cash = %v, expected a negative value", result.RemainingCashInDeal)
	}
	if math.Abs(result.RemainingCashInDeal-(-21800)) > 0.01 {
		t.Errorf("remaining cash = %v, expected -21800", result.RemainingCashInDeal)
	}
}

func TestRefinanceFixedClosingCosts(t *testing.T) {
	result := Refinance(RefinanceInputs{
		ARV:               300000,
		RefiLTV:           0.70,
		BridgePayoff:      150000,
		ClosingCosts:      deal.Amount{Value: 6000, AsFraction: false},
		TotalCashInvested: 80000,
	})
	if math.Abs(result.ClosingCosts-6000) > 0.01 {
		t.Errorf("closing costs = %v, expected the fixed 6000", result.ClosingCosts)
	}
	if math.Abs(result.CashOut-(210000-150000-6000)) > 0.01 {
		t.Errorf("cash out = %v, expected 54000", result.CashOut)
	}
}
