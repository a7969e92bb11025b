// Package exitcalc computes terminal sale proceeds and BRRRR refinance
// proceeds. Sale value comes from capitalizing terminal NOI at the exit cap
// rate; refinance value comes from ARV at the refinance LTV.
package exitcalc

import (
	"fmt"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
)

// SaleInputs drive the disposition path.
type SaleInputs struct {
	// TerminalNOIAnnual is the annualized NOI of the period immediately
	// preceding the sale.
	TerminalNOIAnnual float64

	ExitCapRate     float64
	SellingCostsPct float64

	// LoanPayoff is the balance (plus any accrued interest) retired at close.
	LoanPayoff float64
}

// SaleResult is the disposition outcome.
type SaleResult struct {
	SalePrice    float64 `json:"salePrice"`
	SellingCosts float64 `json:"sellingCosts"`
	LoanPayoff   float64 `json:"loanPayoff"`
	NetProceeds  float64 `json:"netProceeds"`
}

// Sale capitalizes terminal NOI into a sale price and nets out selling costs
// and the loan payoff. A non-positive cap rate is a caller contract
// violation; the validator rejects it before any run reaches this point.
func Sale(in SaleInputs) (SaleResult, error) {
	if in.ExitCapRate <= 0 {
		return SaleResult{}, fmt.Errorf("exit cap rate must be positive, got %.4f", in.ExitCapRate)
	}

	salePrice := in.TerminalNOIAnnual / in.ExitCapRate
	sellingCosts := salePrice * in.SellingCostsPct

	return SaleResult{
		SalePrice:    salePrice,
		SellingCosts: sellingCosts,
		LoanPayoff:   in.LoanPayoff,
		NetProceeds:  salePrice - sellingCosts - in.LoanPayoff,
	}, nil
}

// RefinanceInputs drive the BRRRR refinance event.
type RefinanceInputs struct {
	ARV     float64
	RefiLTV float64

	// BridgePayoff retires the acquisition loan, including accrued interest
	// on deferred-interest bridges.
	BridgePayoff float64

	// ClosingCosts resolve against the new loan amount when fractional.
	ClosingCosts      deal.Amount
	RollCostsIntoLoan bool

	// TotalCashInvested is the investor's cash into the deal prior to the
	// refinance (down payment, rehab, points, closing costs).
	TotalCashInvested float64
}

// RefinanceResult is the refinance outcome. RemainingCashInDeal may be
// negative: the investor extracted more cash than was invested, which is a
// valid and expected BRRRR outcome, not an error.
type RefinanceResult struct {
	NewLoanAmount float64 `json:"newLoanAmount"`

	// EffectiveLoanBalance is the starting balance of the permanent loan;
	// it exceeds NewLoanAmount when closing costs are rolled in.
	EffectiveLoanBalance float64 `json:"effectiveLoanBalance"`

	ClosingCosts        float64 `json:"closingCosts"`
	BridgePayoff        float64 `json:"bridgePayoff"`
	CashOut             float64 `json:"cashOut"`
	RemainingCashInDeal float64 `json:"remainingCashInDeal"`
}

// Refinance sizes the permanent loan at ARV x LTV and computes the cash-out
// after retiring the bridge and paying closing costs.
func Refinance(in RefinanceInputs) RefinanceResult {
	newLoan := in.ARV * in.RefiLTV
	costs := in.ClosingCosts.Of(newLoan)

	cashOut := newLoan - in.BridgePayoff
	effectiveBalance := newLoan
	if in.RollCostsIntoLoan {
		effectiveBalance += costs
	} else {
		cashOut -= costs
	}

	return RefinanceResult{
		NewLoanAmount:        newLoan,
		EffectiveLoanBalance: effectiveBalance,
		ClosingCosts:         costs,
		BridgePayoff:         in.BridgePayoff,
		CashOut:              cashOut,
		RemainingCashInDeal:  in.TotalCashInvested - cashOut,
	}
}
