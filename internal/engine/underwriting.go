package engine

import (
	"fmt"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"github.com/iwvelando/deal-underwriter/pkg/debtservice"
	"github.com/iwvelando/deal-underwriter/pkg/exitcalc"
	"github.com/iwvelando/deal-underwriter/pkg/projection"
	"github.com/iwvelando/deal-underwriter/pkg/returns"
	"github.com/iwvelando/deal-underwriter/pkg/validate"
	"go.uber.org/zap"
)

// UnderwritingResult aggregates one buy-and-hold analysis. When validation
// fails only Validation is populated and no calculation runs.
type UnderwritingResult struct {
	Validation deal.ValidationResult `json:"validation"`

	LoanAmount        float64 `json:"loanAmount"`
	TotalCashInvested float64 `json:"totalCashInvested"`

	CashFlows   *projection.Series    `json:"cashFlows,omitempty"`
	DebtService []debtservice.Payment `json:"debtService,omitempty"`
	Sale        exitcalc.SaleResult   `json:"sale"`

	// SignedCashFlows is the return series: the capital outlay at period 0,
	// operating cash flows, and sale proceeds in the final period.
	SignedCashFlows []float64 `json:"signedCashFlows,omitempty"`

	Metrics           returns.Metrics         `json:"metrics"`
	ComputationErrors []deal.ComputationError `json:"computationErrors,omitempty"`
}

// RunUnderwriting validates the inputs and, when they pass, computes the
// full buy-and-hold analysis. Invalid inputs short-circuit with only the
// validation outcome populated. An error return indicates a caller contract
// violation, not a business-rule failure.
func (e *Engine) RunUnderwriting(in deal.UnderwritingInputs) (*UnderwritingResult, error) {
	validation := validate.Underwriting(in)
	if !validation.IsValid {
		e.logger.Debug("underwriting inputs rejected",
			zap.String("op", "engine.RunUnderwriting"),
			zap.Int("errors", len(validation.Errors)),
		)
		return &UnderwritingResult{Validation: validation}, nil
	}

	periodsPerYear := in.Frequency.PeriodsPerYear()
	holdPeriods := in.Exit.HoldYears * periodsPerYear
	holdMonths := in.Exit.HoldYears * constants.MonthsPerYear

	price := in.Acquisition.PurchasePrice
	loanAmount := price * (1.0 - in.Financing.DownPaymentPct)
	downPayment := price * in.Financing.DownPaymentPct
	points := loanAmount * in.Financing.PointsPct
	totalCashInvested := downPayment + in.Acquisition.ClosingCosts + in.Acquisition.RehabBudget + points

	loan := debtservice.LoanState{
		PrincipalBalance:   loanAmount,
		InterestRate:       in.Financing.InterestRate,
		AmortizationMonths: in.Financing.AmortizationMonths,
		IsInterestOnly:     in.Financing.InterestOnly,
	}
	monthly, err := e.loans.Schedule(loan, holdMonths)
	if err != nil {
		return nil, fmt.Errorf("debt service schedule: %w", err)
	}
	schedule := debtservice.Aggregate(monthly, periodsPerYear)

	series, err := e.projector.Project(perPeriodAssumptions(in.Operations, periodsPerYear), holdPeriods, periodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("cash-flow projection: %w", err)
	}
	if err := series.ApplyDebtService(debtservice.PaymentAmounts(schedule)); err != nil {
		return nil, fmt.Errorf("cash-flow projection: %w", err)
	}

	terminalNOI, err := series.AnnualizedNOI(holdPeriods)
	if err != nil {
		return nil, fmt.Errorf("terminal NOI: %w", err)
	}
	payoff, err := debtservice.PayoffAfter(monthly, holdMonths)
	if err != nil {
		return nil, fmt.Errorf("loan payoff: %w", err)
	}
	sale, err := exitcalc.Sale(exitcalc.SaleInputs{
		TerminalNOIAnnual: terminalNOI,
		ExitCapRate:       in.Exit.ExitCapRate,
		SellingCostsPct:   in.Exit.SellingCostsPct,
		LoanPayoff:        payoff.Total,
	})
	if err != nil {
		return nil, fmt.Errorf("sale proceeds: %w", err)
	}

	flows := make([]float64, holdPeriods+1)
	flows[0] = -totalCashInvested
	for i, period := range series.Periods {
		flows[i+1] = period.PreTaxCashFlow
	}
	flows[holdPeriods] += sale.NetProceeds

	metrics, compErrs := e.computeMetrics(flows, periodsPerYear, series, totalCashInvested)

	e.logger.Debug("underwriting analysis complete",
		zap.String("op", "engine.RunUnderwriting"),
		zap.Float64("loanAmount", loanAmount),
		zap.Float64("netSaleProceeds", sale.NetProceeds),
		zap.Bool("irrFound", metrics.IRRFound),
	)

	return &UnderwritingResult{
		Validation:        validation,
		LoanAmount:        loanAmount,
		TotalCashInvested: totalCashInvested,
		CashFlows:         series,
		DebtService:       schedule,
		Sale:              sale,
		SignedCashFlows:   flows,
		Metrics:           metrics,
		ComputationErrors: compErrs,
	}, nil
}
