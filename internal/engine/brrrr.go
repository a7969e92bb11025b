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

// BRRRRResult aggregates one buy-rehab-rent-refinance analysis.
type BRRRRResult struct {
	Validation deal.ValidationResult `json:"validation"`

	BridgeLoanAmount  float64 `json:"bridgeLoanAmount"`
	TotalCashInvested float64 `json:"totalCashInvested"`

	BridgePayoff debtservice.Payoff       `json:"bridgePayoff"`
	Refinance    exitcalc.RefinanceResult `json:"refinance"`

	CashFlows   *projection.Series    `json:"cashFlows,omitempty"`
	DebtService []debtservice.Payment `json:"debtService,omitempty"`
	Sale        exitcalc.SaleResult   `json:"sale"`

	// SignedCashFlows includes the refinance cash-out in the refinance month
	// and sale proceeds in the final month.
	SignedCashFlows []float64 `json:"signedCashFlows,omitempty"`

	Metrics           returns.Metrics         `json:"metrics"`
	ComputationErrors []deal.ComputationError `json:"computationErrors,omitempty"`
}

// RunBRRRR validates the inputs and, when they pass, computes the two-stage
// bridge-to-permanent analysis. BRRRR deals always project monthly so the
// refinance event lands on an exact month.
func (e *Engine) RunBRRRR(in deal.BRRRRInputs) (*BRRRRResult, error) {
	validation := validate.BRRRR(in)
	if !validation.IsValid {
		e.logger.Debug("brrrr inputs rejected",
			zap.String("op", "engine.RunBRRRR"),
			zap.Int("errors", len(validation.Errors)),
		)
		return &BRRRRResult{Validation: validation}, nil
	}

	holdMonths := in.Exit.HoldYears * constants.MonthsPerYear
	refiMonth := in.Refinance.RefinanceMonth

	price := in.Acquisition.PurchasePrice
	bridgeAmount := price * (1.0 - in.Bridge.DownPaymentPct)
	downPayment := price * in.Bridge.DownPaymentPct
	points := bridgeAmount * in.Bridge.PointsPct
	totalCashInvested := downPayment + in.Acquisition.ClosingCosts + in.Acquisition.RehabBudget + points

	bridge := debtservice.LoanState{
		PrincipalBalance: bridgeAmount,
		InterestRate:     in.Bridge.InterestRate,
		IsInterestOnly:   true,
		DeferInterest:    in.Bridge.DeferInterest,
	}
	bridgeSchedule, err := e.loans.Schedule(bridge, refiMonth)
	if err != nil {
		return nil, fmt.Errorf("bridge schedule: %w", err)
	}
	bridgePayoff, err := debtservice.PayoffAfter(bridgeSchedule, refiMonth)
	if err != nil {
		return nil, fmt.Errorf("bridge payoff: %w", err)
	}

	refi := exitcalc.Refinance(exitcalc.RefinanceInputs{
		ARV:               in.Refinance.ARV,
		RefiLTV:           in.Refinance.LTV,
		BridgePayoff:      bridgePayoff.Total,
		ClosingCosts:      in.Refinance.ClosingCosts,
		RollCostsIntoLoan: in.Refinance.RollCostsIntoLoan,
		TotalCashInvested: totalCashInvested,
	})

	permanent := debtservice.LoanState{
		PrincipalBalance:   refi.EffectiveLoanBalance,
		InterestRate:       in.Refinance.InterestRate,
		AmortizationMonths: in.Refinance.AmortizationMonths,
	}
	permanentSchedule, err := e.loans.Schedule(permanent, holdMonths-refiMonth)
	if err != nil {
		return nil, fmt.Errorf("permanent schedule: %w", err)
	}

	combined := make([]debtservice.Payment, 0, holdMonths)
	combined = append(combined, bridgeSchedule...)
	combined = append(combined, permanentSchedule...)

	series, err := e.projector.Project(perPeriodAssumptions(in.Operations, constants.MonthsPerYear), holdMonths, constants.MonthsPerYear)
	if err != nil {
		return nil, fmt.Errorf("cash-flow projection: %w", err)
	}
	if err := series.ApplyDebtService(debtservice.PaymentAmounts(combined)); err != nil {
		return nil, fmt.Errorf("cash-flow projection: %w", err)
	}

	terminalNOI, err := series.AnnualizedNOI(holdMonths)
	if err != nil {
		return nil, fmt.Errorf("terminal NOI: %w", err)
	}
	salePayoff, err := debtservice.PayoffAfter(permanentSchedule, holdMonths-refiMonth)
	if err != nil {
		return nil, fmt.Errorf("permanent payoff: %w", err)
	}
	sale, err := exitcalc.Sale(exitcalc.SaleInputs{
		TerminalNOIAnnual: terminalNOI,
		ExitCapRate:       in.Exit.ExitCapRate,
		SellingCostsPct:   in.Exit.SellingCostsPct,
		LoanPayoff:        salePayoff.Total,
	})
	if err != nil {
		return nil, fmt.Errorf("sale proceeds: %w", err)
	}

	flows := make([]float64, holdMonths+1)
	flows[0] = -totalCashInvested
	for i, period := range series.Periods {
		flows[i+1] = period.PreTaxCashFlow
	}
	flows[refiMonth] += refi.CashOut
	flows[holdMonths] += sale.NetProceeds

	metrics, compErrs := e.computeMetrics(flows, constants.MonthsPerYear, series, totalCashInvested)

	e.logger.Debug("brrrr analysis complete",
		zap.String("op", "engine.RunBRRRR"),
		zap.Float64("bridgePayoff", bridgePayoff.Total),
		zap.Float64("cashOut", refi.CashOut),
		zap.Float64("remainingCashInDeal", refi.RemainingCashInDeal),
		zap.Bool("irrFound", metrics.IRRFound),
	)

	return &BRRRRResult{
		Validation:        validation,
		BridgeLoanAmount:  bridgeAmount,
		TotalCashInvested: totalCashInvested,
		BridgePayoff:      bridgePayoff,
		Refinance:         refi,
		CashFlows:         series,
		DebtService:       combined,
		Sale:              sale,
		SignedCashFlows:   flows,
		Metrics:           metrics,
		ComputationErrors: compErrs,
	}, nil
}
