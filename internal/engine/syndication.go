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
	"github.com/iwvelando/deal-underwriter/pkg/waterfall"
	"go.uber.org/zap"
)

// SyndicationResult aggregates one syndicated-deal analysis, including the
// per-class waterfall outcome.
type SyndicationResult struct {
	Validation deal.ValidationResult `json:"validation"`

	LoanAmount        float64 `json:"loanAmount"`
	EquityRaised      float64 `json:"equityRaised"`
	LPCapital         float64 `json:"lpCapital"`
	GPCapital         float64 `json:"gpCapital"`
	TotalCashInvested float64 `json:"totalCashInvested"`

	CashFlows   *projection.Series    `json:"cashFlows,omitempty"`
	DebtService []debtservice.Payment `json:"debtService,omitempty"`
	Sale        exitcalc.SaleResult   `json:"sale"`

	// Distributions is the per-period waterfall outcome; the final entry
	// includes the sale proceeds run through the same tiers.
	Distributions []waterfall.Distribution `json:"distributions,omitempty"`

	// PromoteDollars is the cumulative GP carry above the hurdle; zero when
	// proceeds never clear preferred return and full capital return.
	PromoteDollars float64 `json:"promoteDollars"`

	// Residual balances after the terminal distribution.
	UnreturnedCapital waterfall.Balances `json:"unreturnedCapital"`
	AccruedPref       waterfall.Balances `json:"accruedPref"`

	LPSignedCashFlows []float64 `json:"lpSignedCashFlows,omitempty"`
	GPSignedCashFlows []float64 `json:"gpSignedCashFlows,omitempty"`

	// ProjectMetrics summarizes the deal before the equity split; LPMetrics
	// and GPMetrics summarize each class's own series.
	ProjectMetrics returns.Metrics `json:"projectMetrics"`
	LPMetrics      returns.Metrics `json:"lpMetrics"`
	GPMetrics      returns.Metrics `json:"gpMetrics"`

	ComputationErrors []deal.ComputationError `json:"computationErrors,omitempty"`
}

// RunSyndication validates the inputs and, when they pass, runs the full
// pipeline including the LP/GP waterfall.
func (e *Engine) RunSyndication(in deal.SyndicationInputs) (*SyndicationResult, error) {
	validation := validate.Syndication(in)
	if !validation.IsValid {
		e.logger.Debug("syndication inputs rejected",
			zap.String("op", "engine.RunSyndication"),
			zap.Int("errors", len(validation.Errors)),
		)
		return &SyndicationResult{Validation: validation}, nil
	}

	periodsPerYear := in.Frequency.PeriodsPerYear()
	holdPeriods := in.Exit.HoldYears * periodsPerYear
	holdMonths := in.Exit.HoldYears * constants.MonthsPerYear

	price := in.Acquisition.PurchasePrice
	loanAmount := price * (1.0 - in.Financing.DownPaymentPct)
	downPayment := price * in.Financing.DownPaymentPct
	points := loanAmount * in.Financing.PointsPct
	equityRaised := downPayment + in.Acquisition.ClosingCosts + in.Acquisition.RehabBudget + points
	lpCapital := equityRaised * in.Equity.LPSharePct
	gpCapital := equityRaised * in.Equity.GPSharePct

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

	distributor, err := waterfall.New(waterfall.Config{
		Tiers: waterfall.StandardTiers(
			in.Equity.PreferredReturn,
			in.Equity.LPSharePct, in.Equity.GPSharePct,
			in.Equity.PromoteLPShare, in.Equity.PromoteGPShare,
		),
		PeriodsPerYear: periodsPerYear,
		CompoundPref:   in.Equity.CompoundPref,
	}, e.logger, lpCapital, gpCapital)
	if err != nil {
		return nil, fmt.Errorf("waterfall: %w", err)
	}

	distributions := make([]waterfall.Distribution, holdPeriods)
	lpFlows := make([]float64, holdPeriods+1)
	gpFlows := make([]float64, holdPeriods+1)
	lpFlows[0] = -lpCapital
	gpFlows[0] = -gpCapital

	for i, period := range series.Periods {
		distributions[i] = distributor.DistributePeriod(period.PreTaxCashFlow)
		lpFlows[i+1] = distributions[i].LP
		gpFlows[i+1] = distributions[i].GP
	}

	// Terminal sale proceeds run through the same tier logic as a single
	// large period; the final period's accrual already happened above.
	saleDist := distributor.Distribute(sale.NetProceeds)
	distributions[holdPeriods-1] = addDistributions(distributions[holdPeriods-1], saleDist)
	lpFlows[holdPeriods] += saleDist.LP
	gpFlows[holdPeriods] += saleDist.GP

	projectFlows := make([]float64, holdPeriods+1)
	projectFlows[0] = -equityRaised
	for i, period := range series.Periods {
		projectFlows[i+1] = period.PreTaxCashFlow
	}
	projectFlows[holdPeriods] += sale.NetProceeds

	projectMetrics, compErrs := e.computeMetrics(projectFlows, periodsPerYear, series, equityRaised)
	lpMetrics, lpErrs := e.computeMetrics(lpFlows, periodsPerYear, nil, lpCapital)
	gpMetrics, gpErrs := e.computeMetrics(gpFlows, periodsPerYear, nil, gpCapital)
	compErrs = append(compErrs, prefixMetricErrors("lp.", lpErrs)...)
	compErrs = append(compErrs, prefixMetricErrors("gp.", gpErrs)...)

	e.logger.Debug("syndication analysis complete",
		zap.String("op", "engine.RunSyndication"),
		zap.Float64("equityRaised", equityRaised),
		zap.Float64("promoteDollars", distributor.PromoteDollars()),
		zap.Float64("unreturnedLP", distributor.UnreturnedCapital().LP),
	)

	return &SyndicationResult{
		Validation:        validation,
		LoanAmount:        loanAmount,
		EquityRaised:      equityRaised,
		LPCapital:         lpCapital,
		GPCapital:         gpCapital,
		TotalCashInvested: equityRaised,
		CashFlows:         series,
		DebtService:       schedule,
		Sale:              sale,
		Distributions:     distributions,
		PromoteDollars:    distributor.PromoteDollars(),
		UnreturnedCapital: distributor.UnreturnedCapital(),
		AccruedPref:       distributor.AccruedPref(),
		LPSignedCashFlows: lpFlows,
		GPSignedCashFlows: gpFlows,
		ProjectMetrics:    projectMetrics,
		LPMetrics:         lpMetrics,
		GPMetrics:         gpMetrics,
		ComputationErrors: compErrs,
	}, nil
}

func addDistributions(a, b waterfall.Distribution) waterfall.Distribution {
	a.LP += b.LP
	a.GP += b.GP
	a.PrefPaid.LP += b.PrefPaid.LP
	a.PrefPaid.GP += b.PrefPaid.GP
	a.CapitalReturned.LP += b.CapitalReturned.LP
	a.CapitalReturned.GP += b.CapitalReturned.GP
	a.Promote.LP += b.Promote.LP
	a.Promote.GP += b.Promote.GP
	return a
}

func prefixMetricErrors(prefix string, errs []deal.ComputationError) []deal.ComputationError {
	out := make([]deal.ComputationError, len(errs))
	for i, err := range errs {
		out[i] = deal.ComputationError{Metric: prefix + err.Metric, Reason: err.Reason}
	}
	return out
}
