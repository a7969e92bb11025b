// Package projection builds periodic operating cash-flow series from
// base-period income and expense assumptions under annual growth rates.
package projection

import (
	"fmt"
	"math"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"go.uber.org/zap"
)

// Period is one row of an operating cash-flow series. NOI and pre-tax cash
// flow are derived and always satisfy
// noi = grossIncome - vacancyLoss - operatingExpenses and
// preTaxCashFlow = noi - debtService.
type Period struct {
	PeriodIndex       int     `json:"periodIndex"`
	GrossIncome       float64 `json:"grossIncome"`
	VacancyLoss       float64 `json:"vacancyLoss"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	NOI               float64 `json:"noi"`
	DebtService       float64 `json:"debtService"`
	PreTaxCashFlow    float64 `json:"preTaxCashFlow"`
}

// Series is a finite ordered sequence of periods, indexed from 1. Period 0
// (acquisition) carries no operating cash flow; the capital outlay enters the
// return series instead.
type Series struct {
	PeriodsPerYear int      `json:"periodsPerYear"`
	Periods        []Period `json:"periods"`
}

// Assumptions are the base-period operating figures. Monetary values are the
// amount for one projection period.
type Assumptions struct {
	GrossIncome         float64
	OtherIncome         float64
	VacancyRate         float64
	OperatingExpenses   float64
	RentGrowthAnnual    float64
	ExpenseGrowthAnnual float64
	ManagementFee       deal.Amount
	Reserves            deal.Amount
}

// Projector builds cash-flow series.
type Projector struct {
	logger *zap.Logger
}

// NewProjector creates a projector; a nil logger is replaced with a no-op.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// Project produces a series of the requested length. Growth compounds
// continuously across periods: period p grows by (1+g)^(p/periodsPerYear).
func (p *Projector) Project(a Assumptions, periods, periodsPerYear int) (*Series, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("projection requires at least 1 period, got %d", periods)
	}
	if periodsPerYear <= 0 {
		return nil, fmt.Errorf("periods per year must be positive, got %d", periodsPerYear)
	}

	series := &Series{
		PeriodsPerYear: periodsPerYear,
		Periods:        make([]Period, periods),
	}

	for i := 0; i < periods; i++ {
		idx := i + 1
		rentFactor := math.Pow(1.0+a.RentGrowthAnnual, float64(idx)/float64(periodsPerYear))
		expenseFactor := math.Pow(1.0+a.ExpenseGrowthAnnual, float64(idx)/float64(periodsPerYear))

		grossIncome := (a.GrossIncome + a.OtherIncome) * rentFactor
		vacancyLoss := grossIncome * a.VacancyRate
		effectiveGross := grossIncome - vacancyLoss

		expenses := a.OperatingExpenses * expenseFactor
		expenses += a.ManagementFee.Of(effectiveGross)
		expenses += a.Reserves.Of(effectiveGross)

		noi := grossIncome - vacancyLoss - expenses

		series.Periods[i] = Period{
			PeriodIndex:       idx,
			GrossIncome:       grossIncome,
			VacancyLoss:       vacancyLoss,
			OperatingExpenses: expenses,
			NOI:               noi,
			PreTaxCashFlow:    noi,
		}
	}

	p.logger.Debug("projected cash-flow series",
		zap.String("op", "projection.Project"),
		zap.Int("periods", periods),
		zap.Int("periodsPerYear", periodsPerYear),
		zap.Float64("firstNOI", series.Periods[0].NOI),
		zap.Float64("lastNOI", series.Periods[periods-1].NOI),
	)

	return series, nil
}

// ApplyDebtService records per-period debt service and recomputes pre-tax
// cash flow. The payments slice must match the series length.
func (s *Series) ApplyDebtService(payments []float64) error {
	if len(payments) != len(s.Periods) {
		return fmt.Errorf("debt service length %d does not match series length %d", len(payments), len(s.Periods))
	}
	for i := range s.Periods {
		s.Periods[i].DebtService = payments[i]
		s.Periods[i].PreTaxCashFlow = s.Periods[i].NOI - payments[i]
	}
	return nil
}

// PreTaxCashFlows returns the pre-tax cash flow of every period in order.
func (s *Series) PreTaxCashFlows() []float64 {
	flows := make([]float64, len(s.Periods))
	for i, period := range s.Periods {
		flows[i] = period.PreTaxCashFlow
	}
	return flows
}

// AnnualizedNOI returns the NOI of the given period (1-based) scaled to a
// full year. Used for terminal value: the sale reads the period immediately
// preceding the sale date.
func (s *Series) AnnualizedNOI(periodIndex int) (float64, error) {
	if periodIndex < 1 || periodIndex > len(s.Periods) {
		return 0, fmt.Errorf("period index %d out of range [1, %d]", periodIndex, len(s.Periods))
	}
	return s.Periods[periodIndex-1].NOI * float64(s.PeriodsPerYear), nil
}

// YearOneNOI sums NOI over the first year of the series.
func (s *Series) YearOneNOI() float64 {
	sum := 0.0
	for i := 0; i < s.PeriodsPerYear && i < len(s.Periods); i++ {
		sum += s.Periods[i].NOI
	}
	return sum
}

// YearOneDebtService sums debt service over the first year of the series.
func (s *Series) YearOneDebtService() float64 {
	sum := 0.0
	for i := 0; i < s.PeriodsPerYear && i < len(s.Periods); i++ {
		sum += s.Periods[i].DebtService
	}
	return sum
}

// YearOnePreTaxCashFlow sums pre-tax cash flow over the first year.
func (s *Series) YearOnePreTaxCashFlow() float64 {
	sum := 0.0
	for i := 0; i < s.PeriodsPerYear && i < len(s.Periods); i++ {
		sum += s.Periods[i].PreTaxCashFlow
	}
	return sum
}
