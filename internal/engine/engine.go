// Package engine wires the calculation pipeline together: validation gates
// the projector, debt service and exit values feed the waterfall, and the
// return solver summarizes each capital class. Every run is a pure function
// of its inputs; the engine holds no session state between invocations.
package engine

import (
	"errors"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"github.com/iwvelando/deal-underwriter/pkg/debtservice"
	"github.com/iwvelando/deal-underwriter/pkg/projection"
	"github.com/iwvelando/deal-underwriter/pkg/returns"
	"go.uber.org/zap"
)

// Engine is the entry point for all three calculators.
type Engine struct {
	logger    *zap.Logger
	projector *projection.Projector
	loans     *debtservice.Generator
}

// New creates an engine; a nil logger is replaced with a no-op.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:    logger,
		projector: projection.NewProjector(logger),
		loans:     debtservice.NewGenerator(logger),
	}
}

// perPeriodAssumptions converts the monthly operating pro forma to
// per-period base amounts for the requested projection frequency.
func perPeriodAssumptions(ops deal.Operations, periodsPerYear int) projection.Assumptions {
	monthsPerPeriod := float64(constants.MonthsPerYear) / float64(periodsPerYear)
	return projection.Assumptions{
		GrossIncome:         ops.GrossRentMonthly * monthsPerPeriod,
		OtherIncome:         ops.OtherIncomeMonthly * monthsPerPeriod,
		VacancyRate:         ops.VacancyRate,
		OperatingExpenses:   ops.OperatingExpensesMonthly * monthsPerPeriod,
		RentGrowthAnnual:    ops.RentGrowthAnnual,
		ExpenseGrowthAnnual: ops.ExpenseGrowthAnnual,
		ManagementFee:       ops.ManagementFee,
		Reserves:            ops.Reserves,
	}
}

// computeMetrics derives the return summary for one signed series. An IRR
// that cannot be found is reported as a per-metric computation error; the
// remaining metrics are still computed.
func (e *Engine) computeMetrics(flows []float64, periodsPerYear int, series *projection.Series, totalCashInvested float64) (returns.Metrics, []deal.ComputationError) {
	var metrics returns.Metrics
	var compErrs []deal.ComputationError

	irr, err := returns.IRR(flows)
	if err != nil {
		if errors.Is(err, returns.ErrIRRNotFound) {
			compErrs = append(compErrs, deal.ComputationError{Metric: "irr", Reason: err.Error()})
			e.logger.Debug("irr did not converge",
				zap.String("op", "engine.computeMetrics"),
				zap.Int("flows", len(flows)),
			)
		} else {
			compErrs = append(compErrs, deal.ComputationError{Metric: "irr", Reason: err.Error()})
		}
	} else {
		metrics.IRR = returns.AnnualizeIRR(irr, periodsPerYear)
		metrics.IRRFound = true
	}

	multiple, err := returns.EquityMultiple(flows)
	if err != nil {
		compErrs = append(compErrs, deal.ComputationError{Metric: "equityMultiple", Reason: err.Error()})
	} else {
		metrics.EquityMultiple = multiple
	}

	if series != nil {
		metrics.CashOnCashYear1 = returns.CashOnCash(series.YearOnePreTaxCashFlow(), totalCashInvested)
		metrics.DSCR, metrics.HasDSCR = returns.DSCR(series.YearOneNOI(), series.YearOneDebtService())
	}

	return metrics, compErrs
}
