// Package returns computes investment-return metrics from signed cash-flow
// series: IRR via a damped Newton-Raphson with a bisection fallback, equity
// multiple, cash-on-cash, and debt service coverage.
package returns

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
)

// ErrIRRNotFound indicates that no discount rate in the solvable domain
// zeroes the NPV of the series. Pathological sign patterns (for example a
// large negative cash-out at refinance) can legitimately have no real root.
var ErrIRRNotFound = errors.New("irr: no convergent rate found")

// Metrics is the derived return summary for one cash-flow series. Values
// are recomputed whenever the underlying series changes, never mutated.
type Metrics struct {
	IRR             float64 `json:"irr"`
	IRRFound        bool    `json:"irrFound"`
	EquityMultiple  float64 `json:"equityMultiple"`
	CashOnCashYear1 float64 `json:"cashOnCashYear1"`
	DSCR            float64 `json:"dscr,omitempty"`
	HasDSCR         bool    `json:"hasDscr"`
}

// NPV discounts a signed cash-flow series at the given periodic rate. The
// series begins at period 0 (undiscounted).
func NPV(rate float64, flows []float64) float64 {
	npv := 0.0
	factor := 1.0
	for _, flow := range flows {
		npv += flow / factor
		factor *= 1.0 + rate
	}
	return npv
}

// npvDerivative is d(NPV)/d(rate) for the Newton step.
func npvDerivative(rate float64, flows []float64) float64 {
	deriv := 0.0
	for t := 1; t < len(flows); t++ {
		deriv -= float64(t) * flows[t] / math.Pow(1.0+rate, float64(t+1))
	}
	return deriv
}

// IRR solves for the periodic rate at which the series' NPV is zero. The
// signed series begins with the negative capital outlay at period 0.
// Strategy: damped Newton-Raphson seeded at the standard initial guess;
// when it diverges, stalls on a flat derivative, or leaves the solvable
// domain, fall back to bisection over a wide bracket. Returns
// ErrIRRNotFound when neither strategy converges.
func IRR(flows []float64) (float64, error) {
	if len(flows) < 2 {
		return 0, fmt.Errorf("irr requires at least 2 cash flows, got %d", len(flows))
	}
	hasNegative, hasPositive := false, false
	for _, flow := range flows {
		if flow < 0 {
			hasNegative = true
		}
		if flow > 0 {
			hasPositive = true
		}
	}
	if !hasNegative || !hasPositive {
		// NPV is monotone in sign; no root exists.
		return 0, ErrIRRNotFound
	}

	if rate, ok := newtonIRR(flows); ok {
		return rate, nil
	}
	if rate, ok := bisectIRR(flows); ok {
		return rate, nil
	}
	return 0, ErrIRRNotFound
}

func newtonIRR(flows []float64) (float64, bool) {
	rate := constants.IRRInitialGuess

	for i := 0; i < constants.MaxNewtonIterations; i++ {
		npv := NPV(rate, flows)
		if math.Abs(npv) <= constants.IRRConvergenceTol*scaleOf(flows) {
			return rate, true
		}

		deriv := npvDerivative(rate, flows)
		if math.Abs(deriv) < constants.DerivativeThreshold {
			return 0, false
		}

		delta := npv / deriv
		// Clamp the step to a multiple of the current guess to prevent
		// overshooting into the unsolvable domain.
		maxStep := constants.NewtonDampingFactor * math.Max(math.Abs(rate), 0.1)
		if math.Abs(delta) > maxStep {
			delta = math.Copysign(maxStep, delta)
		}

		rate -= delta
		if rate <= constants.MinDiscountRate || rate > constants.MaxBracketRate || math.IsNaN(rate) {
			return 0, false
		}
	}

	return 0, false
}

func bisectIRR(flows []float64) (float64, bool) {
	lo, hi := constants.MinDiscountRate, constants.MaxBracketRate
	npvLo, npvHi := NPV(lo, flows), NPV(hi, flows)
	if npvLo*npvHi > 0 {
		// No sign change over the bracket; no root to bisect toward.
		return 0, false
	}

	for i := 0; i < constants.MaxBisectionIterations; i++ {
		mid := (lo + hi) / 2
		npvMid := NPV(mid, flows)
		if math.Abs(npvMid) <= constants.IRRConvergenceTol*scaleOf(flows) || hi-lo < constants.IRRConvergenceTol {
			return mid, true
		}
		if npvLo*npvMid < 0 {
			hi = mid
		} else {
			lo = mid
			npvLo = npvMid
		}
	}

	return (lo + hi) / 2, true
}

// scaleOf sizes the convergence tolerance to the magnitude of the series so
// million-dollar deals and hundred-dollar tests converge alike.
func scaleOf(flows []float64) float64 {
	scale := 1.0
	for _, flow := range flows {
		if math.Abs(flow) > scale {
			scale = math.Abs(flow)
		}
	}
	return scale
}

// EquityMultiple is total distributions over total capital contributed,
// computed from the unsigned series (never derived from IRR). Negative
// entries are contributions; positive entries are distributions.
func EquityMultiple(flows []float64) (float64, error) {
	contributed, distributed := 0.0, 0.0
	for _, flow := range flows {
		if flow < 0 {
			contributed += -flow
		} else {
			distributed += flow
		}
	}
	if contributed == 0 {
		return 0, fmt.Errorf("equity multiple requires at least one capital contribution")
	}
	return distributed / contributed, nil
}

// CashOnCash is annual pre-tax cash flow over total cash invested.
func CashOnCash(annualPreTaxCashFlow, totalCashInvested float64) float64 {
	if totalCashInvested == 0 {
		return 0
	}
	return annualPreTaxCashFlow / totalCashInvested
}

// DSCR is annual NOI over annual debt service; ok is false when there is no
// debt service to cover.
func DSCR(annualNOI, annualDebtService float64) (float64, bool) {
	if annualDebtService <= 0 {
		return 0, false
	}
	return annualNOI / annualDebtService, true
}

// AnnualizeIRR converts a periodic IRR to an effective annual rate.
func AnnualizeIRR(periodicRate float64, periodsPerYear int) float64 {
	if periodsPerYear <= 1 {
		return periodicRate
	}
	return math.Pow(1.0+periodicRate, float64(periodsPerYear)) - 1.0
}
