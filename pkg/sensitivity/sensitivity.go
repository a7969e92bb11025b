// Package sensitivity re-runs the full underwriting pipeline under an
// ordered list of relative perturbations to a single scalar input and
// collects the resulting metrics. Rows are independent: one pathological
// input produces an error marker for its row without aborting the sweep.
package sensitivity

import (
	"fmt"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"github.com/iwvelando/deal-underwriter/pkg/returns"
	"go.uber.org/zap"
)

// Row is the outcome of one perturbed pipeline run. Err is a typed marker
// for rows whose metrics could not be computed; Metrics stays zero-valued in
// that case rather than carrying sentinel numbers.
type Row struct {
	Label      string                 `json:"label"`
	InputValue float64                `json:"inputValue"`
	Metrics    returns.Metrics        `json:"metrics"`
	Err        *deal.ComputationError `json:"error,omitempty"`
}

// Table is the full sweep result. It always includes the unperturbed base
// case and is recomputed on demand, never persisted independently.
type Table struct {
	Field string `json:"field"`
	Rows  []Row  `json:"rows"`
}

// RunFunc executes the pipeline for one perturbed value of the swept field.
type RunFunc func(value float64) (returns.Metrics, error)

// Sweep runs the pipeline once per perturbation. Perturbations are relative
// (-0.10 means the field at 90% of its base value); a missing base case is
// inserted in order.
func Sweep(logger *zap.Logger, field string, baseValue float64, perturbations []float64, run RunFunc) Table {
	if logger == nil {
		logger = zap.NewNop()
	}

	levels := withBaseCase(perturbations)
	table := Table{Field: field, Rows: make([]Row, 0, len(levels))}

	for _, level := range levels {
		value := baseValue * (1.0 + level)
		row := Row{Label: labelFor(level), InputValue: value}

		metrics, err := run(value)
		if err != nil {
			logger.Debug("sensitivity row failed",
				zap.String("op", "sensitivity.Sweep"),
				zap.String("field", field),
				zap.Float64("value", value),
				zap.Error(err),
			)
			row.Err = &deal.ComputationError{Metric: field, Reason: err.Error()}
		} else {
			row.Metrics = metrics
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}

// withBaseCase returns the perturbation levels with 0 inserted in order when
// absent.
func withBaseCase(perturbations []float64) []float64 {
	for _, p := range perturbations {
		if p == 0 {
			out := make([]float64, len(perturbations))
			copy(out, perturbations)
			return out
		}
	}

	out := make([]float64, 0, len(perturbations)+1)
	inserted := false
	for _, p := range perturbations {
		if !inserted && p > 0 {
			out = append(out, 0)
			inserted = true
		}
		out = append(out, p)
	}
	if !inserted {
		out = append(out, 0)
	}
	return out
}

func labelFor(level float64) string {
	if level == 0 {
		return "base"
	}
	return fmt.Sprintf("%+.1f%%", level*100)
}
