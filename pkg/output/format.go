// Package output provides utilities for formatting and displaying analysis
// results.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/deal-underwriter/internal/engine"
	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"github.com/iwvelando/deal-underwriter/pkg/returns"
	"github.com/iwvelando/deal-underwriter/pkg/sensitivity"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyUnderwriting writes a human-readable summary of a buy-and-hold
// analysis.
func PrettyUnderwriting(w io.Writer, result *engine.UnderwritingResult) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Underwriting analysis ---\n")
	printValidation(w, result.Validation.Warnings)
	_, _ = p.Fprintf(w, "Loan amount          | $%.2f\n", result.LoanAmount)
	_, _ = p.Fprintf(w, "Total cash invested  | $%.2f\n", result.TotalCashInvested)
	_, _ = p.Fprintf(w, "Sale price           | $%.2f\n", result.Sale.SalePrice)
	_, _ = p.Fprintf(w, "Net sale proceeds    | $%.2f\n", result.Sale.NetProceeds)
	printMetrics(w, p, result.Metrics)
	printComputationErrors(w, result.ComputationErrors)
}

// PrettyBRRRR writes a human-readable summary of a BRRRR analysis.
func PrettyBRRRR(w io.Writer, result *engine.BRRRRResult) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- BRRRR analysis ---\n")
	printValidation(w, result.Validation.Warnings)
	_, _ = p.Fprintf(w, "Bridge loan          | $%.2f\n", result.BridgeLoanAmount)
	_, _ = p.Fprintf(w, "Total cash invested  | $%.2f\n", result.TotalCashInvested)
	_, _ = p.Fprintf(w, "Bridge payoff        | $%.2f\n", result.BridgePayoff.Total)
	_, _ = p.Fprintf(w, "New loan amount      | $%.2f\n", result.Refinance.NewLoanAmount)
	_, _ = p.Fprintf(w, "Cash out at refi     | $%.2f\n", result.Refinance.CashOut)
	_, _ = p.Fprintf(w, "Cash left in deal    | $%.2f\n", result.Refinance.RemainingCashInDeal)
	_, _ = p.Fprintf(w, "Net sale proceeds    | $%.2f\n", result.Sale.NetProceeds)
	printMetrics(w, p, result.Metrics)
	printComputationErrors(w, result.ComputationErrors)
}

// PrettySyndication writes a human-readable summary of a syndication
// analysis.
func PrettySyndication(w io.Writer, result *engine.SyndicationResult) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Syndication analysis ---\n")
	printValidation(w, result.Validation.Warnings)
	_, _ = p.Fprintf(w, "Equity raised        | $%.2f (LP $%.2f / GP $%.2f)\n",
		result.EquityRaised, result.LPCapital, result.GPCapital)
	_, _ = p.Fprintf(w, "Net sale proceeds    | $%.2f\n", result.Sale.NetProceeds)
	_, _ = p.Fprintf(w, "Promote dollars      | $%.2f\n", result.PromoteDollars)
	_, _ = p.Fprintf(w, "Unreturned capital   | LP $%.2f / GP $%.2f\n",
		result.UnreturnedCapital.LP, result.UnreturnedCapital.GP)
	_, _ = p.Fprintf(w, "Accrued unpaid pref  | LP $%.2f / GP $%.2f\n",
		result.AccruedPref.LP, result.AccruedPref.GP)
	fmt.Fprintf(w, "Project:\n")
	printMetrics(w, p, result.ProjectMetrics)
	fmt.Fprintf(w, "LP:\n")
	printMetrics(w, p, result.LPMetrics)
	fmt.Fprintf(w, "GP:\n")
	printMetrics(w, p, result.GPMetrics)
	printComputationErrors(w, result.ComputationErrors)
}

// PrettySensitivity writes a human-readable sensitivity table.
func PrettySensitivity(w io.Writer, table sensitivity.Table) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Sensitivity: %s ---\n", table.Field)
	fmt.Fprintf(w, "Level   | Value         | IRR      | Multiple | CoC      | Status\n")
	for _, row := range table.Rows {
		status := "ok"
		if row.Err != nil {
			status = row.Err.Reason
		} else if !row.Metrics.IRRFound {
			status = "irr not found"
		}
		_, _ = p.Fprintf(w, "%-7s | $%-12.2f | %7.2f%% | %7.2fx | %7.2f%% | %s\n",
			row.Label, row.InputValue,
			row.Metrics.IRR*100, row.Metrics.EquityMultiple, row.Metrics.CashOnCashYear1*100,
			status)
	}
}

// CsvSensitivity writes a sensitivity table in comma-separated value format.
func CsvSensitivity(w io.Writer, table sensitivity.Table) {
	fmt.Fprintf(w, "\"level\",\"value\",\"irr\",\"equityMultiple\",\"cashOnCashYear1\",\"error\"\n")
	for _, row := range table.Rows {
		errText := ""
		if row.Err != nil {
			errText = row.Err.Reason
		}
		fmt.Fprintf(w, "\"%s\",\"%.2f\",\"%.6f\",\"%.4f\",\"%.4f\",\"%s\"\n",
			row.Label, row.InputValue, row.Metrics.IRR, row.Metrics.EquityMultiple,
			row.Metrics.CashOnCashYear1, errText)
	}
}

// JSONResult writes any result object as indented JSON.
func JSONResult(w io.Writer, result interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printMetrics(w io.Writer, p *message.Printer, m returns.Metrics) {
	if m.IRRFound {
		_, _ = p.Fprintf(w, "  IRR                | %.2f%%\n", m.IRR*100)
	} else {
		fmt.Fprintf(w, "  IRR                | not found\n")
	}
	_, _ = p.Fprintf(w, "  Equity multiple    | %.2fx\n", m.EquityMultiple)
	_, _ = p.Fprintf(w, "  Cash-on-cash (Y1)  | %.2f%%\n", m.CashOnCashYear1*100)
	if m.HasDSCR {
		_, _ = p.Fprintf(w, "  DSCR (Y1)          | %.2f\n", m.DSCR)
	}
}

func printComputationErrors(w io.Writer, errs []deal.ComputationError) {
	for _, ce := range errs {
		fmt.Fprintf(w, "note: %s: %s\n", ce.Metric, ce.Reason)
	}
}

func printValidation(w io.Writer, warnings []deal.ValidationWarning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s: %s\n", warning.Field, warning.Message)
	}
}
