package engine

import (
	"fmt"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"github.com/iwvelando/deal-underwriter/pkg/returns"
	"github.com/iwvelando/deal-underwriter/pkg/sensitivity"
)

// Sensitivity field selectors. Each names a single scalar input that the
// sweep perturbs through an explicit per-section update, so the swept field
// set is statically known per calculator.
type UnderwritingField string

const (
	UnderwritingPurchasePrice UnderwritingField = "purchasePrice"
	UnderwritingInterestRate  UnderwritingField = "interestRate"
	UnderwritingGrossRent     UnderwritingField = "grossRent"
	UnderwritingVacancyRate   UnderwritingField = "vacancyRate"
	UnderwritingExitCapRate   UnderwritingField = "exitCapRate"
)

type BRRRRField string

const (
	BRRRRPurchasePrice BRRRRField = "purchasePrice"
	BRRRRARV           BRRRRField = "arv"
	BRRRRRefiLTV       BRRRRField = "refiLtv"
	BRRRRBridgeRate    BRRRRField = "bridgeRate"
	BRRRRGrossRent     BRRRRField = "grossRent"
	BRRRRRehabBudget   BRRRRField = "rehabBudget"
)

type SyndicationField string

const (
	SyndicationPurchasePrice   SyndicationField = "purchasePrice"
	SyndicationExitCapRate     SyndicationField = "exitCapRate"
	SyndicationPreferredReturn SyndicationField = "preferredReturn"
	SyndicationGrossRent       SyndicationField = "grossRent"
	SyndicationVacancyRate     SyndicationField = "vacancyRate"
)

// GenerateUnderwritingSensitivity sweeps one underwriting field across the
// given relative perturbations. Each row runs the full pipeline against an
// independent copy of the inputs.
func (e *Engine) GenerateUnderwritingSensitivity(in deal.UnderwritingInputs, field UnderwritingField, perturbations []float64) (sensitivity.Table, error) {
	base, err := underwritingFieldValue(in, field)
	if err != nil {
		return sensitivity.Table{}, err
	}

	return sensitivity.Sweep(e.logger, string(field), base, perturbations, func(value float64) (returns.Metrics, error) {
		perturbed := applyUnderwritingField(in, field, value)
		result, err := e.RunUnderwriting(perturbed)
		if err != nil {
			return returns.Metrics{}, err
		}
		if !result.Validation.IsValid {
			return returns.Metrics{}, fmt.Errorf("perturbed inputs invalid: %s", result.Validation.Errors[0].Message)
		}
		return result.Metrics, nil
	}), nil
}

// GenerateBRRRRSensitivity sweeps one BRRRR field.
func (e *Engine) GenerateBRRRRSensitivity(in deal.BRRRRInputs, field BRRRRField, perturbations []float64) (sensitivity.Table, error) {
	base, err := brrrrFieldValue(in, field)
	if err != nil {
		return sensitivity.Table{}, err
	}

	return sensitivity.Sweep(e.logger, string(field), base, perturbations, func(value float64) (returns.Metrics, error) {
		perturbed := applyBRRRRField(in, field, value)
		result, err := e.RunBRRRR(perturbed)
		if err != nil {
			return returns.Metrics{}, err
		}
		if !result.Validation.IsValid {
			return returns.Metrics{}, fmt.Errorf("perturbed inputs invalid: %s", result.Validation.Errors[0].Message)
		}
		return result.Metrics, nil
	}), nil
}

// GenerateSyndicationSensitivity sweeps one syndication field. Rows report
// the LP-class metrics, the headline figures for a syndicated raise.
func (e *Engine) GenerateSyndicationSensitivity(in deal.SyndicationInputs, field SyndicationField, perturbations []float64) (sensitivity.Table, error) {
	base, err := syndicationFieldValue(in, field)
	if err != nil {
		return sensitivity.Table{}, err
	}

	return sensitivity.Sweep(e.logger, string(field), base, perturbations, func(value float64) (returns.Metrics, error) {
		perturbed := applySyndicationField(in, field, value)
		result, err := e.RunSyndication(perturbed)
		if err != nil {
			return returns.Metrics{}, err
		}
		if !result.Validation.IsValid {
			return returns.Metrics{}, fmt.Errorf("perturbed inputs invalid: %s", result.Validation.Errors[0].Message)
		}
		return result.LPMetrics, nil
	}), nil
}

func underwritingFieldValue(in deal.UnderwritingInputs, field UnderwritingField) (float64, error) {
	switch field {
	case UnderwritingPurchasePrice:
		return in.Acquisition.PurchasePrice, nil
	case UnderwritingInterestRate:
		return in.Financing.InterestRate, nil
	case UnderwritingGrossRent:
		return in.Operations.GrossRentMonthly, nil
	case UnderwritingVacancyRate:
		return in.Operations.VacancyRate, nil
	case UnderwritingExitCapRate:
		return in.Exit.ExitCapRate, nil
	}
	return 0, fmt.Errorf("unknown underwriting sensitivity field %q", field)
}

func applyUnderwritingField(in deal.UnderwritingInputs, field UnderwritingField, value float64) deal.UnderwritingInputs {
	switch field {
	case UnderwritingPurchasePrice:
		a := in.Acquisition
		a.PurchasePrice = value
		return in.WithAcquisition(a)
	case UnderwritingInterestRate:
		f := in.Financing
		f.InterestRate = value
		return in.WithFinancing(f)
	case UnderwritingGrossRent:
		o := in.Operations
		o.GrossRentMonthly = value
		return in.WithOperations(o)
	case UnderwritingVacancyRate:
		o := in.Operations
		o.VacancyRate = value
		return in.WithOperations(o)
	case UnderwritingExitCapRate:
		e := in.Exit
		e.ExitCapRate = value
		return in.WithExit(e)
	}
	return in
}

func brrrrFieldValue(in deal.BRRRRInputs, field BRRRRField) (float64, error) {
	switch field {
	case BRRRRPurchasePrice:
		return in.Acquisition.PurchasePrice, nil
	case BRRRRARV:
		return in.Refinance.ARV, nil
	case BRRRRRefiLTV:
		return in.Refinance.LTV, nil
	case BRRRRBridgeRate:
		return in.Bridge.InterestRate, nil
	case BRRRRGrossRent:
		return in.Operations.GrossRentMonthly, nil
	case BRRRRRehabBudget:
		return in.Acquisition.RehabBudget, nil
	}
	return 0, fmt.Errorf("unknown brrrr sensitivity field %q", field)
}

func applyBRRRRField(in deal.BRRRRInputs, field BRRRRField, value float64) deal.BRRRRInputs {
	switch field {
	case BRRRRPurchasePrice:
		a := in.Acquisition
		a.PurchasePrice = value
		return in.WithAcquisition(a)
	case BRRRRARV:
		r := in.Refinance
		r.ARV = value
		return in.WithRefinance(r)
	case BRRRRRefiLTV:
		r := in.Refinance
		r.LTV = value
		return in.WithRefinance(r)
	case BRRRRBridgeRate:
		b := in.Bridge
		b.InterestRate = value
		return in.WithBridge(b)
	case BRRRRGrossRent:
		o := in.Operations
		o.GrossRentMonthly = value
		return in.WithOperations(o)
	case BRRRRRehabBudget:
		a := in.Acquisition
		a.RehabBudget = value
		return in.WithAcquisition(a)
	}
	return in
}

func syndicationFieldValue(in deal.SyndicationInputs, field SyndicationField) (float64, error) {
	switch field {
	case SyndicationPurchasePrice:
		return in.Acquisition.PurchasePrice, nil
	case SyndicationExitCapRate:
		return in.Exit.ExitCapRate, nil
	case SyndicationPreferredReturn:
		return in.Equity.PreferredReturn, nil
	case SyndicationGrossRent:
		return in.Operations.GrossRentMonthly, nil
	case SyndicationVacancyRate:
		return in.Operations.VacancyRate, nil
	}
	return 0, fmt.Errorf("unknown syndication sensitivity field %q", field)
}

func applySyndicationField(in deal.SyndicationInputs, field SyndicationField, value float64) deal.SyndicationInputs {
	switch field {
	case SyndicationPurchasePrice:
		a := in.Acquisition
		a.PurchasePrice = value
		return in.WithAcquisition(a)
	case SyndicationExitCapRate:
		e := in.Exit
		e.ExitCapRate = value
		return in.WithExit(e)
	case SyndicationPreferredReturn:
		eq := in.Equity
		eq.PreferredReturn = value
		return in.WithEquity(eq)
	case SyndicationGrossRent:
		o := in.Operations
		o.GrossRentMonthly = value
		return in.WithOperations(o)
	case SyndicationVacancyRate:
		o := in.Operations
		o.VacancyRate = value
		return in.WithOperations(o)
	}
	return in
}
