package deal

import "testing"

func TestFrequencyPeriodsPerYear(t *testing.T) {
	tests := []struct {
		name     string
		freq     Frequency
		expected int
	}{
		{"Monthly", Monthly, 12},
		{"Annual", Annual, 1},
		{"Unset defaults to monthly", Frequency(""), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.freq.PeriodsPerYear(); result != tt.expected {
				t.Errorf("PeriodsPerYear() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestAmountOf(t *testing.T) {
	tests := []struct {
		name     string
		amount   Amount
		base     float64
		expected float64
	}{
		{"Fixed amount ignores base", Amount{Value: 150, AsFraction: false}, 10000, 150},
		{"Fraction resolves against base", Amount{Value: 0.08, AsFraction: true}, 2500, 200},
		{"Zero fraction", Amount{Value: 0, AsFraction: true}, 2500, 0},
		{"Fixed amount larger than base", Amount{Value: 5000, AsFraction: false}, 100, 5000},
		{"Small fixed value stays fixed", Amount{Value: 0.5, AsFraction: false}, 100000, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.amount.Of(tt.base); result != tt.expected {
				t.Errorf("Of(%v) = %v, expected %v", tt.base, result, tt.expected)
			}
		})
	}
}

func TestWithSectionsDoNotMutateOriginal(t *testing.T) {
	original := UnderwritingInputs{
		Acquisition: Acquisition{PurchasePrice: 250000},
		Operations:  Operations{GrossRentMonthly: 2400},
	}

	a := original.Acquisition
	a.PurchasePrice = 275000
	modified := original.WithAcquisition(a)

	if original.Acquisition.PurchasePrice != 250000 {
		t.Errorf("original purchase price changed to %v", original.Acquisition.PurchasePrice)
	}
	if modified.Acquisition.PurchasePrice != 275000 {
		t.Errorf("modified purchase price = %v, expected 275000", modified.Acquisition.PurchasePrice)
	}
	if modified.Operations.GrossRentMonthly != 2400 {
		t.Errorf("unrelated section changed, gross rent = %v", modified.Operations.GrossRentMonthly)
	}
}

func TestValidationResultAddError(t *testing.T) {
	result := ValidationResult{IsValid: true}
	result.AddWarning("operations.vacancyRate", "vacancy rate %.1f%% is above the typical range", 30.0)

	if !result.IsValid {
		t.Errorf("warning alone marked the result invalid")
	}

	result.AddError("acquisition.purchasePrice", "purchase price must be positive, got %.2f", -1.0)
	if result.IsValid {
		t.Errorf("error did not mark the result invalid")
	}
	if len(result.Errors) != 1 || len(result.Warnings) != 1 {
		t.Errorf("expected 1 error and 1 warning, got %d and %d", len(result.Errors), len(result.Warnings))
	}
	if result.Errors[0].Field != "acquisition.purchasePrice" {
		t.Errorf("error field = %q", result.Errors[0].Field)
	}
}
