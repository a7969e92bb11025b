package presets

import (
	"testing"

	"github.com/iwvelando/deal-underwriter/pkg/validate"
)

func TestAllPresetsValidate(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			uw, err := Underwriting(name)
			if err != nil {
				t.Fatalf("Underwriting(%q) error: %v", name, err)
			}
			if result := validate.Underwriting(uw); !result.IsValid {
				t.Errorf("underwriting preset %q fails validation: %v", name, result.Errors)
			}

			br, err := BRRRR(name)
			if err != nil {
				t.Fatalf("BRRRR(%q) error: %v", name, err)
			}
			if result := validate.BRRRR(br); !result.IsValid {
				t.Errorf("brrrr preset %q fails validation: %v", name, result.Errors)
			}

			syn, err := Syndication(name)
			if err != nil {
				t.Fatalf("Syndication(%q) error: %v", name, err)
			}
			if result := validate.Syndication(syn); !result.IsValid {
				t.Errorf("syndication preset %q fails validation: %v", name, result.Errors)
			}
		})
	}
}

func TestUnknownPreset(t *testing.T) {
	if _, err := Underwriting("speculative"); err == nil {
		t.Errorf("expected an error for an unknown underwriting preset")
	}
	if _, err := BRRRR("speculative"); err == nil {
		t.Errorf("expected an error for an unknown brrrr preset")
	}
	if _, err := Syndication("speculative"); err == nil {
		t.Errorf("expected an error for an unknown syndication preset")
	}
}

func TestPresetVariantsDiffer(t *testing.T) {
	conservative, _ := Underwriting(Conservative)
	base, _ := Underwriting(Base)
	aggressive, _ := Underwriting(Aggressive)

	if conservative.Operations.VacancyRate <= base.Operations.VacancyRate {
		t.Errorf("conservative vacancy %v not above base %v",
			conservative.Operations.VacancyRate, base.Operations.VacancyRate)
	}
	if aggressive.Exit.ExitCapRate >= base.Exit.ExitCapRate {
		t.Errorf("aggressive exit cap %v not below base %v",
			aggressive.Exit.ExitCapRate, base.Exit.ExitCapRate)
	}
}
