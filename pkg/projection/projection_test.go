package projection

import (
	"math"
	"testing"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
)

func baseAssumptions() Assumptions {
	return Assumptions{
		GrossIncome:         2400,
		OtherIncome:         50,
		VacancyRate:         0.05,
		OperatingExpenses:   700,
		RentGrowthAnnual:    0.03,
		ExpenseGrowthAnnual: 0.025,
		ManagementFee:       deal.Amount{Value: 0.08, AsFraction: true},
		Reserves:            deal.Amount{Value: 150, AsFraction: false},
	}
}

func TestProjectSeriesShape(t *testing.T) {
	p := NewProjector(nil)
	series, err := p.Project(baseAssumptions(), 60, 12)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	if len(series.Periods) != 60 {
		t.Fatalf("expected 60 periods, got %d", len(series.Periods))
	}
	if series.PeriodsPerYear != 12 {
		t.Errorf("PeriodsPerYear = %d, expected 12", series.PeriodsPerYear)
	}
	for i, period := range series.Periods {
		if period.PeriodIndex != i+1 {
			t.Fatalf("period %d has index %d, expected %d", i, period.PeriodIndex, i+1)
		}
	}
}

func TestProjectNOIIdentity(t *testing.T) {
	p := NewProjector(nil)
	series, err := p.Project(baseAssumptions(), 60, 12)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	for _, period := range series.Periods {
		noi := period.GrossIncome - period.VacancyLoss - period.OperatingExpenses
		if math.Abs(noi-period.NOI) > 1e-9 {
			t.Errorf("period %d: noi identity violated, %v vs %v", period.PeriodIndex, noi, period.NOI)
		}
		if math.Abs(period.PreTaxCashFlow-(period.NOI-period.DebtService)) > 1e-9 {
			t.Errorf("period %d: preTaxCashFlow identity violated", period.PeriodIndex)
		}
	}
}

func TestProjectGrowthCompounds(t *testing.T) {
	a := baseAssumptions()
	a.VacancyRate = 0
	a.OperatingExpenses = 0
	a.ManagementFee = deal.Amount{}
	a.Reserves = deal.Amount{}

	p := NewProjector(nil)
	series, err := p.Project(a, 24, 12)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	base := a.GrossIncome + a.OtherIncome
	expected12 := base * math.Pow(1.03, 1.0)
	if math.Abs(series.Periods[11].GrossIncome-expected12) > 0.01 {
		t.Errorf("period 12 gross income = %v, expected %v", series.Periods[11].GrossIncome, expected12)
	}
	expected24 := base * math.Pow(1.03, 2.0)
	if math.Abs(series.Periods[23].GrossIncome-expected24) > 0.01 {
		t.Errorf("period 24 gross income = %v, expected %v", series.Periods[23].GrossIncome, expected24)
	}
	if series.Periods[0].GrossIncome <= 0 || series.Periods[0].GrossIncome >= expected12 {
		t.Errorf("period 1 gross income %v not between 0 and the year-end value", series.Periods[0].GrossIncome)
	}
}

func TestProjectVacancyAppliesToAllIncome(t *testing.T) {
	a := Assumptions{
		GrossIncome: 2000,
		OtherIncome: 500,
		VacancyRate: 0.10,
	}
	p := NewProjector(nil)
	series, err := p.Project(a, 1, 12)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	if math.Abs(series.Periods[0].VacancyLoss-250) > 0.01 {
		t.Errorf("vacancy loss = %v, expected 250 (10%% of all income)", series.Periods[0].VacancyLoss)
	}
}

func TestProjectPercentageCostsUseEffectiveGross(t *testing.T) {
	a := Assumptions{
		GrossIncome:   1000,
		VacancyRate:   0.10,
		ManagementFee: deal.Amount{Value: 0.08, AsFraction: true},
	}
	p := NewProjector(nil)
	series, err := p.Project(a, 1, 12)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	// 8% of 900 effective gross, not of 1000 scheduled gross.
	if math.Abs(series.Periods[0].OperatingExpenses-72) > 0.01 {
		t.Errorf("management fee = %v, expected 72", series.Periods[0].OperatingExpenses)
	}
}

func TestProjectRejectsBadArguments(t *testing.T) {
	p := NewProjector(nil)
	if _, err := p.Project(baseAssumptions(), 0, 12); err == nil {
		t.Errorf("expected an error for zero periods")
	}
	if _, err := p.Project(baseAssumptions(), 12, 0); err == nil {
		t.Errorf("expected an error for zero periods per year")
	}
}

func TestApplyDebtService(t *testing.T) {
	p := NewProjector(nil)
	series, err := p.Project(baseAssumptions(), 3, 12)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	if err := series.ApplyDebtService([]float64{100, 100}); err == nil {
		t.Errorf("expected a length-mismatch error")
	}

	payments := []float64{100, 200, 300}
	if err := series.ApplyDebtService(payments); err != nil {
		t.Fatalf("ApplyDebtService() error: %v", err)
	}
	for i, period := range series.Periods {
		if period.DebtService != payments[i] {
			t.Errorf("period %d debt service = %v, expected %v", i+1, period.DebtService, payments[i])
		}
		if math.Abs(period.PreTaxCashFlow-(period.NOI-payments[i])) > 1e-9 {
			t.Errorf("period %d pre-tax cash flow not recomputed", i+1)
		}
	}
}

func TestAnnualizedNOI(t *testing.T) {
	p := NewProjector(nil)
	series, err := p.Project(baseAssumptions(), 60, 12)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	annualized, err := series.AnnualizedNOI(60)
	if err != nil {
		t.Fatalf("AnnualizedNOI() error: %v", err)
	}
	expected := series.Periods[59].NOI * 12
	if math.Abs(annualized-expected) > 1e-9 {
		t.Errorf("AnnualizedNOI(60) = %v, expected %v", annualized, expected)
	}

	if _, err := series.AnnualizedNOI(0); err == nil {
		t.Errorf("expected an error for period index 0")
	}
	if _, err := series.AnnualizedNOI(61); err == nil {
		t.Errorf("expected an error for out-of-range period index")
	}
}

func TestYearOneSums(t *testing.T) {
	p := NewProjector(nil)
	series, err := p.Project(baseAssumptions(), 60, 12)
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	payments := make([]float64, 60)
	for i := range payments {
		payments[i] = 1000
	}
	if err := series.ApplyDebtService(payments); err != nil {
		t.Fatalf("ApplyDebtService() error: %v", err)
	}

	var wantNOI float64
	for i := 0; i < 12; i++ {
		wantNOI += series.Periods[i].NOI
	}
	if math.Abs(series.YearOneNOI()-wantNOI) > 1e-9 {
		t.Errorf("YearOneNOI() = %v, expected %v", series.YearOneNOI(), wantNOI)
	}
	if math.Abs(series.YearOneDebtService()-12000) > 1e-9 {
		t.Errorf("YearOneDebtService() = %v, expected 12000", series.YearOneDebtService())
	}
	if math.Abs(series.YearOnePreTaxCashFlow()-(wantNOI-12000)) > 1e-9 {
		t.Errorf("YearOnePreTaxCashFlow() = %v, expected %v", series.YearOnePreTaxCashFlow(), wantNOI-12000)
	}
}
