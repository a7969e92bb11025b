package debtservice

import (
	"math"
	"testing"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name               string
		principal          float64
		annualRate         float64
		amortizationMonths int
		expected           float64
		tolerance          float64
	}{
		{"Standard 30-year", 300000, 0.06, 360, 1798.65, 0.01},
		{"Standard 15-year", 200000, 0.05, 180, 1581.59, 0.01},
		{"Zero rate divides evenly", 120000, 0.0, 120, 1000.00, 0.001},
		{"Zero term", 100000, 0.06, 0, 0.0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MonthlyPayment(tt.principal, tt.annualRate, tt.amortizationMonths)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("MonthlyPayment(%v, %v, %d) = %v, expected %v",
					tt.principal, tt.annualRate, tt.amortizationMonths, result, tt.expected)
			}
		})
	}
}

func TestScheduleAmortizing(t *testing.T) {
	g := NewGenerator(nil)
	loan := LoanState{
		PrincipalBalance:   240000,
		InterestRate:       0.0725,
		AmortizationMonths: 360,
	}
	schedule, err := g.Schedule(loan, 360)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if len(schedule) != 360 {
		t.Fatalf("schedule length = %d, expected 360", len(schedule))
	}

	// First month interest is balance x rate/12.
	wantInterest := 240000 * 0.0725 / 12
	if math.Abs(schedule[0].Interest-wantInterest) > 0.01 {
		t.Errorf("first month interest = %v, expected %v", schedule[0].Interest, wantInterest)
	}

	// Payment = interest + principal each month; balance strictly decreases.
	balance := 240000.0
	for i, payment := range schedule {
		if math.Abs(payment.Payment-(payment.Interest+payment.Principal)) > 0.01 {
			t.Fatalf("month %d: payment %v does not equal interest %v + principal %v",
				i+1, payment.Payment, payment.Interest, payment.Principal)
		}
		if payment.RemainingBalance >= balance {
			t.Fatalf("month %d: balance %v did not decrease from %v", i+1, payment.RemainingBalance, balance)
		}
		balance = payment.RemainingBalance
	}

	// The final payment retires the balance exactly.
	if schedule[359].RemainingBalance != 0 {
		t.Errorf("ending balance = %v, expected exactly 0", schedule[359].RemainingBalance)
	}
}

func TestScheduleRetiredLoanHasZeroPayments(t *testing.T) {
	g := NewGenerator(nil)
	loan := LoanState{
		PrincipalBalance:   50000,
		InterestRate:       0.05,
		AmortizationMonths: 24,
	}
	schedule, err := g.Schedule(loan, 36)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if schedule[23].RemainingBalance != 0 {
		t.Fatalf("balance after amortization term = %v, expected 0", schedule[23].RemainingBalance)
	}
	for i := 24; i < 36; i++ {
		if schedule[i].Payment != 0 || schedule[i].Interest != 0 {
			t.Errorf("month %d after retirement carries payment %v", i+1, schedule[i].Payment)
		}
	}
}

func TestScheduleInterestOnly(t *testing.T) {
	g := NewGenerator(nil)
	loan := LoanState{
		PrincipalBalance: 160000,
		InterestRate:     0.115,
		IsInterestOnly:   true,
	}
	schedule, err := g.Schedule(loan, 12)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}

	wantPayment := 160000 * 0.115 / 12
	for i, payment := range schedule {
		if math.Abs(payment.Payment-wantPayment) > 0.01 {
			t.Errorf("month %d payment = %v, expected %v", i+1, payment.Payment, wantPayment)
		}
		if payment.RemainingBalance != 160000 {
			t.Errorf("month %d balance = %v, expected constant 160000", i+1, payment.RemainingBalance)
		}
		if payment.Principal != 0 {
			t.Errorf("month %d principal = %v, expected 0", i+1, payment.Principal)
		}
	}
}

func TestScheduleDeferredInterest(t *testing.T) {
	g := NewGenerator(nil)
	loan := LoanState{
		PrincipalBalance: 160000,
		InterestRate:     0.115,
		IsInterestOnly:   true,
		DeferInterest:    true,
	}
	schedule, err := g.Schedule(loan, 12)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}

	monthlyInterest := 160000 * 0.115 / 12
	for i, payment := range schedule {
		if payment.Payment != 0 {
			t.Errorf("month %d payment = %v, expected 0 while deferring", i+1, payment.Payment)
		}
		wantAccrued := monthlyInterest * float64(i+1)
		if math.Abs(payment.AccruedInterest-wantAccrued) > 0.01 {
			t.Errorf("month %d accrued = %v, expected %v", i+1, payment.AccruedInterest, wantAccrued)
		}
	}

	payoff, err := PayoffAfter(schedule, 12)
	if err != nil {
		t.Fatalf("PayoffAfter() error: %v", err)
	}
	wantTotal := 160000 + monthlyInterest*12
	if math.Abs(payoff.Total-wantTotal) > 0.01 {
		t.Errorf("deferred payoff = %v, expected %v", payoff.Total, wantTotal)
	}
}

func TestScheduleRejectsBadArguments(t *testing.T) {
	g := NewGenerator(nil)
	if _, err := g.Schedule(LoanState{PrincipalBalance: 1000}, 0); err == nil {
		t.Errorf("expected an error for zero months")
	}
	if _, err := g.Schedule(LoanState{PrincipalBalance: -1}, 12); err == nil {
		t.Errorf("expected an error for negative principal")
	}
}

func TestPayoffAfter(t *testing.T) {
	g := NewGenerator(nil)
	loan := LoanState{
		PrincipalBalance:   240000,
		InterestRate:       0.0725,
		AmortizationMonths: 360,
	}
	schedule, err := g.Schedule(loan, 60)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}

	payoff, err := PayoffAfter(schedule, 60)
	if err != nil {
		t.Fatalf("PayoffAfter() error: %v", err)
	}
	if payoff.Total != schedule[59].RemainingBalance {
		t.Errorf("payoff = %v, expected the month-60 balance %v", payoff.Total, schedule[59].RemainingBalance)
	}
	if payoff.Total <= 0 || payoff.Total >= 240000 {
		t.Errorf("payoff %v outside the expected open interval (0, 240000)", payoff.Total)
	}

	if _, err := PayoffAfter(schedule, 0); err == nil {
		t.Errorf("expected an error for zero months paid")
	}
	if _, err := PayoffAfter(schedule, 61); err == nil {
		t.Errorf("expected an error past the schedule end")
	}
}

func TestAggregate(t *testing.T) {
	g := NewGenerator(nil)
	loan := LoanState{
		PrincipalBalance:   240000,
		InterestRate:       0.0725,
		AmortizationMonths: 360,
	}
	monthly, err := g.Schedule(loan, 24)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}

	annual := Aggregate(monthly, 1)
	if len(annual) != 2 {
		t.Fatalf("annual aggregate length = %d, expected 2", len(annual))
	}

	var wantPayment, wantInterest float64
	for i := 0; i < 12; i++ {
		wantPayment += monthly[i].Payment
		wantInterest += monthly[i].Interest
	}
	if math.Abs(annual[0].Payment-wantPayment) > 0.01 {
		t.Errorf("year 1 payment = %v, expected %v", annual[0].Payment, wantPayment)
	}
	if math.Abs(annual[0].Interest-wantInterest) > 0.01 {
		t.Errorf("year 1 interest = %v, expected %v", annual[0].Interest, wantInterest)
	}
	if annual[0].RemainingBalance != monthly[11].RemainingBalance {
		t.Errorf("year 1 closing balance = %v, expected %v", annual[0].RemainingBalance, monthly[11].RemainingBalance)
	}
	if annual[1].RemainingBalance != monthly[23].RemainingBalance {
		t.Errorf("year 2 closing balance = %v, expected %v", annual[1].RemainingBalance, monthly[23].RemainingBalance)
	}

	// Monthly frequency passes through untouched.
	passthrough := Aggregate(monthly, 12)
	if len(passthrough) != len(monthly) {
		t.Fatalf("monthly aggregate length = %d, expected %d", len(passthrough), len(monthly))
	}
	for i := range monthly {
		if passthrough[i] != monthly[i] {
			t.Fatalf("month %d changed under monthly aggregation", i+1)
		}
	}
}

func TestPaymentAmounts(t *testing.T) {
	schedule := []Payment{{Payment: 100}, {Payment: 200}, {Payment: 0}}
	amounts := PaymentAmounts(schedule)
	want := []float64{100, 200, 0}
	for i := range want {
		if amounts[i] != want[i] {
			t.Errorf("amounts[%d] = %v, expected %v", i, amounts[i], want[i])
		}
	}
}
