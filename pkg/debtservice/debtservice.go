// Package debtservice computes periodic interest/principal splits for
// amortizing and interest-only loans, including the bridge-loan payoff used
// by the BRRRR refinance event.
package debtservice

import (
	"fmt"
	"math"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/mathutil"
	"go.uber.org/zap"
)

// LoanState describes a loan at origination. Rates are annual fractions.
type LoanState struct {
	PrincipalBalance   float64
	InterestRate       float64
	AmortizationMonths int
	IsInterestOnly     bool

	// DeferInterest applies to interest-only loans that accrue interest onto
	// the payoff instead of servicing it monthly (common for bridge debt).
	DeferInterest bool
}

// Payment holds the values for a given monthly payment.
type Payment struct {
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	RemainingBalance float64 `json:"remainingBalance"`
	AccruedInterest  float64 `json:"accruedInterest,omitempty"`
}

// MonthlyPayment calculates the fixed monthly payment for an amortizing loan
// using the standard amortization formula.
func MonthlyPayment(principal, annualRate float64, amortizationMonths int) float64 {
	if amortizationMonths <= 0 {
		return 0
	}
	if annualRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(amortizationMonths)
	}

	periodicRate := annualRate / constants.MonthsPerYear
	power := math.Pow(1.0+periodicRate, float64(amortizationMonths))
	discountFactor := (power - 1.0) / power
	return principal * periodicRate / discountFactor
}

// MonthlyInterest calculates the interest portion of one monthly payment.
func MonthlyInterest(remainingBalance, annualRate float64) float64 {
	return remainingBalance * annualRate / constants.MonthsPerYear
}

// Generator produces loan payment schedules.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a generator; a nil logger is replaced with a no-op.
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger}
}

// Schedule generates a monthly payment schedule of the requested length.
// Amortizing balances trend to zero by term end and never go negative; once
// a loan is retired the remaining months carry zero payments. Interest-only
// balances stay constant until a bullet payoff outside this schedule.
func (g *Generator) Schedule(loan LoanState, months int) ([]Payment, error) {
	if months <= 0 {
		return nil, fmt.Errorf("schedule requires at least 1 month, got %d", months)
	}
	if loan.PrincipalBalance < 0 {
		return nil, fmt.Errorf("principal balance cannot be negative, got %.2f", loan.PrincipalBalance)
	}

	schedule := make([]Payment, months)

	if loan.IsInterestOnly {
		accrued := 0.0
		for i := range schedule {
			interest := MonthlyInterest(loan.PrincipalBalance, loan.InterestRate)
			if loan.DeferInterest {
				accrued += interest
				schedule[i] = Payment{
					RemainingBalance: loan.PrincipalBalance,
					AccruedInterest:  accrued,
				}
			} else {
				schedule[i] = Payment{
					Payment:          interest,
					Interest:         interest,
					RemainingBalance: loan.PrincipalBalance,
				}
			}
		}
		return schedule, nil
	}

	monthlyPayment := MonthlyPayment(loan.PrincipalBalance, loan.InterestRate, loan.AmortizationMonths)
	balance := loan.PrincipalBalance

	for i := range schedule {
		if mathutil.Round(balance) == 0 {
			schedule[i] = Payment{}
			continue
		}

		interest := MonthlyInterest(balance, loan.InterestRate)
		principal := monthlyPayment - interest
		payment := monthlyPayment

		if principal >= balance || i == loan.AmortizationMonths-1 {
			// Final payment retires the exact balance; machine error would
			// otherwise leave a residual.
			principal = balance
			payment = principal + interest
			balance = 0
		} else {
			balance -= principal
		}

		schedule[i] = Payment{
			Payment:          payment,
			Interest:         interest,
			Principal:        principal,
			RemainingBalance: balance,
		}
	}

	g.logger.Debug("generated loan schedule",
		zap.String("op", "debtservice.Schedule"),
		zap.Int("months", months),
		zap.Float64("monthlyPayment", monthlyPayment),
		zap.Float64("endingBalance", schedule[months-1].RemainingBalance),
	)

	return schedule, nil
}

// Payoff is the lump sum required to retire a loan at a point in time.
type Payoff struct {
	Balance         float64 `json:"balance"`
	AccruedInterest float64 `json:"accruedInterest"`
	Total           float64 `json:"total"`
}

// PayoffAfter returns the payoff owed after the given number of monthly
// payments have been made against the schedule. For deferred-interest loans
// the payoff includes unpaid accrued interest.
func PayoffAfter(schedule []Payment, monthsPaid int) (Payoff, error) {
	if monthsPaid < 1 || monthsPaid > len(schedule) {
		return Payoff{}, fmt.Errorf("months paid %d out of range [1, %d]", monthsPaid, len(schedule))
	}
	last := schedule[monthsPaid-1]
	return Payoff{
		Balance:         last.RemainingBalance,
		AccruedInterest: last.AccruedInterest,
		Total:           last.RemainingBalance + last.AccruedInterest,
	}, nil
}

// Aggregate groups a monthly schedule into coarser periods (periodsPerYear
// of 12 returns the input unchanged). Payment components sum within each
// group; the remaining balance is the group's closing balance.
func Aggregate(schedule []Payment, periodsPerYear int) []Payment {
	if periodsPerYear >= constants.MonthsPerYear {
		out := make([]Payment, len(schedule))
		copy(out, schedule)
		return out
	}

	monthsPerPeriod := constants.MonthsPerYear / periodsPerYear
	periods := (len(schedule) + monthsPerPeriod - 1) / monthsPerPeriod
	out := make([]Payment, periods)

	for i, payment := range schedule {
		p := i / monthsPerPeriod
		out[p].Payment += payment.Payment
		out[p].Interest += payment.Interest
		out[p].Principal += payment.Principal
		out[p].RemainingBalance = payment.RemainingBalance
		out[p].AccruedInterest = payment.AccruedInterest
	}

	return out
}

// PaymentAmounts extracts the cash payment of every period in order.
func PaymentAmounts(schedule []Payment) []float64 {
	amounts := make([]float64, len(schedule))
	for i, payment := range schedule {
		amounts[i] = payment.Payment
	}
	return amounts
}
