// Package deal defines the typed input records consumed by the underwriting
// engine and the error taxonomy shared by every calculator. All rate-like
// fields are stored as fractions of one (0.075, not 7.5); conversion to and
// from display percentages belongs to callers.
package deal

// Frequency selects the projection granularity for a deal.
type Frequency string

const (
	// Monthly projects one cash-flow period per month.
	Monthly Frequency = "monthly"

	// Annual projects one cash-flow period per year.
	Annual Frequency = "annual"
)

// PeriodsPerYear returns the number of periods per year for the frequency,
// defaulting to monthly when unset.
func (f Frequency) PeriodsPerYear() int {
	if f == Annual {
		return 1
	}
	return 12
}

// Amount expresses a cost that is either a fixed currency amount or a
// fraction of some base (effective gross income, loan amount, sale price).
// The flag is authoritative; magnitude is never used to infer units.
type Amount struct {
	Value      float64 `json:"value" mapstructure:"value"`
	AsFraction bool    `json:"asFraction" mapstructure:"asFraction"`
}

// Of resolves the amount against the given base.
func (a Amount) Of(base float64) float64 {
	if a.AsFraction {
		return a.Value * base
	}
	return a.Value
}

// Acquisition holds purchase-side parameters.
type Acquisition struct {
	PurchasePrice float64 `json:"purchasePrice" mapstructure:"purchasePrice"`
	ClosingCosts  float64 `json:"closingCosts" mapstructure:"closingCosts"`
	RehabBudget   float64 `json:"rehabBudget" mapstructure:"rehabBudget"`
}

// Financing holds the terms of a single permanent loan.
type Financing struct {
	DownPaymentPct     float64 `json:"downPaymentPct" mapstructure:"downPaymentPct"`
	InterestRate       float64 `json:"interestRate" mapstructure:"interestRate"`
	AmortizationMonths int     `json:"amortizationMonths" mapstructure:"amortizationMonths"`
	InterestOnly       bool    `json:"interestOnly" mapstructure:"interestOnly"`
	PointsPct          float64 `json:"pointsPct" mapstructure:"pointsPct"`
}

// Operations holds the base-period operating pro forma. Income and expense
// figures are monthly amounts regardless of projection frequency.
type Operations struct {
	GrossRentMonthly         float64 `json:"grossRentMonthly" mapstructure:"grossRentMonthly"`
	OtherIncomeMonthly       float64 `json:"otherIncomeMonthly" mapstructure:"otherIncomeMonthly"`
	VacancyRate              float64 `json:"vacancyRate" mapstructure:"vacancyRate"`
	OperatingExpensesMonthly float64 `json:"operatingExpensesMonthly" mapstructure:"operatingExpensesMonthly"`
	RentGrowthAnnual         float64 `json:"rentGrowthAnnual" mapstructure:"rentGrowthAnnual"`
	ExpenseGrowthAnnual      float64 `json:"expenseGrowthAnnual" mapstructure:"expenseGrowthAnnual"`

	// ManagementFee and Reserves resolve against effective gross income for
	// the period when expressed as fractions.
	ManagementFee Amount `json:"managementFee" mapstructure:"managementFee"`
	Reserves      Amount `json:"reserves" mapstructure:"reserves"`
}

// Exit holds disposition assumptions.
type Exit struct {
	HoldYears       int     `json:"holdYears" mapstructure:"holdYears"`
	ExitCapRate     float64 `json:"exitCapRate" mapstructure:"exitCapRate"`
	SellingCostsPct float64 `json:"sellingCostsPct" mapstructure:"sellingCostsPct"`
}

// BridgeLoan holds the terms of a BRRRR acquisition loan serviced during the
// rehab/holding period and retired at the refinance event.
type BridgeLoan struct {
	DownPaymentPct float64 `json:"downPaymentPct" mapstructure:"downPaymentPct"`
	InterestRate   float64 `json:"interestRate" mapstructure:"interestRate"`
	TermMonths     int     `json:"termMonths" mapstructure:"termMonths"`
	PointsPct      float64 `json:"pointsPct" mapstructure:"pointsPct"`

	// DeferInterest accrues interest onto the payoff instead of servicing it
	// monthly; the payoff then includes the accrued balance.
	DeferInterest bool `json:"deferInterest" mapstructure:"deferInterest"`
}

// Refinance holds the permanent-loan terms for the BRRRR refinance event.
type Refinance struct {
	ARV                float64 `json:"arv" mapstructure:"arv"`
	LTV                float64 `json:"ltv" mapstructure:"ltv"`
	InterestRate       float64 `json:"interestRate" mapstructure:"interestRate"`
	AmortizationMonths int     `json:"amortizationMonths" mapstructure:"amortizationMonths"`

	// Month of the refinance event, counted from acquisition.
	RefinanceMonth int `json:"refinanceMonth" mapstructure:"refinanceMonth"`

	// ClosingCosts resolve against the new loan amount when fractional.
	ClosingCosts     Amount `json:"closingCosts" mapstructure:"closingCosts"`
	RollCostsIntoLoan bool  `json:"rollCostsIntoLoan" mapstructure:"rollCostsIntoLoan"`
}

// Equity holds the syndication capital structure and waterfall terms.
type Equity struct {
	LPSharePct float64 `json:"lpSharePct" mapstructure:"lpSharePct"`
	GPSharePct float64 `json:"gpSharePct" mapstructure:"gpSharePct"`

	// PreferredReturn is the annual pref accrual rate owed to both classes
	// on unreturned capital.
	PreferredReturn float64 `json:"preferredReturn" mapstructure:"preferredReturn"`

	// CompoundPref accrues pref on the unpaid accrued balance as well as on
	// unreturned capital.
	CompoundPref bool `json:"compoundPref" mapstructure:"compoundPref"`

	// Promote split applied to residual cash above pref and capital return.
	PromoteLPShare float64 `json:"promoteLpShare" mapstructure:"promoteLpShare"`
	PromoteGPShare float64 `json:"promoteGpShare" mapstructure:"promoteGpShare"`
}

// UnderwritingInputs describes a straight buy-and-hold rental deal.
type UnderwritingInputs struct {
	Frequency   Frequency   `json:"frequency" mapstructure:"frequency"`
	Acquisition Acquisition `json:"acquisition" mapstructure:"acquisition"`
	Financing   Financing   `json:"financing" mapstructure:"financing"`
	Operations  Operations  `json:"operations" mapstructure:"operations"`
	Exit        Exit        `json:"exit" mapstructure:"exit"`
}

// BRRRRInputs describes a buy-rehab-rent-refinance-repeat deal. BRRRR deals
// always project monthly; the refinance event lands on a specific month.
type BRRRRInputs struct {
	Acquisition Acquisition `json:"acquisition" mapstructure:"acquisition"`
	Bridge      BridgeLoan  `json:"bridge" mapstructure:"bridge"`
	Refinance   Refinance   `json:"refinance" mapstructure:"refinance"`
	Operations  Operations  `json:"operations" mapstructure:"operations"`
	Exit        Exit        `json:"exit" mapstructure:"exit"`
}

// SyndicationInputs describes an LP/GP syndicated deal with a tiered equity
// waterfall layered on top of the buy-and-hold structure.
type SyndicationInputs struct {
	Frequency   Frequency   `json:"frequency" mapstructure:"frequency"`
	Acquisition Acquisition `json:"acquisition" mapstructure:"acquisition"`
	Financing   Financing   `json:"financing" mapstructure:"financing"`
	Operations  Operations  `json:"operations" mapstructure:"operations"`
	Exit        Exit        `json:"exit" mapstructure:"exit"`
	Equity      Equity      `json:"equity" mapstructure:"equity"`
}
