// Package waterfall allocates distributable cash between LP and GP capital
// classes through ordered tiers: accrued preferred return, return of
// capital, and a promote split above the hurdle. Unreturned capital and
// accrued-but-unpaid preferred balances persist as running state across
// periods and never go negative; shortfalls carry forward.
package waterfall

import (
	"fmt"
	"math"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"go.uber.org/zap"
)

// TierKind identifies the role of a waterfall tier.
type TierKind string

const (
	// PreferredReturn pays down each class's accrued preferred balance.
	PreferredReturn TierKind = "preferredReturn"

	// ReturnOfCapital pays down each class's unreturned capital.
	ReturnOfCapital TierKind = "returnOfCapital"

	// PromoteSplit divides all residual cash per the declared carry shares.
	PromoteSplit TierKind = "promoteSplit"
)

// Tier is one ordered step of the waterfall. Shares within a tier must sum
// to 1.0; Rate applies to preferred-return tiers only (annual fraction).
type Tier struct {
	Kind    TierKind `json:"kind"`
	Rate    float64  `json:"rate,omitempty"`
	LPShare float64  `json:"lpShare"`
	GPShare float64  `json:"gpShare"`
}

// Config describes a full waterfall.
type Config struct {
	Tiers          []Tier `json:"tiers"`
	PeriodsPerYear int    `json:"periodsPerYear"`

	// CompoundPref accrues preferred return on the unpaid accrued balance in
	// addition to unreturned capital. When false the pref is simple: accrual
	// each period is rate/periodsPerYear x unreturnedCapital only.
	CompoundPref bool `json:"compoundPref"`
}

// StandardTiers builds the conventional three-tier stack: accrued pref,
// return of capital, then the promote split.
func StandardTiers(prefRate, lpShare, gpShare, promoteLP, promoteGP float64) []Tier {
	return []Tier{
		{Kind: PreferredReturn, Rate: prefRate, LPShare: lpShare, GPShare: gpShare},
		{Kind: ReturnOfCapital, LPShare: lpShare, GPShare: gpShare},
		{Kind: PromoteSplit, LPShare: promoteLP, GPShare: promoteGP},
	}
}

// Balances holds a per-class currency amount.
type Balances struct {
	LP float64 `json:"lp"`
	GP float64 `json:"gp"`
}

// Total sums both classes.
func (b Balances) Total() float64 {
	return b.LP + b.GP
}

// Distribution is the outcome of distributing one period's cash.
type Distribution struct {
	LP float64 `json:"lp"`
	GP float64 `json:"gp"`

	PrefPaid        Balances `json:"prefPaid"`
	CapitalReturned Balances `json:"capitalReturned"`
	Promote         Balances `json:"promote"`
}

// Distributor is the per-deal waterfall state machine.
type Distributor struct {
	cfg    Config
	logger *zap.Logger

	unreturnedCapital Balances
	accruedPref       Balances
	promoteDollars    float64
}

// New creates a distributor seeded with each class's contributed capital.
func New(cfg Config, logger *zap.Logger, lpCapital, gpCapital float64) (*Distributor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PeriodsPerYear <= 0 {
		return nil, fmt.Errorf("periods per year must be positive, got %d", cfg.PeriodsPerYear)
	}
	if len(cfg.Tiers) == 0 {
		return nil, fmt.Errorf("waterfall requires at least one tier")
	}
	for i, tier := range cfg.Tiers {
		if math.Abs(tier.LPShare+tier.GPShare-1.0) > constants.ShareSumTolerance {
			return nil, fmt.Errorf("tier %d shares must sum to 1.0, got %.4f", i, tier.LPShare+tier.GPShare)
		}
		if tier.Kind == PreferredReturn && tier.Rate < 0 {
			return nil, fmt.Errorf("tier %d preferred rate cannot be negative, got %.4f", i, tier.Rate)
		}
	}
	if cfg.Tiers[len(cfg.Tiers)-1].Kind != PromoteSplit {
		return nil, fmt.Errorf("final tier must be a promote split so residual cash has a home")
	}
	if lpCapital < 0 || gpCapital < 0 {
		return nil, fmt.Errorf("contributed capital cannot be negative (LP %.2f, GP %.2f)", lpCapital, gpCapital)
	}

	return &Distributor{
		cfg:               cfg,
		logger:            logger,
		unreturnedCapital: Balances{LP: lpCapital, GP: gpCapital},
	}, nil
}

// Accrue advances the preferred-return clock by one period.
func (d *Distributor) Accrue() {
	for _, tier := range d.cfg.Tiers {
		if tier.Kind != PreferredReturn || tier.Rate == 0 {
			continue
		}
		periodicRate := tier.Rate / float64(d.cfg.PeriodsPerYear)
		priorLP, priorGP := d.accruedPref.LP, d.accruedPref.GP
		d.accruedPref.LP += periodicRate * d.unreturnedCapital.LP
		d.accruedPref.GP += periodicRate * d.unreturnedCapital.GP
		if d.cfg.CompoundPref {
			// Unpaid pref itself accrues when compounding is configured.
			d.accruedPref.LP += periodicRate * priorLP
			d.accruedPref.GP += periodicRate * priorGP
		}
	}
}

// DistributePeriod accrues one period of preferred return and then
// distributes the period's cash. Operating periods call this once each.
func (d *Distributor) DistributePeriod(cash float64) Distribution {
	d.Accrue()
	return d.Distribute(cash)
}

// Distribute applies the tiers strictly in order to the given cash without
// advancing the accrual clock. Terminal sale proceeds run through here as a
// single large period. Non-positive cash produces an empty distribution.
func (d *Distributor) Distribute(cash float64) Distribution {
	var dist Distribution
	if cash <= 0 {
		return dist
	}

	remaining := cash
	for _, tier := range d.cfg.Tiers {
		if remaining <= 0 {
			break
		}
		switch tier.Kind {
		case PreferredReturn:
			paid := payAgainstBalances(&remaining, &d.accruedPref, tier.LPShare, tier.GPShare)
			dist.PrefPaid.LP += paid.LP
			dist.PrefPaid.GP += paid.GP
			dist.LP += paid.LP
			dist.GP += paid.GP
		case ReturnOfCapital:
			paid := payAgainstBalances(&remaining, &d.unreturnedCapital, tier.LPShare, tier.GPShare)
			dist.CapitalReturned.LP += paid.LP
			dist.CapitalReturned.GP += paid.GP
			dist.LP += paid.LP
			dist.GP += paid.GP
		case PromoteSplit:
			dist.Promote.LP = remaining * tier.LPShare
			dist.Promote.GP = remaining * tier.GPShare
			dist.LP += dist.Promote.LP
			dist.GP += dist.Promote.GP
			d.promoteDollars += dist.Promote.GP
			remaining = 0
		}
	}

	d.logger.Debug("distributed period cash",
		zap.String("op", "waterfall.Distribute"),
		zap.Float64("cash", cash),
		zap.Float64("lp", dist.LP),
		zap.Float64("gp", dist.GP),
		zap.Float64("unreturnedLP", d.unreturnedCapital.LP),
		zap.Float64("accruedPrefLP", d.accruedPref.LP),
	)

	return dist
}

// payAgainstBalances allocates cash to a pair of class balances by the tier
// shares, capped at each class's balance; cash a class cannot absorb flows
// to the other class's remaining balance. Balances clamp at zero.
func payAgainstBalances(cash *float64, balances *Balances, lpShare, gpShare float64) Balances {
	var paid Balances

	paid.LP = math.Min(*cash*lpShare, balances.LP)
	paid.GP = math.Min(*cash*gpShare, balances.GP)
	*cash -= paid.LP + paid.GP

	// Second pass: leftover cash from a capped class services the other
	// class's remaining balance.
	if *cash > 0 && balances.LP-paid.LP > 0 {
		extra := math.Min(*cash, balances.LP-paid.LP)
		paid.LP += extra
		*cash -= extra
	}
	if *cash > 0 && balances.GP-paid.GP > 0 {
		extra := math.Min(*cash, balances.GP-paid.GP)
		paid.GP += extra
		*cash -= extra
	}

	balances.LP -= paid.LP
	balances.GP -= paid.GP
	if balances.LP < 0 {
		balances.LP = 0
	}
	if balances.GP < 0 {
		balances.GP = 0
	}

	return paid
}

// UnreturnedCapital reports the running capital balances.
func (d *Distributor) UnreturnedCapital() Balances {
	return d.unreturnedCapital
}

// AccruedPref reports the running accrued-but-unpaid preferred balances.
func (d *Distributor) AccruedPref() Balances {
	return d.accruedPref
}

// PromoteDollars reports the cumulative GP carry paid through the promote
// tier across all distributions.
func (d *Distributor) PromoteDollars() float64 {
	return d.promoteDollars
}
