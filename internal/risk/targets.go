package risk

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"swingplanner/internal/domain"
	"swingplanner/internal/ports"
)

const (
	// MaxTargets is the most profit targets a plan can hold.
	MaxTargets = 4
	// MinTargets is the fewest profit targets a plan can hold.
	MinTargets = 1
)

// Target list errors. All of them wrap ports.ErrInvalidRequest.
var (
	ErrTooManyTargets = fmt.Errorf("%w: target limit reached", ports.ErrInvalidRequest)
	ErrLastTarget     = fmt.Errorf("%w: cannot remove the last target", ports.ErrInvalidRequest)
	ErrTargetNotFound = fmt.Errorf("%w: target not found", ports.ErrInvalidRequest)
)

// PlanTargets computes the realized profit and combined R-multiple of a set of
// profit targets. Each target sells floor(shares * pct/100) shares, capped at
// the shares earlier targets left unsold, so the total sold never exceeds the
// position even when the percentages sum above 100. An invalid result yields
// zeroed metrics.
func PlanTargets(targets []domain.TradeTarget, in domain.PositionSizeInputs, res domain.PositionSizeResult) domain.TargetPlanMetrics {
	if !res.IsValid {
		return domain.TargetPlanMetrics{Targets: []domain.TargetBreakdown{}}
	}

	metrics := domain.TargetPlanMetrics{
		Targets: make([]domain.TargetBreakdown, 0, len(targets)),
	}
	for _, t := range targets {
		sharesToSell := min(floorShares(float64(res.Shares)*(t.PercentageExit/100)), res.Shares-metrics.SharesSold)
		profitPerShare := t.Price - in.EntryPrice
		profit := float64(sharesToSell) * profitPerShare

		metrics.Targets = append(metrics.Targets, domain.TargetBreakdown{
			TargetID:       t.ID,
			Price:          t.Price,
			PercentageExit: t.PercentageExit,
			SharesToSell:   sharesToSell,
			ProfitPerShare: profitPerShare,
			Profit:         profit,
			RMultiple:      TargetRMultiple(t.Price, in),
		})
		metrics.TotalProfit += profit
		metrics.SharesSold += sharesToSell
		metrics.TotalExitPercentage += t.PercentageExit
	}

	metrics.UnallocatedShares = res.Shares - metrics.SharesSold
	metrics.RMultiple = ratio(metrics.TotalProfit, res.RiskAmount)
	return metrics
}

// TargetRMultiple expresses a target price as a multiple of the risk per
// share: (target - entry) / |entry - stop|. It returns 0 when entry == stop.
func TargetRMultiple(targetPrice float64, in domain.PositionSizeInputs) float64 {
	riskUnit := in.RiskDistance()
	if riskUnit == 0 {
		return 0
	}
	return (targetPrice - in.EntryPrice) / riskUnit
}

// TargetList is the user-managed list of profit targets. It keeps between
// MinTargets and its limit entries. The zero value is not usable; create one
// with NewTargetList or RestoreTargetList.
type TargetList struct {
	targets []domain.TradeTarget
	limit   int
}

// NewTargetList returns the default two targets, each exiting 50%, with
// unset (zero) prices waiting to be seeded. A limit outside 1..MaxTargets
// falls back to MaxTargets.
func NewTargetList(limit int) *TargetList {
	return &TargetList{
		targets: []domain.TradeTarget{
			{ID: uuid.NewString(), Price: 0, PercentageExit: 50},
			{ID: uuid.NewString(), Price: 0, PercentageExit: 50},
		},
		limit: normalizeLimit(limit),
	}
}

// RestoreTargetList rebuilds a list from saved targets. Missing IDs are
// assigned, numeric fields are sanitized and entries past the limit are dropped.
// An empty input falls back to the defaults.
func RestoreTargetList(saved []domain.TradeTarget, limit int) *TargetList {
	limit = normalizeLimit(limit)
	if len(saved) == 0 {
		return NewTargetList(limit)
	}
	if len(saved) > limit {
		saved = saved[:limit]
	}
	targets := make([]domain.TradeTarget, 0, len(saved))
	for _, t := range saved {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.Price = sanitize(t.Price)
		t.PercentageExit = sanitize(t.PercentageExit)
		targets = append(targets, t)
	}
	return &TargetList{targets: targets, limit: limit}
}

func normalizeLimit(limit int) int {
	if limit < MinTargets || limit > MaxTargets {
		return MaxTargets
	}
	return limit
}

// Targets returns a copy of the current targets.
func (l *TargetList) Targets() []domain.TradeTarget {
	out := make([]domain.TradeTarget, len(l.targets))
	copy(out, l.targets)
	return out
}

// Len returns the number of targets.
func (l *TargetList) Len() int { return len(l.targets) }

// Limit returns the maximum number of targets the list accepts.
func (l *TargetList) Limit() int { return l.limit }

// Add appends a target one full risk distance beyond the last target's price
// (or beyond the entry when the last price is unset), exiting 0%.
func (l *TargetList) Add(in domain.PositionSizeInputs) (domain.TradeTarget, error) {
	if len(l.targets) >= l.limit {
		return domain.TradeTarget{}, ErrTooManyTargets
	}
	lastPrice := in.EntryPrice
	if n := len(l.targets); n > 0 && l.targets[n-1].Price != 0 {
		lastPrice = l.targets[n-1].Price
	}
	t := domain.TradeTarget{
		ID:             uuid.NewString(),
		Price:          lastPrice + in.RiskDistance(),
		PercentageExit: 0,
	}
	l.targets = append(l.targets, t)
	return t, nil
}

// Remove deletes the target with the given ID. The last remaining target
// cannot be removed.
func (l *TargetList) Remove(id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrTargetNotFound)
	}
	if len(l.targets) <= MinTargets {
		return ErrLastTarget
	}
	l.targets = append(l.targets[:idx], l.targets[idx+1:]...)
	return nil
}

// SetPrice updates a target's exit price. No bounds are enforced; NaN and
// infinities are stored as 0.
func (l *TargetList) SetPrice(id string, price float64) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("set price %q: %w", id, ErrTargetNotFound)
	}
	l.targets[idx].Price = sanitize(price)
	return nil
}

// SetPercentage updates the percentage of the original position a target
// sells. No bounds are enforced; NaN and infinities are stored as 0.
func (l *TargetList) SetPercentage(id string, pct float64) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("set percentage %q: %w", id, ErrTargetNotFound)
	}
	l.targets[idx].PercentageExit = sanitize(pct)
	return nil
}

// IDAt returns the ID of the target at a zero-based position.
func (l *TargetList) IDAt(index int) (string, bool) {
	if index < 0 || index >= len(l.targets) {
		return "", false
	}
	return l.targets[index].ID, true
}

// Seed places every target still at price 0 at entry + risk*(index+2), i.e.
// 2R and 3R for the two default targets. Prices the user already set are
// never touched. It is a no-op until the position result is valid.
// Seed reports how many targets it priced.
func (l *TargetList) Seed(in domain.PositionSizeInputs, res domain.PositionSizeResult) int {
	if !res.IsValid || in.EntryPrice <= 0 {
		return 0
	}
	risk := in.RiskDistance()
	seeded := 0
	for i := range l.targets {
		if l.targets[i].Price == 0 {
			l.targets[i].Price = in.EntryPrice + risk*float64(i+2)
			seeded++
		}
	}
	return seeded
}

func (l *TargetList) indexOf(id string) int {
	for i, t := range l.targets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
