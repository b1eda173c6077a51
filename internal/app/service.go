package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"swingplanner/config"
	"swingplanner/internal/domain"
	"swingplanner/internal/ports"
	"swingplanner/internal/risk"
)

// PlannerService owns the caller's working snapshot (inputs, targets and the
// symbol it was planned for) and recomputes the full plan after every change.
type PlannerService struct {
	cfg      *config.Config
	logger   ports.Logger
	calc     *risk.Calculator
	repo     ports.WorksheetRepository // Optional; worksheet operations fail without it
	analyzer ports.TickerAnalyzer      // Optional; AnalyzeTicker fails without it

	// State fields
	mu      sync.Mutex // Protects access to state fields below
	inputs  domain.PositionSizeInputs
	targets *risk.TargetList
	symbol  string
	plan    domain.Plan
	seenKey seedKey // Validity, entry and stop at the last recompute
}

// seedKey is what target seeding reacts to. Target edits alone never change it.
type seedKey struct {
	valid       bool
	entry, stop float64
}

// NewPlannerService creates a new application service instance seeded with
// the configured account size and risk percentage.
func NewPlannerService(
	cfg *config.Config,
	logger ports.Logger,
	calc *risk.Calculator,
	repo ports.WorksheetRepository,
	analyzer ports.TickerAnalyzer,
) (*PlannerService, error) {

	// Validate dependencies
	if cfg == nil || logger == nil || calc == nil {
		return nil, fmt.Errorf("missing required dependencies for PlannerService: %w", ports.ErrConfigurationError)
	}

	s := &PlannerService{
		cfg:      cfg,
		logger:   logger,
		calc:     calc,
		repo:     repo,
		analyzer: analyzer,
		inputs: domain.PositionSizeInputs{
			AccountSize:    cfg.AccountSize,
			RiskPercentage: cfg.RiskPercentage,
		},
		targets: risk.NewTargetList(cfg.MaxTargets),
	}
	s.recompute(context.Background())
	return s, nil
}

// Plan returns the most recently computed plan.
func (s *PlannerService) Plan() domain.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

// Inputs returns the current input snapshot.
func (s *PlannerService) Inputs() domain.PositionSizeInputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

// Symbol returns the ticker the current snapshot is planned for, if any.
func (s *PlannerService) Symbol() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbol
}

// SetSymbol records the ticker for the snapshot. It does not affect the math.
func (s *PlannerService) SetSymbol(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbol = strings.ToUpper(strings.TrimSpace(symbol))
}

// TargetIDAt resolves a zero-based target position to its ID.
func (s *PlannerService) TargetIDAt(index int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targets.IDAt(index)
}

// SetInputs replaces the whole input snapshot.
func (s *PlannerService) SetInputs(ctx context.Context, in domain.PositionSizeInputs) domain.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = in.Sanitized()
	return s.recompute(ctx)
}

// UpdateInput changes one input field.
func (s *PlannerService) UpdateInput(ctx context.Context, field domain.InputField, value float64) (domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := s.inputs.Set(field, value)
	if !ok {
		return s.plan, fmt.Errorf("unknown input field %q: %w", field, ports.ErrInvalidRequest)
	}
	s.inputs = updated
	return s.recompute(ctx), nil
}

// AddTarget appends a target one risk distance beyond the last one.
func (s *PlannerService) AddTarget(ctx context.Context) (domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.targets.Add(s.inputs)
	if err != nil {
		s.logger.Warn(ctx, "Cannot add target", map[string]interface{}{"limit": s.targets.Limit()})
		return s.plan, err
	}
	s.logger.Debug(ctx, "Target added", map[string]interface{}{"id": t.ID, "price": t.Price})
	return s.recompute(ctx), nil
}

// RemoveTarget deletes a target by ID. The last target cannot be removed.
func (s *PlannerService) RemoveTarget(ctx context.Context, id string) (domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.targets.Remove(id); err != nil {
		s.logger.Warn(ctx, "Cannot remove target", map[string]interface{}{"id": id, "error": err.Error()})
		return s.plan, err
	}
	return s.recompute(ctx), nil
}

// SetTargetPrice changes a target's exit price.
func (s *PlannerService) SetTargetPrice(ctx context.Context, id string, price float64) (domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.targets.SetPrice(id, price); err != nil {
		return s.plan, err
	}
	return s.recompute(ctx), nil
}

// SetTargetPercentage changes the share of the original position a target sells.
func (s *PlannerService) SetTargetPercentage(ctx context.Context, id string, pct float64) (domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.targets.SetPercentage(id, pct); err != nil {
		return s.plan, err
	}
	return s.recompute(ctx), nil
}

// ReplaceTargets swaps the whole target list, e.g. from command-line input.
// Targets at price 0 are seeded like the defaults; an empty list restores the defaults.
func (s *PlannerService) ReplaceTargets(ctx context.Context, targets []domain.TradeTarget) domain.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = risk.RestoreTargetList(targets, s.cfg.MaxTargets)
	return s.recomputeAndSeed(ctx, true)
}

// recompute rebuilds the plan. Unset target prices are seeded only when the
// validity, entry or stop changed since the last recompute, so a price the
// user set to 0 stays 0. Caller must hold s.mu.
func (s *PlannerService) recompute(ctx context.Context) domain.Plan {
	return s.recomputeAndSeed(ctx, false)
}

// recomputeAndSeed is recompute that also seeds when force is set, for
// target lists that were replaced wholesale. Caller must hold s.mu.
func (s *PlannerService) recomputeAndSeed(ctx context.Context, force bool) domain.Plan {
	plan := s.calc.Plan(s.inputs, s.targets.Targets())
	key := seedKey{valid: plan.Result.IsValid, entry: s.inputs.EntryPrice, stop: s.inputs.StopLossPrice}
	if force || key != s.seenKey {
		if seeded := s.targets.Seed(s.inputs, plan.Result); seeded > 0 {
			s.logger.Debug(ctx, "Seeded target prices", map[string]interface{}{"count": seeded})
			plan = s.calc.Plan(s.inputs, s.targets.Targets())
		}
	}
	s.seenKey = key
	s.plan = plan
	return plan
}

// --- Worksheets ---

// SaveWorksheet stores the current snapshot under name, replacing any
// worksheet already saved with that name.
func (s *PlannerService) SaveWorksheet(ctx context.Context, name string) (*domain.Worksheet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("worksheet name is required: %w", ports.ErrInvalidRequest)
	}
	if s.repo == nil {
		return nil, fmt.Errorf("worksheet storage is not configured: %w", ports.ErrConfigurationError)
	}

	s.mu.Lock()
	ws := &domain.Worksheet{
		Name:    name,
		Symbol:  s.symbol,
		Inputs:  s.inputs,
		Targets: s.targets.Targets(),
	}
	s.mu.Unlock()

	if err := s.repo.Save(ctx, ws); err != nil {
		s.logger.Error(ctx, err, "Failed to save worksheet", map[string]interface{}{"name": name})
		return nil, fmt.Errorf("failed to save worksheet %q: %w", name, err)
	}
	s.logger.Info(ctx, "Worksheet saved", map[string]interface{}{"name": name, "id": ws.ID})
	return ws, nil
}

// LoadWorksheet replaces the current snapshot with a saved one and returns
// the recomputed plan.
func (s *PlannerService) LoadWorksheet(ctx context.Context, name string) (domain.Plan, error) {
	name = strings.TrimSpace(name)
	if s.repo == nil {
		return s.Plan(), fmt.Errorf("worksheet storage is not configured: %w", ports.ErrConfigurationError)
	}

	ws, err := s.repo.FindByName(ctx, name)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load worksheet", map[string]interface{}{"name": name})
		return s.Plan(), fmt.Errorf("failed to load worksheet %q: %w", name, err)
	}
	if ws == nil {
		return s.Plan(), fmt.Errorf("worksheet %q: %w", name, ports.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = ws.Inputs
	s.symbol = ws.Symbol
	s.targets = risk.RestoreTargetList(ws.Targets, s.cfg.MaxTargets)
	s.logger.Info(ctx, "Worksheet loaded", map[string]interface{}{"name": name, "targets": s.targets.Len()})
	return s.recomputeAndSeed(ctx, true), nil
}

// ListWorksheets returns every saved worksheet, most recently updated first.
func (s *PlannerService) ListWorksheets(ctx context.Context) ([]*domain.Worksheet, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("worksheet storage is not configured: %w", ports.ErrConfigurationError)
	}
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list worksheets: %w", err)
	}
	return list, nil
}

// DeleteWorksheet removes a saved worksheet. The current snapshot is unaffected.
func (s *PlannerService) DeleteWorksheet(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if s.repo == nil {
		return fmt.Errorf("worksheet storage is not configured: %w", ports.ErrConfigurationError)
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.Error(ctx, err, "Failed to delete worksheet", map[string]interface{}{"name": name})
		}
		return fmt.Errorf("failed to delete worksheet %q: %w", name, err)
	}
	s.logger.Info(ctx, "Worksheet deleted", map[string]interface{}{"name": name})
	return nil
}

// --- Ticker analysis ---

// AnalyzeTicker runs the ticker scout with the configured timeout. It never
// touches the plan.
func (s *PlannerService) AnalyzeTicker(ctx context.Context, ticker, timeframe string) (*domain.AnalysisResult, error) {
	if s.analyzer == nil {
		return nil, fmt.Errorf("ticker analysis is not configured: %w", ports.ErrAnalysisUnavailable)
	}

	if s.cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AnalysisTimeout)
		defer cancel()
	}

	result, err := s.analyzer.AnalyzeTicker(ctx, ticker, timeframe)
	if err != nil {
		s.logger.Error(ctx, err, "Ticker analysis failed", map[string]interface{}{"ticker": ticker})
		return nil, err
	}
	return result, nil
}
