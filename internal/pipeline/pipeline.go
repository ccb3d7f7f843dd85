package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/warming-count-figures/internal/domain"
	"github.com/couchcryptid/warming-count-figures/internal/observability"
)

// Extractor reads the input tables.
type Extractor interface {
	ReadCounts(ctx context.Context) (full, special domain.Series, err error)
	ReadProbability(ctx context.Context, s domain.Scenario) (domain.Series, error)
}

// Transformer turns the tables of one scenario into comparison tables.
type Transformer interface {
	Transform(ctx context.Context, s domain.Scenario, probability, full, special domain.Series) (domain.Prepared, error)
}

// Loader writes the comparison tables of one scenario somewhere.
type Loader interface {
	Load(ctx context.Context, p domain.Prepared) error
}

// Loaders fans one scenario out to several sinks, in order.
type Loaders []Loader

func (ls Loaders) Load(ctx context.Context, p domain.Prepared) error {
	for _, l := range ls {
		if err := l.Load(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Pipeline runs the extract-transform-load cycle once per scenario.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	workers     int
}

// New creates a Pipeline. workers bounds the number of scenarios in flight;
// values below 1 are treated as 1.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, workers int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clock,
		workers:     max(workers, 1),
	}
}

// Run processes every scenario and stops at the first failure.
// With one worker scenarios are handled strictly in the given order.
func (p *Pipeline) Run(ctx context.Context, scenarios []domain.Scenario) error {
	p.logger.Info("pipeline started", "scenarios", len(scenarios), "workers", p.workers)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	full, special, err := p.extractor.ReadCounts(ctx)
	if err != nil {
		return fmt.Errorf("read counts: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, s := range scenarios {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return p.processScenario(gctx, s, full, special)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		p.logger.Info("pipeline stopping", "reason", err)
		return err
	}

	p.metrics.LastSuccess.Set(float64(p.clock.Now().Unix()))
	p.logger.Info("pipeline finished", "scenarios", len(scenarios))
	return nil
}

func (p *Pipeline) processScenario(ctx context.Context, s domain.Scenario, full, special domain.Series) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := p.clock.Now()

	prepared, err := p.runScenario(ctx, s, full, special)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.metrics.ScenarioErrors.Inc()
			p.logger.Error("scenario failed", "scenario", s, "error", err)
		}
		return fmt.Errorf("scenario %s: %w", s, err)
	}

	if prepared.Dropped > 0 {
		p.metrics.DroppedBins.Add(float64(prepared.Dropped))
		p.logger.Warn("bins dropped by merge", "scenario", s, "dropped_bins", prepared.Dropped)
	}
	p.metrics.ScenariosProcessed.Inc()
	p.metrics.ScenarioDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Debug("scenario processed", "scenario", s, "bins", prepared.Full.Len())
	return nil
}

func (p *Pipeline) runScenario(ctx context.Context, s domain.Scenario, full, special domain.Series) (domain.Prepared, error) {
	probability, err := p.extractor.ReadProbability(ctx, s)
	if err != nil {
		return domain.Prepared{}, fmt.Errorf("read probability: %w", err)
	}
	prepared, err := p.transformer.Transform(ctx, s, probability, full, special)
	if err != nil {
		return domain.Prepared{}, fmt.Errorf("transform: %w", err)
	}
	if err := p.loader.Load(ctx, prepared); err != nil {
		return domain.Prepared{}, fmt.Errorf("load: %w", err)
	}
	return prepared, nil
}
