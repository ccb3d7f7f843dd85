// Command figures renders one warming-count comparison figure per CO2
// concentration scenario from the tables in the Results directory.
//
// Every setting comes from the environment; see internal/config.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/warming-count-figures/internal/adapter/csvtable"
	"github.com/couchcryptid/warming-count-figures/internal/adapter/figure"
	"github.com/couchcryptid/warming-count-figures/internal/adapter/workbook"
	"github.com/couchcryptid/warming-count-figures/internal/config"
	"github.com/couchcryptid/warming-count-figures/internal/observability"
	"github.com/couchcryptid/warming-count-figures/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("pipeline error", "error", err)
		writeMetrics(cfg, logger)
		os.Exit(1)
	}
	writeMetrics(cfg, logger)
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	scenarios, err := cfg.Scenarios()
	if err != nil {
		return err
	}

	reader := csvtable.NewReader(cfg, logger)
	transformer := pipeline.NewTransformer(cfg.Tails)
	loaders := pipeline.Loaders{
		figure.NewRenderer(cfg, figure.StyleFromConfig(cfg), logger, metrics),
	}

	var tables *workbook.Writer
	if cfg.TablesXLSX != "" {
		tables = workbook.NewWriter(cfg.TablesXLSX, logger)
		loaders = append(loaders, tables)
	}

	p := pipeline.New(reader, transformer, loaders, logger, metrics, clockwork.NewRealClock(), cfg.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx, scenarios); err != nil {
		return err
	}
	if tables != nil {
		return tables.Close()
	}
	return nil
}

func writeMetrics(cfg *config.Config, logger *slog.Logger) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("write metrics textfile", "error", err, "path", cfg.MetricsTextfile)
	}
}
