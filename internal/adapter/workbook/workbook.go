// Package workbook exports the comparison tables of every scenario to one
// spreadsheet, one sheet per scenario.
package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/warming-count-figures/internal/domain"
)

// Writer collects prepared scenarios and saves them on Close.
// It implements pipeline.Loader and is safe for concurrent use.
type Writer struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	prepared map[domain.Scenario]domain.Prepared
}

// NewWriter creates a Writer saving to path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{
		path:     path,
		logger:   logger,
		prepared: make(map[domain.Scenario]domain.Prepared),
	}
}

// Load records the tables of one scenario.
func (w *Writer) Load(_ context.Context, p domain.Prepared) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prepared[p.Scenario] = p
	return nil
}

// Close writes the workbook. Sheets are ordered by scenario.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.prepared) == 0 {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	scenarios := make([]domain.Scenario, 0, len(w.prepared))
	for s := range w.prepared {
		scenarios = append(scenarios, s)
	}
	slices.Sort(scenarios)

	for _, s := range scenarios {
		if err := writeSheet(f, s.String(), w.prepared[s]); err != nil {
			return fmt.Errorf("sheet %s: %w", s, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create tables dir: %w", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	w.logger.Info("tables written", "path", w.path, "sheets", len(scenarios))
	return nil
}

// writeSheet lays the tables out top to bottom, each under a title row and a
// header row, separated by an empty row.
func writeSheet(f *excelize.File, name string, p domain.Prepared) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	blocks := []struct {
		title string
		data  domain.Comparison
	}{
		{"Full", p.Full},
		{"Excluding special report", p.Excluding},
	}
	for _, tail := range p.Tails {
		blocks = append(blocks, struct {
			title string
			data  domain.Comparison
		}{tail.Rule.Label(), tail.Comparison})
	}

	row := 1
	for _, b := range blocks {
		if err := setRow(f, name, row, b.title); err != nil {
			return err
		}
		if err := setRow(f, name, row+1, "Bin", domain.OccurrenceColumn, domain.ProbabilityColumn); err != nil {
			return err
		}
		row += 2
		for i, bin := range b.data.Bins {
			if err := setRow(f, name, row, bin, b.data.Occurrence[i], b.data.Probability[i]); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
