// Package csvtable reads the `;`-separated bin tables of the Results directory.
package csvtable

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/warming-count-figures/internal/config"
	"github.com/couchcryptid/warming-count-figures/internal/domain"
)

// ErrMalformed is returned for tables that cannot be read as bin tables.
var ErrMalformed = errors.New("malformed table")

// Reader loads count and probability tables from disk.
// It implements pipeline.Extractor.
type Reader struct {
	dir         string
	fullFile    string
	specialFile string
	probPattern string
	logger      *slog.Logger
}

// NewReader creates a Reader for the configured Results directory.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	return &Reader{
		dir:         cfg.ResultsDir,
		fullFile:    cfg.FullCountsFile,
		specialFile: cfg.SpecialReportFile,
		probPattern: cfg.ProbabilityFilePattern,
		logger:      logger,
	}
}

// ReadCounts reads the report-wide counts and the 1.5°C special report counts.
func (r *Reader) ReadCounts(ctx context.Context) (full, special domain.Series, err error) {
	full, err = r.readFile(ctx, r.fullFile)
	if err != nil {
		return domain.Series{}, domain.Series{}, err
	}
	special, err = r.readFile(ctx, r.specialFile)
	if err != nil {
		return domain.Series{}, domain.Series{}, err
	}
	return full, special, nil
}

// ReadProbability reads the warming probability table of one scenario.
func (r *Reader) ReadProbability(ctx context.Context, s domain.Scenario) (domain.Series, error) {
	return r.readFile(ctx, r.ProbabilityFile(s))
}

// ProbabilityFile returns the file name of a scenario's probability table.
func (r *Reader) ProbabilityFile(s domain.Scenario) string {
	return fmt.Sprintf(r.probPattern, int(s))
}

func (r *Reader) readFile(ctx context.Context, name string) (domain.Series, error) {
	if err := ctx.Err(); err != nil {
		return domain.Series{}, err
	}

	path := filepath.Join(r.dir, name)
	r.logger.Debug("reading table", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return domain.Series{}, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	s, err := ReadSeries(f)
	if err != nil {
		return domain.Series{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadSeries parses a table whose first row is a header, first column is the
// bin label and second column is the value. Further columns are ignored.
// Labels are normalized with domain.NormalizeBin.
func ReadSeries(in io.Reader) (domain.Series, error) {
	cr := csv.NewReader(in)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return domain.Series{}, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return domain.Series{}, fmt.Errorf("no data rows: %w", ErrMalformed)
	}

	header := rows[0]
	if len(header) < 2 {
		return domain.Series{}, fmt.Errorf("header has %d columns: %w", len(header), ErrMalformed)
	}

	s := domain.Series{
		Name:   strings.TrimSpace(header[1]),
		Bins:   make([]string, 0, len(rows)-1),
		Values: make([]float64, 0, len(rows)-1),
	}
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) < 2 {
			return domain.Series{}, fmt.Errorf("line %d has %d columns: %w", line, len(row), ErrMalformed)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return domain.Series{}, fmt.Errorf("line %d value %q: %w", line, row[1], ErrMalformed)
		}
		s.Bins = append(s.Bins, domain.NormalizeBin(row[0]))
		s.Values = append(s.Values, v)
	}
	return s, nil
}

// BinColumn heads the label column of tables written by WriteSeries.
const BinColumn = "Temperature bin"

// WriteSeries writes s in the format ReadSeries reads, with s.Name heading
// the value column.
func WriteSeries(out io.Writer, s domain.Series) error {
	cw := csv.NewWriter(out)
	cw.Comma = ';'

	if err := cw.Write([]string{BinColumn, s.Name}); err != nil {
		return err
	}
	for i, bin := range s.Bins {
		v := strconv.FormatFloat(s.Values[i], 'g', -1, 64)
		if err := cw.Write([]string{bin, v}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
