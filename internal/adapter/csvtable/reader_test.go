package csvtable

import (
	"context"
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/warming-count-figures/internal/config"
	"github.com/couchcryptid/warming-count-figures/internal/domain"
)

const countsCSV = `;count
below 1°C;3
1 - 1.5°C;40
1.5-2°C;120
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadSeries(t *testing.T) {
	s, err := ReadSeries(strings.NewReader(countsCSV))
	require.NoError(t, err)

	assert.Equal(t, "count", s.Name)
	assert.Equal(t, []string{"below1°C", "1-1.5°C", "1.5-2°C"}, s.Bins)
	assert.Equal(t, []float64{3, 40, 120}, s.Values)
}

func TestReadSeries_ExtraColumnsIgnored(t *testing.T) {
	s, err := ReadSeries(strings.NewReader("bin;probability;note\n3-4°C;0.25;x\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25}, s.Values)
}

func TestReadSeries_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"header only", ";count\n"},
		{"single column header", "count\nbelow1°C\n"},
		{"single column row", ";count\nbelow1°C\n"},
		{"non-numeric value", ";count\nbelow1°C;many\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSeries(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "full.csv", countsCSV)
	writeFile(t, dir, "special.csv", ";count\nbelow1°C;1\n1-1.5°C;30\n1.5-2°C;100\n")
	writeFile(t, dir, "prob_450ppm.csv", ";probability\nbelow1°C;0.5\n1-1.5°C;0.3\n1.5-2°C;0.2\n")

	r := NewReader(&config.Config{
		ResultsDir:             dir,
		FullCountsFile:         "full.csv",
		SpecialReportFile:      "special.csv",
		ProbabilityFilePattern: "prob_%dppm.csv",
	}, discardLogger())

	full, special, err := r.ReadCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, full.Bins, special.Bins)
	assert.Equal(t, []float64{1, 30, 100}, special.Values)

	prob, err := r.ReadProbability(context.Background(), domain.Scenario(450))
	require.NoError(t, err)
	assert.Equal(t, full.Bins, prob.Bins)
	assert.Equal(t, "prob_450ppm.csv", r.ProbabilityFile(450))

	t.Run("missing file", func(t *testing.T) {
		_, err := r.ReadProbability(context.Background(), domain.Scenario(500))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := r.ReadCounts(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestWriteSeries(t *testing.T) {
	in := domain.Series{
		Name:   "probability",
		Bins:   []string{"below1°C", "1-1.5°C"},
		Values: []float64{0.25, 0.75},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, in))
	assert.Equal(t, "Temperature bin;probability\nbelow1°C;0.25\n1-1.5°C;0.75\n", buf.String())

	out, err := ReadSeries(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
