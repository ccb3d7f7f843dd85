package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.FiguresWritten.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.FiguresWritten))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FiguresWritten))
}

func TestMetrics_Textfile(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.ScenariosProcessed, m.DroppedBins)
	m.ScenariosProcessed.Add(13)

	path := filepath.Join(t.TempDir(), "figures.prom")
	require.NoError(t, prometheus.WriteToTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "warming_figures_scenarios_processed_total 13")
	assert.Contains(t, string(data), "warming_figures_dropped_bins_total 0")
}
