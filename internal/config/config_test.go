package config

import (
	"image/color"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/warming-count-figures/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Results", cfg.ResultsDir)
	assert.Equal(t, "Figures", cfg.FiguresDir)
	assert.Equal(t, "temp_counts_all.csv", cfg.FullCountsFile)
	assert.Equal(t, "counts_SR15_Full_Report_High_Res.csv", cfg.SpecialReportFile)
	assert.Equal(t, "warming_probabilities_%dppm.csv", cfg.ProbabilityFilePattern)
	assert.Equal(t, "warming_count_%d.png", cfg.FigureFilePattern)
	assert.Equal(t, 400, cfg.ScenarioStart)
	assert.Equal(t, 1000, cfg.ScenarioEnd)
	assert.Equal(t, 50, cfg.ScenarioStep)
	assert.Equal(t, domain.DefaultTailSpec(), cfg.Tails)
	assert.Equal(t, 12.0, cfg.FigureWidth)
	assert.Equal(t, 6.0, cfg.FigureHeight)
	assert.Equal(t, 200, cfg.FigureDPI)
	assert.Equal(t, color.NRGBA{R: 0xBD, G: 0x7F, B: 0x37, A: 0xFF}, cfg.OccurrenceColor)
	assert.Equal(t, color.NRGBA{R: 0xA1, G: 0x39, B: 0x41, A: 0xFF}, cfg.ProbabilityColor)
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, cfg.EdgeColor)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Empty(t, cfg.TablesXLSX)

	scenarios, err := cfg.Scenarios()
	require.NoError(t, err)
	assert.Len(t, scenarios, 13)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("RESULTS_DIR", "/data/results")
	t.Setenv("FIGURES_DIR", "/data/figures")
	t.Setenv("SCENARIO_START", "500")
	t.Setenv("SCENARIO_END", "600")
	t.Setenv("SCENARIO_STEP", "100")
	t.Setenv("TAIL_MODE", "offset")
	t.Setenv("TAIL_THRESHOLDS", "2, 4, 6")
	t.Setenv("TAIL_OFFSETS", "3,7,11")
	t.Setenv("FIGURE_DPI", "72")
	t.Setenv("OCCURRENCE_COLOR", "#00000080")
	t.Setenv("WORKERS", "4")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_TEXTFILE", "/tmp/figures.prom")
	t.Setenv("TABLES_XLSX", "/tmp/tables.xlsx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/results", cfg.ResultsDir)
	assert.Equal(t, "/data/figures", cfg.FiguresDir)
	assert.Equal(t, domain.TailSpec{
		Mode: domain.CutByOffset,
		Rules: []domain.TailRule{
			{MinTemp: 2, Offset: 3},
			{MinTemp: 4, Offset: 7},
			{MinTemp: 6, Offset: 11},
		},
	}, cfg.Tails)
	assert.Equal(t, 72, cfg.FigureDPI)
	assert.Equal(t, color.NRGBA{A: 0x80}, cfg.OccurrenceColor)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "/tmp/figures.prom", cfg.MetricsTextfile)
	assert.Equal(t, "/tmp/tables.xlsx", cfg.TablesXLSX)

	scenarios, err := cfg.Scenarios()
	require.NoError(t, err)
	assert.Equal(t, []domain.Scenario{500, 600}, scenarios)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"non-numeric start", map[string]string{"SCENARIO_START": "four hundred"}, "SCENARIO_START"},
		{"zero step", map[string]string{"SCENARIO_STEP": "0"}, "SCENARIO_STEP"},
		{"start after end", map[string]string{"SCENARIO_START": "1200"}, "SCENARIO_START"},
		{"bad tail mode", map[string]string{"TAIL_MODE": "position"}, "TAIL_MODE"},
		{"descending thresholds", map[string]string{"TAIL_THRESHOLDS": "6,3"}, "TAIL_THRESHOLDS"},
		{"offset count mismatch", map[string]string{"TAIL_OFFSETS": "5"}, "TAIL_OFFSETS"},
		{"negative offset", map[string]string{"TAIL_OFFSETS": "5,-1"}, "TAIL_OFFSETS"},
		{"zero dpi", map[string]string{"FIGURE_DPI": "0"}, "FIGURE_DPI"},
		{"negative width", map[string]string{"FIGURE_WIDTH": "-3"}, "FIGURE_WIDTH"},
		{"bad color", map[string]string{"EDGE_COLOR": "white"}, "EDGE_COLOR"},
		{"bad alpha", map[string]string{"EDGE_COLOR": "#FFFFFFZZ"}, "EDGE_COLOR"},
		{"zero workers", map[string]string{"WORKERS": "0"}, "WORKERS"},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"pattern without verb", map[string]string{"FIGURE_FILE_PATTERN": "figure.png"}, "FIGURE_FILE_PATTERN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#bd7f37")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xBD, G: 0x7F, B: 0x37, A: 0xFF}, c)

	c, err = ParseColor("#A1394100")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xA1, G: 0x39, B: 0x41}, c)
}
