package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/couchcryptid/warming-count-figures/internal/domain"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	ResultsDir             string
	FiguresDir             string
	FullCountsFile         string
	SpecialReportFile      string
	ProbabilityFilePattern string // fmt pattern taking the ppm value
	FigureFilePattern      string // fmt pattern taking the ppm value

	ScenarioStart int
	ScenarioEnd   int
	ScenarioStep  int

	Tails domain.TailSpec

	// Figure geometry, in inches and dots per inch.
	FigureWidth  float64
	FigureHeight float64
	FigureDPI    int

	OccurrenceColor  color.NRGBA
	ProbabilityColor color.NRGBA
	EdgeColor        color.NRGBA

	Workers   int
	LogLevel  slog.Level
	LogFormat string

	// Optional outputs; empty disables them.
	MetricsTextfile string
	TablesXLSX      string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var errs []error
	intVar := func(name, def string) int {
		n, err := strconv.Atoi(strings.TrimSpace(sharedcfg.EnvOrDefault(name, def)))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
		}
		return n
	}
	floatVar := func(name, def string) float64 {
		f, err := strconv.ParseFloat(strings.TrimSpace(sharedcfg.EnvOrDefault(name, def)), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
		}
		return f
	}
	colorVar := func(name, def string) color.NRGBA {
		c, err := ParseColor(sharedcfg.EnvOrDefault(name, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
		}
		return c
	}

	cfg := &Config{
		ResultsDir:             sharedcfg.EnvOrDefault("RESULTS_DIR", "Results"),
		FiguresDir:             sharedcfg.EnvOrDefault("FIGURES_DIR", "Figures"),
		FullCountsFile:         sharedcfg.EnvOrDefault("FULL_COUNTS_FILE", "temp_counts_all.csv"),
		SpecialReportFile:      sharedcfg.EnvOrDefault("SPECIAL_REPORT_COUNTS_FILE", "counts_SR15_Full_Report_High_Res.csv"),
		ProbabilityFilePattern: sharedcfg.EnvOrDefault("PROBABILITY_FILE_PATTERN", "warming_probabilities_%dppm.csv"),
		FigureFilePattern:      sharedcfg.EnvOrDefault("FIGURE_FILE_PATTERN", "warming_count_%d.png"),

		ScenarioStart: intVar("SCENARIO_START", "400"),
		ScenarioEnd:   intVar("SCENARIO_END", "1000"),
		ScenarioStep:  intVar("SCENARIO_STEP", "50"),

		FigureWidth:  floatVar("FIGURE_WIDTH", "12"),
		FigureHeight: floatVar("FIGURE_HEIGHT", "6"),
		FigureDPI:    intVar("FIGURE_DPI", "200"),

		OccurrenceColor:  colorVar("OCCURRENCE_COLOR", "#BD7F37FF"),
		ProbabilityColor: colorVar("PROBABILITY_COLOR", "#A13941FF"),
		EdgeColor:        colorVar("EDGE_COLOR", "#FFFFFF"),

		Workers:   intVar("WORKERS", "1"),
		LogFormat: strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),

		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		TablesXLSX:      sharedcfg.EnvOrDefault("TABLES_XLSX", ""),
	}

	level, err := parseLogLevel(sharedcfg.EnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.LogLevel = level

	tails, err := parseTails(
		sharedcfg.EnvOrDefault("TAIL_MODE", "boundary"),
		sharedcfg.EnvOrDefault("TAIL_THRESHOLDS", "3,6"),
		sharedcfg.EnvOrDefault("TAIL_OFFSETS", "5,11"),
	)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Tails = tails

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Scenarios expands the configured scenario range.
func (c *Config) Scenarios() ([]domain.Scenario, error) {
	return domain.ScenarioRange(c.ScenarioStart, c.ScenarioEnd, c.ScenarioStep)
}

func (c *Config) validate() error {
	if c.ResultsDir == "" {
		return errors.New("RESULTS_DIR is required")
	}
	if c.FiguresDir == "" {
		return errors.New("FIGURES_DIR is required")
	}
	if !strings.Contains(c.ProbabilityFilePattern, "%d") {
		return errors.New("PROBABILITY_FILE_PATTERN must contain %d")
	}
	if !strings.Contains(c.FigureFilePattern, "%d") {
		return errors.New("FIGURE_FILE_PATTERN must contain %d")
	}
	if c.ScenarioStep <= 0 {
		return errors.New("SCENARIO_STEP must be positive")
	}
	if c.ScenarioStart > c.ScenarioEnd {
		return errors.New("SCENARIO_START must not exceed SCENARIO_END")
	}
	if c.FigureWidth <= 0 || c.FigureHeight <= 0 {
		return errors.New("FIGURE_WIDTH and FIGURE_HEIGHT must be positive")
	}
	if c.FigureDPI <= 0 {
		return errors.New("FIGURE_DPI must be positive")
	}
	if c.Workers < 1 {
		return errors.New("WORKERS must be at least 1")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (allowed: json, text)", c.LogFormat)
	}
	return nil
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: bad alpha", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func parseTails(mode, thresholds, offsets string) (domain.TailSpec, error) {
	m, err := domain.ParseCutMode(mode)
	if err != nil {
		return domain.TailSpec{}, fmt.Errorf("invalid TAIL_MODE: %w", err)
	}

	temps, err := splitList(thresholds, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	if err != nil {
		return domain.TailSpec{}, fmt.Errorf("invalid TAIL_THRESHOLDS: %w", err)
	}
	if !slices.IsSorted(temps) {
		return domain.TailSpec{}, errors.New("TAIL_THRESHOLDS must be ascending")
	}
	offs, err := splitList(offsets, strconv.Atoi)
	if err != nil {
		return domain.TailSpec{}, fmt.Errorf("invalid TAIL_OFFSETS: %w", err)
	}
	if len(offs) != len(temps) {
		return domain.TailSpec{}, errors.New("TAIL_OFFSETS must have one entry per TAIL_THRESHOLDS value")
	}

	spec := domain.TailSpec{Mode: m, Rules: make([]domain.TailRule, len(temps))}
	for i := range temps {
		if offs[i] < 0 {
			return domain.TailSpec{}, errors.New("TAIL_OFFSETS must not be negative")
		}
		spec.Rules[i] = domain.TailRule{MinTemp: temps[i], Offset: offs[i]}
	}
	return spec, nil
}

func splitList[T any](s string, parse func(string) (T, error)) ([]T, error) {
	var out []T
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
