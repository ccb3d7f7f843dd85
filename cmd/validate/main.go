// Command validate checks a Results directory before figures are rendered:
// both count tables, every scenario's probability table and the tail
// cut-offs. It reads the same environment as the figures command.
//
// Usage:
//
//	go run ./cmd/validate -results-dir Results
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/couchcryptid/warming-count-figures/internal/adapter/csvtable"
	"github.com/couchcryptid/warming-count-figures/internal/config"
	"github.com/couchcryptid/warming-count-figures/internal/domain"
)

// probabilityTolerance bounds how far a probability table may sum from 1.
const probabilityTolerance = 1e-3

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	resultsDir := flag.String("results-dir", "", "directory containing the tables; overrides RESULTS_DIR")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	if *resultsDir != "" {
		cfg.ResultsDir = *resultsDir
	}

	if code := run(context.Background(), cfg); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg *config.Config) int {
	fmt.Println("=== Warming Count Input Validation ===")
	fmt.Println()

	scenarios, err := cfg.Scenarios()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: scenarios: %v\n", err)
		return 1
	}

	reader := csvtable.NewReader(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	full, special, err := reader.ReadCounts(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load counts: %v\n", err)
		return 1
	}

	probs := make(map[domain.Scenario]domain.Series, len(scenarios))
	loadPhase := &phase{name: "Phase 1: Probability Tables (files)"}
	for _, s := range scenarios {
		prob, err := reader.ReadProbability(ctx, s)
		if err != nil {
			loadPhase.errorf("%s: %v", s, err)
			continue
		}
		probs[s] = prob
	}

	phases := []*phase{
		loadPhase,
		validateCounts(full, special),
		validateProbabilities(scenarios, probs, full),
		validateTails(cfg.Tails, scenarios, probs, full, special),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Tables: %d count bins, %d special report bins, %d of %d scenarios\n",
		full.Len(), special.Len(), len(probs), len(scenarios))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 2: Count Tables ──
// The special report counts are a subset of the report-wide counts.

func validateCounts(full, special domain.Series) *phase {
	p := &phase{name: "Phase 2: Count Tables (subset)"}

	if full.Total() <= 0 {
		p.errorf("report-wide counts total %g", full.Total())
	}
	if full.Total()-special.Total() <= 0 {
		p.errorf("no mentions left without the special report (%g - %g)", full.Total(), special.Total())
	}
	if !slices.Equal(full.Bins, special.Bins) {
		p.errorf("bin labels differ: full %v, special %v", full.Bins, special.Bins)
	}

	specialByBin := make(map[string]float64, special.Len())
	for i, bin := range special.Bins {
		specialByBin[bin] = special.Values[i]
	}
	for i, bin := range full.Bins {
		if full.Values[i] < 0 {
			p.errorf("%s: negative count %g", bin, full.Values[i])
		}
		if v, ok := specialByBin[bin]; ok && v > full.Values[i] {
			p.errorf("%s: special report count %g exceeds report-wide count %g", bin, v, full.Values[i])
		}
		if _, err := domain.LowerBound(bin); err != nil {
			p.errorf("%v", err)
		}
	}
	return p
}

// ── Phase 3: Probability Tables ──
// Every scenario carries a distribution over the count bins.

func validateProbabilities(scenarios []domain.Scenario, probs map[domain.Scenario]domain.Series, full domain.Series) *phase {
	p := &phase{name: "Phase 3: Probability Tables (distribution)"}

	for _, s := range scenarios {
		prob, ok := probs[s]
		if !ok {
			continue
		}
		if !slices.Equal(prob.Bins, full.Bins) {
			p.errorf("%s: bins %v do not match count bins %v", s, prob.Bins, full.Bins)
		}
		if sum := prob.Total(); math.Abs(sum-1) > probabilityTolerance {
			p.errorf("%s: probabilities sum to %.6f", s, sum)
		}
		for i, v := range prob.Values {
			if v < 0 || v > 1 {
				p.errorf("%s: %s probability %g outside [0, 1]", s, prob.Bins[i], v)
			}
		}
	}
	return p
}

// ── Phase 4: Tail Cut-offs ──
// Each tail rule selects bins, and positional offsets land on the bin that
// starts at the rule's temperature.

func validateTails(spec domain.TailSpec, scenarios []domain.Scenario, probs map[domain.Scenario]domain.Series, full, special domain.Series) *phase {
	p := &phase{name: "Phase 4: Tail Cut-offs (" + spec.Mode.String() + ")"}

	for _, rule := range spec.Rules {
		switch spec.Mode {
		case domain.CutByOffset:
			if rule.Offset >= full.Len() {
				p.errorf("%s: offset %d past the last of %d bins", rule.Label(), rule.Offset, full.Len())
				continue
			}
			lower, err := domain.LowerBound(full.Bins[rule.Offset])
			if err != nil {
				p.errorf("%v", err)
				continue
			}
			if lower != rule.MinTemp {
				p.errorf("%s: offset %d starts at %q", rule.Label(), rule.Offset, full.Bins[rule.Offset])
			}
		default:
			selected := 0
			for _, bin := range full.Bins {
				if lower, err := domain.LowerBound(bin); err == nil && lower >= rule.MinTemp {
					selected++
				}
			}
			if selected == 0 {
				p.errorf("%s: no bin starts at or above %g°C", rule.Label(), rule.MinTemp)
			}
		}
	}

	for _, s := range scenarios {
		prob, ok := probs[s]
		if !ok {
			continue
		}
		if _, err := domain.PrepareData(prob, full, special, spec); err != nil {
			p.errorf("%s: %v", s, err)
		}
	}
	return p
}
