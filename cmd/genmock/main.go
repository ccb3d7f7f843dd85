// Command genmock writes a synthetic Results directory: report-wide and
// special-report bin counts plus one warming probability table per scenario.
// The tables have the layout the figures command reads, so the full pipeline
// can run without the real inputs.
//
// Usage:
//
//	go run ./cmd/genmock -out Results -sensitivity 3
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/warming-count-figures/internal/adapter/csvtable"
	"github.com/couchcryptid/warming-count-figures/internal/domain"
)

// preindustrialPPM is the reference concentration of the warming curve.
const preindustrialPPM = 280

// bin is a half-degree temperature interval; open ends are infinite.
type bin struct {
	label        string
	lower, upper float64
}

var bins = []bin{
	{"below1°C", math.Inf(-1), 1},
	{"1-1.5°C", 1, 1.5},
	{"1.5-2°C", 1.5, 2},
	{"2-2.5°C", 2, 2.5},
	{"2.5-3°C", 2.5, 3},
	{"3-3.5°C", 3, 3.5},
	{"3.5-4°C", 3.5, 4},
	{"4-4.5°C", 4, 4.5},
	{"4.5-5°C", 4.5, 5},
	{"5-5.5°C", 5, 5.5},
	{"5.5-6°C", 5.5, 6},
	{"above6°C", 6, math.Inf(1)},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "Results", "directory to write the tables to")
	fullFile := flag.String("full-file", "temp_counts_all.csv", "file name of the report-wide counts")
	specialFile := flag.String("special-file", "counts_SR15_Full_Report_High_Res.csv", "file name of the special report counts")
	probPattern := flag.String("prob-pattern", "warming_probabilities_%dppm.csv", "file name pattern of the probability tables")
	start := flag.Int("start", 400, "first scenario in ppm")
	end := flag.Int("end", 1000, "last scenario in ppm")
	step := flag.Int("step", 50, "scenario step in ppm")
	total := flag.Float64("total", 1000, "number of temperature mentions in the report-wide counts")
	specialShare := flag.Float64("special-share", 0.2, "share of mentions that come from the special report")
	sensitivity := flag.Float64("sensitivity", 3, "warming per doubling of CO2, in °C")
	spread := flag.Float64("spread", 0.35, "standard deviation of the warming as a fraction of its mean")
	flag.Parse()

	scenarios, err := domain.ScenarioRange(*start, *end, *step)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	full := counts("count", distuv.Normal{Mu: 2, Sigma: 1.1}, *total)
	specialTotal := *total * *specialShare
	special := counts("count", distuv.Normal{Mu: 1.5, Sigma: 0.4}, specialTotal)
	for i := range special.Values {
		special.Values[i] = math.Min(special.Values[i], full.Values[i])
	}

	if err := writeTable(filepath.Join(*out, *fullFile), full); err != nil {
		return fmt.Errorf("writing full counts: %w", err)
	}
	if err := writeTable(filepath.Join(*out, *specialFile), special); err != nil {
		return fmt.Errorf("writing special report counts: %w", err)
	}
	log.Printf("counts: %g mentions, %g from the special report", full.Total(), special.Total())

	for _, s := range scenarios {
		mean := *sensitivity * math.Log2(float64(s)/preindustrialPPM)
		prob := probabilities(s.String(), distuv.Normal{Mu: mean, Sigma: math.Max(*spread*mean, 0.1)})
		path := filepath.Join(*out, fmt.Sprintf(*probPattern, int(s)))
		if err := writeTable(path, prob); err != nil {
			return fmt.Errorf("writing %s: %w", s, err)
		}
		printTails(s, prob)
	}
	log.Printf("wrote %d probability tables to %s", len(scenarios), *out)
	return nil
}

// binMass returns the probability of each bin under d.
func binMass(d distuv.Normal) []float64 {
	mass := make([]float64, len(bins))
	for i, b := range bins {
		mass[i] = d.CDF(b.upper) - d.CDF(b.lower)
	}
	return mass
}

func counts(name string, d distuv.Normal, total float64) domain.Series {
	s := domain.Series{Name: name}
	for i, m := range binMass(d) {
		s.Bins = append(s.Bins, bins[i].label)
		s.Values = append(s.Values, math.Round(m*total))
	}
	return s
}

func probabilities(name string, d distuv.Normal) domain.Series {
	s := domain.Series{Name: name}
	for i, m := range binMass(d) {
		s.Bins = append(s.Bins, bins[i].label)
		s.Values = append(s.Values, m)
	}
	return s
}

func writeTable(path string, s domain.Series) error {
	var buf bytes.Buffer
	if err := csvtable.WriteSeries(&buf, s); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

func printTails(s domain.Scenario, prob domain.Series) {
	spec := domain.DefaultTailSpec()
	c := domain.Comparison{
		Bins:        prob.Bins,
		Occurrence:  make([]float64, prob.Len()),
		Probability: prob.Values,
	}
	fmt.Printf("%-8s", s)
	for _, rule := range spec.Rules {
		tail, err := spec.Aggregate(c, rule)
		if err != nil {
			continue
		}
		fmt.Printf("  P(%s)=%.3f", rule.Label(), tail.Probability[0])
	}
	fmt.Println()
}
