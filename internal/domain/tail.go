package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrUnknownBin is returned when a bin label carries no temperature.
var ErrUnknownBin = errors.New("bin label has no temperature")

// binNumberRe matches the first (possibly negative) number in a bin label.
var binNumberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// CutMode selects how the first bin of a tail is located.
type CutMode int

const (
	// CutByBoundary includes every bin whose lower bound is at least the
	// rule's MinTemp.
	CutByBoundary CutMode = iota
	// CutByOffset includes every row from the rule's Offset to the end of the
	// full comparison table.
	CutByOffset
)

// ParseCutMode maps "boundary" and "offset" to their CutMode.
func ParseCutMode(s string) (CutMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boundary":
		return CutByBoundary, nil
	case "offset":
		return CutByOffset, nil
	default:
		return 0, fmt.Errorf("unknown tail mode %q", s)
	}
}

func (m CutMode) String() string {
	if m == CutByOffset {
		return "offset"
	}
	return "boundary"
}

// TailRule describes one "this much warming or more" aggregate.
type TailRule struct {
	MinTemp float64 // °C
	Offset  int     // first row, CutByOffset only
}

// Label is the row label of the aggregate, e.g. "≥3°C".
func (r TailRule) Label() string {
	return fmt.Sprintf("≥%g°C", r.MinTemp)
}

// TailSpec is the set of tail aggregates computed for every scenario.
type TailSpec struct {
	Mode  CutMode
	Rules []TailRule
}

// DefaultTailSpec returns the ≥3°C and ≥6°C aggregates located by bin
// boundaries. The offsets match the 12-row half-degree bin layout.
func DefaultTailSpec() TailSpec {
	return TailSpec{
		Mode: CutByBoundary,
		Rules: []TailRule{
			{MinTemp: 3, Offset: 5},
			{MinTemp: 6, Offset: 11},
		},
	}
}

// Tail is a single-row comparison summing every bin at or above MinTemp.
type Tail struct {
	Rule TailRule
	Comparison
}

// LowerBound returns the lower temperature bound encoded in a bin label.
// Open-ended lower bins ("below1°C", "<1°C") return -Inf.
func LowerBound(label string) (float64, error) {
	l := strings.ToLower(NormalizeBin(label))
	num := binNumberRe.FindString(l)
	if num == "" {
		return 0, fmt.Errorf("%q: %w", label, ErrUnknownBin)
	}
	for _, prefix := range []string{"below", "under", "lessthan", "<", "≤"} {
		if strings.HasPrefix(l, prefix) {
			return math.Inf(-1), nil
		}
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", label, ErrUnknownBin)
	}
	return v, nil
}

// Aggregate sums the tail of c selected by the rule.
func (s TailSpec) Aggregate(c Comparison, r TailRule) (Tail, error) {
	var occ, prob []float64
	switch s.Mode {
	case CutByOffset:
		if r.Offset < c.Len() {
			occ = c.Occurrence[r.Offset:]
			prob = c.Probability[r.Offset:]
		}
	default:
		for i, bin := range c.Bins {
			lower, err := LowerBound(bin)
			if err != nil {
				return Tail{}, err
			}
			if lower >= r.MinTemp {
				occ = append(occ, c.Occurrence[i])
				prob = append(prob, c.Probability[i])
			}
		}
	}

	return Tail{
		Rule: r,
		Comparison: Comparison{
			Bins:        []string{r.Label()},
			Occurrence:  []float64{floats.Sum(occ)},
			Probability: []float64{floats.Sum(prob)},
		},
	}, nil
}
