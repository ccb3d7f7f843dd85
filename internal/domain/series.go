package domain

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrZeroTotal is returned when a series cannot be converted to percentages
// because its values sum to zero.
var ErrZeroTotal = errors.New("series total is zero")

// Series is one labelled column of a table: an ordered list of temperature
// bins and the value recorded for each. Count tables and probability tables
// are both Series.
type Series struct {
	Name   string
	Bins   []string
	Values []float64
}

// NormalizeBin removes all spaces from a bin label.
func NormalizeBin(label string) string {
	return strings.ReplaceAll(label, " ", "")
}

// Len returns the number of bins.
func (s Series) Len() int { return len(s.Bins) }

// Total sums all values.
func (s Series) Total() float64 {
	return floats.Sum(s.Values)
}

// Scale returns a copy with every value multiplied by f.
func (s Series) Scale(f float64) Series {
	out := s.clone()
	floats.Scale(f, out.Values)
	return out
}

// Percentages returns a copy where each value is its share of the series
// total, times 100.
func (s Series) Percentages() (Series, error) {
	total := s.Total()
	if total == 0 {
		return Series{}, fmt.Errorf("%s: %w", s.Name, ErrZeroTotal)
	}
	return s.Scale(100 / total), nil
}

// Subtract returns s minus other, matched by bin label. The result keeps the
// bin order of s; bins of s that other lacks are dropped.
func (s Series) Subtract(other Series) Series {
	idx := other.index()
	out := Series{
		Name:   s.Name,
		Bins:   make([]string, 0, len(s.Bins)),
		Values: make([]float64, 0, len(s.Values)),
	}
	for i, bin := range s.Bins {
		j, ok := idx[bin]
		if !ok {
			continue
		}
		out.Bins = append(out.Bins, bin)
		out.Values = append(out.Values, s.Values[i]-other.Values[j])
	}
	return out
}

// index maps each bin to its first position.
func (s Series) index() map[string]int {
	idx := make(map[string]int, len(s.Bins))
	for i, bin := range s.Bins {
		if _, seen := idx[bin]; !seen {
			idx[bin] = i
		}
	}
	return idx
}

func (s Series) clone() Series {
	return Series{
		Name:   s.Name,
		Bins:   append([]string(nil), s.Bins...),
		Values: append([]float64(nil), s.Values...),
	}
}
