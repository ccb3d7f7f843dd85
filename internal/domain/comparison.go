package domain

// Display names of the two comparison columns.
const (
	OccurrenceColumn  = "Relative occurrence in IPCC reports"
	ProbabilityColumn = "Probability of warming"
)

// Comparison pairs the relative occurrence of each bin in the reports with the
// probability of that much warming. Both columns are percentages.
type Comparison struct {
	Bins        []string
	Occurrence  []float64
	Probability []float64
}

// Len returns the number of rows.
func (c Comparison) Len() int { return len(c.Bins) }

// Merge joins an occurrence series with a probability series on the bin label.
// Rows follow the order of occurrence; bins present in only one series are
// dropped and counted.
func Merge(occurrence, probability Series) (Comparison, int) {
	idx := probability.index()
	c := Comparison{
		Bins:        make([]string, 0, occurrence.Len()),
		Occurrence:  make([]float64, 0, occurrence.Len()),
		Probability: make([]float64, 0, occurrence.Len()),
	}
	matched := make(map[string]bool, occurrence.Len())
	for i, bin := range occurrence.Bins {
		j, ok := idx[bin]
		if !ok {
			continue
		}
		matched[bin] = true
		c.Bins = append(c.Bins, bin)
		c.Occurrence = append(c.Occurrence, occurrence.Values[i])
		c.Probability = append(c.Probability, probability.Values[j])
	}

	dropped := occurrence.Len() - c.Len()
	for _, bin := range probability.Bins {
		if !matched[bin] {
			dropped++
		}
	}
	return c, dropped
}
