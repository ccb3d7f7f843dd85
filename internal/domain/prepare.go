package domain

import "fmt"

// Prepared holds every table plotted for one scenario.
type Prepared struct {
	Scenario  Scenario
	Full      Comparison
	Excluding Comparison
	Tails     []Tail

	// Dropped counts bins lost by the inner merge of the full comparison.
	Dropped int
}

// PrepareData converts the raw tables of one scenario into comparison tables.
//
// Probabilities are scaled to percent. The full counts become column
// percentages; the counts without the special report are normalized by their
// own total. Each is merged with the probabilities, and one tail aggregate is
// computed from the full comparison per rule in tails.
func PrepareData(probability, full, special Series, tails TailSpec) (Prepared, error) {
	probPercent := probability.Scale(100)

	withoutSpecial, err := full.Subtract(special).Percentages()
	if err != nil {
		return Prepared{}, fmt.Errorf("excluding special report: %w", err)
	}
	excluding, _ := Merge(withoutSpecial, probPercent)

	fullPercent, err := full.Percentages()
	if err != nil {
		return Prepared{}, fmt.Errorf("full counts: %w", err)
	}
	comparison, dropped := Merge(fullPercent, probPercent)

	out := Prepared{
		Full:      comparison,
		Excluding: excluding,
		Tails:     make([]Tail, 0, len(tails.Rules)),
		Dropped:   dropped,
	}
	for _, rule := range tails.Rules {
		tail, err := tails.Aggregate(comparison, rule)
		if err != nil {
			return Prepared{}, fmt.Errorf("tail %s: %w", rule.Label(), err)
		}
		out.Tails = append(out.Tails, tail)
	}
	return out, nil
}
