package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyRange is returned for a scenario range that yields no scenarios.
var ErrEmptyRange = errors.New("scenario range is empty")

// Scenario identifies a CO2 concentration pathway by its ppm value.
type Scenario int

func (s Scenario) String() string {
	return fmt.Sprintf("%dppm", int(s))
}

// ScenarioRange returns start, start+step, ... up to and including end.
func ScenarioRange(start, end, step int) ([]Scenario, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step %d: %w", step, ErrEmptyRange)
	}
	if start > end {
		return nil, fmt.Errorf("start %d after end %d: %w", start, end, ErrEmptyRange)
	}
	out := make([]Scenario, 0, (end-start)/step+1)
	for ppm := start; ppm <= end; ppm += step {
		out = append(out, Scenario(ppm))
	}
	return out, nil
}
