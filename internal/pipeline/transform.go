package pipeline

import (
	"context"

	"github.com/couchcryptid/warming-count-figures/internal/domain"
)

// FigureTransformer implements Transformer with domain.PrepareData.
type FigureTransformer struct {
	tails domain.TailSpec
}

// NewTransformer creates a FigureTransformer that aggregates the given tails.
func NewTransformer(tails domain.TailSpec) *FigureTransformer {
	return &FigureTransformer{tails: tails}
}

func (t *FigureTransformer) Transform(_ context.Context, s domain.Scenario, probability, full, special domain.Series) (domain.Prepared, error) {
	prepared, err := domain.PrepareData(probability, full, special, t.tails)
	if err != nil {
		return domain.Prepared{}, err
	}
	prepared.Scenario = s
	return prepared, nil
}
