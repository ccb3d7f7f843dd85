package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

var sevenBins = []string{"below1.5°C", "1.5-2°C", "2-3°C", "3-4°C", "4-5°C", "5-6°C", "above6°C"}

func constSeries(name string, bins []string, v float64) Series {
	s := Series{Name: name, Bins: bins, Values: make([]float64, len(bins))}
	for i := range s.Values {
		s.Values[i] = v
	}
	return s
}

func TestPrepareData_SevenBinExample(t *testing.T) {
	full := constSeries("count", sevenBins, 100)
	special := constSeries("count", sevenBins, 20)
	prob := constSeries("probability", sevenBins, 1.0/7)

	got, err := PrepareData(prob, full, special, DefaultTailSpec())
	require.NoError(t, err)

	require.Equal(t, 7, got.Excluding.Len())
	for _, v := range got.Excluding.Occurrence {
		assert.InDelta(t, 80.0/560.0*100, v, epsilon)
		assert.InDelta(t, 14.2857, v, 1e-4)
	}
	for _, v := range got.Full.Occurrence {
		assert.InDelta(t, 100.0/7, v, epsilon)
	}
	assert.Zero(t, got.Dropped)
}

func TestPrepareData_ColumnsSumToHundred(t *testing.T) {
	full := Series{Name: "count", Bins: halfDegreeBins, Values: []float64{3, 40, 120, 210, 180, 150, 90, 60, 30, 15, 8, 12}}
	special := Series{Name: "count", Bins: halfDegreeBins, Values: []float64{1, 30, 100, 60, 20, 5, 2, 1, 0, 0, 0, 1}}
	prob := Series{Name: "probability", Bins: halfDegreeBins, Values: []float64{0.01, 0.04, 0.1, 0.15, 0.2, 0.18, 0.12, 0.08, 0.05, 0.03, 0.02, 0.02}}

	got, err := PrepareData(prob, full, special, DefaultTailSpec())
	require.NoError(t, err)

	assert.InDelta(t, 100, sum(got.Full.Occurrence), epsilon)
	assert.InDelta(t, 100, sum(got.Full.Probability), epsilon)
	assert.InDelta(t, 100, sum(got.Excluding.Occurrence), epsilon, "excluding view is self-normalized")

	require.Len(t, got.Tails, 2)
	for _, tail := range got.Tails {
		assert.Equal(t, 1, tail.Len())
		assert.Len(t, tail.Occurrence, 1)
		assert.Len(t, tail.Probability, 1)
	}
	assert.Equal(t, 3.0, got.Tails[0].Rule.MinTemp)
	assert.Equal(t, 6.0, got.Tails[1].Rule.MinTemp)
	assert.InDelta(t, 2.0, got.Tails[1].Probability[0], epsilon)
	assert.InDelta(t, 12.0/918*100, got.Tails[1].Occurrence[0], epsilon)
}

func TestPrepareData_ProbabilityScaledNotRenormalized(t *testing.T) {
	bins := []string{"a1", "b2"}
	full := constSeries("count", bins, 10)
	special := constSeries("count", bins, 0)
	prob := Series{Bins: bins, Values: []float64{0.2, 0.3}}

	got, err := PrepareData(prob, full, special, TailSpec{})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{20, 30}, got.Full.Probability, epsilon)
	assert.Empty(t, got.Tails)
}

func TestPrepareData_LabelMismatchShrinksTables(t *testing.T) {
	full := constSeries("count", sevenBins, 100)
	special := constSeries("count", sevenBins, 20)
	prob := constSeries("probability", sevenBins[:5], 0.2)

	got, err := PrepareData(prob, full, special, DefaultTailSpec())
	require.NoError(t, err)

	assert.Equal(t, 5, got.Full.Len())
	assert.Equal(t, 5, got.Excluding.Len())
	assert.Equal(t, 2, got.Dropped)
}

func TestPrepareData_ZeroTotals(t *testing.T) {
	full := constSeries("count", sevenBins, 20)
	special := constSeries("count", sevenBins, 20)
	prob := constSeries("probability", sevenBins, 0.1)

	_, err := PrepareData(prob, full, special, DefaultTailSpec())
	require.ErrorIs(t, err, ErrZeroTotal)
	assert.Contains(t, err.Error(), "excluding special report")
}

func sum(vs []float64) float64 {
	var total float64
	for _, v := range vs {
		total += v
	}
	return total
}
