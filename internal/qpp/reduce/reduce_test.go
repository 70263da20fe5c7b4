package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/pkg/api"
)

func TestReduce(t *testing.T) {
	outcomes := []string{"01", "01", "10"}
	tests := map[string]struct {
		outcomes []string
		mode     api.Mode
		expected interface{}
	}{
		"sequence":              {outcomes: outcomes, mode: api.ModeSequence, expected: []string{"01", "01", "10"}},
		"sequence of nothing":   {outcomes: nil, mode: api.ModeSequence, expected: []string{}},
		"aggregation":           {outcomes: outcomes, mode: api.ModeAggregation, expected: Histogram{"01": 2, "10": 1}},
		"max":                   {outcomes: outcomes, mode: api.ModeMax, expected: Histogram{"01": 2}},
		"min":                   {outcomes: outcomes, mode: api.ModeMin, expected: Histogram{"10": 1}},
		"expectation":           {outcomes: []string{"00", "11"}, mode: api.ModeExpectation, expected: [][]float64{{0, 0}}},
		"expectation all zeros": {outcomes: []string{"00", "00"}, mode: api.ModeExpectation, expected: [][]float64{{1, 1}}},
		"expectation mixed":     {outcomes: []string{"01", "01", "11", "00"}, mode: api.ModeExpectation, expected: [][]float64{{0.5, -0.5}}},
		"expectation empty":     {outcomes: nil, mode: api.ModeExpectation, expected: [][]float64{{}}},
		"aggregation empty":     {outcomes: nil, mode: api.ModeAggregation, expected: Histogram{}},
		"max empty":             {outcomes: nil, mode: api.ModeMax, expected: Histogram{}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := Reduce(tc.outcomes, tc.mode)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestReduce_InvalidMode(t *testing.T) {
	for _, mode := range []api.Mode{api.ModeSweep, "bogus"} {
		_, err := Reduce([]string{"0"}, mode)
		var invalid *qpperrors.ErrInvalidArgument
		assert.ErrorAs(t, err, &invalid, mode)
	}
}

// Which of several equally frequent outcomes wins is unspecified, so only membership is asserted.
func TestExtreme_TiesPickOneOfTheTiedEntries(t *testing.T) {
	histogram := Aggregate([]string{"00", "01", "01", "10", "10", "11"})

	most := Extreme(histogram, true)
	require.Len(t, most, 1)
	for outcome, count := range most {
		assert.Contains(t, []string{"01", "10"}, outcome)
		assert.Equal(t, uint(2), count)
	}

	least := Extreme(histogram, false)
	require.Len(t, least, 1)
	for outcome, count := range least {
		assert.Contains(t, []string{"00", "11"}, outcome)
		assert.Equal(t, uint(1), count)
	}
}
