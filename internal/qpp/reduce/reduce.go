// Package reduce turns the bit-strings measured by a job into the summary returned to the caller.
package reduce

import (
	"github.com/pkg/errors"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/pkg/api"
)

// Histogram maps each distinct outcome to the number of shots that produced it.
type Histogram map[string]uint

// Reduce summarises outcomes according to mode:
//
//	sequence    the outcomes unchanged
//	aggregation a Histogram
//	max, min    a single-entry Histogram holding the most / least frequent outcome
//	expectation a list holding one Z-basis expectation vector
//
// Ties in max and min go to whichever entry is met first while iterating the histogram, which is unspecified.
func Reduce(outcomes []string, mode api.Mode) (interface{}, error) {
	switch mode {
	case api.ModeSequence:
		if outcomes == nil {
			return []string{}, nil
		}
		return outcomes, nil
	case api.ModeAggregation:
		return Aggregate(outcomes), nil
	case api.ModeMax:
		return Extreme(Aggregate(outcomes), true), nil
	case api.ModeMin:
		return Extreme(Aggregate(outcomes), false), nil
	case api.ModeExpectation:
		return [][]float64{Expectation(outcomes)}, nil
	default:
		return nil, errors.WithStack(&qpperrors.ErrInvalidArgument{
			Name:    "mode",
			Value:   mode,
			Message: "mode cannot be reduced",
		})
	}
}

func Aggregate(outcomes []string) Histogram {
	histogram := make(Histogram)
	for _, outcome := range outcomes {
		histogram[outcome]++
	}
	return histogram
}

// Extreme returns the entry of histogram with the highest count if highest is set, otherwise the lowest.
// An empty histogram yields an empty result.
func Extreme(histogram Histogram, highest bool) Histogram {
	var (
		best      string
		bestCount uint
		found     bool
	)
	for outcome, count := range histogram {
		if !found || (highest && count > bestCount) || (!highest && count < bestCount) {
			best, bestCount, found = outcome, count, true
		}
	}
	if !found {
		return Histogram{}
	}
	return Histogram{best: bestCount}
}

// Expectation computes, for each bit position, the mean of +1 for every 0 and -1 for every 1 across outcomes.
// Positions are indexed from the first character of the outcome. The width is taken from the first outcome.
func Expectation(outcomes []string) []float64 {
	if len(outcomes) == 0 {
		return []float64{}
	}
	expectation := make([]float64, len(outcomes[0]))
	for _, outcome := range outcomes {
		for i := 0; i < len(expectation) && i < len(outcome); i++ {
			if outcome[i] == '1' {
				expectation[i] -= 1
			} else {
				expectation[i] += 1
			}
		}
	}
	shots := float64(len(outcomes))
	for i := range expectation {
		expectation[i] /= shots
	}
	return expectation
}
