package sweep

import (
	"encoding/json"
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
)

// Range is the closed interval a variable is swept over. Low may exceed High, in which case the sweep descends.
type Range struct {
	Low  float64
	High float64
}

// ParseRanges decodes a json object mapping variable names to [low, high] pairs. Every malformed entry is reported.
func ParseRanges(encoded string) (map[string]Range, error) {
	if encoded == "" {
		return nil, errors.WithStack(&qpperrors.ErrInvalidArgument{
			Name:    "vars_range",
			Value:   encoded,
			Message: "sweep mode needs at least one variable range",
		})
	}
	var raw map[string][]float64
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, errors.WithStack(&qpperrors.ErrInvalidArgument{
			Name:    "vars_range",
			Value:   encoded,
			Message: err.Error(),
		})
	}
	if len(raw) == 0 {
		return nil, errors.WithStack(&qpperrors.ErrInvalidArgument{
			Name:    "vars_range",
			Value:   encoded,
			Message: "sweep mode needs at least one variable range",
		})
	}

	names := maps.Keys(raw)
	slices.Sort(names)

	var result *multierror.Error
	ranges := make(map[string]Range, len(raw))
	for _, name := range names {
		bounds := raw[name]
		if name == "" {
			result = multierror.Append(result, &qpperrors.ErrInvalidArgument{
				Name:    "vars_range",
				Value:   bounds,
				Message: "variable name is empty",
			})
			continue
		}
		if len(bounds) != 2 {
			result = multierror.Append(result, &qpperrors.ErrInvalidArgument{
				Name:    "vars_range",
				Value:   bounds,
				Message: "range of " + name + " must be [low, high]",
			})
			continue
		}
		if !finite(bounds[0]) || !finite(bounds[1]) {
			result = multierror.Append(result, &qpperrors.ErrInvalidArgument{
				Name:    "vars_range",
				Value:   bounds,
				Message: "range of " + name + " must be finite",
			})
			continue
		}
		ranges[name] = Range{Low: bounds[0], High: bounds[1]}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return ranges, nil
}

// Interpolate returns the value of every variable at iteration i of n: low + (high - low) * i / (n - 1).
// A single iteration sits at the low end of each range.
func Interpolate(ranges map[string]Range, i, n uint) map[string]float64 {
	values := make(map[string]float64, len(ranges))
	for name, r := range ranges {
		if n <= 1 {
			values[name] = r.Low
			continue
		}
		values[name] = r.Low + (r.High-r.Low)*float64(i)/float64(n-1)
	}
	return values
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
