package sweep

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/qpp/internal/common/qppcontext"
	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/internal/qpp/coordinator"
	"github.com/armadaproject/qpp/pkg/api"
)

type fakeEvaluator struct {
	jobs    []coordinator.Job
	failAt  int
	failErr error
}

func (f *fakeEvaluator) Evaluate(_ *qppcontext.Context, job coordinator.Job) ([]float64, error) {
	f.jobs = append(f.jobs, job)
	if f.failErr != nil && len(f.jobs)-1 == f.failAt {
		return nil, f.failErr
	}
	// Report the interpolated value so tests can tell iterations apart.
	return []float64{job.Vars["x"]}, nil
}

func TestController_Run(t *testing.T) {
	eval := &fakeEvaluator{}
	c := NewController(eval, nil, nil)

	result, err := c.Run(qppcontext.Background(), Sweep{
		Program:    "rx(x) q[0];",
		Ranges:     map[string]Range{"x": {Low: 0, High: 10}},
		Iterations: 3,
		Units:      2,
		Vars:       map[string]float64{"y": 1, "x": 99},
	})
	require.NoError(t, err)
	require.Len(t, result.Iterations, 3)
	assert.Nil(t, result.Objective)

	for i, it := range result.Iterations {
		assert.Equal(t, uint(i), it.Iteration)
		assert.Equal(t, []float64{float64(5 * i)}, it.Expectation)
		assert.Equal(t, map[string]float64{"x": float64(5 * i)}, it.Params)
	}
	for _, job := range eval.jobs {
		assert.Equal(t, api.ModeSweep, job.Mode)
		assert.Equal(t, uint(2), job.Units)
		assert.Equal(t, 1.0, job.Vars["y"])
		assert.NotEmpty(t, job.Id)
	}
}

func TestController_AbortsOnFirstFailure(t *testing.T) {
	eval := &fakeEvaluator{failAt: 1, failErr: &qpperrors.ErrSimulationFailure{Message: "bad gate"}}
	c := NewController(eval, nil, nil)

	_, err := c.Run(qppcontext.Background(), Sweep{
		Ranges:     map[string]Range{"x": {Low: 0, High: 1}},
		Iterations: 5,
	})
	require.Error(t, err)
	assert.Len(t, eval.jobs, 2)

	var failure *qpperrors.ErrSimulationFailure
	assert.True(t, errors.As(err, &failure))
	assert.Equal(t, "bad gate", qpperrors.ClientMessage(err))
}

func TestController_RejectsZeroIterations(t *testing.T) {
	eval := &fakeEvaluator{}
	c := NewController(eval, nil, nil)

	_, err := c.Run(qppcontext.Background(), Sweep{Ranges: map[string]Range{"x": {}}, Iterations: 0})
	var invalid *qpperrors.ErrInvalidArgument
	assert.True(t, errors.As(err, &invalid))
	assert.Empty(t, eval.jobs)
}

func TestController_MinimumObjective(t *testing.T) {
	c := NewController(&fakeEvaluator{}, NewMinimumObjective, nil)

	result, err := c.Run(qppcontext.Background(), Sweep{
		Ranges:     map[string]Range{"x": {Low: 1, High: -1}},
		Iterations: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, &Minimum{Iteration: 2, Params: map[string]float64{"x": -1}, Value: -1}, result.Objective)
}

func TestObjectiveByName(t *testing.T) {
	for _, name := range []string{"", "none", "minimum"} {
		f, ok := ObjectiveByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, f())
	}
	_, ok := ObjectiveByName("cobyla")
	assert.False(t, ok)
}
