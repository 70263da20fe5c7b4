// Package sweep runs a program repeatedly while linearly interpolating its variables across given ranges.
package sweep

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/armadaproject/qpp/internal/common/qppcontext"
	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/internal/qpp/coordinator"
	"github.com/armadaproject/qpp/internal/qpp/metrics"
	"github.com/armadaproject/qpp/pkg/api"
)

// Evaluator runs a job once and returns its expectation vector.
type Evaluator interface {
	Evaluate(ctx *qppcontext.Context, job coordinator.Job) ([]float64, error)
}

// Sweep describes one parameter sweep.
type Sweep struct {
	Program    string
	Ranges     map[string]Range
	Iterations uint
	// Shots is passed to every run; zero leaves it to the simulator.
	Shots uint
	Units uint
	// Vars are substituted in every iteration. A ranged variable of the same name takes precedence.
	Vars map[string]float64
}

type Controller struct {
	evaluator Evaluator
	objective ObjectiveFactory
	metrics   *metrics.Recorder
}

func NewController(evaluator Evaluator, objective ObjectiveFactory, recorder *metrics.Recorder) *Controller {
	if objective == nil {
		objective = NewNoopObjective
	}
	return &Controller{
		evaluator: evaluator,
		objective: objective,
		metrics:   recorder,
	}
}

// Run evaluates the iterations strictly one after another. The first failing iteration aborts the sweep
// and its error is returned.
func (c *Controller) Run(ctx *qppcontext.Context, sweep Sweep) (*api.SweepResult, error) {
	if sweep.Iterations == 0 {
		return nil, errors.WithStack(&qpperrors.ErrInvalidArgument{
			Name:    "iterations",
			Value:   sweep.Iterations,
			Message: "must be at least 1",
		})
	}

	sweepId := uuid.NewString()
	ctx = qppcontext.WithLogFields(ctx, logrus.Fields{
		"sweepId":    sweepId,
		"iterations": sweep.Iterations,
	})
	objective := c.objective()
	result := &api.SweepResult{Iterations: make([]api.SweepIteration, 0, sweep.Iterations)}

	for i := uint(0); i < sweep.Iterations; i++ {
		params := Interpolate(sweep.Ranges, i, sweep.Iterations)
		vars := make(map[string]float64, len(sweep.Vars)+len(params))
		for name, v := range sweep.Vars {
			vars[name] = v
		}
		for name, v := range params {
			vars[name] = v
		}

		expectation, err := c.evaluator.Evaluate(ctx, coordinator.Job{
			Id:      fmt.Sprintf("%s-%d", sweepId, i),
			Program: sweep.Program,
			Shots:   sweep.Shots,
			Units:   sweep.Units,
			Mode:    api.ModeSweep,
			Vars:    vars,
		})
		if err != nil {
			ctx.Log.WithError(err).Warnf("sweep aborted at iteration %d", i)
			return nil, errors.WithMessagef(err, "sweep iteration %d", i)
		}

		iteration := api.SweepIteration{
			Iteration:   i,
			Params:      params,
			Expectation: expectation,
		}
		ctx.Log.WithField("params", params).Infof("sweep iteration %d: expectation %v", i, expectation)
		objective.Observe(iteration)
		result.Iterations = append(result.Iterations, iteration)
		c.metrics.RecordSweepIteration()
	}

	result.Objective = objective.Result()
	return result, nil
}
