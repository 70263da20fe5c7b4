package compute

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/armadaproject/qpp/internal/common/oneshot"
	"github.com/armadaproject/qpp/internal/common/qppcontext"
	"github.com/armadaproject/qpp/internal/common/qpperrors"
)

// Stage runs tasks against a Simulator. It has no knowledge of the ledger or the archive.
type Stage struct {
	simulator Simulator
	// Zero disables the timeout.
	timeout time.Duration
}

func NewStage(simulator Simulator, timeout time.Duration) *Stage {
	return &Stage{
		simulator: simulator,
		timeout:   timeout,
	}
}

// Run executes task on the calling goroutine. Simulator errors are returned as *ErrSimulationFailure and are
// never retried.
func (s *Stage) Run(ctx *qppcontext.Context, task Task) Result {
	var runCtx context.Context = ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	var result Result
	switch task.Kind {
	case KindSample:
		outcomes, err := s.simulator.Sample(runCtx, task.Program, task.Shots)
		result = Result{Outcomes: outcomes, Err: err}
	case KindExpectation:
		expectation, err := s.simulator.Expectation(runCtx, task.Program, task.Shots)
		result = Result{Expectation: expectation, Err: err}
	default:
		result = Result{Err: errors.Errorf("unknown task kind %d", task.Kind)}
	}

	if result.Err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			result.Err = &qpperrors.ErrSimulationFailure{Message: fmt.Sprintf("simulation timed out after %s", s.timeout)}
		}
		result.Err = asSimulationFailure(result.Err)
	}
	ctx.Log.WithField("kind", task.Kind).WithField("shots", task.Shots).
		Debugf("compute stage finished in %s", time.Since(start))
	return result
}

// Dispatch starts task on its own goroutine and returns the receiving end of a channel dedicated to it.
// The channel carries exactly one Result, unless the goroutine dies first (e.g. the simulator panics), in which
// case the receiver observes oneshot.ErrSenderDropped.
func (s *Stage) Dispatch(ctx *qppcontext.Context, task Task) *oneshot.Receiver[Result] {
	tx, rx := oneshot.New[Result]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctx.Log.Errorf("compute stage panicked: %v", r)
			}
			if !tx.Sent() {
				ctx.Log.Warn("dropping compute result channel without a result")
				tx.Close()
			}
		}()
		if err := tx.Send(s.Run(ctx, task)); err != nil {
			ctx.Log.WithError(err).Error("could not deliver compute result")
		}
	}()
	return rx
}

func asSimulationFailure(err error) error {
	var failure *qpperrors.ErrSimulationFailure
	if errors.As(err, &failure) {
		return err
	}
	return &qpperrors.ErrSimulationFailure{Message: err.Error()}
}
