// Package coordinator drives a single job through admission, compute, reduction and archiving.
package coordinator

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/armadaproject/qpp/internal/common/oneshot"
	"github.com/armadaproject/qpp/internal/common/qppcontext"
	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/internal/qpp/compute"
	"github.com/armadaproject/qpp/internal/qpp/metrics"
	"github.com/armadaproject/qpp/internal/qpp/reduce"
	"github.com/armadaproject/qpp/pkg/api"
)

type Ledger interface {
	Reserve(n uint) error
	Release(n uint)
}

type Dispatcher interface {
	Dispatch(ctx *qppcontext.Context, task compute.Task) *oneshot.Receiver[compute.Result]
}

type Archive interface {
	Append(outcomes ...string) (uint, error)
}

// Job is one submission to run.
type Job struct {
	// Id is generated if empty.
	Id      string
	Program string
	Shots   uint
	// Units is the number of qubits reserved from the ledger while the job runs.
	Units uint
	Mode  api.Mode
	// Vars are substituted into Program before it is dispatched.
	Vars map[string]float64
}

// Outcome is what a successful job returns to its caller.
type Outcome struct {
	Result interface{}
	// InitPosition is the archive write cursor before this job's outcomes were appended.
	InitPosition uint
}

type Coordinator struct {
	ledger       Ledger
	stage        Dispatcher
	archive      Archive
	metrics      *metrics.Recorder
	onTransition TransitionFunc
}

func New(ledger Ledger, stage Dispatcher, archive Archive, recorder *metrics.Recorder) *Coordinator {
	return &Coordinator{
		ledger:  ledger,
		stage:   stage,
		archive: archive,
		metrics: recorder,
	}
}

// WithTransitionHook registers f to be called on every state change.
func (c *Coordinator) WithTransitionHook(f TransitionFunc) *Coordinator {
	c.onTransition = f
	return c
}

// Execute runs a shot-based job. Qubits reserved for the job are released on every path that follows a
// successful reservation, and always before the archive is touched.
func (c *Coordinator) Execute(ctx *qppcontext.Context, job Job) (*Outcome, error) {
	if !job.Mode.SampleBased() {
		return nil, errors.WithStack(&qpperrors.ErrInvalidArgument{
			Name:    "mode",
			Value:   job.Mode,
			Message: "not a shot based mode",
		})
	}
	if job.Shots == 0 {
		job.Shots = 1
	}

	start := time.Now()
	j := c.newRun(ctx, job)
	result, err := j.compute(compute.KindSample)
	if err != nil {
		c.metrics.RecordJob(job.Mode.String(), outcomeLabel(err), time.Since(start))
		return nil, err
	}

	j.transition(Reducing)
	summary, err := reduce.Reduce(result.Outcomes, job.Mode)
	j.release()
	if err != nil {
		// Modes are validated above, so this is a programming error rather than a bad request.
		j.transition(Failed)
		err = errors.Errorf("reducing %d outcomes in mode %s: %v", len(result.Outcomes), job.Mode, err)
		j.ctx.Log.WithError(err).Error("job failed")
		c.metrics.RecordJob(job.Mode.String(), metrics.OutcomeFailed, time.Since(start))
		return nil, err
	}

	initPos, err := c.archive.Append(result.Outcomes...)
	if err != nil {
		j.transition(Failed)
		j.ctx.Log.WithError(err).Errorf("could not record %d outcomes", len(result.Outcomes))
		c.metrics.RecordJob(job.Mode.String(), metrics.OutcomeFailed, time.Since(start))
		return nil, err
	}
	j.transition(Done)
	c.metrics.RecordJob(job.Mode.String(), metrics.OutcomeSucceeded, time.Since(start))
	j.ctx.Log.WithField("initPosition", initPos).Debugf("job done in %s", time.Since(start))

	return &Outcome{Result: summary, InitPosition: initPos}, nil
}

// Evaluate runs the program once and returns its expectation vector. It passes through admission like Execute
// but never writes to the archive.
func (c *Coordinator) Evaluate(ctx *qppcontext.Context, job Job) ([]float64, error) {
	start := time.Now()
	j := c.newRun(ctx, job)
	result, err := j.compute(compute.KindExpectation)
	if err != nil {
		c.metrics.RecordJob(api.ModeSweep.String(), outcomeLabel(err), time.Since(start))
		return nil, err
	}
	j.transition(Reducing)
	j.release()
	j.transition(Done)
	c.metrics.RecordJob(api.ModeSweep.String(), metrics.OutcomeSucceeded, time.Since(start))
	return result.Expectation, nil
}

// run is the state of a single job.
type run struct {
	c        *Coordinator
	ctx      *qppcontext.Context
	job      Job
	state    State
	reserved bool
}

func (c *Coordinator) newRun(ctx *qppcontext.Context, job Job) *run {
	if job.Id == "" {
		job.Id = uuid.NewString()
	}
	ctx = qppcontext.WithLogFields(ctx, logrus.Fields{
		"jobId": job.Id,
		"mode":  job.Mode,
		"units": job.Units,
	})
	return &run{c: c, ctx: ctx, job: job, state: Admitted}
}

func (j *run) transition(to State) {
	from := j.state
	j.state = to
	j.ctx.Log.Debugf("%s -> %s", from, to)
	if j.c.onTransition != nil {
		j.c.onTransition(j.job.Id, from, to)
	}
}

func (j *run) release() {
	if !j.reserved {
		return
	}
	j.reserved = false
	j.c.ledger.Release(j.job.Units)
	if !j.state.Terminal() {
		j.transition(Released)
	}
}

// compute takes the job from Admitted through Awaiting. On error the job is in a terminal state and its
// qubits have been released; on success the caller owns the reservation and must call release.
func (j *run) compute(kind compute.Kind) (compute.Result, error) {
	if err := j.c.ledger.Reserve(j.job.Units); err != nil {
		j.transition(Rejected)
		j.c.metrics.RecordAdmissionDenied()
		j.ctx.Log.WithError(err).Info("job rejected")
		return compute.Result{}, err
	}
	j.reserved = true

	task := compute.Task{
		Program: compute.Substitute(j.job.Program, j.job.Vars),
		Shots:   j.job.Shots,
		Kind:    kind,
	}

	// The compute stage must not be abandoned by a caller that goes away while qubits are reserved.
	start := time.Now()
	rx := j.c.stage.Dispatch(qppcontext.WithoutCancel(j.ctx), task)
	j.transition(Dispatched)
	j.transition(Awaiting)

	result, err := rx.Recv()
	j.c.metrics.RecordSimulation(kind.String(), time.Since(start))
	if err != nil {
		j.transition(Failed)
		j.release()
		handoffErr := errors.WithStack(&qpperrors.ErrInternalHandoff{JobId: j.job.Id, Message: err.Error()})
		j.ctx.Log.WithError(handoffErr).Error("job failed")
		return compute.Result{}, handoffErr
	}
	if result.Err != nil {
		j.transition(Failed)
		j.release()
		j.ctx.Log.WithError(result.Err).Warn("simulation failed")
		return compute.Result{}, result.Err
	}
	return result, nil
}

func outcomeLabel(err error) string {
	var denied *qpperrors.ErrAdmissionDenied
	if errors.As(err, &denied) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeFailed
}
