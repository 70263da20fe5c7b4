package sweep

import (
	"github.com/armadaproject/qpp/pkg/api"
)

// Objective consumes the iterations of one sweep in order. It is where an optimizer plugs in.
type Objective interface {
	Observe(iteration api.SweepIteration)
	// Result is reported alongside the iterations. Nil means the objective has nothing to report.
	Result() interface{}
}

// ObjectiveFactory creates the Objective for a single sweep.
type ObjectiveFactory func() Objective

// NoopObjective observes nothing and reports nothing.
type NoopObjective struct{}

func NewNoopObjective() Objective {
	return NoopObjective{}
}

func (NoopObjective) Observe(api.SweepIteration) {}

func (NoopObjective) Result() interface{} {
	return nil
}

// Minimum is what MinimumObjective reports.
type Minimum struct {
	Iteration uint               `json:"iteration"`
	Params    map[string]float64 `json:"params"`
	Value     float64            `json:"value"`
}

// MinimumObjective tracks the iteration whose expectation vector has the lowest sum, i.e. the lowest energy of
// a Hamiltonian made of one Z term per qubit. The first iteration wins ties.
type MinimumObjective struct {
	best *Minimum
}

func NewMinimumObjective() Objective {
	return &MinimumObjective{}
}

func (o *MinimumObjective) Observe(it api.SweepIteration) {
	value := 0.0
	for _, e := range it.Expectation {
		value += e
	}
	if o.best == nil || value < o.best.Value {
		o.best = &Minimum{Iteration: it.Iteration, Params: it.Params, Value: value}
	}
}

func (o *MinimumObjective) Result() interface{} {
	if o.best == nil {
		return nil
	}
	return o.best
}

// ObjectiveByName returns the factory registered under name.
func ObjectiveByName(name string) (ObjectiveFactory, bool) {
	switch name {
	case "", "none":
		return NewNoopObjective, true
	case "minimum":
		return NewMinimumObjective, true
	default:
		return nil, false
	}
}
