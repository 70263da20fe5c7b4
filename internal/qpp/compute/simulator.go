package compute

import (
	"context"
)

// Simulator is the circuit simulator used by the compute stage. Its algorithm is opaque to the service.
type Simulator interface {
	// Sample runs program shots times and returns one measured bit-string per shot.
	Sample(ctx context.Context, program string, shots uint) ([]string, error)
	// Expectation runs program once and returns one Z-basis expectation value per qubit.
	// A shots value of zero leaves the number of repetitions to the simulator.
	Expectation(ctx context.Context, program string, shots uint) ([]float64, error)
}

// Kind selects which of the two simulator call shapes a Task uses.
type Kind int

const (
	KindSample Kind = iota
	KindExpectation
)

func (k Kind) String() string {
	switch k {
	case KindSample:
		return "sample"
	case KindExpectation:
		return "expectation"
	default:
		return "unknown"
	}
}

// Task is one unit of work for the compute stage.
type Task struct {
	Program string
	Shots   uint
	Kind    Kind
}

// Result is what the compute stage hands back for a Task. Exactly one of Outcomes/Expectation is set when Err is nil.
type Result struct {
	Outcomes    []string
	Expectation []float64
	Err         error
}
