package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
)

// ExecSimulator runs an external simulator process once per call. The request is written to the process's stdin as
//
//	{"qasm": "...", "shots": 100, "mode": "sequence" | "expectation"}
//
// and the process must print one of
//
//	{"sequences": ["01", ...]}
//	{"expectation": [0.5, ...]}
//	{"error": "..."}
//
// on stdout. A non-zero exit status is treated as a simulation failure carrying stderr.
type ExecSimulator struct {
	Command string
	Args    []string
}

type execRequest struct {
	Qasm  string `json:"qasm"`
	Shots uint   `json:"shots"`
	Mode  string `json:"mode"`
}

type execResponse struct {
	Sequences   []string  `json:"sequences"`
	Expectation []float64 `json:"expectation"`
	Error       string    `json:"error"`
}

func NewExecSimulator(command string, args ...string) *ExecSimulator {
	return &ExecSimulator{
		Command: command,
		Args:    args,
	}
}

func (s *ExecSimulator) Sample(ctx context.Context, program string, shots uint) ([]string, error) {
	response, err := s.invoke(ctx, execRequest{Qasm: program, Shots: shots, Mode: "sequence"})
	if err != nil {
		return nil, err
	}
	if response.Sequences == nil {
		return nil, &qpperrors.ErrSimulationFailure{Message: "simulator returned no sequences"}
	}
	return response.Sequences, nil
}

func (s *ExecSimulator) Expectation(ctx context.Context, program string, shots uint) ([]float64, error) {
	response, err := s.invoke(ctx, execRequest{Qasm: program, Shots: shots, Mode: "expectation"})
	if err != nil {
		return nil, err
	}
	if response.Expectation == nil {
		return nil, &qpperrors.ErrSimulationFailure{Message: "simulator returned no expectation"}
	}
	return response.Expectation, nil
}

func (s *ExecSimulator) invoke(ctx context.Context, request execRequest) (*execResponse, error) {
	input, err := json.Marshal(request)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	response := &execResponse{}
	decodeErr := json.Unmarshal(stdout.Bytes(), response)
	if decodeErr == nil && response.Error != "" {
		return nil, &qpperrors.ErrSimulationFailure{Message: response.Error}
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			message := strings.TrimSpace(stderr.String())
			if message == "" {
				message = fmt.Sprintf("simulator exited with status %d", exitErr.ExitCode())
			}
			return nil, &qpperrors.ErrSimulationFailure{Message: message}
		}
		// The process could not be started at all.
		return nil, errors.Wrapf(runErr, "running simulator %s", s.Command)
	}
	if decodeErr != nil {
		return nil, &qpperrors.ErrSimulationFailure{Message: fmt.Sprintf("malformed simulator output: %s", decodeErr)}
	}
	return response, nil
}
