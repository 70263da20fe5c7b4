package api

import (
	"github.com/pkg/errors"
)

// Mode selects how the outcomes of a job are summarised.
type Mode string

const (
	ModeSequence    Mode = "sequence"
	ModeAggregation Mode = "aggregation"
	ModeMax         Mode = "max"
	ModeMin         Mode = "min"
	ModeExpectation Mode = "expectation"
	ModeSweep       Mode = "sweep"
)

// DefaultMode is used when a request does not name a mode.
const DefaultMode = ModeAggregation

var validModes = map[Mode]bool{
	ModeSequence:    true,
	ModeAggregation: true,
	ModeMax:         true,
	ModeMin:         true,
	ModeExpectation: true,
	ModeSweep:       true,
}

// ParseMode returns the Mode named by s. The empty string maps to DefaultMode.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return DefaultMode, nil
	}
	m := Mode(s)
	if !validModes[m] {
		return "", errors.Errorf("invalid mode %q", s)
	}
	return m, nil
}

// SampleBased reports whether the mode runs the program shot by shot and reduces the measured bit-strings.
func (m Mode) SampleBased() bool {
	return validModes[m] && m != ModeSweep
}

func (m Mode) String() string {
	return string(m)
}
