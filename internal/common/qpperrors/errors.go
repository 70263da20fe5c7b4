// Package qpperrors contains the errors returned by the job pipeline. The HTTP layer looks for the error types
// defined in this file to decide the status code and the message shown to the caller.
//
// If multiple errors occur in some function (e.g., several malformed variable ranges), that function should
// return an error of type multierror.Error from package github.com/hashicorp/go-multierror that encapsulates
// those individual errors.
package qpperrors

import (
	"fmt"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// InternalErrorMessage is the only message shown to callers for errors that indicate a fault in the service.
const InternalErrorMessage = "Internal server error"

// ErrAdmissionDenied is returned when a job asks for more resource units than are currently idle.
type ErrAdmissionDenied struct {
	Requested uint
	Idle      uint
}

func (err *ErrAdmissionDenied) Error() string {
	return fmt.Sprintf("not enough qubits: requested %d, %d idle", err.Requested, err.Idle)
}

// ErrSimulationFailure wraps the message returned by the simulator. The message is surfaced verbatim.
type ErrSimulationFailure struct {
	Message string
}

func (err *ErrSimulationFailure) Error() string {
	return err.Message
}

// ErrInternalHandoff is returned when the compute side of a job went away without delivering a result.
type ErrInternalHandoff struct {
	JobId   string
	Message string
}

func (err *ErrInternalHandoff) Error() string {
	s := fmt.Sprintf("job %s: compute stage terminated without delivering a result", err.JobId)
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	return s
}

// ErrInvalidArgument is a generic error to be returned on invalid argument.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the field referred to, e.g., "vars_range"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message to include with the error message, e.g., explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %q is invalid for field %q", fmt.Sprint(err.Value), err.Name)
	} else {
		return fmt.Sprintf("value %q is invalid for field %q; %s", fmt.Sprint(err.Value), err.Name, err.Message)
	}
}

// ErrOutOfRange is returned when an index falls outside of [0, Limit).
type ErrOutOfRange struct {
	Name  string
	Value uint
	Limit uint
}

func (err *ErrOutOfRange) Error() string {
	return fmt.Sprintf("%s %d out of range [0, %d)", err.Name, err.Value, err.Limit)
}

// ErrUnsupportedContentType is returned for a request body that is neither a urlencoded form nor json.
type ErrUnsupportedContentType struct {
	ContentType string
}

func (err *ErrUnsupportedContentType) Error() string {
	if err.ContentType == "" {
		return "content type not specified"
	}
	return fmt.Sprintf("content type %q not supported", err.ContentType)
}

// ErrPersistence is returned when durable state could not be written or read.
type ErrPersistence struct {
	Op    string
	Cause error
}

func (err *ErrPersistence) Error() string {
	return fmt.Sprintf("%s failed: %v", err.Op, err.Cause)
}

func (err *ErrPersistence) Unwrap() error {
	return err.Cause
}

// HttpStatusFromError maps error types to http status codes.
// Uses errors.As to look through the chain of errors, as opposed to just considering the topmost error in the chain.
func HttpStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	// errors.As descends into multierror members, so an aggregate is classified by every member.
	{
		var e *multierror.Error
		if errors.As(err, &e) && len(e.Errors) > 0 {
			for _, inner := range e.Errors {
				if HttpStatusFromError(inner) != http.StatusBadRequest {
					return http.StatusInternalServerError
				}
			}
			return http.StatusBadRequest
		}
	}
	{
		var e *ErrAdmissionDenied
		if errors.As(err, &e) {
			return http.StatusBadRequest
		}
	}
	{
		var e *ErrSimulationFailure
		if errors.As(err, &e) {
			return http.StatusBadRequest
		}
	}
	{
		var e *ErrInvalidArgument
		if errors.As(err, &e) {
			return http.StatusBadRequest
		}
	}
	{
		var e *ErrOutOfRange
		if errors.As(err, &e) {
			return http.StatusBadRequest
		}
	}
	{
		var e *ErrUnsupportedContentType
		if errors.As(err, &e) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the message that may be shown to the caller for err.
// Client errors are reported by their cause; everything else collapses to InternalErrorMessage.
func ClientMessage(err error) string {
	if err == nil {
		return ""
	}
	if HttpStatusFromError(err) == http.StatusInternalServerError {
		return InternalErrorMessage
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Error()
	}
	return errors.Cause(err).Error()
}
