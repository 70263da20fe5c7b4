package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/internal/qpp/compute"
	"github.com/armadaproject/qpp/internal/qpp/coordinator"
	"github.com/armadaproject/qpp/internal/qpp/sweep"
	"github.com/armadaproject/qpp/pkg/api"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// bindBody decodes a urlencoded form or a json body into obj, depending on the request content type.
func bindBody(c *gin.Context, obj interface{}) error {
	var b binding.Binding
	switch ct := c.ContentType(); ct {
	case contentTypeForm:
		b = binding.Form
	case contentTypeJSON:
		b = binding.JSON
	default:
		return &qpperrors.ErrUnsupportedContentType{ContentType: ct}
	}
	if err := c.ShouldBindWith(obj, b); err != nil {
		return errors.WithStack(&qpperrors.ErrInvalidArgument{Name: "request", Value: "", Message: err.Error()})
	}
	return nil
}

func (s *Server) submit(c *gin.Context) {
	ctx := requestContext(c)

	var req api.SubmitRequest
	if err := bindBody(c, &req); err != nil {
		respondError(c, ctx, err)
		return
	}
	// Form bodies bind the raw mode string; json bodies have already been checked by Mode.UnmarshalJSON.
	mode, err := api.ParseMode(string(req.Mode))
	if err != nil {
		respondError(c, ctx, &qpperrors.ErrInvalidArgument{Name: "mode", Value: req.Mode, Message: err.Error()})
		return
	}
	vars, err := compute.ParseVars(req.Vars)
	if err != nil {
		respondError(c, ctx, err)
		return
	}

	if mode == api.ModeSweep {
		s.submitSweep(c, req, vars)
		return
	}

	outcome, err := s.executor.Execute(ctx, coordinator.Job{
		Program: req.Qasm,
		Shots:   req.Shots,
		Units:   req.Qubits,
		Mode:    mode,
		Vars:    vars,
	})
	if err != nil {
		respondError(c, ctx, err)
		return
	}
	c.JSON(http.StatusOK, api.SubmitResponse{
		Result:       outcome.Result,
		InitPosition: &outcome.InitPosition,
	})
}

func (s *Server) submitSweep(c *gin.Context, req api.SubmitRequest, vars map[string]float64) {
	ctx := requestContext(c)

	ranges, err := sweep.ParseRanges(req.VarsRange)
	if err != nil {
		respondError(c, ctx, err)
		return
	}
	iterations := s.defaultIterations
	if req.Iterations != nil {
		iterations = *req.Iterations
	}

	result, err := s.sweeper.Run(ctx, sweep.Sweep{
		Program:    req.Qasm,
		Ranges:     ranges,
		Iterations: iterations,
		Shots:      req.Shots,
		Units:      req.Qubits,
		Vars:       vars,
	})
	if err != nil {
		respondError(c, ctx, err)
		return
	}
	c.JSON(http.StatusOK, api.SubmitResponse{Result: result})
}
