package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/pkg/api"
)

func (s *Server) archiveStatus(c *gin.Context) {
	status := s.archive.Status()
	c.JSON(http.StatusOK, api.ArchiveStatus{
		Qubits:     status.Qubits,
		Capacity:   status.Capacity,
		CurrentPos: status.CurrentPos,
	})
}

func (s *Server) readArchive(c *gin.Context) {
	ctx := requestContext(c)

	raw := c.Param("pos")
	pos, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		respondError(c, ctx, &qpperrors.ErrInvalidArgument{Name: "pos", Value: raw, Message: "expected a non-negative integer"})
		return
	}
	v, err := s.archive.Read(uint(pos))
	if err != nil {
		respondError(c, ctx, err)
		return
	}
	c.JSON(http.StatusOK, api.ArchiveEntry{Position: uint(pos), Result: v})
}

// resizeArchive applies whichever of qubits and capacity are present. Either one clears the archive.
func (s *Server) resizeArchive(c *gin.Context) {
	ctx := requestContext(c)

	var req api.ArchiveResizeRequest
	if err := bindBody(c, &req); err != nil {
		respondError(c, ctx, err)
		return
	}
	if err := s.archive.Resize(req.Qubits, req.Capacity); err != nil {
		respondError(c, ctx, err)
		return
	}
	ctx.Log.Infof("archive resized to %+v", s.archive.Status())
	s.archiveStatus(c)
}

func (s *Server) ledgerStatus(c *gin.Context) {
	idle, capacity := s.ledger.Snapshot()
	c.JSON(http.StatusOK, api.LedgerStatus{Idle: idle, Capacity: capacity})
}

func (s *Server) resizeLedger(c *gin.Context) {
	ctx := requestContext(c)

	var req api.LedgerResizeRequest
	if err := bindBody(c, &req); err != nil {
		respondError(c, ctx, err)
		return
	}
	s.ledger.Resize(*req.Units)
	ctx.Log.Infof("ledger resized to %d qubits", *req.Units)
	s.ledgerStatus(c)
}
