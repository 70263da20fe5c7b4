// Package server exposes the job pipeline over http.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/qpp/internal/common/health"
	"github.com/armadaproject/qpp/internal/common/qppcontext"
	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/internal/qpp/archive"
	"github.com/armadaproject/qpp/internal/qpp/coordinator"
	"github.com/armadaproject/qpp/internal/qpp/sweep"
	"github.com/armadaproject/qpp/pkg/api"
)

type Executor interface {
	Execute(ctx *qppcontext.Context, job coordinator.Job) (*coordinator.Outcome, error)
}

type Sweeper interface {
	Run(ctx *qppcontext.Context, sweep sweep.Sweep) (*api.SweepResult, error)
}

type Archive interface {
	Read(pos uint) (api.BitVector, error)
	Status() archive.Status
	Resize(qubits, capacity *uint) error
}

type Ledger interface {
	Snapshot() (idle, capacity uint)
	Resize(n uint)
}

type Server struct {
	executor          Executor
	sweeper           Sweeper
	archive           Archive
	ledger            Ledger
	health            health.Checker
	defaultIterations uint
}

func New(executor Executor, sweeper Sweeper, archive Archive, ledger Ledger, checker health.Checker, defaultIterations uint) *Server {
	return &Server{
		executor:          executor,
		sweeper:           sweeper,
		archive:           archive,
		ledger:            ledger,
		health:            checker,
		defaultIterations: defaultIterations,
	}
}

// Router returns the gin engine serving every endpoint.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.POST("/submit", s.submit)
	router.GET("/archive", s.archiveStatus)
	router.GET("/archive/:pos", s.readArchive)
	router.GET("/health", health.Handler(s.health))

	admin := router.Group("/admin")
	{
		admin.POST("/archive", s.resizeArchive)
		admin.GET("/ledger", s.ledgerStatus)
		admin.POST("/ledger", s.resizeLedger)
	}
	return router
}

// requestContext attaches a logger carrying request details to the request context.
func requestContext(c *gin.Context) *qppcontext.Context {
	return qppcontext.New(c.Request.Context(), log.WithFields(log.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"remote": c.ClientIP(),
	}))
}

// respondError writes err in the standard response envelope. Internal errors are logged in full and shown to
// the caller as a generic message.
func respondError(c *gin.Context, ctx *qppcontext.Context, err error) {
	status := qpperrors.HttpStatusFromError(err)
	if status == http.StatusInternalServerError {
		ctx.Log.Errorf("request failed: %+v", err)
	} else {
		ctx.Log.WithError(err).Debug("request rejected")
	}
	c.JSON(status, api.SubmitResponse{Error: qpperrors.ClientMessage(err)})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("handled request")
	}
}
