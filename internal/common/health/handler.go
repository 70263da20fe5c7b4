package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Response is written when a check fails.
type Response struct {
	Error string `json:"error"`
}

// Handler reports 204 when checker passes and 503 with the failure otherwise.
func Handler(checker Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checker.Check(); err != nil {
			log.Warnf("Health check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, Response{Error: err.Error()})
			return
		}
		log.Debug("Health check passed")
		c.Status(http.StatusNoContent)
	}
}
