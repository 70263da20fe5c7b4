package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStartupCompleteChecker(t *testing.T) {
	checker := NewStartupCompleteChecker()
	assert.Error(t, checker.Check())
	checker.MarkComplete()
	assert.NoError(t, checker.Check())
}

func TestMultiChecker(t *testing.T) {
	mc := NewMultiChecker()
	assert.NoError(t, mc.Check())

	mc.Add(CheckerFunc(func() error { return nil }))
	assert.NoError(t, mc.Check())

	mc.Add(CheckerFunc(func() error { return errors.New("store unreachable") }))
	mc.Add(CheckerFunc(func() error { return errors.New("startup is not complete") }))
	err := mc.Check()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store unreachable")
	assert.Contains(t, err.Error(), "startup is not complete")
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var failure error
	router := gin.New()
	router.GET("/health", Handler(CheckerFunc(func() error { return failure })))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	failure = errors.New("not ready")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error": "not ready"}`, w.Body.String())
}
