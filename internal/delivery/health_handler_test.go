package delivery

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()

	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	r := gin.New()
	NewHealthHandler(map[string]HealthCheck{"postgres": up, "redis": up}, logger).RegisterRoutes(r)
	w := do(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"up","checks":{"postgres":"up","redis":"up"}}`, w.Body.String())

	r = gin.New()
	NewHealthHandler(map[string]HealthCheck{"postgres": up, "redis": down}, logger).RegisterRoutes(r)
	w = do(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"down","checks":{"postgres":"up","redis":"down"}}`, w.Body.String())
}
