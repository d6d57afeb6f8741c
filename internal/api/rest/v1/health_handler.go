package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck reports whether a dependency can serve requests
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes
type HealthHandler interface {
	Liveness(ctx *gin.Context)
	Readiness(ctx *gin.Context)
}

type healthHandler struct {
	checks  map[string]ReadinessCheck
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler running checks on every readiness probe
func NewHealthHandler(checks map[string]ReadinessCheck) HealthHandler {
	return &healthHandler{checks: checks, timeout: 2 * time.Second}
}

// Liveness reports that the process is serving requests
func (handler *healthHandler) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness runs every registered check and reports 503 when any fails
func (handler *healthHandler) Readiness(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), handler.timeout)
	defer cancel()

	response := HealthResponse{Status: "ok", Checks: make(map[string]string, len(handler.checks))}
	status := http.StatusOK
	for name, check := range handler.checks {
		if err := check(checkCtx); err != nil {
			response.Checks[name] = err.Error()
			response.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}

	ctx.JSON(status, response)
}
