package sandbox

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sangkips/template-submitter/internal/handlers"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Timestamp time.Time        `json:"timestamp"`
}

// Check represents a single health check
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health reports whether the submission store is available
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"store": h.checkStore(),
	}

	status := "healthy"
	statusCode := http.StatusOK
	if checks["store"].Status != "healthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	handlers.RespondWithJSON(w, statusCode, HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now(),
	})
}

func (h *Handler) checkStore() Check {
	if h.store == nil {
		return Check{
			Status:  "unhealthy",
			Message: "submission store is nil",
		}
	}

	return Check{
		Status:  "healthy",
		Message: fmt.Sprintf("%d templates received", h.store.Count()),
	}
}
