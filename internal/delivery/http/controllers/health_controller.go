package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"conferenceplanner/internal/delivery/http/helpers"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthStatus is the data of a successful health check.
type HealthStatus struct {
	Status string `json:"status"`
}

// HealthSuccessResponse is the success envelope for GET /healthz.
type HealthSuccessResponse struct {
	Data  *HealthStatus     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type HealthController struct {
	Logger *slog.Logger
	DB     Pinger
}

func NewHealthController(logger *slog.Logger, db Pinger) *HealthController {
	return &HealthController{Logger: logger, DB: db}
}

// Health godoc
// @Summary Health check
// @Description Reports whether the server can reach its database.
// @Tags ops
// @Produce json
// @Success 200 {object} controllers.HealthSuccessResponse
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		c.Logger.ErrorContext(r.Context(), "health check failed", "err", err)
		helpers.WriteJSONError(w, r, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "database unreachable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &HealthStatus{Status: "ok"})
}
