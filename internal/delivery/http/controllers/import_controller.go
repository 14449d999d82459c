package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"conferenceplanner/internal/delivery/http/helpers"
	"conferenceplanner/internal/domain"
)

// ImportSuccessResponse is the success envelope for POST /import/sessionize/{sessionizeID}.
type ImportSuccessResponse struct {
	Data  *domain.ImportSummary `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type ImportController struct {
	Logger *slog.Logger
	// NewImporter builds the import service on the unit of work carried by ctx.
	NewImporter func(ctx context.Context) domain.ImportService
}

func NewImportController(logger *slog.Logger, newImporter func(ctx context.Context) domain.ImportService) *ImportController {
	return &ImportController{Logger: logger, NewImporter: newImporter}
}

// ImportSessionize godoc
// @Summary Import schedule from Sessionize
// @Description Import rooms as tracks, speakers and sessions from a published Sessionize schedule. The import is committed as one unit.
// @Tags import
// @Produce json
// @Param sessionizeID path string true "Sessionize ID"
// @Success 200 {object} controllers.ImportSuccessResponse "data counts what was created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /import/sessionize/{sessionizeID} [post]
func (c *ImportController) ImportSessionize(w http.ResponseWriter, r *http.Request) {
	sessionizeID := strings.TrimSpace(r.PathValue("sessionizeID"))
	if sessionizeID == "" {
		helpers.WriteJSONError(w, r, http.StatusBadRequest, helpers.ErrCodeBadRequest, "sessionizeID is required")
		return
	}

	summary, err := c.NewImporter(r.Context()).ImportSessionize(r.Context(), sessionizeID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, r, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, r, http.StatusInternalServerError, helpers.ErrCodeInternalError, "import failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
