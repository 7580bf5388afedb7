// Package httphandler implements the HTTP driving adapter serving the REST API.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/evalpanel/internal/application"
)

// Handler is the HTTP driving adapter that serves the REST API consumed by
// the browser GUI.
type Handler struct {
	settings *application.SettingsService
	roster   *application.RosterService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	settings *application.SettingsService,
	roster *application.RosterService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		settings: settings,
		roster:   roster,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers all REST API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("GET /api/v1/settings/key", h.GetKey)
	mux.HandleFunc("POST /api/v1/settings/key/test", h.TestKey)
	mux.HandleFunc("PUT /api/v1/settings/key", h.SaveKey)
	mux.HandleFunc("POST /api/v1/settings/key/reset", h.ResetKey)
	mux.HandleFunc("GET /api/v1/settings/tone", h.GetTone)
	mux.HandleFunc("PUT /api/v1/settings/tone", h.SetTone)

	mux.HandleFunc("GET /api/v1/rows", h.ListRows)
	mux.HandleFunc("POST /api/v1/rows", h.AddRows)
	mux.HandleFunc("PUT /api/v1/rows/{id}", h.UpdateRow)
	mux.HandleFunc("DELETE /api/v1/rows/{id}", h.DeleteRow)
	mux.HandleFunc("POST /api/v1/rows/{id}/draft", h.GenerateDraft)
	mux.HandleFunc("GET /api/v1/rows/export", h.ExportCSV)
	mux.HandleFunc("GET /api/v1/rows/template", h.TemplateCSV)
	mux.HandleFunc("POST /api/v1/rows/import", h.ImportCSV)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
