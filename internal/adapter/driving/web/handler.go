// Package web implements the browser GUI driving adapter: it serves the
// embedded single-page frontend and the rendered help panel content.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// helpPanels maps panel names from the toolbar toggles to their embedded
// markdown sources.
var helpPanels = map[string]string{
	"prompt":    "help/prompt.md",
	"reference": "help/reference.md",
	"usage":     "help/usage.md",
}

// Handler is the web GUI driving adapter.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Index serves the embedded single-page GUI.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, StaticFS, "static/index.html")
}

// HelpPanelResponse is the JSON body for a rendered help panel.
type HelpPanelResponse struct {
	Panel string `json:"panel"`
	HTML  string `json:"html"`
}

// HelpPanel renders one of the help panels (prompt, reference, usage) from
// its embedded markdown source to sanitized HTML.
func (h *Handler) HelpPanel(w http.ResponseWriter, r *http.Request) {
	panel := r.PathValue("panel")

	path, ok := helpPanels[panel]
	if !ok {
		http.Error(w, "unknown help panel", http.StatusNotFound)
		return
	}

	src, err := helpFS.ReadFile(path)
	if err != nil {
		h.logger.Error("failed to read help panel source", "panel", panel, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(HelpPanelResponse{
		Panel: panel,
		HTML:  RenderMarkdown(string(src)),
	})
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
}
