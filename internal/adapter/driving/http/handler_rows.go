package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ericfisherdev/evalpanel/internal/application"
	"github.com/ericfisherdev/evalpanel/internal/domain/model"
)

// maxImportSize bounds the multipart memory buffer for CSV uploads.
const maxImportSize = 10 << 20

// ListRows returns the whole roster.
func (h *Handler) ListRows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.roster.ListRows(r.Context())
	if err != nil {
		h.logger.Error("failed to list rows", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toRowResponses(rows))
}

// AddRows appends blank rows. The count is clamped to at least 1.
func (h *Handler) AddRows(w http.ResponseWriter, r *http.Request) {
	var req AddRowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rows, err := h.roster.AddRows(r.Context(), req.Count)
	if err != nil {
		h.logger.Error("failed to add rows", "count", req.Count, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toRowResponses(rows))
}

// UpdateRow replaces the editable fields of a roster row.
func (h *Handler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row id")
		return
	}

	var req UpdateRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row := model.EvaluationRow{
		ID:           id,
		StudentName:  req.StudentName,
		Observations: req.Observations,
		Draft:        req.Draft,
	}

	if err := h.roster.UpdateRow(r.Context(), row); err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "row not found")
			return
		}
		h.logger.Error("failed to update row", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteRow removes a roster row.
func (h *Handler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row id")
		return
	}

	if err := h.roster.DeleteRow(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "row not found")
			return
		}
		h.logger.Error("failed to delete row", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateDraft produces evaluation text for one row via the language client.
func (h *Handler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row id")
		return
	}

	row, err := h.roster.GenerateDraft(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNoClient):
			writeError(w, http.StatusConflict, "no API key configured")
		case errors.Is(err, application.ErrRowNotFound):
			writeError(w, http.StatusNotFound, "row not found")
		default:
			h.logger.Error("draft generation failed", "id", id, "error", err)
			writeError(w, http.StatusBadGateway, "draft generation failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, toRowResponse(*row))
}

// ExportCSV streams the roster as a CSV attachment.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluations.csv"`)

	if err := h.roster.ExportCSV(r.Context(), w); err != nil {
		// Headers are already out; the best we can do is log.
		h.logger.Error("failed to export csv", "error", err)
	}
}

// TemplateCSV streams the import template as a CSV attachment.
func (h *Handler) TemplateCSV(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation_template.csv"`)

	if err := h.roster.TemplateCSV(w); err != nil {
		h.logger.Error("failed to write csv template", "error", err)
	}
}

// ImportCSV replaces the roster with the contents of an uploaded CSV file.
// The file-picker restricts selection to .csv; contents beyond column count
// are not validated here.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	rows, err := h.roster.ImportCSV(r.Context(), file)
	if err != nil {
		h.logger.Warn("csv import rejected", "error", err)
		writeError(w, http.StatusBadRequest, "could not parse the uploaded CSV")
		return
	}

	writeJSON(w, http.StatusOK, toRowResponses(rows))
}
