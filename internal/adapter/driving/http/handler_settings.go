package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/evalpanel/internal/application"
	"github.com/ericfisherdev/evalpanel/internal/domain/model"
	"github.com/ericfisherdev/evalpanel/internal/domain/port/driven"
)

// GetKey returns the stored credential (decoded) so the settings dialog can
// populate its input on open, plus the current flow state. A malformed
// stored record is reported as not-configured rather than failing the dialog.
func (h *Handler) GetKey(w http.ResponseWriter, r *http.Request) {
	snap := h.settings.Status()

	key, err := h.settings.Load(r.Context())
	if err != nil {
		if !errors.Is(err, driven.ErrCredentialMalformed) {
			h.logger.Error("failed to load credential", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		key = ""
	}

	writeJSON(w, http.StatusOK, KeyResponse{
		Configured: key != "",
		Key:        key,
		Status:     string(snap.Status),
		Message:    snap.Message,
	})
}

// TestKey runs the connectivity probe with the candidate key. Returns 409
// when a probe is already in flight.
func (h *Handler) TestKey(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.settings.Test(r.Context(), req.Key)
	if errors.Is(err, application.ErrTestInFlight) {
		writeError(w, http.StatusConflict, "a connectivity test is already running")
		return
	}
	if err != nil {
		h.logger.Error("connectivity test errored", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(snap))
}

// SaveKey persists and activates the credential.
func (h *Handler) SaveKey(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.settings.Save(r.Context(), req.Key)
	if err != nil {
		h.logger.Error("failed to save credential", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save the API key")
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(snap))
}

// ResetKey returns the settings flow to idle. The dialog calls this whenever
// the key input changes.
func (h *Handler) ResetKey(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStatusResponse(h.settings.Reset()))
}

// GetTone returns the stored tone preference.
func (h *Handler) GetTone(w http.ResponseWriter, r *http.Request) {
	tone, err := h.roster.Tone(r.Context())
	if err != nil {
		h.logger.Error("failed to load tone", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ToneResponse{Tone: string(tone)})
}

// SetTone stores the tone preference.
func (h *Handler) SetTone(w http.ResponseWriter, r *http.Request) {
	var req ToneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tone, err := model.ParseTone(req.Tone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "tone must be \"descriptive\" or \"formal\"")
		return
	}

	if err := h.roster.SetTone(r.Context(), tone); err != nil {
		h.logger.Error("failed to store tone", "tone", tone, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ToneResponse{Tone: string(tone)})
}
