package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/evalpanel/internal/application"
	"github.com/ericfisherdev/evalpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// RowResponse is the JSON representation of one roster row.
type RowResponse struct {
	ID           int64  `json:"id"`
	StudentName  string `json:"student_name"`
	Observations string `json:"observations"`
	Draft        string `json:"draft"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// StatusResponse is the JSON representation of the settings flow state.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// KeyResponse is the JSON representation of the stored credential state.
// Key carries the decoded plaintext so the dialog can populate its input;
// the API binds to loopback and the value never leaves the machine.
type KeyResponse struct {
	Configured bool   `json:"configured"`
	Key        string `json:"key"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// KeyRequest is the JSON body for the test and save endpoints.
type KeyRequest struct {
	Key string `json:"key"`
}

// ToneResponse is the JSON representation of the tone preference.
type ToneResponse struct {
	Tone string `json:"tone"`
}

// ToneRequest is the JSON body for the set-tone endpoint.
type ToneRequest struct {
	Tone string `json:"tone"`
}

// AddRowsRequest is the JSON body for the add-rows endpoint.
type AddRowsRequest struct {
	Count int `json:"count"`
}

// UpdateRowRequest is the JSON body for the update-row endpoint.
type UpdateRowRequest struct {
	StudentName  string `json:"student_name"`
	Observations string `json:"observations"`
	Draft        string `json:"draft"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toRowResponse converts a domain EvaluationRow to its JSON representation.
func toRowResponse(row model.EvaluationRow) RowResponse {
	return RowResponse{
		ID:           row.ID,
		StudentName:  row.StudentName,
		Observations: row.Observations,
		Draft:        row.Draft,
		CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    row.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toRowResponses converts a slice of rows, always yielding a non-nil slice.
func toRowResponses(rows []model.EvaluationRow) []RowResponse {
	resp := make([]RowResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, toRowResponse(row))
	}
	return resp
}

// toStatusResponse converts a settings snapshot to its JSON representation.
func toStatusResponse(snap application.StatusSnapshot) StatusResponse {
	return StatusResponse{
		Status:  string(snap.Status),
		Message: snap.Message,
	}
}
