package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/desertthunder/tdq/internal/shared"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Timestamp  time.Time        `json:"timestamp"`
	StatusCode int              `json:"statusCode"`
	ShortCode  shared.ShortCode `json:"shortCode"`
	ErrMsg     string           `json:"errMsg"`
	Details    map[string]any   `json:"details"`
}

// NewErrorResponse renders err, treating anything that is not a [shared.ResponseError] as a system exception.
func NewErrorResponse(err error) ErrorResponse {
	re := shared.AsResponseError(err)
	details := re.Details
	if details == nil {
		details = map[string]any{}
	}
	return ErrorResponse{
		Timestamp:  time.Now().UTC(),
		StatusCode: re.Status,
		ShortCode:  re.Short,
		ErrMsg:     re.Message,
		Details:    details,
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorResponse] with its status.
func WriteError(w http.ResponseWriter, err error) {
	body := NewErrorResponse(err)
	WriteJSON(w, body.StatusCode, body)
}
