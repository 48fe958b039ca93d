package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"ratingsvc/internal/rating/models"
	dErrors "ratingsvc/pkg/domain-errors"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a domain error to its HTTP status and a structured body.
// Unrecognized errors surface as opaque internal errors so store and broker
// details never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var dErr *dErrors.Error
	if !errors.As(err, &dErr) {
		dErr = dErrors.New(dErrors.CodeInternal, "internal server error")
	}

	body := models.ErrorResponse{
		Error:   string(dErr.Code),
		Message: dErr.Message,
		Details: dErr.Details,
	}
	if dErr.Code == dErrors.CodeInternal {
		body.Message = "internal server error"
		body.Details = nil
	}
	writeJSON(w, dErrors.ToHTTPStatus(dErr.Code), body)
}
