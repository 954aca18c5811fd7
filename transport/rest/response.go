package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

func statusFor(err error) int {
	switch apperror.Category(err) {
	case apperror.CategoryValidation:
		return http.StatusBadRequest
	case apperror.CategoryIllegalStateTransition:
		return http.StatusConflict
	case apperror.CategoryNotParticipant:
		return http.StatusForbidden
	case apperror.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "method", "writeJSON", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", "writeError", "error", err)
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, errorResponse{
		Error:    message,
		Category: apperror.Category(err),
	})
}

func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: malformed body: %v", apperror.ErrValidation, err)
	}

	return nil
}
