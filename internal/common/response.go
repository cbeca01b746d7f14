package common

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"baseline_academy/internal/platform/logging"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Message: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "Internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithServiceError writes the status and public message for err.
// Internal failures are logged with full detail and reported generically.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		logging.LogError(logger, "request failed", err,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	} else {
		logger.DebugContext(r.Context(), "request rejected",
			slog.Int("status", status),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	RespondWithError(w, status, MessageFromError(err))
}

// DecodeJSON reads a JSON request body into out.
func DecodeJSON(r *http.Request, out interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return NewError(ErrBadRequest, "Invalid request payload")
	}
	return nil
}
