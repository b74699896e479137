package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spektr-org/aadhaar-pulse/engine"
)

// errorBody is the JSON envelope of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, status, errorBody{
		Error:     message,
		Code:      status,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// respondErr maps engine errors onto status codes.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidKey), errors.Is(err, engine.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, errUnknownTable):
		status = http.StatusNotFound
	case errors.Is(err, errBadFormat):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}
	respondError(w, r, status, err.Error())
}
