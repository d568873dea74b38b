package server

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every API response
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int,
	v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("could not encode response", "method", r.Method,
			"path", r.URL.Path, "error", err)
	}
}

func (s *Server) successResponse(w http.ResponseWriter, r *http.Request,
	msg string, data any) {
	s.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request,
	status int, msg string) {
	s.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
	})
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	s.errorResponse(w, r, http.StatusNotFound, msg)
}

func (s *Server) internalServerError(w http.ResponseWriter, r *http.Request,
	err error) {
	s.logger.Error("internal server error", "method", r.Method,
		"path", r.URL.Path, "error", err)
	s.errorResponse(w, r, http.StatusInternalServerError,
		"internal server error")
}
