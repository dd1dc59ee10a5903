package server

import (
	"encoding/json"
	"net/http"
)

// apiResponse is the JSON envelope shared by every endpoint.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(response)
}

// respondSuccess sends {success: true} with optional message and data.
func (s *Server) respondSuccess(w http.ResponseWriter, message string, data interface{}) {
	s.respondJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError sends {success: false, error: message}. Error strings are
// meant for direct display; there are no structured codes.
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, apiResponse{
		Success: false,
		Error:   message,
	})
}

// serverError logs the underlying failure and answers with its message.
func (s *Server) serverError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "error", err)
	s.respondError(w, http.StatusInternalServerError, err.Error())
}
