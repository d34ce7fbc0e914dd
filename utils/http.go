package utils

import (
	"encoding/json"
	"net/http"
)

// Standard envelope messages, keyed by status.
const (
	MessageBadRequest       = "bad request"
	MessageNotFound         = "resource not found"
	MessageMethodNotAllowed = "method not allowed"
	MessageUnprocessable    = "unprocessable"
	MessageInternalError    = "internal server error"
)

// ErrorResponse is the error envelope shared by every endpoint
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response of fields plus "success": true
func WriteSuccess(w http.ResponseWriter, fields map[string]interface{}) error {
	body := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	return WriteJSON(w, http.StatusOK, body)
}

// WriteError writes the error envelope. An empty message falls back to the
// standard message for status.
func WriteError(w http.ResponseWriter, status int, message string) error {
	if message == "" {
		message = StatusMessage(status)
	}
	return WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

// WriteBadRequest writes a 400 envelope
func WriteBadRequest(w http.ResponseWriter) error {
	return WriteError(w, http.StatusBadRequest, MessageBadRequest)
}

// WriteNotFound writes a 404 envelope
func WriteNotFound(w http.ResponseWriter) error {
	return WriteError(w, http.StatusNotFound, MessageNotFound)
}

// WriteMethodNotAllowed writes a 405 envelope
func WriteMethodNotAllowed(w http.ResponseWriter) error {
	return WriteError(w, http.StatusMethodNotAllowed, MessageMethodNotAllowed)
}

// WriteUnprocessable writes a 422 envelope
func WriteUnprocessable(w http.ResponseWriter) error {
	return WriteError(w, http.StatusUnprocessableEntity, MessageUnprocessable)
}

// WriteInternalServerError writes a 500 envelope
func WriteInternalServerError(w http.ResponseWriter) error {
	return WriteError(w, http.StatusInternalServerError, MessageInternalError)
}

// StatusMessage returns the envelope message used for status
func StatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MessageBadRequest
	case http.StatusNotFound:
		return MessageNotFound
	case http.StatusMethodNotAllowed:
		return MessageMethodNotAllowed
	case http.StatusUnprocessableEntity:
		return MessageUnprocessable
	case http.StatusInternalServerError:
		return MessageInternalError
	default:
		return http.StatusText(status)
	}
}
