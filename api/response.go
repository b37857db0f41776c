package api

import (
	"encoding/json"
	"net/http"
)

// Error is a generic error structure that is used to send error responses to the client.
type Error struct {
	Code    string      `json:"code,required"`
	Message string      `json:"message,required"`
	Data    interface{} `json:"data,omitempty"`
}

// Response is a generic response structure that is used to send responses to the client.
type Response struct {
	Status string      `json:"status,required"`
	Data   interface{} `json:"data,omitempty"`
	Error  *Error      `json:"error,omitempty"`
}

// NewResponse creates a new empty response.
func NewResponse() *Response {
	return &Response{}
}

// Error message
func (e *Error) Error() string {
	return e.Message
}

// SetData sets data to response.
func (rsp *Response) SetData(data interface{}) *Response {
	rsp.Data = data
	rsp.Error = nil
	return rsp
}

// SetError sets error to response.
func (rsp *Response) SetError(code string, message string, data ...interface{}) *Response {
	rsp.Data = nil
	rsp.Error = &Error{
		Code:    code,
		Message: message,
	}
	if len(data) == 1 {
		rsp.Error.Data = data[0]
	} else if len(data) > 1 {
		rsp.Error.Data = data
	}
	return rsp
}

// Ok sends a success response to the client.
func (rsp *Response) Ok(w http.ResponseWriter) {
	rsp.send(w, http.StatusOK, "ok", nil)
}

// BadRequest sends an error response to the client.
func (rsp *Response) BadRequest(w http.ResponseWriter) {
	rsp.send(w, http.StatusBadRequest, "error", &Error{Code: "bad_request", Message: "Bad request"})
}

// NotFound sends an error response to the client.
func (rsp *Response) NotFound(w http.ResponseWriter) {
	rsp.send(w, http.StatusNotFound, "error", &Error{Code: "not_found", Message: "Not found"})
}

// Unauthorized sends an error response to the client.
func (rsp *Response) Unauthorized(w http.ResponseWriter) {
	rsp.send(w, http.StatusUnauthorized, "error", &Error{Code: "unauthorized", Message: "Unauthorized"})
}

// InternalServerError sends an error response to the client.
func (rsp *Response) InternalServerError(w http.ResponseWriter) {
	rsp.send(w, http.StatusInternalServerError, "error", &Error{Code: "internal_server_error", Message: "Internal server error"})
}

func (rsp *Response) send(w http.ResponseWriter, statusCode int, status string, fallback *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	rsp.Status = status
	if status == "error" && rsp.Error == nil {
		rsp.Error = fallback
	}
	_ = json.NewEncoder(w).Encode(rsp)
}
