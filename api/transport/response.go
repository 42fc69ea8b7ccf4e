package transport

import "encoding/json"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports dependency probes; Error is set when degraded.
type HealthResponse struct {
	Status    string      `json:"status"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
	Services  interface{} `json:"services"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// NewError returns the error body for message.
func NewError(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e ErrorResponse) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
