package dto

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a human readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}
