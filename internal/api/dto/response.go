package dto

// SuccessResponse is the envelope for every successful call.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ErrorResponse is the envelope for every failed call.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// OK wraps data in a success envelope.
func OK(data any) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

// OKWithMessage wraps data and a human readable message.
func OKWithMessage(message string, data any) SuccessResponse {
	return SuccessResponse{Success: true, Message: message, Data: data}
}

// Fail builds an error envelope.
func Fail(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}
