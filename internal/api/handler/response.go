package handler

// ErrorResponse is the envelope every API error is rendered as; Code
// repeats the HTTP status so clients parsing only the body see it too.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
