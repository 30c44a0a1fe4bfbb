// Package response defines the uniform envelope every API reply is wrapped
// in, success and failure alike.
package response

import "github.com/labstack/echo/v4"

type Envelope struct {
	StatusCode int    `json:"statusCode"`
	IsSuccess  bool   `json:"isSuccess"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

// OK writes a success envelope with the given payload and message.
func OK(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, Envelope{
		StatusCode: code,
		IsSuccess:  true,
		Data:       data,
		Message:    message,
	})
}

// Fail builds a failure envelope; data is always null on failure.
func Fail(code int, message string) Envelope {
	return Envelope{StatusCode: code, IsSuccess: false, Message: message}
}
