package api_error

import "net/http"

// Body is the JSON every failed request answers with
type Body struct {
	Code         string `json:"code"`
	Msg          string `json:"msg"`
	ErrorDetails string `json:"error_details"`
	// Retryable tells the client the same request may succeed later, e.g. when the queue is down
	Retryable bool `json:"retryable"`
}

func NewBody(statusCode int, code string, userMessage string, details string) Body {
	return Body{
		Code:         code,
		Msg:          userMessage,
		ErrorDetails: details,
		Retryable:    statusCode == http.StatusServiceUnavailable,
	}
}
