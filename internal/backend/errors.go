package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnauthorized = errors.New("unauthorized")

const maxErrorSnippet = 100

// APIError is a non-2xx answer from the fitness backend, or a body the client
// could not decode.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is makes a 401 match ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// serverError wraps a body that is not JSON, keeping only its beginning.
func serverError(statusCode int, body []byte) *APIError {
	snippet := []rune(string(body))
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet]
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("Server Error: %s", string(snippet)),
	}
}

func decodeError(statusCode int, body []byte) *APIError {
	if strings.TrimSpace(string(body)) == "" {
		return &APIError{
			StatusCode: statusCode,
			Message:    http.StatusText(statusCode),
		}
	}

	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return serverError(statusCode, body)
	}
	if errResp.Message == "" {
		errResp.Message = http.StatusText(statusCode)
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    errResp.Message,
	}
}

// HTTPStatus maps a backend failure onto the status a BFF handler should
// answer with. Server side failures of the backend become 502. ok is false
// when err does not come from the backend.
func HTTPStatus(err error) (status int, message string, ok bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return 0, "", false
	}
	if apiErr.StatusCode >= 500 {
		return http.StatusBadGateway, apiErr.Message, true
	}
	return apiErr.StatusCode, apiErr.Message, true
}
