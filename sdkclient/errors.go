/*
Copyright 2025 The Cordinate Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sdkclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/codesordinatestudio/sdk-go/json"
	"github.com/codesordinatestudio/sdk-go/sdkclient/oapi"
)

const (
	abortedMessage  = "Request aborted"
	fallbackMessage = "Request failed"
)

// APIError is a failure reported by the API itself: a non-2xx response whose
// body carried a structured {"error": {"message": ...}} payload. Message is
// empty when the body had no recognizable shape.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status that produced the error.
func (e *APIError) StatusCode() int {
	return e.Status
}

// statusCarrier is implemented by errors that know which HTTP status
// produced them.
type statusCarrier interface {
	StatusCode() int
}

// isAborted reports whether err is the cancellation of the per-call
// controller (manual abort or timeout) rather than a genuine failure.
func isAborted(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "aborted")
}

// failureMessage resolves the surfaced message in priority order: the
// structured API message, then the error's own message, then a fixed
// fallback. A structured error with no message is an unknown shape and gets
// the fallback rather than its synthetic Error() text.
func failureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallbackMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}

// failureStatus extracts the HTTP status carried by err, or nil when the
// failure never reached a response.
func failureStatus(err error) *int {
	var sc statusCarrier
	if errors.As(err, &sc) {
		if s := sc.StatusCode(); s != 0 {
			return &s
		}
	}
	return nil
}

// readErrorResponse turns a non-2xx response into an *APIError. The body is
// consumed in full; an unparseable or differently-shaped body leaves Message
// empty so classification falls through to the generic failure message.
func readErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading http response: %w", err)
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var payload oapi.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Error.Message
	}
	return apiErr
}
