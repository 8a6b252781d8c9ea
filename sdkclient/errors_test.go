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
	"testing"
)

type statusErr struct {
	status int
}

func (e *statusErr) Error() string   { return "upstream unavailable" }
func (e *statusErr) StatusCode() int { return e.status }

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func intPtr(v int) *int { return &v }

func TestFailureClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantErr     string
		wantStatus  *int
		wantHandled int
	}{
		{
			name:        "structured api error",
			err:         &APIError{Message: "User not found", Status: 404},
			wantErr:     "User not found",
			wantStatus:  intPtr(404),
			wantHandled: 1,
		},
		{
			name:        "structured error without message",
			err:         &APIError{Status: 500},
			wantErr:     "Request failed",
			wantStatus:  intPtr(500),
			wantHandled: 1,
		},
		{
			name:        "wrapped api error",
			err:         fmt.Errorf("calling api: %w", &APIError{Message: "forbidden", Status: 403}),
			wantErr:     "forbidden",
			wantStatus:  intPtr(403),
			wantHandled: 1,
		},
		{
			name:        "bare message without status",
			err:         errors.New("Network error"),
			wantErr:     "Network error",
			wantStatus:  nil,
			wantHandled: 1,
		},
		{
			name:        "status carrier",
			err:         &statusErr{status: 503},
			wantErr:     "upstream unavailable",
			wantStatus:  intPtr(503),
			wantHandled: 1,
		},
		{
			name:        "empty message",
			err:         emptyErr{},
			wantErr:     "Request failed",
			wantStatus:  nil,
			wantHandled: 1,
		},
		{
			name:        "wrapped context canceled",
			err:         fmt.Errorf("doing request: %w", context.Canceled),
			wantErr:     "Request aborted",
			wantStatus:  intPtr(0),
			wantHandled: 0,
		},
		{
			name:        "deadline exceeded",
			err:         context.DeadlineExceeded,
			wantErr:     "Request aborted",
			wantStatus:  intPtr(0),
			wantHandled: 0,
		},
		{
			name:        "aborted by message",
			err:         errors.New("request aborted by transport"),
			wantErr:     "Request aborted",
			wantStatus:  intPtr(0),
			wantHandled: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handled := 0
			c := newTestClient(t, WithRequestErrorHandler(func(error) { handled++ }))

			res := Do(context.Background(), c, func(ctx context.Context) (*string, int, error) {
				return nil, 0, tt.err
			})

			if res.Data != nil {
				t.Errorf("Data = %v, want nil", res.Data)
			}
			if res.Err != tt.wantErr {
				t.Errorf("Err = %q, want %q", res.Err, tt.wantErr)
			}
			switch {
			case tt.wantStatus == nil && res.Status != nil:
				t.Errorf("Status = %d, want nil", *res.Status)
			case tt.wantStatus != nil && res.Status == nil:
				t.Errorf("Status = nil, want %d", *tt.wantStatus)
			case tt.wantStatus != nil && *res.Status != *tt.wantStatus:
				t.Errorf("Status = %d, want %d", *res.Status, *tt.wantStatus)
			}
			if handled != tt.wantHandled {
				t.Errorf("error handler invoked %d times, want %d", handled, tt.wantHandled)
			}
		})
	}
}

func TestHandlerReceivesRawError(t *testing.T) {
	rawErr := &APIError{Message: "User not found", Status: 404}

	var got error
	c := newTestClient(t, WithRequestErrorHandler(func(err error) { got = err }))

	Do(context.Background(), c, func(ctx context.Context) (*string, int, error) {
		return nil, 404, rawErr
	})

	var apiErr *APIError
	if !errors.As(got, &apiErr) {
		t.Fatalf("handler got %T, want *APIError", got)
	}
	if apiErr.Status != 404 || apiErr.Message != "User not found" {
		t.Errorf("handler got %+v", apiErr)
	}
}

func TestHandlerPanicRecovered(t *testing.T) {
	c := newTestClient(t, WithRequestErrorHandler(func(error) {
		panic("handler exploded")
	}))

	res := Do(context.Background(), c, func(ctx context.Context) (*string, int, error) {
		return nil, 0, errors.New("boom")
	})

	if res.Err != "boom" {
		t.Errorf("Err = %q, want boom", res.Err)
	}
}

func TestAPIErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{"with message", &APIError{Message: "no such user", Status: 404}, "api error (status 404): no such user"},
		{"without message", &APIError{Status: 502}, "api error (status 502)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
