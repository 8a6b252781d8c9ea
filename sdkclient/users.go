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
	"fmt"
	"io"
	"net/http"

	"github.com/codesordinatestudio/sdk-go/json"
	"github.com/codesordinatestudio/sdk-go/sdkclient/oapi"
)

// Re-export commonly used types from the generated oapi package.
type (
	User              = oapi.User
	CreateUserRequest = oapi.CreateUserRequest
	UpdateUserRequest = oapi.UpdateUserRequest
	HealthResponse    = oapi.HealthResponse
)

// Health checks service health.
func (c *Client) Health(ctx context.Context) *Call[HealthResponse] {
	return Start(ctx, c, func(ctx context.Context) (*HealthResponse, int, error) {
		resp, err := c.api.GetHealth(ctx)
		if err != nil {
			return nil, 0, err
		}
		return decodeJSON[HealthResponse](resp)
	})
}

// ListUsers lists users. A limit of 0 means no limit.
func (c *Client) ListUsers(ctx context.Context, limit int) *Call[[]User] {
	return Start(ctx, c, func(ctx context.Context) (*[]User, int, error) {
		var params *oapi.ListUsersParams
		if limit > 0 {
			params = &oapi.ListUsersParams{Limit: &limit}
		}
		resp, err := c.api.ListUsers(ctx, params)
		if err != nil {
			return nil, 0, err
		}
		return decodeJSON[[]User](resp)
	})
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, userID string) *Call[User] {
	return Start(ctx, c, func(ctx context.Context) (*User, int, error) {
		resp, err := c.api.GetUser(ctx, userID)
		if err != nil {
			return nil, 0, err
		}
		return decodeJSON[User](resp)
	})
}

// CreateUser creates a user. With request validation enabled the payload is
// checked against the CreateUserRequest schema before any request is sent.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) *Call[User] {
	return Start(ctx, c, func(ctx context.Context) (*User, int, error) {
		if c.validator != nil {
			if err := c.validatePayload("CreateUserRequest", req); err != nil {
				return nil, 0, err
			}
		}
		resp, err := c.api.CreateUser(ctx, req)
		if err != nil {
			return nil, 0, err
		}
		return decodeJSON[User](resp)
	})
}

// UpdateUser updates a user.
func (c *Client) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) *Call[User] {
	return Start(ctx, c, func(ctx context.Context) (*User, int, error) {
		if c.validator != nil {
			if err := c.validatePayload("UpdateUserRequest", req); err != nil {
				return nil, 0, err
			}
		}
		resp, err := c.api.UpdateUser(ctx, userID, req)
		if err != nil {
			return nil, 0, err
		}
		return decodeJSON[User](resp)
	})
}

// DeleteUser deletes a user. A successful deletion carries no body.
func (c *Client) DeleteUser(ctx context.Context, userID string) *Call[Empty] {
	return Start(ctx, c, func(ctx context.Context) (*Empty, int, error) {
		resp, err := c.api.DeleteUser(ctx, userID)
		if err != nil {
			return nil, 0, err
		}
		return decodeEmpty(resp)
	})
}

// decodeJSON reads a success body into T, or a non-2xx body into *APIError.
func decodeJSON[T any](resp *http.Response) (*T, int, error) {
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, resp.StatusCode, readErrorResponse(resp)
	}

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("parsing response: %w", err)
	}
	return &v, resp.StatusCode, nil
}

// decodeEmpty handles operations whose success carries no body.
func decodeEmpty(resp *http.Response) (*Empty, int, error) {
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, resp.StatusCode, readErrorResponse(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return &Empty{}, resp.StatusCode, nil
}
