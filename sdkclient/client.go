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
//go:generate go tool oapi-codegen --config=cfg.yaml openapi.yaml
package sdkclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/codesordinatestudio/sdk-go/sdkclient/oapi"
)

// TokenProvider returns the current bearer credential. It is invoked
// immediately before every outgoing request, so rotating the returned value
// changes the Authorization header on the next call without reconstructing
// the client. An empty string means no credential.
type TokenProvider func() string

// ErrorHandler receives the raw error of every failed call. Aborted calls
// (manual or timeout) are never reported.
type ErrorHandler func(err error)

// tokenSetter is the legacy credential hook some generated clients and
// transports expose. When the configured Doer implements it, the static token
// is handed over once at construction time in addition to the per-request
// header injection.
type tokenSetter interface {
	SetToken(token string)
}

// Client wraps the generated oapi client. Every endpoint method returns a
// pending Call whose settled Result is the uniform {Data, Err, Status, Abort}
// envelope: callers never see a raw transport or API error.
type Client struct {
	api        *oapi.Client
	httpClient oapi.HttpRequestDoer
	baseURL    string

	timeout        time.Duration
	token          string
	tokenProvider  TokenProvider
	onRequestError ErrorHandler
	logger         *zap.Logger
	validator      *oapi.SchemaValidator
}

// Option mutates the Client during New.
type Option func(*Client) error

// WithToken sets a static bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

// WithTokenProvider sets a provider resolved anew before each request.
// It takes precedence over a static token for header injection.
func WithTokenProvider(provider TokenProvider) Option {
	return func(c *Client) error {
		if provider == nil {
			return errors.New("nil token provider")
		}
		c.tokenProvider = provider
		return nil
	}
}

// WithTimeout bounds every call. When the timer fires the call is cancelled
// exactly as if the caller had invoked Abort.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithRequestErrorHandler registers a callback invoked exactly once with the
// raw error of every failed call, before the call settles.
func WithRequestErrorHandler(fn ErrorHandler) Option {
	return func(c *Client) error {
		c.onRequestError = fn
		return nil
	}
}

// WithHTTPClient overrides the Doer used by the generated client.
func WithHTTPClient(doer oapi.HttpRequestDoer) Option {
	return func(c *Client) error {
		if doer == nil {
			return errors.New("nil http client")
		}
		c.httpClient = doer
		return nil
	}
}

// WithLogger attaches a zap logger, typically built with the logging
// package. Call settlement is logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		c.logger = logger
		return nil
	}
}

// WithRequestValidation validates outgoing request payloads against the
// schemas embedded in the OpenAPI document before any HTTP request is made.
func WithRequestValidation() Option {
	return func(c *Client) error {
		validator, err := oapi.NewSchemaValidator()
		if err != nil {
			return fmt.Errorf("building schema validator: %w", err)
		}
		c.validator = validator
		return nil
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("empty base URL")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	api, err := oapi.NewClient(baseURL,
		oapi.WithHTTPClient(c.httpClient),
		oapi.WithRequestEditorFn(c.authorize),
	)
	if err != nil {
		return nil, fmt.Errorf("creating generated client: %w", err)
	}
	c.api = api

	// Legacy hook: transports that store the credential themselves get the
	// static token once, up front.
	if c.token != "" {
		if ts, ok := c.httpClient.(tokenSetter); ok {
			ts.SetToken(c.token)
		}
	}

	return c, nil
}

// authorize is the per-request security hook handed to the generated client.
// The credential is resolved on every request so provider rotation takes
// effect without rebuilding anything.
func (c *Client) authorize(_ context.Context, req *http.Request) error {
	token := c.token
	if c.tokenProvider != nil {
		token = c.tokenProvider()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// reportError hands the raw error to the configured handler. A panicking
// handler is recovered and logged so it can never corrupt the envelope.
func (c *Client) reportError(err error) {
	if c.onRequestError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("request error handler panicked", zap.Any("panic", r))
		}
	}()
	c.onRequestError(err)
}

// validatePayload checks payload against the named schema from the embedded
// OpenAPI document. A violation fails the call locally; no request is sent.
func (c *Client) validatePayload(schema string, payload any) error {
	result, err := c.validator.Validate(schema, payload)
	if err != nil {
		return fmt.Errorf("validating request: %w", err)
	}
	if !result.Valid {
		e := result.Errors[0]
		return fmt.Errorf("invalid %s: %s: %s", schema, e.Field, e.Message)
	}
	return nil
}
