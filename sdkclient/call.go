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
	"time"

	"go.uber.org/zap"
)

// Result is the settled outcome of a wrapped call. Exactly one of Data
// (non-nil) and Err (non-empty) is set. Status is nil when the failure
// carried no HTTP status, and 0 when the call was aborted.
type Result[T any] struct {
	Data   *T
	Err    string
	Status *int

	abort context.CancelFunc
}

// Abort signals the call's cancellation controller. Invoking it after
// settlement, or more than once, has no observable effect and never panics.
func (r Result[T]) Abort() {
	if r.abort != nil {
		r.abort()
	}
}

// Failed reports whether the call settled with an error.
func (r Result[T]) Failed() bool {
	return r.Err != ""
}

// Empty is the payload of operations whose success carries no body.
type Empty struct{}

// Operation is a single attempt against the underlying API. It receives the
// per-call cancellation context and returns the decoded payload and HTTP
// status, or an error. The wrapper makes exactly one attempt per call; there
// is no retry, pooling, or backoff here.
type Operation[T any] func(ctx context.Context) (*T, int, error)

// Call is a pending wrapped invocation.
type Call[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	result Result[T]
}

// Abort cancels the pending call. Safe to invoke at any time, any number of
// times; after settlement it is a no-op.
func (c *Call[T]) Abort() {
	c.cancel()
}

// Done is closed when the call has settled.
func (c *Call[T]) Done() <-chan struct{} {
	return c.done
}

// Result blocks until the call settles and returns its envelope.
func (c *Call[T]) Result() Result[T] {
	<-c.done
	return c.result
}

// Start runs op under a fresh per-call cancellation controller. Two
// cancellation sources race into that one controller: the configured timeout
// timer and manual Abort; whichever fires first wins. On settlement the
// timer is stopped and the controller is released, so a finished call holds
// no reference in a long-lived parent context.
// Concurrent calls on the same client share no mutable state.
func Start[T any](ctx context.Context, c *Client, op Operation[T]) *Call[T] {
	callCtx, cancel := context.WithCancel(ctx)
	call := &Call[T]{done: make(chan struct{}), cancel: cancel}

	var timer *time.Timer
	if c.timeout > 0 {
		timer = time.AfterFunc(c.timeout, cancel)
	}

	go func() {
		defer close(call.done)
		data, status, err := op(callCtx)
		if timer != nil {
			timer.Stop()
		}
		// Release the controller so the call context detaches from a
		// long-lived parent. Abort on a settled call stays a no-op.
		cancel()
		call.result = settle(c, data, status, err, cancel)
	}()

	return call
}

// Do runs op to completion and returns the settled envelope.
func Do[T any](ctx context.Context, c *Client, op Operation[T]) Result[T] {
	return Start(ctx, c, op).Result()
}

// settle normalizes the outcome of a single attempt. The error handler runs
// here, strictly before the envelope becomes visible to the caller.
func settle[T any](c *Client, data *T, status int, err error, abort context.CancelFunc) Result[T] {
	if err == nil {
		s := status
		c.logger.Debug("call settled", zap.Int("status", status))
		return Result[T]{Data: data, Status: &s, abort: abort}
	}

	if isAborted(err) {
		zero := 0
		c.logger.Debug("call aborted")
		return Result[T]{Err: abortedMessage, Status: &zero, abort: abort}
	}

	c.reportError(err)
	res := Result[T]{Err: failureMessage(err), Status: failureStatus(err), abort: abort}
	c.logger.Debug("call failed", zap.String("error", res.Err))
	return res
}
