// Package ai is the gateway to the external text-completion model plus the
// deterministic helpers (pronunciation scoring, speech stubs) that sit next
// to it. Every model-backed feature degrades to an error payload instead of
// failing the caller.
package ai

import (
	"context"
	"fmt"
	"time"
)

// Oracle completes a prompt. Implementations make exactly one call to the
// backing model per Complete.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

func (f OracleFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// GatewayError marks a failure of the external model: unreachable, timed
// out, or an empty/unusable reply.
type GatewayError struct {
	Provider string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return e.Provider + ": language model unavailable"
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

type timeoutOracle struct {
	inner   Oracle
	timeout time.Duration
}

// WithTimeout bounds every Complete call. A non-positive timeout returns
// the oracle unchanged.
func WithTimeout(o Oracle, timeout time.Duration) Oracle {
	if timeout <= 0 {
		return o
	}
	return &timeoutOracle{inner: o, timeout: timeout}
}

func (t *timeoutOracle) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Complete(ctx, prompt)
}

// Unavailable returns an Oracle that always fails with reason. The server
// runs with it when no provider could be configured, so every AI feature
// answers with its degraded payload.
func Unavailable(reason error) Oracle {
	return OracleFunc(func(context.Context, string) (string, error) {
		return "", &GatewayError{Provider: "none", Err: reason}
	})
}
