package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable reports a connection-level failure: refused, timed out,
	// server error or an unreadable response.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrRejected reports that the provider declined the request (auth, quota,
	// rate limit, bad request).
	ErrRejected = errors.New("backend rejected request")
)

// Error is the failure returned by every Generator in this package.
type Error struct {
	Provider  Kind
	Kind      error // ErrUnavailable or ErrRejected
	Status    int
	Err       error
	Transient bool
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsTransient reports whether err is worth one more attempt.
func IsTransient(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Transient
}

func transportError(ctx context.Context, provider Kind, err error) *Error {
	return &Error{
		Provider:  provider,
		Kind:      ErrUnavailable,
		Err:       err,
		Transient: ctx.Err() == nil,
	}
}

func statusError(provider Kind, status int, body []byte) *Error {
	e := &Error{Provider: provider, Status: status}
	if len(body) > 0 {
		e.Err = errors.New(truncate(string(body), 200))
	}
	switch {
	case status >= http.StatusInternalServerError:
		e.Kind = ErrUnavailable
		e.Transient = true
	default:
		e.Kind = ErrRejected
	}
	return e
}

func malformedError(provider Kind, err error) *Error {
	return &Error{Provider: provider, Kind: ErrUnavailable, Err: fmt.Errorf("malformed response: %w", err)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
