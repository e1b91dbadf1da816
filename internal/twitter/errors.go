package twitter

import (
	"errors"
	"fmt"
	"net/http"

	"twittermcp/internal/xclient"
)

// Kind classifies adapter failures.
type Kind int

const (
	KindUpstream Kind = iota
	KindRateLimited
	KindAuthFailed
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuthFailed:
		return "auth_failed"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "upstream"
	}
}

// Error is the only error type the adapter returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an adapter error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// KindForStatus maps an upstream HTTP status to an error kind.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusUnauthorized:
		return KindAuthFailed
	case http.StatusForbidden:
		return KindForbidden
	default:
		return KindUpstream
	}
}

// MapError converts any failure from the upstream client into an *Error.
func MapError(err error) *Error {
	if err == nil {
		return nil
	}
	var mapped *Error
	if errors.As(err, &mapped) {
		return mapped
	}
	kind := KindUpstream
	var apiErr *xclient.APIError
	if errors.As(err, &apiErr) {
		kind = KindForStatus(apiErr.StatusCode)
	}
	switch kind {
	case KindRateLimited:
		return &Error{Kind: kind, Message: "Rate limit exceeded. Please try again later.", Err: err}
	case KindAuthFailed:
		return &Error{Kind: kind, Message: "Authentication failed. Please check your Twitter credentials.", Err: err}
	case KindForbidden:
		return &Error{Kind: kind, Message: "Access forbidden. You may not have permission to access this resource.", Err: err}
	default:
		return &Error{Kind: KindUpstream, Message: "Twitter API error: " + err.Error(), Err: err}
	}
}

func notFound(username string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("User %s not found", username), Err: xclient.ErrNotFound}
}
