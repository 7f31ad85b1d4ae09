package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Common Google API errors.
var (
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")
	ErrForbidden    = errors.New("google: forbidden (insufficient permissions)")
	ErrNotFound     = errors.New("google: resource not found")
	ErrRateLimited  = errors.New("google: rate limit exceeded")
)

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// WrapError converts a Google API error into one of the sentinels above,
// keeping the original message. Other errors are returned unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	var kind error
	switch gerr.Code {
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusTooManyRequests:
		kind = ErrRateLimited
	default:
		return err
	}
	return &apiError{kind: kind, err: gerr}
}

type apiError struct {
	kind error
	err  *googleapi.Error
}

func (e *apiError) Error() string { return e.kind.Error() + ": " + e.err.Message }

func (e *apiError) Is(target error) bool { return target == e.kind }

func (e *apiError) Unwrap() error { return e.err }
