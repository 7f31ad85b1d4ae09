package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{name: "unauthorised", code: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "forbidden", code: http.StatusForbidden, want: ErrForbidden},
		{name: "not found", code: http.StatusNotFound, want: ErrNotFound},
		{name: "rate limited", code: http.StatusTooManyRequests, want: ErrRateLimited},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gerr := &googleapi.Error{Code: tc.code, Message: "boom"}
			wrapped := WrapError(fmt.Errorf("call: %w", gerr))

			assert.ErrorIs(t, wrapped, tc.want)
			assert.Contains(t, wrapped.Error(), "boom")

			var inner *googleapi.Error
			assert.True(t, errors.As(wrapped, &inner))
			assert.Equal(t, tc.code, inner.Code)
		})
	}
}

func TestWrapError_Passthrough(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, WrapError(plain))

	server := &googleapi.Error{Code: http.StatusInternalServerError}
	assert.Equal(t, error(server), WrapError(server))
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsNotFound(&googleapi.Error{Code: http.StatusNotFound}))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(errors.New("other")))

	assert.True(t, IsRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.False(t, IsRateLimited(&googleapi.Error{Code: http.StatusBadRequest}))
}
