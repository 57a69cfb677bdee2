package app

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInvalidRequestError(t *testing.T) {
	stdErr := errors.New("simple error")
	assert.False(t, IsInvalidRequestError(stdErr))

	irErr := InvalidRequestError("invalid request")
	assert.True(t, IsInvalidRequestError(irErr))

	wrapperErr := fmt.Errorf("wrapping message: %w", irErr)
	assert.True(t, IsInvalidRequestError(wrapperErr))
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, IsNotFoundError(errors.New("simple error")))
	assert.False(t, IsNotFoundError(&RemoteError{StatusCode: http.StatusBadRequest}))
	assert.True(t, IsNotFoundError(&RemoteError{StatusCode: http.StatusNotFound}))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", &RemoteError{StatusCode: http.StatusNotFound})))
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: "fallback",
		},
		{
			name: "remote error with message",
			err:  fmt.Errorf("creating project: %w", &RemoteError{StatusCode: 400, Message: "not a git repository"}),
			want: "not a git repository",
		},
		{
			name: "remote error without message",
			err:  &RemoteError{StatusCode: 500},
			want: "fallback",
		},
		{
			name: "invalid request",
			err:  InvalidRequestError("repository path is required"),
			want: "repository path is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorDetail(tt.err, "fallback"))
		})
	}
}
