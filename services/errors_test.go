package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeNotFound, "resource not found", baseErr)

	assert.Equal(t, ErrorTypeNotFound, domainErr.Type)
	assert.Equal(t, "resource not found", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeNotFound,
				Message: "actor not found",
				Err:     errors.New("db error"),
			},
			wantMsg: "not_found: actor not found (db error)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "invalid input",
			},
			wantMsg: "validation: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeInternal, "internal error", baseErr)

	assert.Equal(t, baseErr, errors.Unwrap(domainErr))
}

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same error type", NewDomainError(ErrorTypeNotFound, "not found", nil), ErrMovieNotFound, true},
		{"different error type", NewDomainError(ErrorTypeValidation, "validation", nil), ErrMovieNotFound, false},
		{"not a domain error", NewDomainError(ErrorTypeNotFound, "not found", nil), errors.New("regular error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeUnprocessable, "actor does not exist", nil)

	err.WithDetail("actor_id", int64(404))

	assert.Equal(t, int64(404), err.Details["actor_id"])
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"movie not found", ErrMovieNotFound, ErrorTypeNotFound},
		{"wrapped actor not found", fmt.Errorf("wrapped: %w", ErrActorNotFound), ErrorTypeNotFound},
		{"invalid input", ErrInvalidInput, ErrorTypeValidation},
		{"empty patch", ErrEmptyPatch, ErrorTypeValidation},
		{"bad date", ErrInvalidReleaseDate, ErrorTypeUnprocessable},
		{"unknown actor", ErrUnknownActor, ErrorTypeUnprocessable},
		{"internal", WrapInternal("db down", errors.New("dial")), ErrorTypeInternal},
		{"regular error", errors.New("regular"), ""},
		{"nil error", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorType(tt.err))
			assert.Equal(t, tt.want == ErrorTypeNotFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.want == ErrorTypeValidation, IsValidationError(tt.err))
			assert.Equal(t, tt.want == ErrorTypeUnprocessable, IsUnprocessableError(tt.err))
			assert.Equal(t, tt.want == ErrorTypeInternal, IsInternalError(tt.err))
		})
	}
}

func TestGetErrorDetails(t *testing.T) {
	err := WrapError(ErrorTypeValidation, "bad", nil)
	assert.NotNil(t, GetErrorDetails(err))
	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}
