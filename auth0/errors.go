package auth0

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes carried by AuthError
const (
	CodeAuthorizationHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader              = "invalid_header"
	CodeInvalidClaims              = "invalid_claims"
	CodeTokenExpired               = "token_expired"
	CodeUnauthorized               = "unauthorized"
	CodeJWKSFetchError             = "jwks_fetch_error"
)

// AuthError is a failure of the bearer-token pipeline. It always aborts the
// current request with StatusCode.
type AuthError struct {
	Code        string
	Description string
	StatusCode  int
	Err         error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap implements errors.Unwrap
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches another AuthError with the same code, status and description,
// so wrapped copies still compare equal to their sentinel.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.StatusCode == t.StatusCode && e.Description == t.Description
}

func newAuthError(code, description string, status int, err error) *AuthError {
	return &AuthError{
		Code:        code,
		Description: description,
		StatusCode:  status,
		Err:         err,
	}
}

var (
	ErrAuthorizationHeaderMissing = newAuthError(CodeAuthorizationHeaderMissing, "Authorization header is expected.", http.StatusUnauthorized, nil)
	ErrBearerPrefix               = newAuthError(CodeInvalidHeader, `Authorization header must start with "Bearer".`, http.StatusUnauthorized, nil)
	ErrTokenNotFound              = newAuthError(CodeInvalidHeader, "Token not found.", http.StatusUnauthorized, nil)
	ErrNotBearerToken             = newAuthError(CodeInvalidHeader, "Authorization header must be bearer token.", http.StatusUnauthorized, nil)
	ErrUnparseableHeader          = newAuthError(CodeInvalidHeader, "Invalid header. Could not parse authentication token.", http.StatusUnauthorized, nil)
	ErrMissingKeyID               = newAuthError(CodeInvalidHeader, "Authorization malformed.", http.StatusUnauthorized, nil)
	ErrSigningKeyNotFound         = newAuthError(CodeInvalidHeader, "Unable to find the appropriate key.", http.StatusUnauthorized, nil)
	ErrTokenExpired               = newAuthError(CodeTokenExpired, "Token expired.", http.StatusUnauthorized, nil)
	ErrIncorrectClaims            = newAuthError(CodeInvalidClaims, "Incorrect claims. Check audience and issuer.", http.StatusUnauthorized, nil)
	ErrUnparseableToken           = newAuthError(CodeInvalidHeader, "Unable to parse authentication token.", http.StatusBadRequest, nil)
	ErrPermissionsMalformed       = newAuthError(CodeInvalidClaims, "Permissions claim malformed.", http.StatusBadRequest, nil)
	ErrPermissionNotFound         = newAuthError(CodeUnauthorized, "Permission not found.", http.StatusForbidden, nil)
	ErrJWKSFetch                  = newAuthError(CodeJWKSFetchError, "Unable to fetch JWKS from Auth0.", http.StatusInternalServerError, nil)
)

// wrap returns a copy of a sentinel carrying the underlying cause.
func wrap(sentinel *AuthError, cause error) *AuthError {
	return newAuthError(sentinel.Code, sentinel.Description, sentinel.StatusCode, cause)
}

// AsAuthError extracts an AuthError from err, if any.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}
