package middleware

import (
	"context"
	"net/http"

	"github.com/upb/casting-agency/auth0"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// PermissionAuthenticator verifies the request's bearer token and requires
// one permission scope.
type PermissionAuthenticator interface {
	Authenticate(ctx context.Context, header http.Header, permission string) (*auth0.Claims, error)
}

// AuthMiddleware guards routes with permission scopes
type AuthMiddleware struct {
	authenticator PermissionAuthenticator
	logger        *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator PermissionAuthenticator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// RequirePermission returns middleware that lets a request through only when
// its token carries permission. Verified claims are put on the context.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			claims, err := m.authenticator.Authenticate(ctx, r.Header, permission)
			if err != nil {
				m.writeAuthError(w, requestID, permission, err)
				return
			}

			m.logger.Debug("permission granted",
				zap.String("request_id", requestID),
				zap.String("sub", claims.Subject),
				zap.String("permission", permission))

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

func (m *AuthMiddleware) writeAuthError(w http.ResponseWriter, requestID, permission string, err error) {
	authErr, ok := auth0.AsAuthError(err)
	if !ok {
		m.logger.Error("authentication failed unexpectedly",
			zap.String("request_id", requestID),
			zap.String("permission", permission),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w)
		return
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("permission", permission),
		zap.String("code", authErr.Code),
		zap.Int("status", authErr.StatusCode),
		zap.Error(err),
	}
	if authErr.StatusCode >= http.StatusInternalServerError {
		m.logger.Error("authentication failed", fields...)
	} else {
		m.logger.Warn("authentication failed", fields...)
	}

	if err := utils.WriteError(w, authErr.StatusCode, authErr.Description); err != nil {
		m.logger.Error("failed to write auth error response", zap.Error(err))
	}
}
