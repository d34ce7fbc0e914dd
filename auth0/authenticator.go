package auth0

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// KeyResolver resolves a signing key by key identifier
type KeyResolver interface {
	Lookup(ctx context.Context, kid string) (SigningKey, error)
}

// Config holds configuration for Authenticator
type Config struct {
	Domain     string
	Audience   string
	Algorithms []string
	Leeway     time.Duration
}

// Issuer returns the expected iss claim for the configured domain
func (c Config) Issuer() string {
	return fmt.Sprintf("https://%s/", c.Domain)
}

// Claims is a verified token payload
type Claims struct {
	// Payload is the decoded claims body, exactly as carried by the token
	Payload jwt.MapClaims

	Subject     string
	Permissions []string
}

// HasPermission reports whether the permissions claim grants permission
func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Authenticator verifies bearer tokens against the provider's key set and
// checks permission scopes.
type Authenticator struct {
	keys     KeyResolver
	parser   *jwt.Parser
	issuer   string
	audience string
	logger   *zap.Logger
}

// NewAuthenticator creates an Authenticator. Algorithms must be an explicit
// allow-list; "none" is refused.
func NewAuthenticator(cfg Config, keys KeyResolver, logger *zap.Logger) (*Authenticator, error) {
	if cfg.Domain == "" {
		return nil, errors.New("auth0: domain is required")
	}
	if cfg.Audience == "" {
		return nil, errors.New("auth0: audience is required")
	}
	if len(cfg.Algorithms) == 0 {
		return nil, errors.New("auth0: at least one algorithm is required")
	}
	for _, alg := range cfg.Algorithms {
		if strings.EqualFold(alg, "none") {
			return nil, errors.New(`auth0: algorithm "none" is not allowed`)
		}
		if _, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("auth0: unsupported algorithm %q", alg)
		}
	}

	issuer := cfg.Issuer()
	parser := jwt.NewParser(
		jwt.WithValidMethods(cfg.Algorithms),
		jwt.WithAudience(cfg.Audience),
		jwt.WithIssuer(issuer),
		jwt.WithLeeway(cfg.Leeway),
	)

	return &Authenticator{
		keys:     keys,
		parser:   parser,
		issuer:   issuer,
		audience: cfg.Audience,
		logger:   logger,
	}, nil
}

// Authenticate runs the full pipeline for one request: extract the bearer
// token, verify it and require permission.
func (a *Authenticator) Authenticate(ctx context.Context, header http.Header, permission string) (*Claims, error) {
	token, err := ExtractBearerToken(header.Get("Authorization"))
	if err != nil {
		return nil, err
	}

	claims, err := a.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := CheckPermission(claims, permission); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExtractBearerToken returns the token part of an Authorization header value.
func ExtractBearerToken(value string) (string, error) {
	if value == "" {
		return "", ErrAuthorizationHeaderMissing
	}

	parts := strings.Fields(value)
	switch {
	case len(parts) == 0 || !strings.EqualFold(parts[0], "bearer"):
		return "", ErrBearerPrefix
	case len(parts) == 1:
		return "", ErrTokenNotFound
	case len(parts) > 2:
		return "", ErrNotBearerToken
	}
	return parts[1], nil
}

type tokenHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

// VerifyToken checks the token's signature, audience, issuer and expiry and
// returns its claims.
func (a *Authenticator) VerifyToken(ctx context.Context, token string) (*Claims, error) {
	header, err := a.unverifiedHeader(token)
	if err != nil {
		return nil, wrap(ErrUnparseableHeader, err)
	}
	if header.Kid == "" {
		return nil, ErrMissingKeyID
	}

	key, err := a.keys.Lookup(ctx, header.Kid)
	if err != nil {
		return nil, err
	}
	publicKey, err := key.RSAPublicKey()
	if err != nil {
		a.logger.Warn("unusable signing key", zap.String("kid", header.Kid), zap.Error(err))
		return nil, wrap(ErrSigningKeyNotFound, err)
	}

	payload := jwt.MapClaims{}
	_, err = a.parser.ParseWithClaims(token, payload, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	sub, _ := payload.GetSubject()
	claims := &Claims{Payload: payload, Subject: sub}
	// malformed permissions surface from CheckPermission
	claims.Permissions, _ = permissionsFrom(payload)

	return claims, nil
}

// CheckPermission requires permission to be present in the claims'
// permissions list.
func CheckPermission(claims *Claims, permission string) error {
	perms, err := permissionsFrom(claims.Payload)
	if err != nil {
		return err
	}
	granted := &Claims{Permissions: perms}
	if !granted.HasPermission(permission) {
		return ErrPermissionNotFound
	}
	return nil
}

func (a *Authenticator) unverifiedHeader(token string) (*tokenHeader, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("token contains %d segments", len(segments))
	}
	raw, err := a.parser.DecodeSegment(segments[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	var header tokenHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("failed to unmarshal header: %w", err)
	}
	return &header, nil
}

// classifyParseError maps golang-jwt failures onto the error table. Claim
// validity wins over expiry when both fail.
func classifyParseError(err error) *AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return wrap(ErrUnparseableToken, err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return wrap(ErrIncorrectClaims, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return wrap(ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return wrap(ErrIncorrectClaims, err)
	default:
		return wrap(ErrUnparseableToken, err)
	}
}

// permissionsFrom reads the permissions claim. An absent claim grants nothing;
// any present value other than a list of strings, null included, is malformed.
func permissionsFrom(payload jwt.MapClaims) ([]string, error) {
	raw, ok := payload["permissions"]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, ErrPermissionsMalformed
	}
	perms := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, ErrPermissionsMalformed
		}
		perms = append(perms, s)
	}
	return perms, nil
}
