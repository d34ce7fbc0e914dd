package auth0

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	jose "gopkg.in/square/go-jose.v2"
)

// ErrUnsupportedKey is returned when a published key cannot be used for RS* verification
var ErrUnsupportedKey = errors.New("unsupported signing key")

// SigningKey is a public key descriptor as published in the provider's JWKS
type SigningKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg,omitempty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeySet is an immutable snapshot of the provider's signing keys
type KeySet struct {
	Keys []SigningKey `json:"keys"`
}

// Lookup returns the key whose identifier matches kid
func (s *KeySet) Lookup(kid string) (SigningKey, bool) {
	if s == nil {
		return SigningKey{}, false
	}
	for _, key := range s.Keys {
		if key.Kid == kid {
			return key, true
		}
	}
	return SigningKey{}, false
}

// maxExponentBytes bounds e to a 32-bit value, as crypto/rsa requires
const maxExponentBytes = 4

// RSAPublicKey converts the descriptor into an RSA public key
func (k SigningKey) RSAPublicKey() (*rsa.PublicKey, error) {
	if k.Kty != "RSA" {
		return nil, fmt.Errorf("%w: kty %q", ErrUnsupportedKey, k.Kty)
	}
	if k.N == "" || k.E == "" {
		return nil, fmt.Errorf("%w: empty modulus or exponent", ErrUnsupportedKey)
	}
	if base64.RawURLEncoding.DecodedLen(len(k.E)) > maxExponentBytes {
		return nil, fmt.Errorf("%w: exponent longer than %d bytes", ErrUnsupportedKey, maxExponentBytes)
	}

	raw, err := json.Marshal(k)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key: %w", err)
	}
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
	}

	publicKey, ok := jwk.Key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, jwk.Key)
	}
	if publicKey.N.Sign() <= 0 || publicKey.E < 2 {
		return nil, fmt.Errorf("%w: invalid modulus or exponent", ErrUnsupportedKey)
	}
	return publicKey, nil
}

// KeySetConfig holds configuration for KeySetCache
type KeySetConfig struct {
	Domain             string
	HTTPTimeout        time.Duration
	CacheTTL           time.Duration // zero keeps the first snapshot until Refresh
	MinRefreshInterval time.Duration
}

// JWKSURL returns the well-known key set location for a provider domain
func JWKSURL(domain string) string {
	return fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
}

const keySetFlight = "jwks"

// KeySetCache fetches the provider's JWKS once and serves it from memory.
// Concurrent cold callers share a single fetch.
type KeySetCache struct {
	url                string
	httpClient         *http.Client
	ttl                time.Duration
	minRefreshInterval time.Duration
	logger             *zap.Logger

	group singleflight.Group

	mu          sync.RWMutex
	current     *KeySet
	fetchedAt   time.Time
	lastAttempt time.Time

	fetches atomic.Int64
}

// NewKeySetCache creates a cache for https://{domain}/.well-known/jwks.json
func NewKeySetCache(cfg KeySetConfig, logger *zap.Logger) *KeySetCache {
	return newKeySetCache(JWKSURL(cfg.Domain), cfg, logger)
}

func newKeySetCache(url string, cfg KeySetConfig, logger *zap.Logger) *KeySetCache {
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if cfg.MinRefreshInterval == 0 {
		cfg.MinRefreshInterval = 30 * time.Second
	}
	return &KeySetCache{
		url:                url,
		httpClient:         &http.Client{Timeout: cfg.HTTPTimeout},
		ttl:                cfg.CacheTTL,
		minRefreshInterval: cfg.MinRefreshInterval,
		logger:             logger,
	}
}

// Get returns the cached key set, fetching it on first use.
func (c *KeySetCache) Get(ctx context.Context) (*KeySet, error) {
	if set, ok := c.cached(); ok {
		return set, nil
	}
	return c.load(ctx, false)
}

// Refresh discards the current snapshot and fetches the key set again.
func (c *KeySetCache) Refresh(ctx context.Context) (*KeySet, error) {
	return c.load(ctx, true)
}

// Lookup resolves a signing key by kid. A miss triggers one refresh, at most
// once per minRefreshInterval counted from the last fetch attempt, so rotated
// keys are picked up without a restart. A failed refresh reports the key as
// not found.
func (c *KeySetCache) Lookup(ctx context.Context, kid string) (SigningKey, error) {
	set, err := c.Get(ctx)
	if err != nil {
		return SigningKey{}, err
	}
	if key, ok := set.Lookup(kid); ok {
		return key, nil
	}

	if !c.refreshAllowed() {
		return SigningKey{}, ErrSigningKeyNotFound
	}

	c.logger.Info("kid not in cached key set, refreshing", zap.String("kid", kid))
	set, err = c.Refresh(ctx)
	if err != nil {
		c.logger.Warn("JWKS refresh after kid miss failed", zap.String("kid", kid), zap.Error(err))
		return SigningKey{}, ErrSigningKeyNotFound
	}
	if key, ok := set.Lookup(kid); ok {
		return key, nil
	}
	return SigningKey{}, ErrSigningKeyNotFound
}

// Fetches reports how many network fetches have been made
func (c *KeySetCache) Fetches() int64 {
	return c.fetches.Load()
}

func (c *KeySetCache) cached() (*KeySet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return c.current, true
}

// refreshAllowed claims the refresh slot when the interval since the last
// attempt has elapsed.
func (c *KeySetCache) refreshAllowed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if time.Since(c.lastAttempt) < c.minRefreshInterval {
		return false
	}
	c.lastAttempt = time.Now()
	return true
}

func (c *KeySetCache) load(ctx context.Context, force bool) (*KeySet, error) {
	// detached from caller cancellation; the client timeout bounds the fetch
	fetchCtx := context.WithoutCancel(ctx)

	v, err, shared := c.group.Do(keySetFlight, func() (interface{}, error) {
		if !force {
			if set, ok := c.cached(); ok {
				return set, nil
			}
		}
		c.mu.Lock()
		c.lastAttempt = time.Now()
		c.mu.Unlock()

		set, err := c.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.current = set
		c.fetchedAt = time.Now()
		c.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("joined in-flight JWKS fetch")
	}
	return v.(*KeySet), nil
}

func (c *KeySetCache) fetch(ctx context.Context) (*KeySet, error) {
	c.fetches.Add(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, wrap(ErrJWKSFetch, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("JWKS fetch failed", zap.String("url", c.url), zap.Error(err))
		return nil, wrap(ErrJWKSFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("JWKS fetch returned non-2xx",
			zap.String("url", c.url),
			zap.Int("status", resp.StatusCode))
		return nil, wrap(ErrJWKSFetch, fmt.Errorf("status code %d", resp.StatusCode))
	}

	var set KeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		c.logger.Error("JWKS body malformed", zap.String("url", c.url), zap.Error(err))
		return nil, wrap(ErrJWKSFetch, fmt.Errorf("failed to decode JWKS: %w", err))
	}

	c.logger.Info("JWKS fetched",
		zap.String("url", c.url),
		zap.Int("keys", len(set.Keys)))

	return &set, nil
}
