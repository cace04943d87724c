package podcastindex

import (
	"maps"
	"strconv"
	"sync"
	"time"
)

// HeaderValidity is how long a computed set of auth headers is reused.
const HeaderValidity = 180 * time.Second

// Header names sent with every authenticated request.
const (
	HeaderAuthDate      = "X-Auth-Date"
	HeaderAuthKey       = "X-Auth-Key"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
)

// HeaderCacheConfig configures a HeaderCache.
type HeaderCacheConfig struct {
	APIKey    string
	APISecret string
	UserAgent string
	BaseURL   string
	Now       func() time.Time // Optional: clock (defaults to time.Now)
	Signer    Signer           // Optional: signature function (defaults to SHA-1)
}

// HeaderCache produces signed request headers and reuses them for
// HeaderValidity.
//
// The cache is keyed by time only: within the window every caller gets
// the same headers, even if the wall clock crossed a second boundary.
// Refresh holds the lock, so concurrent callers never sign twice.
type HeaderCache struct {
	cfg HeaderCacheConfig

	mu         sync.Mutex
	headers    map[string]string
	computedAt time.Time
}

// NewHeaderCache creates a HeaderCache. Configuration is validated on
// the first call to Headers.
func NewHeaderCache(cfg HeaderCacheConfig) *HeaderCache {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Signer == nil {
		cfg.Signer = calculateSignature
	}
	return &HeaderCache{cfg: cfg}
}

// Headers returns the signed headers for a request.
//
// Returns ErrConfiguration if the key, secret, user agent or base URL is
// empty. The returned map is a copy and may be modified by the caller.
func (h *HeaderCache) Headers() (map[string]string, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.cfg.Now()
	if h.headers != nil && now.Sub(h.computedAt) < HeaderValidity {
		return maps.Clone(h.headers), nil
	}

	ts := now.Unix()
	h.headers = map[string]string{
		HeaderAuthDate:      strconv.FormatInt(ts, 10),
		HeaderAuthKey:       h.cfg.APIKey,
		HeaderAuthorization: h.cfg.Signer(h.cfg.APIKey, h.cfg.APISecret, ts),
		HeaderUserAgent:     h.cfg.UserAgent,
	}
	h.computedAt = now

	return maps.Clone(h.headers), nil
}

// Invalidate drops the cached headers so the next call signs again.
func (h *HeaderCache) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.headers = nil
}

func (h *HeaderCache) validate() error {
	var missing string
	switch {
	case h.cfg.APIKey == "":
		missing = "APIKey"
	case h.cfg.APISecret == "":
		missing = "APISecret"
	case h.cfg.UserAgent == "":
		missing = "UserAgent"
	case h.cfg.BaseURL == "":
		missing = "BaseURL"
	default:
		return nil
	}
	return &Error{Kind: ErrConfiguration, Message: missing + " is required"}
}
