package api

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"innkeep/internal/config"

	"golang.org/x/time/rate"
)

const (
	apiKeyHeaderDefault    = "x-api-key"
	apiSecretHeaderDefault = "x-api-secret"
	userIDHeaderDev        = "x-user-id"

	permReadHotels    = "read:hotels"
	permReadBookings  = "read:bookings"
	permWriteBookings = "write:bookings"
	permWriteReports  = "write:reports"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated caller resolved from its API key.
type Identity struct {
	UserID int64
	Name   string
}

func identityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// Auth checks the API key/secret header pair against the configured clients
// and throttles each key with its own token bucket. With auth disabled the
// caller supplies its user id directly, which only makes sense behind a
// trusted proxy or in development.
type Auth struct {
	cfg      config.APIConfig
	clients  map[string]config.APIClientKey
	limiters sync.Map // api key (or remote host) -> *rate.Limiter
}

func NewAuth(cfg config.APIConfig) *Auth {
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &Auth{cfg: cfg, clients: m}
}

func (a *Auth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		if !a.cfg.Auth.Enabled {
			next.ServeHTTP(w, a.withDevIdentity(r))
			return
		}

		client, err := a.authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if !a.permitted(client, r) {
			writeError(w, http.StatusForbidden, "permission denied")
			return
		}

		identity := Identity{UserID: client.UserID, Name: client.Name}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityContextKey, identity)))
	})
}

func (a *Auth) authenticate(r *http.Request) (config.APIClientKey, error) {
	apiKey := strings.TrimSpace(r.Header.Get(a.apiKeyHeader()))
	secret := strings.TrimSpace(r.Header.Get(a.secretHeader()))
	if apiKey == "" || secret == "" {
		return config.APIClientKey{}, errMissingCredentials
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return config.APIClientKey{}, errInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(client.Secret), []byte(secret)) != 1 {
		return config.APIClientKey{}, errInvalidCredentials
	}
	return client, nil
}

// permitted checks the route's permission against the client's list. An empty
// list on the client means allow-all.
func (a *Auth) permitted(client config.APIClientKey, r *http.Request) bool {
	required := requiredPermission(r)
	if required == "" || len(client.Permissions) == 0 {
		return true
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return true
		}
	}
	return false
}

func requiredPermission(r *http.Request) string {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/admin/"):
		return permWriteReports
	case strings.HasPrefix(path, "/hotels/favourites"):
		if r.Method == http.MethodGet {
			return permReadBookings
		}
		return permWriteBookings
	case strings.HasPrefix(path, "/hotels/") || strings.HasPrefix(path, "/rooms/"):
		return permReadHotels
	case strings.HasPrefix(path, "/bookings/"):
		if r.Method == http.MethodGet {
			return permReadBookings
		}
		return permWriteBookings
	default:
		return ""
	}
}

// withDevIdentity trusts the x-user-id header when auth is off.
func (a *Auth) withDevIdentity(r *http.Request) *http.Request {
	raw := strings.TrimSpace(r.Header.Get(userIDHeaderDev))
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return r
	}
	identity := Identity{UserID: userID, Name: "dev"}
	return r.WithContext(context.WithValue(r.Context(), identityContextKey, identity))
}

func (a *Auth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.RPS <= 0 {
		return nil
	}
	if !a.getLimiter(a.clientKey(r)).Allow() {
		return errRateLimited
	}
	return nil
}

// clientKey picks the throttling bucket: the API key when present, otherwise
// the remote host.
func (a *Auth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.apiKeyHeader())); apiKey != "" {
		return apiKey
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *Auth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func (a *Auth) apiKeyHeader() string {
	if h := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey)); h != "" {
		return h
	}
	return apiKeyHeaderDefault
}

func (a *Auth) secretHeader() string {
	if h := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderSecret)); h != "" {
		return h
	}
	return apiSecretHeaderDefault
}
