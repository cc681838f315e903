package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds the gateway's cross-origin policy. The UI is served from
// the gateway itself, but tooling and embedded dashboards call the API from
// other origins, so the default policy admits every origin with credentials.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds" mapstructure:"max_age_seconds"`
}

// DefaultCORSConfig is the gateway policy: all origins, credentials allowed,
// applied uniformly rather than per route.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", HeaderRequestID},
		AllowCredentials: true,
		MaxAgeSeconds:    600,
	}
}

func (cfg *CORSConfig) allows(origin string) bool {
	for _, a := range cfg.AllowedOrigins {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// write emits the policy for an allowed origin. The origin is echoed back
// rather than wildcarded; a wildcard is rejected by browsers on credentialed
// requests, and the gateway's policy always allows credentials.
func (cfg *CORSConfig) write(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Origin", origin)
	h.Add("Vary", "Origin")
	if cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

// writePreflight emits the additional preflight response headers.
func (cfg *CORSConfig) writePreflight(h http.Header, requestedHeaders string) {
	if len(cfg.AllowedMethods) > 0 {
		h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
	}
	switch {
	case len(cfg.AllowedHeaders) > 0:
		h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
	case requestedHeaders != "":
		// No configured allowlist: reflect whatever the preflight asked for.
		h.Set("Access-Control-Allow-Headers", requestedHeaders)
	}
	if cfg.MaxAgeSeconds > 0 {
		h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAgeSeconds))
	}
}

// CORS applies the gateway's cross-origin policy to every response, error
// responses included, and answers preflights before they reach the router.
func CORS(cfg *CORSConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !cfg.allows(origin) {
				next.ServeHTTP(w, r)
				return
			}

			cfg.write(w.Header(), origin)

			if r.Method == http.MethodOptions {
				cfg.writePreflight(w.Header(), r.Header.Get("Access-Control-Request-Headers"))
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
