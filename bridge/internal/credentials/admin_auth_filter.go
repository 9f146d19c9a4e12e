package credentials

import (
	"crypto/subtle"
	"net/http"
	"strings"

	libHTTP "github.com/brigadecore/brigade-foundations/http"
	"github.com/wafir-dev/wafir-bridge/bridge/internal/api"
)

const bearerPrefix = "Bearer "

// AdminAuthFilterConfig encapsulates configuration for the admin auth filter.
type AdminAuthFilterConfig struct {
	// Secret is the bearer token callers must present. When it is empty, every
	// request is refused.
	Secret string
}

// adminAuthFilter is a component that implements the http.Filter interface and
// allows a request only if it carries the admin secret as a bearer token.
type adminAuthFilter struct {
	config AdminAuthFilterConfig
}

// NewAdminAuthFilter returns a component that implements the http.Filter
// interface and allows a request only if it carries the admin secret as a
// bearer token. It guards the routes that change stored tokens, since the
// installation IDs those routes are keyed by are public.
func NewAdminAuthFilter(config AdminAuthFilterConfig) libHTTP.Filter {
	return &adminAuthFilter{
		config: config,
	}
}

func (a *adminAuthFilter) Decorate(handle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.config.Secret == "" {
			api.WriteError(
				w,
				http.StatusForbidden,
				"Token administration is disabled",
			)
			return
		}
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) ||
			subtle.ConstantTimeCompare(
				[]byte(strings.TrimPrefix(header, bearerPrefix)),
				[]byte(a.config.Secret),
			) != 1 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			api.WriteError(
				w,
				http.StatusUnauthorized,
				"A valid admin token is required",
			)
			return
		}
		handle(w, r)
	}
}
