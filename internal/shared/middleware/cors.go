package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// CORS applies Cross-Origin Resource Sharing headers and preflight
// handling. With an empty allowedHosts list every origin is accepted;
// otherwise the request's Origin hostname must match one of the allowed
// hosts (port ignored when the allowed entry carries none) or the
// request is rejected with 403.
func CORS(allowedHosts []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case len(allowedHosts) == 0:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin == "":
				// Same-origin or non-browser request, nothing to allow
			case isOriginAllowed(origin, allowedHosts):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Vary", "Origin")
			default:
				http.Error(w, "Origin not allowed", http.StatusForbidden)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isOriginAllowed reports whether the origin's hostname matches one of
// the allowed hosts. An allowed entry with a port requires an exact
// host:port match; one without a port matches any port.
func isOriginAllowed(origin string, allowedHosts []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	originHost := strings.ToLower(u.Host)
	originHostname := strings.ToLower(u.Hostname())

	for _, allowed := range allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == "" {
			continue
		}
		if strings.Contains(allowed, ":") {
			if originHost == allowed {
				return true
			}
			continue
		}
		if originHostname == allowed {
			return true
		}
	}

	return false
}
