package middleware

import (
	"net"
	"net/http"
	"strings"
)

// HSTS tells browsers to pin HTTPS for a year, subdomains included.
// Only mounted when TLS is enabled.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// SecureCookies rewrites every outgoing Set-Cookie so it carries Secure,
// HttpOnly and a SameSite attribute, regardless of what the handler set.
func SecureCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&secureCookieWriter{ResponseWriter: w}, r)
	})
}

type secureCookieWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

// Write triggers the header rewrite for handlers that never call
// WriteHeader explicitly.
func (w *secureCookieWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *secureCookieWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	header := w.ResponseWriter.Header()
	if cookies := header["Set-Cookie"]; len(cookies) > 0 {
		header.Del("Set-Cookie")
		for _, c := range cookies {
			header.Add("Set-Cookie", hardenCookie(c))
		}
	}

	w.ResponseWriter.WriteHeader(statusCode)
}

// hardenCookie appends Secure, HttpOnly and SameSite=Strict unless the
// cookie already declares them. Existing attributes win so a handler can
// deliberately relax SameSite.
func hardenCookie(cookie string) string {
	parts := strings.Split(cookie, ";")

	var hasSecure, hasHTTPOnly, hasSameSite bool
	for i, p := range parts {
		p = strings.TrimSpace(p)
		switch lower := strings.ToLower(p); {
		case lower == "secure":
			hasSecure = true
		case lower == "httponly":
			hasHTTPOnly = true
		case strings.HasPrefix(lower, "samesite"):
			hasSameSite = true
		}
		parts[i] = p
	}

	if !hasSecure {
		parts = append(parts, "Secure")
	}
	if !hasHTTPOnly {
		parts = append(parts, "HttpOnly")
	}
	if !hasSameSite {
		parts = append(parts, "SameSite=Strict")
	}
	return strings.Join(parts, "; ")
}

// IsHostAllowed checks a request Host against the configured allow-list,
// ignoring case and ports. An empty list allows everything. Guards the
// HTTP-to-HTTPS redirect against Host header poisoning.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	bare := normalizeHost(host)
	for _, allowed := range allowedHosts {
		if bare == normalizeHost(allowed) {
			return true
		}
	}
	return false
}

// normalizeHost lowercases, drops a port if present, and strips IPv6
// brackets so "[::1]:8080", "[::1]" and "::1" all compare equal.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if bare, _, err := net.SplitHostPort(host); err == nil {
		return bare
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}
