package http

import (
	"net/http"
	"strconv"
	"time"
)

// dateParam reads an optional query parameter holding a date in either
// "2006-01-02" or RFC 3339 form. A missing parameter yields (nil, true).
func dateParam(r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	return nil, false
}

// intParam reads an optional integer query parameter, falling back to
// def when absent or malformed.
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// floatParam reads an optional float query parameter. A missing or
// malformed value yields nil.
func floatParam(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

// pathID parses the {id} path segment as an int64.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
