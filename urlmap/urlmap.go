// Package urlmap provides key to URL mappers for listed objects.
package urlmap

import (
	"net/url"
	"strings"

	"github.com/FPI-TW/report-sub000/reporttypes"
)

// Identity returns the key unchanged.
func Identity(key string) string {
	return key
}

// BaseURL returns a mapper that joins keys onto base, escaping each path segment.
// An unparseable base falls back to plain concatenation with a single slash.
func BaseURL(base string) reporttypes.URLMapper {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		trimmed := strings.TrimRight(base, "/")
		return func(key string) string {
			if trimmed == "" {
				return key
			}
			return trimmed + "/" + strings.TrimLeft(key, "/")
		}
	}

	return func(key string) string {
		return u.JoinPath(strings.Split(strings.TrimLeft(key, "/"), "/")...).String()
	}
}
