package handoff

import (
	"fmt"
	"net/url"
	"strings"
)

// AllowList is the set of origins trusted to hand off credentials to the
// portal. Matching is exact against the normalized origin (scheme + host +
// port); no wildcard or substring matching, so https://admin.example.com.evil.com
// never matches an allow-listed https://admin.example.com.
type AllowList struct {
	origins map[string]struct{}
}

// NewAllowList builds an allow-list from configured origin strings.
// Entries that do not parse as an origin are skipped.
func NewAllowList(origins []string) AllowList {
	set := make(map[string]struct{}, len(origins))
	for _, raw := range origins {
		origin, err := NormalizeOrigin(raw)
		if err != nil {
			continue
		}
		set[origin] = struct{}{}
	}
	return AllowList{origins: set}
}

// Allows reports whether origin is trusted
func (a AllowList) Allows(origin string) bool {
	normalized, err := NormalizeOrigin(origin)
	if err != nil {
		return false
	}
	_, ok := a.origins[normalized]
	return ok
}

func (a AllowList) String() string {
	var origins []string
	for k := range a.origins {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

// NormalizeOrigin reduces a URL or origin string to its canonical
// scheme://host[:port] form, lowercased. Anything without a scheme and host
// is rejected.
func NormalizeOrigin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid origin %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid origin %q: scheme and host required", raw)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}
