package config

import "strings"

// defaultTrustedOrigins is the admin console origin allowed to hand off
// freshly issued tokens to the portal. Exact origins only, no wildcards.
const defaultTrustedOrigins = "https://admin.glowdesk.com"

type Handoff struct{}

var _ HandoffConfig = Handoff{}

// GetTrustedOrigins returns the configured handoff origin allow-list.
// TRUSTED_ORIGINS is a comma-separated list of origins (scheme://host[:port]).
func (Handoff) GetTrustedOrigins() []string {
	raw := GetEnv("TRUSTED_ORIGINS", defaultTrustedOrigins)
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
