package config

import (
	"strings"
	"time"
)

// productionAPIHost is the marketplace API used when API_BASE_URL is unset.
const productionAPIHost = "https://api.glowdesk.com"

type Upstream struct{}

var _ UpstreamConfig = Upstream{}

// GetAPIBaseURL returns the base URL of the upstream marketplace API,
// without a trailing slash.
func (Upstream) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv("API_BASE_URL", productionAPIHost), "/")
}

func (Upstream) GetUpstreamTimeout() time.Duration {
	return 15 * time.Second
}
