package config

import "time"

type Config interface {
	EnvConfig
	UpstreamConfig
	HandoffConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type UpstreamConfig interface {
	GetAPIBaseURL() string
	GetUpstreamTimeout() time.Duration
}

type HandoffConfig interface {
	GetTrustedOrigins() []string
}

type mainConfig struct {
	EnvVars
	Upstream
	Handoff
}

func New() Config {
	return mainConfig{}
}
