package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays Config with the environment variables named in its env
// tags. Unset variables leave the current value alone. A malformed value
// (for example REQUEST_TIMEOUT=soon) panics, like a malformed JSON file.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
