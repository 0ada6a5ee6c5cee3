package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/flagx"
	"github.com/dmitrijs2005/contactbook/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "30s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
	BcryptCost       int            `json:"bcrypt_cost"`
	LogFormat        string         `json:"log_format"`
	MaxPageSize      int            `json:"max_page_size"`
}

// parseJson loads configuration values from the JSON file named by -c,
// -config or $CONFIG. Keys missing from the file keep their current value.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setDuration(&config.RequestTimeout, c.RequestTimeout.Duration)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout.Duration)
	setInt(&config.BcryptCost, c.BcryptCost)
	setString(&config.LogFormat, c.LogFormat)
	setInt(&config.MaxPageSize, c.MaxPageSize)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
