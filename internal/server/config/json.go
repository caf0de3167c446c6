package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ideapool/internal/flagx"
	"github.com/dmitrijs2005/ideapool/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "10m"-style strings or integer nanoseconds. Pointer fields are
// optional: absent keys leave the current value alone.
type JsonConfig struct {
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	RefreshAllowsExpired        *bool           `json:"refresh_allows_expired"`
	RedisAddr                   string          `json:"redis_addr"`
	RedisPassword               string          `json:"redis_password"`
	RedisDB                     *int            `json:"redis_db"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	LogLevel                    string          `json:"log_level"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Nothing happens when neither flag is given. An unreadable file or invalid
// JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.RefreshAllowsExpired != nil {
		config.RefreshAllowsExpired = *c.RefreshAllowsExpired
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
