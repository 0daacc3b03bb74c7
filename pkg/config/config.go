package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode is the execution mode of the process (APP_ENV).
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Environment variable names read by Resolve.
const (
	EnvDatabaseURL = "DB_URL"
	EnvHost        = "DB_HOST"
	EnvPort        = "DB_PORT"
	EnvName        = "DB_NAME"
	EnvUser        = "DB_USER"
	EnvPassword    = "DB_PASSWORD"
	EnvMode        = "APP_ENV"
	EnvLegacyMode  = "NODE_ENV"
)

// Defaults for discrete connection parameters.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultDatabase = "zappay_production"
	DefaultUsername = "zappay_user"
	DefaultPassword = "password"

	Dialect = "postgres"
)

// Pool limits. These do not depend on the environment.
const (
	PoolMax            = 20
	PoolMin            = 0
	PoolAcquireTimeout = 30000 * time.Millisecond
	PoolIdleTimeout    = 10000 * time.Millisecond
)

// PoolLimits bounds the connection pool.
type PoolLimits struct {
	Max     int           `json:"max" yaml:"max"`
	Min     int           `json:"min" yaml:"min"`
	Acquire time.Duration `json:"acquire" yaml:"acquire"`
	Idle    time.Duration `json:"idle" yaml:"idle"`
}

// TransportSecurity describes the TLS posture requested from the server.
//
// Resolve never sets VerifyPeer; the server certificate is accepted
// without verification.
type TransportSecurity struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	VerifyPeer bool `json:"verify_peer" yaml:"verify_peer"`
}

// ConnectionConfig is the resolved set of connection parameters.
// It is built once by Resolve and treated as immutable afterwards.
type ConnectionConfig struct {
	Source            Source
	Dialect           string
	Pool              PoolLimits
	TransportSecurity TransportSecurity
	LoggingEnabled    bool
	Mode              Mode

	// sources tracks where each value came from
	sources map[string]string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

// Env looks up an environment variable, reporting whether it is present.
type Env func(key string) (string, bool)

// OSEnv reads from the process environment.
var OSEnv Env = os.LookupEnv

// MapEnv returns an Env backed by a map.
func MapEnv(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// lookup treats empty values as unset.
func (e Env) lookup(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Resolve derives a ConnectionConfig from environment input.
// It never fails: absent or invalid values fall back to defaults.
func Resolve(env Env) ConnectionConfig {
	cfg := newDefault()

	for _, name := range attributeNames() {
		cfg.sources[name] = "default"
	}

	cfg.applyEnvConfig(env)
	cfg.applyModePolicy()

	return cfg
}

func newDefault() ConnectionConfig {
	return ConnectionConfig{
		Source: DiscreteParams{
			Host:     DefaultHost,
			Port:     DefaultPort,
			Database: DefaultDatabase,
			Username: DefaultUsername,
			Password: DefaultPassword,
		},
		Dialect: Dialect,
		Pool: PoolLimits{
			Max:     PoolMax,
			Min:     PoolMin,
			Acquire: PoolAcquireTimeout,
			Idle:    PoolIdleTimeout,
		},
		sources: make(map[string]string),
	}
}

func attributeNames() []string {
	return []string{
		"mode", "source", "url", "host", "port", "database", "username",
		"password", "logging", "transport_security", "verify_peer",
		"pool_max", "pool_min", "pool_acquire", "pool_idle",
	}
}

func (c *ConnectionConfig) applyEnvConfig(env Env) {
	if val, ok := env.lookup(EnvMode); ok {
		c.Mode = Mode(strings.ToLower(strings.TrimSpace(val)))
		c.sources["mode"] = "environment"
	} else if val, ok := env.lookup(EnvLegacyMode); ok {
		c.Mode = Mode(strings.ToLower(strings.TrimSpace(val)))
		c.sources["mode"] = "environment"
	}

	// A connection string wins over discrete parameters entirely.
	if val, ok := env.lookup(EnvDatabaseURL); ok {
		c.Source = ConnectionString(val)
		c.sources["source"] = "environment"
		c.sources["url"] = "environment"
		return
	}

	params := c.Source.(DiscreteParams)
	if val, ok := env.lookup(EnvHost); ok {
		params.Host = val
		c.sources["host"] = "environment"
	}
	if val, ok := env.lookup(EnvPort); ok {
		if p, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && p > 0 && p <= 65535 {
			params.Port = p
			c.sources["port"] = "environment"
		}
	}
	if val, ok := env.lookup(EnvName); ok {
		params.Database = val
		c.sources["database"] = "environment"
	}
	if val, ok := env.lookup(EnvUser); ok {
		params.Username = val
		c.sources["username"] = "environment"
	}
	if val, ok := env.lookup(EnvPassword); ok {
		params.Password = val
		c.sources["password"] = "environment"
	}
	c.Source = params
}

// applyModePolicy derives logging and transport security from the mode.
// Unknown or unset modes get neither.
func (c *ConnectionConfig) applyModePolicy() {
	switch c.Mode {
	case ModeDevelopment:
		c.LoggingEnabled = true
		c.sources["logging"] = c.sources["mode"]
	case ModeProduction:
		c.TransportSecurity = TransportSecurity{Enabled: true, VerifyPeer: false}
		c.sources["transport_security"] = c.sources["mode"]
	}
}

// SourceOf returns the source of a configuration attribute
func (c ConnectionConfig) SourceOf(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsProduction reports whether the config was resolved in production mode.
func (c ConnectionConfig) IsProduction() bool {
	return c.Mode == ModeProduction
}

// Attributes returns all configuration attributes with their values and sources.
// Credentials are redacted.
func (c ConnectionConfig) Attributes() []Attribute {
	attrs := []Attribute{
		{Name: "mode", Value: string(c.Mode), Source: c.SourceOf("mode")},
	}

	switch src := c.Source.(type) {
	case ConnectionString:
		attrs = append(attrs,
			Attribute{Name: "source", Value: "connection_string", Source: c.SourceOf("source")},
			Attribute{Name: "url", Value: src.Redacted(), Source: c.SourceOf("url")},
		)
	case DiscreteParams:
		attrs = append(attrs,
			Attribute{Name: "source", Value: "discrete_params", Source: c.SourceOf("source")},
			Attribute{Name: "host", Value: src.Host, Source: c.SourceOf("host")},
			Attribute{Name: "port", Value: strconv.Itoa(src.Port), Source: c.SourceOf("port")},
			Attribute{Name: "database", Value: src.Database, Source: c.SourceOf("database")},
			Attribute{Name: "username", Value: src.Username, Source: c.SourceOf("username")},
			Attribute{Name: "password", Value: redactedSecret, Source: c.SourceOf("password")},
		)
	}

	return append(attrs,
		Attribute{Name: "dialect", Value: c.Dialect, Source: "default"},
		Attribute{Name: "logging", Value: strconv.FormatBool(c.LoggingEnabled), Source: c.SourceOf("logging")},
		Attribute{Name: "transport_security", Value: strconv.FormatBool(c.TransportSecurity.Enabled), Source: c.SourceOf("transport_security")},
		Attribute{Name: "verify_peer", Value: strconv.FormatBool(c.TransportSecurity.VerifyPeer), Source: c.SourceOf("verify_peer")},
		Attribute{Name: "pool_max", Value: strconv.Itoa(c.Pool.Max), Source: c.SourceOf("pool_max")},
		Attribute{Name: "pool_min", Value: strconv.Itoa(c.Pool.Min), Source: c.SourceOf("pool_min")},
		Attribute{Name: "pool_acquire", Value: c.Pool.Acquire.String(), Source: c.SourceOf("pool_acquire")},
		Attribute{Name: "pool_idle", Value: c.Pool.Idle.String(), Source: c.SourceOf("pool_idle")},
	)
}

// FormatText returns a text representation of the configuration
func (c ConnectionConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-24s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c ConnectionConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"attributes": c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatYAML returns a YAML representation of the configuration
func (c ConnectionConfig) FormatYAML() (string, error) {
	data, err := yaml.Marshal(map[string]interface{}{
		"attributes": c.Attributes(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
