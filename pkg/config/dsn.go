package config

import "strings"

// sslmode values understood by pgx. "require" negotiates TLS but skips
// certificate and hostname verification.
const (
	sslModeRequire    = "require"
	sslModeVerifyFull = "verify-full"
	sslModeDisable    = "disable"
)

// SSLMode returns the libpq sslmode implied by the transport policy.
func (c ConnectionConfig) SSLMode() string {
	if c.TransportSecurity.Enabled && !c.TransportSecurity.VerifyPeer {
		return sslModeRequire
	}
	if c.TransportSecurity.Enabled {
		return sslModeVerifyFull
	}
	return sslModeDisable
}

// DSN renders the driver connection string with the transport policy
// applied. Any sslmode already present in DB_URL is overridden.
func (c ConnectionConfig) DSN() string {
	mode := c.SSLMode()

	switch src := c.Source.(type) {
	case ConnectionString:
		raw := string(src)
		if u, ok := parseURL(raw); ok {
			q := u.Query()
			q.Set("sslmode", mode)
			u.RawQuery = q.Encode()
			return u.String()
		}
		// keyword/value form: a later keyword overrides an earlier one
		return strings.TrimSpace(raw) + " sslmode=" + mode
	case DiscreteParams:
		u := src.url()
		u.RawQuery = "sslmode=" + mode
		return u.String()
	default:
		return ""
	}
}
