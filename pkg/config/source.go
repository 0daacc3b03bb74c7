package config

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const redactedSecret = "xxxxx"

var keywordPasswordPattern = regexp.MustCompile(`(?i)(password=)('[^']*'|\S+)`)

// Source is where connection parameters come from: either a
// ConnectionString or DiscreteParams, never both.
type Source interface {
	// Redacted renders the source with credentials masked.
	Redacted() string

	isSource()
}

// ConnectionString is a complete connection string taken from DB_URL.
// Both URL (postgres://...) and keyword/value (host=... dbname=...) forms
// are accepted.
type ConnectionString string

func (ConnectionString) isSource() {}

// Redacted masks the password component.
func (s ConnectionString) Redacted() string {
	raw := string(s)
	if u, ok := parseURL(raw); ok {
		return u.Redacted()
	}
	return keywordPasswordPattern.ReplaceAllString(raw, "${1}"+redactedSecret)
}

// DiscreteParams are individual connection parameters.
type DiscreteParams struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

func (DiscreteParams) isSource() {}

// Redacted renders the parameters as a URL with the password masked.
func (p DiscreteParams) Redacted() string {
	return p.url().Redacted()
}

func (p DiscreteParams) url() *url.URL {
	return &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.Username, p.Password),
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:   "/" + p.Database,
	}
}

func parseURL(raw string) (*url.URL, bool) {
	if !strings.HasPrefix(raw, "postgres://") && !strings.HasPrefix(raw, "postgresql://") {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	return u, true
}
