package db

import (
	"errors"
)

// ErrHandleClosed is returned when a handle is used after Close.
var ErrHandleClosed = errors.New("database handle is closed")

// Reason classifies why a connection attempt failed.
type Reason string

const (
	ReasonUnknown           Reason = "unknown"
	ReasonNetwork           Reason = "network"
	ReasonAuthentication    Reason = "authentication"
	ReasonTransportSecurity Reason = "transport-security"
)

// ConnectivityError is returned when the database cannot be reached or the
// handshake fails. Hint carries remediation guidance when one applies.
type ConnectivityError struct {
	Reason Reason
	Hint   string
	Err    error
}

func (e *ConnectivityError) Error() string {
	msg := "unable to connect to the database"
	if e.Err != nil {
		msg += ": " + sanitize(e.Err.Error())
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// Permanent reports whether retrying cannot help.
func (e *ConnectivityError) Permanent() bool {
	return e.Reason == ReasonAuthentication || e.Reason == ReasonTransportSecurity
}

// SchemaSyncError is returned when production schema synchronization fails.
type SchemaSyncError struct {
	Err error
}

func (e *SchemaSyncError) Error() string {
	return "unable to synchronize database schema: " + sanitize(e.Err.Error())
}

func (e *SchemaSyncError) Unwrap() error {
	return e.Err
}

// ShutdownError is returned when the connection pool cannot be closed.
type ShutdownError struct {
	Err error
}

func (e *ShutdownError) Error() string {
	return "error closing database connection: " + sanitize(e.Err.Error())
}

func (e *ShutdownError) Unwrap() error {
	return e.Err
}
