package db

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// transportSecurityHint is attached to certificate and handshake failures.
const transportSecurityHint = "the server certificate could not be validated; " +
	"set DB_CA_CERT to the provider's CA bundle, or DB_CLIENT_CERT and DB_CLIENT_KEY for mutual TLS"

// SQLSTATE class 28: invalid authorization specification.
const authenticationErrorClass = "28"

// Driver messages that indicate a transport security failure when no
// structured error is available.
var transportSecurityMarkers = []string{"certificate", "SSL", "TLS", "x509"}

var (
	urlCredentialPattern = regexp.MustCompile(`://[^@\s]+@`)
	passwordParamPattern = regexp.MustCompile(`(?i)(password=)([^\s&]+)`)
)

func classify(err error) Reason {
	if err == nil {
		return ReasonUnknown
	}

	var (
		verifyErr    *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
		recordErr    tls.RecordHeaderError
		pgErr        *pgconn.PgError
		netErr       net.Error
	)

	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &authorityErr),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr),
		errors.As(err, &recordErr):
		return ReasonTransportSecurity
	case errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, authenticationErrorClass):
		return ReasonAuthentication
	case mentionsTransportSecurity(err.Error()):
		return ReasonTransportSecurity
	case errors.As(err, &netErr):
		return ReasonNetwork
	}
	return ReasonUnknown
}

func mentionsTransportSecurity(msg string) bool {
	for _, marker := range transportSecurityMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// newConnectivityError classifies err and attaches a hint where one applies.
func newConnectivityError(err error) *ConnectivityError {
	var connErr *ConnectivityError
	if errors.As(err, &connErr) {
		return connErr
	}

	reason := classify(err)
	e := &ConnectivityError{Reason: reason, Err: err}
	if reason == ReasonTransportSecurity {
		e.Hint = transportSecurityHint
	}
	return e
}

// sanitize masks credentials embedded in driver error messages.
func sanitize(msg string) string {
	msg = urlCredentialPattern.ReplaceAllString(msg, "://***@")
	return passwordParamPattern.ReplaceAllString(msg, "${1}***")
}
