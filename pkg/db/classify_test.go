package db

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{name: "nil", err: nil, want: ReasonUnknown},
		{name: "certificate verification", err: &tls.CertificateVerificationError{Err: x509.UnknownAuthorityError{}}, want: ReasonTransportSecurity},
		{name: "wrapped unknown authority", err: fmt.Errorf("failed to connect: %w", x509.UnknownAuthorityError{}), want: ReasonTransportSecurity},
		{name: "record header", err: tls.RecordHeaderError{Msg: "first record does not look like a TLS handshake"}, want: ReasonTransportSecurity},
		{name: "invalid password", err: &pgconn.PgError{Severity: "FATAL", Code: "28P01"}, want: ReasonAuthentication},
		{
			name: "pg_hba rejection mentioning SSL",
			err:  &pgconn.PgError{Severity: "FATAL", Code: "28000", Message: `no pg_hba.conf entry for host "10.0.0.1", user "u", database "d", SSL off`},
			want: ReasonAuthentication,
		},
		{name: "missing database", err: &pgconn.PgError{Severity: "FATAL", Code: "3D000", Message: `database "d" does not exist`}, want: ReasonUnknown},
		{name: "dial", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, want: ReasonNetwork},
		{name: "server refused tls", err: errors.New("server refused TLS connection"), want: ReasonTransportSecurity},
		{name: "ssl not enabled", err: errors.New("SSL is not enabled on the server"), want: ReasonTransportSecurity},
		{name: "self signed", err: errors.New("self-signed certificate in certificate chain"), want: ReasonTransportSecurity},
		{name: "other", err: errors.New("boom"), want: ReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestNewConnectivityError(t *testing.T) {
	err := newConnectivityError(errors.New("x509: certificate signed by unknown authority"))
	assert.Equal(t, ReasonTransportSecurity, err.Reason)
	assert.Contains(t, err.Hint, "DB_CA_CERT")

	err = newConnectivityError(errors.New("boom"))
	assert.Empty(t, err.Hint)

	again := newConnectivityError(fmt.Errorf("attempt: %w", err))
	assert.Same(t, err, again)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			in:   `cannot parse "postgres://app:hunter2@db:5432/zappay"`,
			want: `cannot parse "postgres://***@db:5432/zappay"`,
		},
		{
			in:   "host=db password=hunter2 user=app",
			want: "host=db password=*** user=app",
		},
		{
			in:   "postgres://db/zappay?Password=hunter2&sslmode=require",
			want: "postgres://db/zappay?Password=***&sslmode=require",
		},
		{
			in:   "connection refused",
			want: "connection refused",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitize(tt.in))
	}
}

func TestErrorMessagesAreSanitized(t *testing.T) {
	cause := errors.New("dial postgres://app:hunter2@db/zappay: connection refused")

	for _, err := range []error{
		&ConnectivityError{Reason: ReasonNetwork, Err: cause},
		&SchemaSyncError{Err: cause},
		&ShutdownError{Err: cause},
	} {
		assert.NotContains(t, err.Error(), "hunter2")
		assert.ErrorIs(t, err, cause)
	}
}
