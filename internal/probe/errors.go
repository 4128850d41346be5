package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
)

// isTimeout reports whether err is a deadline or timeout of any kind.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// isConnectionFailure reports whether err happened while the connection was
// being set up or torn down, TLS handshake included, rather than from a
// protocol exchange that completed.
func isConnectionFailure(err error) bool {
	if isTimeout(err) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if isHandshakeFailure(err) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// isHandshakeFailure reports whether err comes from a failed TLS handshake.
// The client turns a plain HTTP reply to a ClientHello into
// http.ErrSchemeMismatch, dropping the record header error.
func isHandshakeFailure(err error) bool {
	if errors.Is(err, http.ErrSchemeMismatch) {
		return true
	}
	var recErr tls.RecordHeaderError
	if errors.As(err, &recErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var alertErr tls.AlertError
	return errors.As(err, &alertErr)
}
