package probe

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/url"
	"time"
)

// RTPProber checks RTP endpoints with a datagram connect. For a
// connectionless socket a successful local association with the remote
// address is enough; no data is exchanged.
type RTPProber struct{}

// Probe resolves and associates a UDP socket with target's host and port.
func (p *RTPProber) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	u, err := url.Parse(target)
	if err != nil {
		return Invalid
	}
	host, port := u.Hostname(), u.Port()
	if host == "" || port == "" {
		return Invalid
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, FamilyFor(host).Network("udp"), net.JoinHostPort(host, port))
	if err != nil {
		if isTimeout(err) {
			return Unknown
		}
		return Invalid
	}
	_ = conn.Close()
	return Valid
}

// P3PProber checks P3P endpoints by sending a handshake request line. The
// response is not awaited: a completed send is Valid and every failure is
// Invalid.
type P3PProber struct {
	UserAgent string
}

// Probe connects to target (port 80 by default) and sends the request.
func (p *P3PProber) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return Invalid
	}
	port := u.Port()
	if port == "" {
		port = "80"
	}

	conn, err := dialStream(ctx, u.Hostname(), port, timeout)
	if err != nil {
		return Invalid
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, handshake("P3P", u.RequestURI(), "P3P/1.0", u.Host, signature(p.UserAgent))); err != nil {
		return Invalid
	}
	return Valid
}

// P2PMarker must appear in the first chunk a P2P endpoint answers with.
const P2PMarker = "P2P/1.0 200"

const p2pReadSize = 4096

// P2PProber checks P2P endpoints with a request/response handshake.
type P2PProber struct {
	UserAgent string
}

// Probe requires host, port and path. It sends the connect request and
// looks for [P2PMarker] in the first chunk read back.
func (p *P2PProber) Probe(ctx context.Context, target string, timeout time.Duration) Outcome {
	u, err := url.Parse(target)
	if err != nil {
		return Invalid
	}
	host, port := u.Hostname(), u.Port()
	if host == "" || port == "" || u.Path == "" {
		return Invalid
	}

	conn, err := dialStream(ctx, host, port, timeout)
	if err != nil {
		return Invalid
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, handshake("P2P-CONNECT", u.RequestURI(), "P2P/1.0", u.Host, signature(p.UserAgent))); err != nil {
		return Invalid
	}

	buf := make([]byte, p2pReadSize)
	n, _ := conn.Read(buf)
	if n > 0 && bytes.Contains(buf[:n], []byte(P2PMarker)) {
		return Valid
	}
	return Invalid
}

// dialStream opens a TCP connection pinned to host's family with the
// whole exchange bounded by timeout.
func dialStream(ctx context.Context, host, port string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, FamilyFor(host).Network("tcp"), net.JoinHostPort(host, port))
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func signature(ua string) string {
	if ua == "" {
		return UserAgent
	}
	return ua
}

func handshake(method, path, proto, host, ua string) string {
	return method + " " + path + " " + proto + "\r\n" +
		"Host: " + host + "\r\n" +
		"User-Agent: " + ua + "\r\n\r\n"
}
