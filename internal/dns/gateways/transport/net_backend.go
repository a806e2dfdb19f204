package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
)

// ErrResponseTooLarge means a TCP response declared a length above
// MaxMessageSize and was rejected before reading its body.
var ErrResponseTooLarge = errors.New("response exceeds maximum dns message size")

// NetBackend is the default Backend, exchanging messages over the
// standard net package.
type NetBackend struct {
	// Dial overrides the default dialer when set. Connections made
	// through it are not bound to the caller's local address; tests
	// use this to intercept exchanges.
	Dial DialFunc
}

// NewNetBackend returns a Backend using the default net.Dialer.
func NewNetBackend() *NetBackend {
	return &NetBackend{}
}

func (b *NetBackend) dial(ctx context.Context, network string, local, server netip.AddrPort) (net.Conn, error) {
	if b.Dial != nil {
		return b.Dial(ctx, network, server.String())
	}
	var d net.Dialer
	if local.IsValid() {
		switch network {
		case "udp":
			d.LocalAddr = net.UDPAddrFromAddrPort(local)
		case "tcp":
			d.LocalAddr = net.TCPAddrFromAddrPort(local)
		}
	}
	return d.DialContext(ctx, network, server.String())
}

// ExchangeUDP sends query as a single datagram and reads one datagram
// back. The context deadline bounds the whole exchange.
func (b *NetBackend) ExchangeUDP(ctx context.Context, local, server netip.AddrPort, query []byte) ([]byte, error) {
	conn, err := b.dial(ctx, "udp", local, server)
	if err != nil {
		return nil, fmt.Errorf("udp dial %s: %w", server, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if _, err := conn.Write(query); err != nil {
		return nil, fmt.Errorf("udp write: %w", err)
	}
	buf := make([]byte, MaxMessageSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("udp read: %w", err)
	}
	return buf[:n], nil
}

// ExchangeTCP sends query with the 2-byte big-endian length prefix of
// RFC 1035 §4.2.2 and reads one framed response the same way.
func (b *NetBackend) ExchangeTCP(ctx context.Context, local, server netip.AddrPort, query []byte) ([]byte, error) {
	if len(query) > MaxMessageSize {
		return nil, fmt.Errorf("query of %d bytes does not fit the tcp length prefix", len(query))
	}
	conn, err := b.dial(ctx, "tcp", local, server)
	if err != nil {
		return nil, fmt.Errorf("tcp dial %s: %w", server, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	framed := make([]byte, 2+len(query))
	binary.BigEndian.PutUint16(framed, uint16(len(query)))
	copy(framed[2:], query)
	if _, err := conn.Write(framed); err != nil {
		return nil, fmt.Errorf("tcp write: %w", err)
	}

	var lenb [2]byte
	if _, err := io.ReadFull(conn, lenb[:]); err != nil {
		return nil, fmt.Errorf("tcp read length: %w", err)
	}
	n := int(binary.BigEndian.Uint16(lenb[:]))
	if n > MaxMessageSize {
		return nil, ErrResponseTooLarge
	}
	response := make([]byte, n)
	if _, err := io.ReadFull(conn, response); err != nil {
		return nil, fmt.Errorf("tcp read body: %w", err)
	}
	return response, nil
}
