// Package transport performs single DNS exchanges over UDP and TCP.
// The resolution engine drives it through the Backend interface; each
// exchange is bounded by the deadline of the context it is given and
// releases its socket on every exit path.
package transport

import (
	"context"
	"net"
	"net/netip"
)

// MaxMessageSize is the largest DNS message the client accepts, the
// 16-bit ceiling of the TCP length prefix.
const MaxMessageSize = 65535

// Backend performs one DNS exchange with an upstream server. local is
// the address to bind the outgoing socket to; the zero AddrPort means
// wildcard address with an ephemeral port.
type Backend interface {
	ExchangeUDP(ctx context.Context, local, server netip.AddrPort, query []byte) ([]byte, error)
	ExchangeTCP(ctx context.Context, local, server netip.AddrPort, query []byte) ([]byte, error)
}

// DialFunc establishes a network connection. It matches the signature of
// net.Dialer.DialContext and exists so tests can substitute the dialer.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)
