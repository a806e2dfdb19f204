package transport

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// udpEcho starts a UDP server on a loopback port that answers every
// datagram with respond(received). It is torn down with the test.
func udpEcho(t *testing.T, respond func([]byte) []byte) netip.AddrPort {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, MaxMessageSize)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			if resp := respond(buf[:n]); resp != nil {
				_, _ = conn.WriteToUDP(resp, addr)
			}
		}
	}()
	return conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// tcpServe starts a TCP server on a loopback port that reads one framed
// message per connection and writes back the raw bytes produced by
// respond (the caller frames them, or deliberately does not).
func tcpServe(t *testing.T, respond func([]byte) []byte) netip.AddrPort {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				var lenb [2]byte
				if _, err := io.ReadFull(conn, lenb[:]); err != nil {
					return
				}
				body := make([]byte, binary.BigEndian.Uint16(lenb[:]))
				if _, err := io.ReadFull(conn, body); err != nil {
					return
				}
				if resp := respond(body); resp != nil {
					_, _ = conn.Write(resp)
				}
			}(conn)
		}
	}()
	return ln.Addr().(*net.TCPAddr).AddrPort()
}

func framed(body []byte) []byte {
	out := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(len(body)))
	copy(out[2:], body)
	return out
}

func TestExchangeUDP(t *testing.T) {
	backend := NewNetBackend()
	query := []byte{0xAB, 0xCD, 0x01, 0x00}

	t.Run("round trip", func(t *testing.T) {
		server := udpEcho(t, func(got []byte) []byte {
			assert.Equal(t, query, got)
			return []byte{0xAB, 0xCD, 0x81, 0x80}
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		resp, err := backend.ExchangeUDP(ctx, netip.AddrPort{}, server, query)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xAB, 0xCD, 0x81, 0x80}, resp)
	})

	t.Run("timeout when server stays silent", func(t *testing.T) {
		server := udpEcho(t, func([]byte) []byte { return nil })
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := backend.ExchangeUDP(ctx, netip.AddrPort{}, server, query)
		assert.Error(t, err)
	})
}

func TestExchangeTCP(t *testing.T) {
	backend := NewNetBackend()
	query := []byte{0x12, 0x34, 0x01, 0x00}

	t.Run("round trip with length prefix", func(t *testing.T) {
		response := []byte{0x12, 0x34, 0x81, 0x80}
		server := tcpServe(t, func(got []byte) []byte {
			assert.Equal(t, query, got)
			return framed(response)
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		resp, err := backend.ExchangeTCP(ctx, netip.AddrPort{}, server, query)
		require.NoError(t, err)
		assert.Equal(t, response, resp)
	})

	t.Run("short body fails", func(t *testing.T) {
		server := tcpServe(t, func([]byte) []byte {
			// Declare a 100 byte body but send only four.
			out := make([]byte, 2+4)
			binary.BigEndian.PutUint16(out, 100)
			return out
		})
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		_, err := backend.ExchangeTCP(ctx, netip.AddrPort{}, server, query)
		assert.Error(t, err)
	})

	t.Run("connection refused fails", func(t *testing.T) {
		// A port that was just released is very unlikely to accept.
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		server := ln.Addr().(*net.TCPAddr).AddrPort()
		ln.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		_, err = backend.ExchangeTCP(ctx, netip.AddrPort{}, server, query)
		assert.Error(t, err)
	})

	t.Run("oversized query rejected before dialing", func(t *testing.T) {
		_, err := backend.ExchangeTCP(context.Background(), netip.AddrPort{}, netip.MustParseAddrPort("127.0.0.1:1"), make([]byte, MaxMessageSize+1))
		assert.Error(t, err)
	})
}

func TestDialOverride(t *testing.T) {
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })

	backend := &NetBackend{
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			assert.Equal(t, "udp", network)
			assert.Equal(t, "192.0.2.1:53", address)
			return client, nil
		},
	}

	go func() {
		buf := make([]byte, 64)
		n, err := server.Read(buf)
		if err != nil {
			return
		}
		_, _ = server.Write(buf[:n])
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := backend.ExchangeUDP(ctx, netip.AddrPort{}, netip.MustParseAddrPort("192.0.2.1:53"), []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, resp)
}
