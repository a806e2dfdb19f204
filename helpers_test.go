package dnsclient

import (
	"context"
	"net/netip"
	"sync"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"github.com/rmears/dnsclient/internal/dns/gateways/transport"
)

// fakeBackend satisfies transport.Backend with pluggable per-protocol
// handlers and records every exchange it receives.
type fakeBackend struct {
	mu       sync.Mutex
	udp      func(server netip.AddrPort, query []byte) ([]byte, error)
	tcp      func(server netip.AddrPort, query []byte) ([]byte, error)
	udpCalls []backendCall
	tcpCalls []backendCall
}

type backendCall struct {
	server netip.AddrPort
	query  []byte
}

var _ transport.Backend = (*fakeBackend)(nil)

func (b *fakeBackend) ExchangeUDP(_ context.Context, _ netip.AddrPort, server netip.AddrPort, query []byte) ([]byte, error) {
	b.record(&b.udpCalls, server, query)
	if b.udp == nil {
		panic("unexpected udp exchange")
	}
	return b.udp(server, query)
}

func (b *fakeBackend) ExchangeTCP(_ context.Context, _ netip.AddrPort, server netip.AddrPort, query []byte) ([]byte, error) {
	b.record(&b.tcpCalls, server, query)
	if b.tcp == nil {
		panic("unexpected tcp exchange")
	}
	return b.tcp(server, query)
}

func (b *fakeBackend) record(calls *[]backendCall, server netip.AddrPort, query []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := make([]byte, len(query))
	copy(q, query)
	*calls = append(*calls, backendCall{server: server, query: q})
}

// stubRand is a deterministic Rand: every Uint16 returns id, and Shuffle
// reverses the slice so its effect is observable.
type stubRand struct{ id uint16 }

func (r stubRand) Uint16() uint16 { return r.id }

func (r stubRand) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

// replyTo unpacks a wire-format query, builds a matching reply carrying
// the given answers, applies mutate (when non-nil) and repacks it.
func replyTo(t *testing.T, query []byte, mutate func(*dns.Msg), answers ...dns.RR) []byte {
	t.Helper()
	var q dns.Msg
	require.NoError(t, q.Unpack(query))
	r := new(dns.Msg)
	r.SetReply(&q)
	r.Answer = answers
	if mutate != nil {
		mutate(r)
	}
	raw, err := r.Pack()
	require.NoError(t, err)
	return raw
}

// questionOf returns the first question of a wire-format message.
func questionOf(t *testing.T, raw []byte) dns.Question {
	t.Helper()
	var m dns.Msg
	require.NoError(t, m.Unpack(raw))
	require.NotEmpty(t, m.Question)
	return m.Question[0]
}

func aRR(name, addr string) *dns.A {
	return &dns.A{
		Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
		A:   netip.MustParseAddr(addr).AsSlice(),
	}
}

func aaaaRR(name, addr string) *dns.AAAA {
	return &dns.AAAA{
		Hdr:  dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: 300},
		AAAA: netip.MustParseAddr(addr).AsSlice(),
	}
}

func txtRR(name string, chunks ...string) *dns.TXT {
	return &dns.TXT{
		Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 300},
		Txt: chunks,
	}
}

func ptrRR(name, target string) *dns.PTR {
	return &dns.PTR{
		Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 300},
		Ptr: dns.Fqdn(target),
	}
}

// packedQuery builds wire-format query bytes with an explicit transaction
// ID, for exercising the raw query path.
func packedQuery(t *testing.T, id uint16, name string, qtype uint16) []byte {
	t.Helper()
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.Id = id
	raw, err := m.Pack()
	require.NoError(t, err)
	return raw
}

var (
	serverOne = netip.MustParseAddrPort("192.0.2.10:53")
	serverTwo = netip.MustParseAddrPort("192.0.2.20:53")
)

func newTestClient(t *testing.T, backend *fakeBackend, mutate func(*Options)) *Client {
	t.Helper()
	opts := Options{
		Servers: []UpstreamServer{NewUpstreamServer(serverOne)},
		Backend: backend,
		Rand:    stubRand{id: 0xBEEF},
	}
	if mutate != nil {
		mutate(&opts)
	}
	c, err := New(opts)
	require.NoError(t, err)
	return c
}
