// Package dnsclient is a stub DNS resolver client. It sends queries to
// one or more pre-configured upstream servers, retries truncated UDP
// answers over TCP, validates that a response actually answers the query
// that was sent, and extracts typed results from the answer section.
//
// It is not a recursive resolver: there is no caching, no iteration from
// the root servers and no DNSSEC validation, only a single validated
// exchange with the first upstream server that produces one.
package dnsclient

import (
	"net/netip"
	"time"

	"github.com/rmears/dnsclient/internal/dns/common/log"
	"github.com/rmears/dnsclient/internal/dns/config"
	"github.com/rmears/dnsclient/internal/dns/gateways/transport"
	"github.com/rmears/dnsclient/internal/dns/gateways/wire"
)

// defaultTimeout bounds each individual network exchange unless the
// caller overrides it.
const defaultTimeout = 5 * time.Second

// UpstreamServer identifies one upstream DNS server by socket address.
type UpstreamServer struct {
	Addr netip.AddrPort
}

// NewUpstreamServer returns an UpstreamServer for the given address.
func NewUpstreamServer(addr netip.AddrPort) UpstreamServer {
	return UpstreamServer{Addr: addr}
}

// SystemServers returns the upstream servers configured in the host's
// resolver configuration (on unix, /etc/resolv.conf), in file order.
func SystemServers() ([]UpstreamServer, error) {
	addrs, err := config.SystemResolvers()
	if err != nil {
		return nil, err
	}
	servers := make([]UpstreamServer, 0, len(addrs))
	for _, addr := range addrs {
		servers = append(servers, UpstreamServer{Addr: addr})
	}
	return servers, nil
}

// Client resolves DNS queries against an ordered list of upstream
// servers. Its configuration is read-only during a resolution call, so a
// single Client is safe for concurrent use once configured.
type Client struct {
	backend  transport.Backend
	codec    wire.Codec
	servers  []UpstreamServer
	timeout  time.Duration
	localV4  netip.AddrPort
	localV6  netip.AddrPort
	forceTCP bool
	shuffle  bool
	rand     Rand
	logger   log.Logger
}

// Options configures a Client. Servers is required; every other field
// has a working default.
type Options struct {
	// Servers is the ordered failover list of upstream servers,
	// always tried front to back.
	Servers []UpstreamServer

	// Timeout bounds each individual network exchange. Defaults to
	// five seconds.
	Timeout time.Duration

	// LocalV4Addr and LocalV6Addr are the local socket addresses used
	// when talking to IPv4 and IPv6 upstreams. The zero value means
	// wildcard address, ephemeral port.
	LocalV4Addr netip.AddrPort
	LocalV6Addr netip.AddrPort

	// ForceTCP skips UDP entirely and performs every exchange over TCP.
	ForceTCP bool

	// ShuffleAnswers randomly permutes address results before they
	// are returned, spreading load across equally valid records.
	ShuffleAnswers bool

	// Backend, Codec, Rand and Logger are injection points for tests
	// and alternative implementations.
	Backend transport.Backend
	Codec   wire.Codec
	Rand    Rand
	Logger  log.Logger
}

// New returns a Client for the given options. It fails with ErrNoServers
// when the upstream list is empty.
func New(opts Options) (*Client, error) {
	if len(opts.Servers) == 0 {
		return nil, ErrNoServers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Backend == nil {
		opts.Backend = transport.NewNetBackend()
	}
	if opts.Codec == nil {
		opts.Codec = wire.NewCodec()
	}
	if opts.Rand == nil {
		opts.Rand = systemRand{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoop()
	}
	servers := make([]UpstreamServer, len(opts.Servers))
	copy(servers, opts.Servers)
	return &Client{
		backend:  opts.Backend,
		codec:    opts.Codec,
		servers:  servers,
		timeout:  opts.Timeout,
		localV4:  opts.LocalV4Addr,
		localV6:  opts.LocalV6Addr,
		forceTCP: opts.ForceTCP,
		shuffle:  opts.ShuffleAnswers,
		rand:     opts.Rand,
		logger:   opts.Logger,
	}, nil
}

// The setters below mutate configuration and must only be called before
// the client is shared across goroutines.

// SetTimeout changes the per-exchange timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// SetLocalV4Addr sets the local address used for IPv4 upstreams.
func (c *Client) SetLocalV4Addr(addr netip.AddrPort) {
	c.localV4 = addr
}

// SetLocalV6Addr sets the local address used for IPv6 upstreams.
func (c *Client) SetLocalV6Addr(addr netip.AddrPort) {
	c.localV6 = addr
}

// SetForceTCP toggles TCP-only operation.
func (c *Client) SetForceTCP(force bool) {
	c.forceTCP = force
}

// SetShuffleAnswers toggles random permutation of address results.
func (c *Client) SetShuffleAnswers(shuffle bool) {
	c.shuffle = shuffle
}
