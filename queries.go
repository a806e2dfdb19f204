package dnsclient

import (
	"context"
	"net/netip"
	"sync"

	"github.com/rmears/dnsclient/internal/dns/common/rrdata"
	"github.com/rmears/dnsclient/internal/dns/domain"
	"github.com/rmears/dnsclient/internal/dns/gateways/wire"
)

// QueryRaw sends a pre-encoded query and returns the raw validated
// response bytes.
//
// With tidMasking enabled, the transaction ID actually sent on the wire
// is replaced by a random one and the accepted response is rewritten to
// carry the caller's original ID, so masking is invisible to the caller.
// This defends against off-path answer guessing when the caller's own ID
// generator is predictable.
func (c *Client) QueryRaw(ctx context.Context, query []byte, tidMasking bool) ([]byte, error) {
	msg, err := c.codec.ParseMessage(query)
	if err != nil {
		return nil, err
	}
	var callerID uint16
	if tidMasking {
		callerID = msg.ID
		msg.SetID(c.rand.Uint16())
	}
	response, err := c.resolveMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	if tidMasking {
		response.SetID(callerID)
	}
	return response.Raw, nil
}

// queryTyped builds a query for name/qtype/qclass and resolves it.
func (c *Client) queryTyped(ctx context.Context, name, qtype, qclass string) (*domain.Message, error) {
	msg, err := c.codec.BuildQuery(name, qtype, qclass)
	if err != nil {
		return nil, err
	}
	return c.resolveMessage(ctx, msg)
}

// QueryA returns the IPv4 addresses of name. Answer records that do not
// decode as IPv4 addresses are skipped, not fatal.
func (c *Client) QueryA(ctx context.Context, name string) ([]netip.Addr, error) {
	response, err := c.queryTyped(ctx, name, "A", "IN")
	if err != nil {
		return nil, err
	}
	return c.collectAddrs(response, netip.Addr.Is4), nil
}

// QueryAAAA returns the IPv6 addresses of name. Answer records that do
// not decode as IPv6 addresses are skipped, not fatal.
func (c *Client) QueryAAAA(ctx context.Context, name string) ([]netip.Addr, error) {
	response, err := c.queryTyped(ctx, name, "AAAA", "IN")
	if err != nil {
		return nil, err
	}
	return c.collectAddrs(response, func(a netip.Addr) bool { return a.Is6() && !a.Is4In6() }), nil
}

// QueryAddrs returns both the IPv4 and IPv6 addresses of name, running
// the two queries concurrently.
func (c *Client) QueryAddrs(ctx context.Context, name string) ([]netip.Addr, error) {
	var (
		wg     sync.WaitGroup
		v4, v6 []netip.Addr
		e4, e6 error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		v4, e4 = c.QueryA(ctx, name)
	}()
	go func() {
		defer wg.Done()
		v6, e6 = c.QueryAAAA(ctx, name)
	}()
	wg.Wait()
	if e4 != nil {
		return nil, e4
	}
	if e6 != nil {
		return nil, e6
	}
	addrs := append(v4, v6...)
	c.maybeShuffle(addrs)
	return addrs, nil
}

// QueryTXT returns the TXT data of name. Each answer's payload is a
// sequence of length-prefixed character-strings; the chunks of one record
// are concatenated into one result entry.
func (c *Client) QueryTXT(ctx context.Context, name string) ([][]byte, error) {
	response, err := c.queryTyped(ctx, name, "TXT", "IN")
	if err != nil {
		return nil, err
	}
	var txts [][]byte
	for _, rr := range response.Answers {
		txt, err := rrdata.DecodeCharacterStrings(rr.Data)
		if err != nil {
			return nil, err
		}
		txts = append(txts, txt)
	}
	return txts, nil
}

// QueryPTR returns the names that ip reverse-resolves to. Each decoded
// PTR name is forward-confirmed: its A (for an IPv4 input) or AAAA (for
// IPv6) records are resolved again, and a name that does not map back to
// ip is discarded rather than surfaced.
func (c *Client) QueryPTR(ctx context.Context, ip netip.Addr) ([]string, error) {
	arpa, err := wire.ReverseName(ip)
	if err != nil {
		return nil, err
	}
	response, err := c.queryTyped(ctx, arpa, "PTR", "IN")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, rr := range response.Answers {
		name, err := rrdata.DecodeDomainName(rr.Data)
		if err != nil {
			return nil, err
		}
		if c.confirmForward(ctx, name, ip) {
			names = append(names, name)
		}
	}
	return names, nil
}

// confirmForward reports whether name resolves back to ip. A failed
// forward lookup counts as unconfirmed.
func (c *Client) confirmForward(ctx context.Context, name string, ip netip.Addr) bool {
	var (
		addrs []netip.Addr
		err   error
	)
	if ip.Unmap().Is4() {
		addrs, err = c.QueryA(ctx, name)
	} else {
		addrs, err = c.QueryAAAA(ctx, name)
	}
	if err != nil {
		c.logger.Debug(map[string]any{
			"name":  name,
			"ip":    ip.String(),
			"error": err.Error(),
		}, "forward confirmation lookup failed")
		return false
	}
	want := ip.Unmap()
	for _, addr := range addrs {
		if addr == want {
			return true
		}
	}
	return false
}

// QueryRRSData returns the raw RDATA of every answer record matching the
// given class and type exactly (textual, e.g. "IN", "TLSA"). Unknown
// class or type strings fail before any server is consulted.
func (c *Client) QueryRRSData(ctx context.Context, name, qclass, qtype string) ([][]byte, error) {
	response, err := c.queryTyped(ctx, name, qtype, qclass)
	if err != nil {
		return nil, err
	}
	query := response.Question
	var datas [][]byte
	for _, rr := range response.Answers {
		if rr.Class != query.Class || rr.Type != query.Type {
			continue
		}
		datas = append(datas, rr.Data)
	}
	return datas, nil
}

// collectAddrs gathers the answer addresses matching the wanted family.
func (c *Client) collectAddrs(response *domain.Message, want func(netip.Addr) bool) []netip.Addr {
	var addrs []netip.Addr
	for _, rr := range response.Answers {
		addr, ok := rr.Addr()
		if ok && want(addr) {
			addrs = append(addrs, addr)
		}
	}
	c.maybeShuffle(addrs)
	return addrs
}

func (c *Client) maybeShuffle(addrs []netip.Addr) {
	if !c.shuffle || len(addrs) < 2 {
		return
	}
	c.rand.Shuffle(len(addrs), func(i, j int) {
		addrs[i], addrs[j] = addrs[j], addrs[i]
	})
}
