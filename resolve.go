package dnsclient

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/rmears/dnsclient/internal/dns/domain"
)

// resolveMessage drives a validated exchange for an already-parsed query:
// it rejects structurally invalid queries without consulting any server,
// then sweeps the upstream list once, in order, returning the first
// validated response. Per-server failures are logged and swallowed; only
// exhaustion of the whole list surfaces, as ErrNoResponse.
func (c *Client) resolveMessage(ctx context.Context, query *domain.Message) (*domain.Message, error) {
	if query.Question == nil {
		return nil, ErrNoQuestion
	}
	if query.Response {
		return nil, ErrNotAQuery
	}
	for _, server := range c.servers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		response, err := c.exchangeWithServer(ctx, server, query)
		if err != nil {
			c.logger.Debug(map[string]any{
				"server":   server.Addr.String(),
				"question": query.Question.String(),
				"error":    err.Error(),
			}, "upstream attempt failed")
			continue
		}
		return response, nil
	}
	return nil, ErrNoResponse
}

// exchangeWithServer performs the per-server exchange: UDP first (unless
// the client forces TCP), a TCP redo when the UDP answer came back
// truncated, then validation of the transaction ID and question against
// the query. Every failure here counts against this server only.
func (c *Client) exchangeWithServer(ctx context.Context, server UpstreamServer, query *domain.Message) (*domain.Message, error) {
	local := c.localV4
	if server.Addr.Addr().Is6() && !server.Addr.Addr().Is4In6() {
		local = c.localV6
	}

	var response *domain.Message
	if c.forceTCP {
		msg, err := c.exchangeTCP(ctx, local, server, query.Raw)
		if err != nil {
			return nil, err
		}
		response = msg
	} else {
		msg, err := c.exchangeUDP(ctx, local, server, query.Raw)
		if err != nil {
			return nil, err
		}
		response = msg
		// A truncated UDP answer is unreliable and must be redone
		// over TCP to the same server.
		if response.Truncated {
			msg, err := c.exchangeTCP(ctx, local, server, query.Raw)
			if err != nil {
				return nil, err
			}
			response = msg
		}
	}

	if response.ID != query.ID || !questionsMatch(query.Question, response.Question) {
		return nil, domain.ErrResponseMismatch
	}
	return response, nil
}

func (c *Client) exchangeUDP(ctx context.Context, local netip.AddrPort, server UpstreamServer, query []byte) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	raw, err := c.backend.ExchangeUDP(ctx, local, server.Addr, query)
	if err != nil {
		return nil, err
	}
	msg, err := c.codec.ParseMessage(raw)
	if err != nil {
		return nil, fmt.Errorf("udp response: %w", err)
	}
	return msg, nil
}

func (c *Client) exchangeTCP(ctx context.Context, local netip.AddrPort, server UpstreamServer, query []byte) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	raw, err := c.backend.ExchangeTCP(ctx, local, server.Addr, query)
	if err != nil {
		return nil, err
	}
	msg, err := c.codec.ParseMessage(raw)
	if err != nil {
		return nil, fmt.Errorf("tcp response: %w", err)
	}
	return msg, nil
}

// questionsMatch reports whether a response's question echoes the
// query's. A response without a question never matches, since the query
// is guaranteed to carry one by the time this runs.
func questionsMatch(query, response *domain.Question) bool {
	return response != nil && query.Equal(*response)
}
