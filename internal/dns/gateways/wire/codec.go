// Package wire translates between raw DNS message bytes and the domain
// model. The resolution engine only sees the Codec interface; the default
// implementation is backed by github.com/miekg/dns.
package wire

import "github.com/rmears/dnsclient/internal/dns/domain"

// Codec parses DNS messages and builds outbound queries.
type Codec interface {
	// ParseMessage decodes a wire-format DNS message. The returned
	// Message owns a private copy of data.
	ParseMessage(data []byte) (*domain.Message, error)

	// BuildQuery constructs a recursion-desired query for the given
	// name, record type and class (textual, e.g. "A", "IN"), assigning
	// a fresh random transaction ID.
	BuildQuery(name, qtype, qclass string) (*domain.Message, error)
}
