package wire

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"

	"github.com/rmears/dnsclient/internal/dns/domain"
)

// Errors returned by the codec. Both mark structurally invalid input.
var (
	ErrMalformedMessage = errors.New("malformed dns message")
	ErrUnknownType      = errors.New("unknown record type")
	ErrUnknownClass     = errors.New("unknown record class")
)

// messageCodec implements Codec on top of miekg/dns.
type messageCodec struct{}

// NewCodec returns the default miekg/dns-backed codec.
func NewCodec() Codec {
	return &messageCodec{}
}

// ParseMessage decodes a wire-format DNS message into the domain model.
func (c *messageCodec) ParseMessage(data []byte) (*domain.Message, error) {
	var m dns.Msg
	if err := m.Unpack(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	raw := make([]byte, len(data))
	copy(raw, data)

	msg := &domain.Message{
		ID:        m.Id,
		Response:  m.Response,
		Truncated: m.Truncated,
		RCode:     domain.RCode(m.Rcode),
		Raw:       raw,
	}
	if len(m.Question) > 0 {
		q := m.Question[0]
		msg.Question = &domain.Question{
			Name:  q.Name,
			Type:  domain.RRType(q.Qtype),
			Class: domain.RRClass(q.Qclass),
		}
	}
	for _, rr := range m.Answer {
		data, err := rdataOf(rr)
		if err != nil {
			// An answer record miekg unpacked but cannot repack is
			// unusable; skip it rather than failing the message.
			continue
		}
		hdr := rr.Header()
		msg.Answers = append(msg.Answers, domain.ResourceRecord{
			Name:  hdr.Name,
			Type:  domain.RRType(hdr.Rrtype),
			Class: domain.RRClass(hdr.Class),
			TTL:   hdr.Ttl,
			Data:  data,
		})
	}
	return msg, nil
}

// BuildQuery constructs a single-question query message and packs it.
func (c *messageCodec) BuildQuery(name, qtype, qclass string) (*domain.Message, error) {
	t, ok := dns.StringToType[qtype]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, qtype)
	}
	cl, ok := dns.StringToClass[qclass]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, qclass)
	}

	fqdn, err := lookupName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid query name %q: %w", name, err)
	}

	m := new(dns.Msg)
	m.Id = dns.Id()
	m.RecursionDesired = true
	m.Question = []dns.Question{{Name: fqdn, Qtype: t, Qclass: cl}}

	raw, err := m.Pack()
	if err != nil {
		return nil, fmt.Errorf("pack query: %w", err)
	}
	return &domain.Message{
		ID: m.Id,
		Question: &domain.Question{
			Name:  fqdn,
			Type:  domain.RRType(t),
			Class: domain.RRClass(cl),
		},
		Raw: raw,
	}, nil
}

// lookupName IDNA-encodes a domain name and makes it fully qualified.
func lookupName(name string) (string, error) {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return ".", nil
	}
	puny, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return "", err
	}
	return dns.Fqdn(puny), nil
}

// rdataOf returns the raw RDATA of a record with name compression undone,
// by repacking the record without compression and slicing off its header.
func rdataOf(rr dns.RR) ([]byte, error) {
	buf := make([]byte, dns.Len(rr)+1)
	off, err := dns.PackRR(rr, buf, 0, nil, false)
	if err != nil {
		return nil, err
	}
	// The header is the owner name followed by ten fixed bytes
	// (type, class, TTL, RDLENGTH).
	_, nameLen, err := dns.UnpackDomainName(buf, 0)
	if err != nil {
		return nil, err
	}
	start := nameLen + 10
	if start > off {
		return nil, errors.New("resource record shorter than its header")
	}
	return buf[start:off], nil
}

// ReverseName returns the in-addr.arpa (IPv4) or ip6.arpa (IPv6) name
// used to look up the PTR records of an address.
func ReverseName(addr netip.Addr) (string, error) {
	name, err := dns.ReverseAddr(addr.String())
	if err != nil {
		return "", fmt.Errorf("reverse name for %s: %w", addr, err)
	}
	return name, nil
}
