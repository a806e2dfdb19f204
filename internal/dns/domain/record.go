package domain

import "net/netip"

// ResourceRecord is one answer record of a DNS response. Data holds the
// raw RDATA with any name compression undone, so callers can interpret it
// without access to the rest of the message.
type ResourceRecord struct {
	Name  string
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte
}

// Addr returns the address carried by an A or AAAA record. The second
// return value is false when the record is of another type or its payload
// is not a well-formed address.
func (rr ResourceRecord) Addr() (netip.Addr, bool) {
	switch rr.Type {
	case RRTypeA:
		if len(rr.Data) == 4 {
			return netip.AddrFrom4([4]byte(rr.Data)), true
		}
	case RRTypeAAAA:
		if len(rr.Data) == 16 {
			return netip.AddrFrom16([16]byte(rr.Data)), true
		}
	}
	return netip.Addr{}, false
}
