package domain

import "encoding/binary"

// Message is a parsed DNS message together with the wire bytes it was
// parsed from (or packed to). Only the header fields the resolution engine
// acts on are surfaced; everything else stays opaque inside Raw.
type Message struct {
	ID        uint16
	Response  bool // QR flag
	Truncated bool // TC flag
	RCode     RCode
	Question  *Question // nil when the question section is empty
	Answers   []ResourceRecord
	Raw       []byte
}

// SetID overwrites the transaction ID, both in the parsed header and in
// the first two bytes of the wire image, keeping the two views consistent.
func (m *Message) SetID(id uint16) {
	m.ID = id
	if len(m.Raw) >= 2 {
		binary.BigEndian.PutUint16(m.Raw[:2], id)
	}
}
