// Package rrdata decodes the RDATA payloads of DNS resource records that
// the client interprets itself: character-strings (TXT, RFC 1035 §3.3.14)
// and uncompressed domain names (PTR).
package rrdata

import "errors"

// ErrInvalidTextRecord means a TXT payload declared a character-string
// longer than the bytes remaining in the record.
var ErrInvalidTextRecord = errors.New("invalid text record")

// DecodeCharacterStrings decodes a sequence of DNS character-strings,
// each a length byte followed by that many bytes of data, and returns the
// data concatenated without chunk boundaries.
func DecodeCharacterStrings(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		n := int(b[i])
		i++
		if i+n > len(b) {
			return nil, ErrInvalidTextRecord
		}
		out = append(out, b[i:i+n]...)
		i += n
	}
	return out, nil
}
