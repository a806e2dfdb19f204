package rrdata

import (
	"errors"
	"strings"
)

// ErrInvalidDomainName means a name payload declared a label longer than
// the bytes remaining in the record.
var ErrInvalidDomainName = errors.New("invalid domain name encoding")

// DecodeDomainName decodes an uncompressed wire-format domain name:
// length-prefixed labels terminated by a zero byte. Labels are joined
// with "."; the root name decodes to ".".
func DecodeDomainName(b []byte) (string, error) {
	var labels []string
	for i := 0; i < len(b); {
		n := int(b[i])
		if n == 0 {
			break
		}
		i++
		if i+n > len(b) {
			return "", ErrInvalidDomainName
		}
		labels = append(labels, string(b[i:i+n]))
		i += n
	}
	if len(labels) == 0 {
		return ".", nil
	}
	return strings.Join(labels, "."), nil
}
