package domain

import (
	"fmt"

	"github.com/rmears/dnsclient/internal/dns/common/utils"
)

// Question is the single question section of a DNS message.
type Question struct {
	Name  string
	Type  RRType
	Class RRClass
}

// Equal reports whether two questions ask for the same name, type and
// class. Names are compared case-insensitively and without trailing dots,
// since upstream servers are free to echo the question in either case.
func (q Question) Equal(other Question) bool {
	return q.Type == other.Type &&
		q.Class == other.Class &&
		utils.CanonicalDNSName(q.Name) == utils.CanonicalDNSName(other.Name)
}

// String renders the question in zone-file order, e.g. "example.com. IN A".
func (q Question) String() string {
	return fmt.Sprintf("%s %s %s", q.Name, q.Class, q.Type)
}
