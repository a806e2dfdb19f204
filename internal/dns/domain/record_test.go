package domain

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceRecordAddr(t *testing.T) {
	tests := []struct {
		name string
		rr   ResourceRecord
		want string
		ok   bool
	}{
		{
			name: "A record",
			rr:   ResourceRecord{Type: RRTypeA, Data: []byte{192, 0, 2, 1}},
			want: "192.0.2.1",
			ok:   true,
		},
		{
			name: "AAAA record",
			rr: ResourceRecord{Type: RRTypeAAAA, Data: []byte{
				0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1,
			}},
			want: "2001:db8::1",
			ok:   true,
		},
		{
			name: "A record with wrong payload size",
			rr:   ResourceRecord{Type: RRTypeA, Data: []byte{192, 0, 2}},
		},
		{
			name: "AAAA record with A-sized payload",
			rr:   ResourceRecord{Type: RRTypeAAAA, Data: []byte{192, 0, 2, 1}},
		},
		{
			name: "TXT record never decodes",
			rr:   ResourceRecord{Type: RRTypeTXT, Data: []byte{192, 0, 2, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, ok := tt.rr.Addr()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.True(t, addr.IsValid())
				assert.Equal(t, netip.MustParseAddr(tt.want), addr)
			}
		})
	}
}
