package rrdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDomainName(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    string
		wantErr error
	}{
		{
			name: "two labels",
			in:   []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0},
			want: "example.com",
		},
		{
			name: "root name",
			in:   []byte{0},
			want: ".",
		},
		{
			name: "empty payload decodes as root",
			in:   []byte{},
			want: ".",
		},
		{
			name:    "label runs past end",
			in:      []byte{7, 'e', 'x', 'a'},
			wantErr: ErrInvalidDomainName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDomainName(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
