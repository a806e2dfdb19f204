package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRRTypeString(t *testing.T) {
	assert.Equal(t, "A", RRTypeA.String())
	assert.Equal(t, "AAAA", RRTypeAAAA.String())
	assert.Equal(t, "PTR", RRTypePTR.String())
	assert.Equal(t, "TYPE4242", RRType(4242).String())
}

func TestRRClassString(t *testing.T) {
	assert.Equal(t, "IN", RRClassIN.String())
	assert.Equal(t, "ANY", RRClassANY.String())
	assert.Equal(t, "CLASS42", RRClass(42).String())
}
