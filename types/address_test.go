package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressShapes(t *testing.T) {
	assert.True(t, Address("alice").Valid())
	assert.True(t, Address("k:" + repeatHex()).Valid())
	assert.True(t, Address("w:" + repeatHex()).Valid())
	assert.False(t, Address("0xdeadbeef").Valid())
	assert.False(t, Address("ab").Valid())
}

func repeatHex() string {
	s := ""
	for i := 0; i < 64; i++ {
		s += "a"
	}
	return s
}
