package word256

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommutative(t *testing.T) {
	a := FromUint64(17)
	b := FromUint64(4242)
	assert.Equal(t, a.Add(b), b.Add(a))
}

func TestSubViaNot(t *testing.T) {
	a := FromUint64(100)
	b := FromUint64(37)
	one := FromUint64(1)
	assert.Equal(t, a.Sub(b), a.Add(b.Not()).Add(one))
}

func TestDivByZeroYieldsZero(t *testing.T) {
	a := FromUint64(10)
	assert.True(t, a.Div(Zero).IsZero())
	assert.True(t, a.Mod(Zero).IsZero())
}

func TestShiftClamp(t *testing.T) {
	a := FromUint64(1)
	assert.True(t, a.Lsh(256).IsZero())
	assert.True(t, a.Rsh(300).IsZero())
}

func TestHexRoundTrip(t *testing.T) {
	w := FromUint64(0x30)
	got, err := FromHex(w.ToHex())
	require.NoError(t, err)
	assert.Equal(t, 0, w.Cmp(got))
}

func TestBigEndianRoundTrip(t *testing.T) {
	w := FromUint64(0xdeadbeef)
	b := w.ToBigEndianBytes()
	got := FromBigEndianBytes(b[:])
	assert.Equal(t, 0, w.Cmp(got))
}
