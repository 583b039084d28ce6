package hw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMuxDispatch(t *testing.T) {
	lo := NewRAM("lo", 0x1000, 0x100)
	hi := NewRAM("hi", 0x2000, 0x100)
	mux := NewMux(lo, hi)

	mux.Write32(0x1010, 0xaa)
	mux.Write32(0x2020, 0xbb)
	require.Equal(t, uint32(0xaa), mux.Read32(0x1010))
	require.Equal(t, uint32(0xbb), mux.Read32(0x2020))
	require.Equal(t, uint32(0xaa), lo.Read32(0x10))
	require.Equal(t, uint32(0xbb), hi.Read32(0x20))

	require.Equal(t, lo, mux.At(0x1000))
	require.Equal(t, lo, mux.At(0x10fc))
	require.Nil(t, mux.At(0x1100))
}

func TestMuxBusFault(t *testing.T) {
	mux := NewMux(NewRAM("ram", 0x1000, 0x100))
	require.Panics(t, func() { mux.Read32(0x3000) })
	require.Panics(t, func() { mux.Write32(0x3000, 1) })
}
