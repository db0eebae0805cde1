// internal/pdo/pdo_test.go
package pdo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBooleanRoundtripPreservesPadding(t *testing.T) {
	rec := NewRecord(0x1600)
	pad1 := rec.Bit(2)
	flag := rec.Boolean()
	pad2 := rec.Bit(5)

	require.NoError(t, rec.Compile())
	require.Equal(t, 8, rec.BitLen())
	require.Equal(t, 1, rec.ByteLen())

	image := make([]byte, 4)
	require.NoError(t, rec.Bind(image, 0))

	pad1.Set(0b10)
	pad2.Set(0b10101)

	flag.Set(true)
	require.True(t, flag.Get())
	require.Equal(t, uint8(0b10), pad1.Get())
	require.Equal(t, uint8(0b10101), pad2.Get())

	flag.Set(false)
	require.False(t, flag.Get())
	require.Equal(t, uint8(0b10), pad1.Get())
	require.Equal(t, uint8(0b10101), pad2.Get())

	// Only the first byte of the image belongs to the record.
	require.Equal(t, []byte{0, 0, 0}, image[1:])
}

func TestBoolIsRejectedAtCompile(t *testing.T) {
	rec := NewRecord(0x1600)
	rec.Bool()

	err := rec.Compile()
	require.Error(t, err)
	require.Contains(t, err.Error(), "Boolean")
}

func TestMisalignedScalarIsRejected(t *testing.T) {
	rec := NewRecord(0x1600)
	rec.Bit(3)
	rec.Unsigned16()

	err := rec.Compile()
	require.Error(t, err)
	require.Contains(t, err.Error(), "aligned")
}

func TestBitWidthOutOfRangeIsRejected(t *testing.T) {
	for _, w := range []int{0, 8, 9, -1} {
		rec := NewRecord(0x1600)
		rec.Bit(w)
		require.Error(t, rec.Compile(), "width %d", w)
	}
}

func TestEmptyRecordIsRejected(t *testing.T) {
	require.Error(t, NewRecord(0x1600).Compile())
}

func TestBitFieldSpanningByteBoundary(t *testing.T) {
	rec := NewRecord(0x1a00)
	a := rec.Bit(6)
	b := rec.Bit(7) // bits 6..12, crosses the boundary
	c := rec.Bit(3) // bits 13..15
	require.NoError(t, rec.Compile())
	require.Equal(t, 16, rec.BitLen())
	require.Equal(t, 2, rec.ByteLen())

	image := make([]byte, 2)
	require.NoError(t, rec.Bind(image, 0))

	a.Set(0b110101)
	b.Set(0b1011011)
	c.Set(0b101)

	require.Equal(t, uint8(0b110101), a.Get())
	require.Equal(t, uint8(0b1011011), b.Get())
	require.Equal(t, uint8(0b101), c.Get())

	// Rewriting the middle field leaves its neighbours alone.
	b.Set(0)
	require.Equal(t, uint8(0b110101), a.Get())
	require.Equal(t, uint8(0), b.Get())
	require.Equal(t, uint8(0b101), c.Get())
}

func TestScalarAccessors(t *testing.T) {
	rec := NewRecord(0x1600)
	u8 := rec.Unsigned8()
	u16 := rec.Unsigned16()
	s16 := rec.Signed16()
	s32 := rec.Signed32()
	f32 := rec.Float32()
	f64 := rec.Float64()
	u64 := rec.Unsigned64()

	require.NoError(t, rec.Compile())
	require.Equal(t, 1+2+2+4+4+8+8, rec.ByteLen())

	image := make([]byte, 64)
	require.NoError(t, rec.Bind(image, 16))

	u8.Set(0xAB)
	u16.Set(0x1234)
	s16.Set(-12345)
	s32.Set(-7_000_000)
	f32.Set(3.25)
	f64.Set(-2.5e10)
	u64.Set(0xDEADBEEFCAFEF00D)

	require.Equal(t, uint8(0xAB), u8.Get())
	require.Equal(t, uint16(0x1234), u16.Get())
	require.Equal(t, int16(-12345), s16.Get())
	require.Equal(t, int32(-7_000_000), s32.Get())
	require.Equal(t, float32(3.25), f32.Get())
	require.Equal(t, -2.5e10, f64.Get())
	require.Equal(t, uint64(0xDEADBEEFCAFEF00D), u64.Get())

	// Multi-byte scalars use the host's native byte order.
	require.Equal(t, uint16(0x1234), hostOrder.Uint16(image[17:]))

	// The record never writes outside its bound region.
	require.Equal(t, make([]byte, 16), image[:16])
	require.Equal(t, make([]byte, 64-16-rec.ByteLen()), image[16+rec.ByteLen():])
}

func TestBindBoundsChecked(t *testing.T) {
	rec := NewRecord(0x1600)
	rec.Unsigned32()
	require.NoError(t, rec.Compile())

	image := make([]byte, 8)
	require.Error(t, rec.Bind(image, 5))
	require.Error(t, rec.Bind(image, -1))
	require.NoError(t, rec.Bind(image, 4))
	require.True(t, rec.Bound())

	rec.Unbind()
	require.False(t, rec.Bound())
}

func TestBindBeforeCompileFails(t *testing.T) {
	rec := NewRecord(0x1600)
	rec.Unsigned8()
	require.Error(t, rec.Bind(make([]byte, 8), 0))
}

func TestAccessWhileUnboundPanics(t *testing.T) {
	rec := NewRecord(0x1600)
	u8 := rec.Unsigned8()
	require.NoError(t, rec.Compile())

	require.Panics(t, func() { u8.Get() })
}
