// internal/pdo/field.go
package pdo

import (
	"errors"
	"fmt"
	"math"
)

// field is the shared location bookkeeping for every handle kind.
type field struct {
	rec    *Record
	bitOff int // from record start
	bits   int
}

// byteAt is the absolute position of the field's first byte.
func (f *field) byteAt() int {
	return f.bitOff / 8
}

// ---- SCALARS ----

// Unsigned8 is an 8 bit unsigned field.
type Unsigned8 struct{ f field }

// Unsigned8 declares an 8 bit unsigned field at the current position.
func (r *Record) Unsigned8() *Unsigned8 { return &Unsigned8{r.allocAligned(8)} }

func (u *Unsigned8) Get() uint8 {
	return u.f.rec.region()[u.f.byteAt()]
}

func (u *Unsigned8) Set(v uint8) {
	u.f.rec.region()[u.f.byteAt()] = v
}

// Unsigned16 is a 16 bit unsigned field in native byte order.
type Unsigned16 struct{ f field }

func (r *Record) Unsigned16() *Unsigned16 { return &Unsigned16{r.allocAligned(16)} }

func (u *Unsigned16) Get() uint16 {
	return hostOrder.Uint16(u.f.rec.region()[u.f.byteAt():])
}

func (u *Unsigned16) Set(v uint16) {
	hostOrder.PutUint16(u.f.rec.region()[u.f.byteAt():], v)
}

// Unsigned32 is a 32 bit unsigned field in native byte order.
type Unsigned32 struct{ f field }

func (r *Record) Unsigned32() *Unsigned32 { return &Unsigned32{r.allocAligned(32)} }

func (u *Unsigned32) Get() uint32 {
	return hostOrder.Uint32(u.f.rec.region()[u.f.byteAt():])
}

func (u *Unsigned32) Set(v uint32) {
	hostOrder.PutUint32(u.f.rec.region()[u.f.byteAt():], v)
}

// Unsigned64 is a 64 bit unsigned field in native byte order.
type Unsigned64 struct{ f field }

func (r *Record) Unsigned64() *Unsigned64 { return &Unsigned64{r.allocAligned(64)} }

func (u *Unsigned64) Get() uint64 {
	return hostOrder.Uint64(u.f.rec.region()[u.f.byteAt():])
}

func (u *Unsigned64) Set(v uint64) {
	hostOrder.PutUint64(u.f.rec.region()[u.f.byteAt():], v)
}

// Signed8 is an 8 bit signed field.
type Signed8 struct{ f field }

func (r *Record) Signed8() *Signed8 { return &Signed8{r.allocAligned(8)} }

func (s *Signed8) Get() int8  { return int8(s.f.rec.region()[s.f.byteAt()]) }
func (s *Signed8) Set(v int8) { s.f.rec.region()[s.f.byteAt()] = uint8(v) }

// Signed16 is a 16 bit signed field in native byte order.
type Signed16 struct{ f field }

func (r *Record) Signed16() *Signed16 { return &Signed16{r.allocAligned(16)} }

func (s *Signed16) Get() int16 {
	return int16(hostOrder.Uint16(s.f.rec.region()[s.f.byteAt():]))
}

func (s *Signed16) Set(v int16) {
	hostOrder.PutUint16(s.f.rec.region()[s.f.byteAt():], uint16(v))
}

// Signed32 is a 32 bit signed field in native byte order.
type Signed32 struct{ f field }

func (r *Record) Signed32() *Signed32 { return &Signed32{r.allocAligned(32)} }

func (s *Signed32) Get() int32 {
	return int32(hostOrder.Uint32(s.f.rec.region()[s.f.byteAt():]))
}

func (s *Signed32) Set(v int32) {
	hostOrder.PutUint32(s.f.rec.region()[s.f.byteAt():], uint32(v))
}

// Signed64 is a 64 bit signed field in native byte order.
type Signed64 struct{ f field }

func (r *Record) Signed64() *Signed64 { return &Signed64{r.allocAligned(64)} }

func (s *Signed64) Get() int64 {
	return int64(hostOrder.Uint64(s.f.rec.region()[s.f.byteAt():]))
}

func (s *Signed64) Set(v int64) {
	hostOrder.PutUint64(s.f.rec.region()[s.f.byteAt():], uint64(v))
}

// Float32 is a 32 bit IEEE 754 field in native byte order.
type Float32 struct{ f field }

func (r *Record) Float32() *Float32 { return &Float32{r.allocAligned(32)} }

func (fl *Float32) Get() float32 {
	return math.Float32frombits(hostOrder.Uint32(fl.f.rec.region()[fl.f.byteAt():]))
}

func (fl *Float32) Set(v float32) {
	hostOrder.PutUint32(fl.f.rec.region()[fl.f.byteAt():], math.Float32bits(v))
}

// Float64 is a 64 bit IEEE 754 field in native byte order.
type Float64 struct{ f field }

func (r *Record) Float64() *Float64 { return &Float64{r.allocAligned(64)} }

func (fl *Float64) Get() float64 {
	return math.Float64frombits(hostOrder.Uint64(fl.f.rec.region()[fl.f.byteAt():]))
}

func (fl *Float64) Set(v float64) {
	hostOrder.PutUint64(fl.f.rec.region()[fl.f.byteAt():], math.Float64bits(v))
}

// ---- BIT FIELDS ----

// BitField is a sub-byte field of 1 to 7 bits, packed LSB first within
// the byte stream. Bit fields may span a byte boundary.
type BitField struct{ f field }

// Bit declares a bit field of the given width. Widths outside 1..7 are a
// layout error; use the scalar types for full bytes.
func (r *Record) Bit(width int) *BitField {
	if width < 1 || width > 7 {
		r.fail(fmt.Errorf("pdo: bit field width %d out of range 1..7", width))
		width = 1
	}
	return &BitField{r.alloc(width)}
}

func (b *BitField) Get() uint8 {
	buf := b.f.rec.region()
	at := b.f.byteAt()
	shift := uint(b.f.bitOff % 8)
	mask := uint16(1)<<uint(b.f.bits) - 1

	raw := uint16(buf[at])
	if int(shift)+b.f.bits > 8 {
		raw |= uint16(buf[at+1]) << 8
	}
	return uint8((raw >> shift) & mask)
}

func (b *BitField) Set(v uint8) {
	buf := b.f.rec.region()
	at := b.f.byteAt()
	shift := uint(b.f.bitOff % 8)
	mask := uint16(1)<<uint(b.f.bits) - 1

	val := (uint16(v) & mask) << shift

	raw := uint16(buf[at])
	if int(shift)+b.f.bits > 8 {
		raw |= uint16(buf[at+1]) << 8
	}
	raw = raw&^(mask<<shift) | val

	buf[at] = byte(raw)
	if int(shift)+b.f.bits > 8 {
		buf[at+1] = byte(raw >> 8)
	}
}

// Boolean is a single bit. This is the only boolean representation; see
// Bool for why the byte-wide variant is rejected.
type Boolean struct{ b BitField }

func (r *Record) Boolean() *Boolean {
	return &Boolean{BitField{r.alloc(1)}}
}

func (bo *Boolean) Get() bool { return bo.b.Get() != 0 }

func (bo *Boolean) Set(v bool) {
	if v {
		bo.b.Set(1)
	} else {
		bo.b.Set(0)
	}
}

// Bool is an 8 bit boolean and must not be used: it silently occupies a
// full byte and desynchronizes the declared layout from the slave's PDO
// configuration. Declaring one poisons the layout; Compile reports the
// error. Use Boolean instead.
func (r *Record) Bool() *Boolean {
	r.fail(errors.New("pdo: Bool is an 8 bit field, use Boolean (1 bit) instead"))
	return &Boolean{BitField{r.alloc(1)}}
}
