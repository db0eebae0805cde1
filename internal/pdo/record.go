// internal/pdo/record.go
package pdo

import (
	"errors"
	"fmt"
)

// Record declares a packed binary layout over a region of the process
// image. Fields are allocated in declaration order with no implicit
// padding; gaps must be declared explicitly with Bit padding fields.
//
// Lifecycle: declare fields, Compile once, Bind to a buffer offset, then
// read/write through the field handles once per cycle. Accessors go
// straight through the bound buffer; there is no caching. A record must
// only be touched between transactions, by the cyclic goroutine.
type Record struct {
	address uint16

	bitLen int
	sealed bool
	err    error

	bind binding
}

// binding is a weak reference into the engine-owned process image:
// offset plus length, never a copy.
type binding struct {
	buf    []byte
	offset int
	bound  bool
}

// NewRecord starts a layout for the PDO at the given index.
func NewRecord(address uint16) *Record {
	return &Record{address: address}
}

// Address returns the PDO index this record was declared for.
func (r *Record) Address() uint16 {
	return r.address
}

// fail poisons the layout; the error surfaces at Compile.
func (r *Record) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// alloc reserves width bits at the current position.
func (r *Record) alloc(width int) field {
	if r.sealed {
		r.fail(errors.New("pdo: field declared after Compile"))
	}
	f := field{rec: r, bitOff: r.bitLen, bits: width}
	r.bitLen += width
	return f
}

// allocAligned reserves a multi-byte scalar, which must start on a byte
// boundary. Preceding bit fields have to be padded out explicitly.
func (r *Record) allocAligned(width int) field {
	if r.bitLen%8 != 0 {
		r.fail(fmt.Errorf(
			"pdo: %d-bit field at bit %d is not byte aligned; declare explicit padding",
			width, r.bitLen,
		))
	}
	return r.alloc(width)
}

// Compile validates the layout and freezes it. Any declaration error
// (Bool usage, misaligned scalar, zero fields) is reported here, before
// the record can be bound or the cyclic thread started.
func (r *Record) Compile() error {
	if r.err != nil {
		return r.err
	}
	if r.bitLen == 0 {
		return errors.New("pdo: record has no fields")
	}
	r.sealed = true
	return nil
}

// ByteLen is the packed size in bytes: the total bit length rounded up
// to a byte boundary.
func (r *Record) ByteLen() int {
	return (r.bitLen + 7) / 8
}

// BitLen is the total declared bit length before rounding.
func (r *Record) BitLen() int {
	return r.bitLen
}

// Bind attaches the record to an absolute byte offset inside the process
// image. The image slice is referenced, never copied.
func (r *Record) Bind(image []byte, offset int) error {
	if !r.sealed {
		return errors.New("pdo: Bind before Compile")
	}
	if offset < 0 || offset+r.ByteLen() > len(image) {
		return fmt.Errorf(
			"pdo: record of %d bytes at offset %d does not fit image of %d bytes",
			r.ByteLen(), offset, len(image),
		)
	}
	r.bind = binding{buf: image, offset: offset, bound: true}
	return nil
}

// Unbind detaches the record from the process image.
func (r *Record) Unbind() {
	r.bind = binding{}
}

// Bound reports whether the record is attached to a buffer.
func (r *Record) Bound() bool {
	return r.bind.bound
}

func (r *Record) region() []byte {
	if !r.bind.bound {
		panic("pdo: record not bound")
	}
	return r.bind.buf[r.bind.offset:]
}
