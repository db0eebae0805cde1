// internal/pdo/byteorder.go
package pdo

import (
	"encoding/binary"
	"unsafe"
)

// hostOrder is the platform's native byte order. PDO data is exchanged
// with the process image exactly as the engine lays it out in memory, so
// multi-byte accessors must match the host, not a fixed wire order.
var hostOrder binary.ByteOrder = func() binary.ByteOrder {
	var probe uint16 = 1
	if *(*byte)(unsafe.Pointer(&probe)) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()
