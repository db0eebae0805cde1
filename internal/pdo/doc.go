// Package pdo declares packed, byte-exact cyclic data layouts over the
// engine-owned process image.
//
// A Record is built by declaring fields in the exact order and size the
// slave's PDO configuration uses, compiled once, and then bound to an
// absolute offset inside the process image. Field handles read and write
// straight through the bound buffer; the buffer stays the sole source of
// truth between transactions.
package pdo
