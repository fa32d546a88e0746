// Package hash provides the CRC32-Castagnoli checksum used to verify
// compressed record frames.
//
//	sum := hash.CRC32C(payload)
//
// Go's crc32 package uses SSE4.2 or the ARM CRC extension when available.
package hash
