// Package hash provides the checksum used by the snapshot envelope.
//
// All checksums in somgo are CRC32-Castagnoli (CRC32C), which hash/crc32
// computes with SSE4.2 or the ARM CRC extension when available.
//
//	sum := hash.CRC32C(payload)
//	ok := hash.Verify(payload, sum)
package hash
