// Package snapshot persists trained maps.
//
// A snapshot is a self-describing binary envelope around a codec-encoded
// payload:
//
//	magic "SOMS" | version u16 | compression u8 | codec-name-len u8 | codec name
//	| crc32c u32 | raw-len u64 | stored-len u64 | payload
//
// All integers are little-endian. The CRC32C checksum covers the stored,
// possibly compressed, payload bytes.
//
// Snapshots are written to a blobstore.BlobStore under snapshots/ and the
// CURRENT blob names the latest one.
package snapshot
