// Package mmap provides read-only memory-mapped file access.
//
// # Usage
//
//	m, err := mmap.Open("snapshots/1700000000.soms")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // valid until Close
package mmap
