// Package mmap provides read-only memory-mapped file access for database readers.
//
// # Usage
//
//	m, err := mmap.Open("db_h")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	record, err := m.Slice(off, n)
//
// On Unix the file is mapped with mmap(2). Other platforms fall back to reading
// the whole file into memory, which keeps the API identical.
//
// Callers must not use slices returned by Slice after Close.
package mmap
