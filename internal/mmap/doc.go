// Package mmap maps snapshot blobs into memory for zero-copy decoding.
//
//	m, err := mmap.Open("snapshots/tsne-0001.drm")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2). Windows uses MapViewOfFile and ignores
// access hints. Close is idempotent, but callers must not touch the slice
// returned by Bytes after Close.
package mmap
