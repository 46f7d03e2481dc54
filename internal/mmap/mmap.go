// Package mmap exposes a capture file as a read-only byte slice.
package mmap

import "errors"

// ErrEmpty is returned for zero-length files; there is nothing to map.
var ErrEmpty = errors.New("mmap: file is empty")

// File is a read-only view of a file's contents. The slice returned by
// Bytes is valid until Close.
type File struct {
	path   string
	data   []byte
	closer func() error
}

// Path returns the path the file was opened with.
func (f *File) Path() string { return f.path }

// Bytes returns the file contents. Callers must not write to the slice.
func (f *File) Bytes() []byte { return f.data }

// Len returns the size of the file in bytes.
func (f *File) Len() int { return len(f.data) }

// Close releases the mapping. It is safe to call more than once.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	closer := f.closer
	f.closer = nil
	f.data = nil
	return closer()
}
