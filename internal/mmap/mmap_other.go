//go:build !unix

package mmap

import (
	"fmt"
	"os"
)

// Open reads path fully into memory on platforms without mmap support.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return &File{
		path:   path,
		data:   data,
		closer: func() error { return nil },
	}, nil
}
