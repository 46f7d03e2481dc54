//go:build unix

package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps path read-only. On failure nothing stays open.
func Open(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("%s: size %d exceeds address space", path, size)
	}

	data, err := unix.Mmap(int(fd.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap %s: %w", path, err)
	}
	return &File{
		path: path,
		data: data,
		closer: func() error {
			if err := unix.Munmap(data); err != nil {
				return fmt.Errorf("failed to munmap %s: %w", path, err)
			}
			return nil
		},
	}, nil
}
