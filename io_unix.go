//go:build unix

package logfilter

// io_unix.go maps file windows with mmap(2). Window offsets are multiples of
// the page size, which is what mmap requires.

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func granularity() int { return unix.Getpagesize() }

type mapping struct {
	fd int
}

func openMapping(f *os.File) (*mapping, error) {
	return &mapping{fd: int(f.Fd())}, nil
}

func (m *mapping) view(off int64, n int) ([]byte, error) {
	b, err := unix.Mmap(m.fd, off, n, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %d+%d: %w", off, n, err)
	}
	return b, nil
}

func (m *mapping) release(b []byte) error {
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

func (m *mapping) close() error { return nil }
