//go:build !unix

package logfilter

// io_other.go emulates mapped windows on platforms without mmap(2) by reading
// each window into one reused buffer.

import (
	"fmt"
	"os"
)

// Allocation granularity of Windows.
const otherGranularity = 64 << 10

func granularity() int { return otherGranularity }

type mapping struct {
	f   *os.File
	buf []byte
}

func openMapping(f *os.File) (*mapping, error) {
	return &mapping{f: f}, nil
}

func (m *mapping) view(off int64, n int) ([]byte, error) {
	if cap(m.buf) < n {
		m.buf = make([]byte, n)
	}
	b := m.buf[:n]
	r, err := m.f.ReadAt(b, off)
	if r < n {
		if err == nil {
			err = fmt.Errorf("short read %d of %d bytes", r, n)
		}
		return nil, err
	}
	return b, nil
}

func (m *mapping) release([]byte) error { return nil }

func (m *mapping) close() error {
	m.buf = nil
	return nil
}
