package logfilter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Line terminator bytes. Lines are terminated by CR LF, a CR that is not
// followed by LF is an error.
const (
	CR = '\r'
	LF = '\n'
)

// ReadStatus is the result of reading from a Source.
type ReadStatus uint8

const (
	ReadOK ReadStatus = iota
	// A line terminator was consumed. This is never latched, the next read
	// continues with the following line.
	EndOfLine
	// No more bytes. Latched.
	EndOfFile
	// See Source.Err. Latched.
	ReadFailed
)

func (s ReadStatus) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case EndOfLine:
		return "end-of-line"
	case EndOfFile:
		return "end-of-file"
	case ReadFailed:
		return "failed"
	}
	return fmt.Sprintf("read-status(%d)", uint8(s))
}

type sourceConfig struct {
	windowSize int
	log        zerolog.Logger
}

// SourceOption configures OpenSource and Reader.Open.
type SourceOption func(*sourceConfig)

// WithWindowSize sets the size of the mapped file window. It is rounded up to
// a multiple of the system's allocation granularity. Values <= 0 select one
// granule.
func WithWindowSize(n int) SourceOption {
	return func(c *sourceConfig) { c.windowSize = n }
}

// WithLogger sets the logger to trace window changes and report failures.
func WithLogger(l zerolog.Logger) SourceOption {
	return func(c *sourceConfig) { c.log = l }
}

// Source presents a file as a sequence of bytes split into CR LF terminated
// lines. Only one window of the file is mapped at a time. A Source must not
// be used concurrently.
type Source struct {
	path    string
	file    *os.File
	mapping *mapping
	size    int64
	winSize int

	win  []byte
	pos  int
	base int64 // file offset of win[0]
	next int64 // file offset of the next window
	line int64

	status ReadStatus // one of ReadOK, EndOfFile, ReadFailed
	err    error
	log    zerolog.Logger
}

func OpenSource(path string, opts ...SourceOption) (*Source, error) {
	cfg := sourceConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, SourceError{Path: path, err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, SourceError{Path: path, err: err}
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, SourceError{Path: path, err: fmt.Errorf("not a regular file: %s", fi.Mode())}
	}
	s := &Source{
		path:    path,
		file:    f,
		size:    fi.Size(),
		winSize: windowSize(cfg.windowSize, granularity()),
		log:     cfg.log,
	}
	if s.mapping, err = openMapping(f); err != nil {
		f.Close()
		return nil, SourceError{Path: path, err: err}
	}
	s.nextWindow()
	if s.status == ReadFailed {
		err := s.err
		s.Close()
		return nil, err
	}
	return s, nil
}

func windowSize(want, granule int) int {
	if want <= granule {
		return granule
	}
	return (want + granule - 1) / granule * granule
}

func (s *Source) Path() string { return s.path }

func (s *Source) Size() int64 { return s.size }

// WindowSize returns the size of mapped windows in bytes.
func (s *Source) WindowSize() int { return s.winSize }

// Offset returns the file offset of the next byte to read.
func (s *Source) Offset() int64 { return s.base + int64(s.pos) }

// Line returns the number of line terminators consumed so far.
func (s *Source) Line() int64 { return s.line }

// Err returns the error that made the source fail, if any.
func (s *Source) Err() error { return s.err }

// ReadSymbol returns the next byte of the current line with ReadOK.
// Otherwise the byte is undefined and the status tells why.
func (s *Source) ReadSymbol() (byte, ReadStatus) {
	b, ok := s.raw()
	switch {
	case !ok:
		return 0, s.status
	case b != CR:
		return b, ReadOK
	}
	return 0, s.terminate()
}

// SkipLine drops the rest of the current line including its terminator.
// ReadOK means the source is positioned at the start of the following line.
func (s *Source) SkipLine() ReadStatus {
	for s.status == ReadOK {
		if i := bytes.IndexByte(s.win[s.pos:], CR); i >= 0 {
			s.pos += i + 1
			if st := s.terminate(); st != EndOfLine {
				return st
			}
			return ReadOK
		}
		s.pos = len(s.win)
		s.nextWindow()
	}
	return s.status
}

func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	var errs []error
	if s.win != nil {
		errs = append(errs, s.mapping.release(s.win))
		s.win, s.pos = nil, 0
	}
	errs = append(errs, s.mapping.close(), s.file.Close())
	s.file = nil
	if s.status == ReadOK {
		s.status = ReadFailed
		s.err = SourceError{Path: s.path, Offset: s.Offset(), err: os.ErrClosed}
	}
	return errors.Join(errs...)
}

// raw returns the next byte without looking at terminators.
func (s *Source) raw() (byte, bool) {
	for s.status == ReadOK {
		if s.pos < len(s.win) {
			b := s.win[s.pos]
			s.pos++
			return b, true
		}
		s.nextWindow()
	}
	return 0, false
}

// terminate is called after a CR was consumed.
func (s *Source) terminate() ReadStatus {
	at := s.Offset() - 1
	b, ok := s.raw()
	switch {
	case !ok && s.status == ReadFailed:
		return s.status
	case !ok || b != LF:
		return s.fail(at, ErrBadTerminator)
	}
	s.line++
	return EndOfLine
}

func (s *Source) fail(at int64, err error) ReadStatus {
	s.status = ReadFailed
	s.err = SourceError{Path: s.path, Offset: at, err: err}
	s.log.Error().Err(err).Str("path", s.path).Int64("offset", at).Msg("source failed")
	return s.status
}

func (s *Source) nextWindow() {
	if s.win != nil {
		if err := s.mapping.release(s.win); err != nil {
			s.fail(s.Offset(), err)
			return
		}
		s.win, s.pos = nil, 0
		s.base = s.next
	}
	if s.next >= s.size {
		s.status = EndOfFile
		return
	}
	n := int(min(int64(s.winSize), s.size-s.next))
	w, err := s.mapping.view(s.next, n)
	if err != nil {
		s.fail(s.next, err)
		return
	}
	s.log.Trace().
		Str("path", s.path).
		Int64("offset", s.next).
		Int("len", n).
		Msg("map window")
	s.win, s.pos, s.base = w, 0, s.next
	s.next += int64(n)
}
