package logfilter

import (
	"io"
)

// Line is a matching line returned by Reader.NextLine.
type Line struct {
	// 1-based number of the line in the source.
	No int64
	// File offset of the first byte of the line.
	Offset int64
	// The line without terminator. Text is a prefix of the buffer passed to
	// NextLine and valid until the buffer is reused.
	Text []byte
	// The line was longer than the buffer and Text holds only its start.
	// Matching always considers the complete line.
	Truncated bool
}

// Reader scans a Source for lines that match a Filter. The zero value is
// ready for use. A Reader must not be used concurrently.
type Reader struct {
	src *Source
	m   *Matcher
}

// Open closes the current source, if any, and opens the file at path.
func (r *Reader) Open(path string, opts ...SourceOption) error {
	if err := r.Close(); err != nil {
		return err
	}
	src, err := OpenSource(path, opts...)
	if err != nil {
		return err
	}
	r.src = src
	return nil
}

// SetFilter compiles filter and uses it for all following calls to
// NextLine. On error the Reader has no filter.
func (r *Reader) SetFilter(filter string) error {
	r.m = nil
	f, err := Compile(filter)
	if err != nil {
		return err
	}
	r.m = f.NewMatcher()
	return nil
}

// UseFilter is like SetFilter for an already compiled filter.
func (r *Reader) UseFilter(f *Filter) {
	if r.m != nil && r.m.Filter() == f {
		return
	}
	r.m = f.NewMatcher()
}

func (r *Reader) Filter() *Filter {
	if r.m == nil {
		return nil
	}
	return r.m.Filter()
}

func (r *Reader) Source() *Source { return r.src }

// NextLine copies the next matching line into buf. Exhaustion of the source
// is reported as io.EOF, any other error is fatal for the current source.
func (r *Reader) NextLine(buf []byte) (line Line, err error) {
	switch {
	case r.src == nil:
		return line, ErrNotOpen
	case r.m == nil:
		return line, ErrNoFilter
	case len(buf) == 0:
		return line, io.ErrShortBuffer
	}
	src, m := r.src, r.m
	for {
		m.Reset()
		line = Line{No: src.Line() + 1, Offset: src.Offset()}
		var (
			n, read int
			rs      = ReadOK
			ms      = KeepGoing
		)
	SCAN_LINE:
		for ms != MatchFailed {
			var b byte
			b, rs = src.ReadSymbol()
			switch rs {
			case ReadFailed:
				return Line{}, src.Err()
			case EndOfLine, EndOfFile:
				break SCAN_LINE
			}
			read++
			if n < len(buf) {
				buf[n] = b
				n++
			} else {
				line.Truncated = true
			}
			ms = m.Step(b)
		}
		if rs == EndOfFile && read == 0 {
			return Line{}, io.EOF
		}
		if m.Matched() {
			line.Text = buf[:n]
			return line, nil
		}
		switch rs {
		case EndOfFile:
			return Line{}, io.EOF
		case ReadOK:
			switch src.SkipLine() {
			case ReadFailed:
				return Line{}, src.Err()
			case EndOfFile:
				return Line{}, io.EOF
			}
		}
	}
}

// Close releases the current source. The filter is kept.
func (r *Reader) Close() error {
	if r.src == nil {
		return nil
	}
	err := r.src.Close()
	r.src = nil
	return err
}
