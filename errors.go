package logfilter

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFilter is returned when a filter compiles to no pattern nodes.
	ErrEmptyFilter = errors.New("empty filter")
	// ErrBadTerminator is reported when a carriage-return is not directly
	// followed by a line-feed.
	ErrBadTerminator = errors.New("carriage-return without line-feed")
	ErrNotOpen       = errors.New("no source opened")
	ErrNoFilter      = errors.New("no filter set")
)

type CompileError struct {
	Filter string
	err    error
}

func (e CompileError) Error() string {
	return fmt.Sprintf("filter '%s':%s", e.Filter, e.err)
}

func (e CompileError) Unwrap() error { return e.err }

// SourceError is latched by a Source. Once it occurred the source will not
// deliver any more bytes.
type SourceError struct {
	Path   string
	Offset int64
	err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s@%d:%s", e.Path, e.Offset, e.err)
}

func (e SourceError) Unwrap() error { return e.err }
