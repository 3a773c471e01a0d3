package logfilter

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// DefaultBufferSize is the line buffer size used by Grep if not set.
const DefaultBufferSize = 1024

// MatchFunc is called for each matching line. The line's Text is only valid
// during the call.
type MatchFunc func(path string, line Line) (abort bool)

// Grep drives a Reader over a whole source and reports each match. A zero
// value is valid for use and can be reused for more than one source. It must
// not be used concurrently.
type Grep struct {
	// Stop after that many matches per source. If MatchLimit <= 0, do not
	// stop.
	MatchLimit int
	// Size of the line buffer, longer lines are truncated.
	BufferSize int
	// OnMatch is called on each matching line.
	OnMatch MatchFunc
	// Options used to open sources.
	Options []SourceOption
	Log     zerolog.Logger

	buf []byte
}

// File scans the file at path and returns the number of matches.
func (g *Grep) File(ctx context.Context, path string, f *Filter) (int, error) {
	var rd Reader
	rd.UseFilter(f)
	if err := rd.Open(path, g.Options...); err != nil {
		return 0, err
	}
	defer rd.Close()
	return g.Reader(ctx, &rd)
}

// Reader scans the remaining lines of rd. Cancelling ctx is checked between
// matches.
func (g *Grep) Reader(ctx context.Context, rd *Reader) (count int, err error) {
	bsz := g.BufferSize
	if bsz <= 0 {
		bsz = DefaultBufferSize
	}
	if cap(g.buf) < bsz {
		g.buf = make([]byte, bsz)
	}
	buf := g.buf[:bsz]
	var path string
	if src := rd.Source(); src != nil {
		path = src.Path()
	}
	defer func() {
		g.Log.Debug().
			Str("path", path).
			Int("matches", count).
			Err(err).
			Msg("scanned")
	}()
	for g.MatchLimit <= 0 || count < g.MatchLimit {
		if err = ctx.Err(); err != nil {
			return count, err
		}
		var line Line
		line, err = rd.NextLine(buf)
		switch {
		case errors.Is(err, io.EOF):
			return count, nil
		case err != nil:
			return count, err
		}
		count++
		if g.OnMatch != nil && g.OnMatch(path, line) {
			break
		}
	}
	return count, nil
}
