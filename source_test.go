package logfilter_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalqb/logfilter"
	"github.com/fractalqb/logfilter/logfiltering"
)

// readAll reads src to the end and returns the lines read.
func readAll(t *testing.T, src *logfilter.Source) (lines []string, last logfilter.ReadStatus) {
	t.Helper()
	var sb strings.Builder
	offset := src.Offset()
	for {
		b, st := src.ReadSymbol()
		require.GreaterOrEqual(t, src.Offset(), offset)
		offset = src.Offset()
		switch st {
		case logfilter.ReadOK:
			sb.WriteByte(b)
		case logfilter.EndOfLine:
			lines = append(lines, sb.String())
			sb.Reset()
		default:
			if sb.Len() > 0 {
				lines = append(lines, sb.String())
			}
			return lines, st
		}
	}
}

func pageSize(t *testing.T) int {
	src, err := logfilter.OpenSource(logfiltering.FixtureRaw(t, "probe", "x"))
	require.NoError(t, err)
	defer src.Close()
	return src.WindowSize()
}

func TestSource_ReadSymbol(t *testing.T) {
	src, err := logfilter.OpenSource(logfiltering.FixtureRaw(t, "", "ab\r\ncd"))
	require.NoError(t, err)
	defer src.Close()
	expect := []struct {
		b  byte
		st logfilter.ReadStatus
	}{
		{'a', logfilter.ReadOK},
		{'b', logfilter.ReadOK},
		{0, logfilter.EndOfLine},
		{'c', logfilter.ReadOK},
		{'d', logfilter.ReadOK},
		{0, logfilter.EndOfFile},
		{0, logfilter.EndOfFile},
	}
	for i, e := range expect {
		b, st := src.ReadSymbol()
		require.Equal(t, e.st, st, "read %d", i)
		if st == logfilter.ReadOK {
			assert.Equal(t, e.b, b, "read %d", i)
		}
	}
	assert.Equal(t, int64(1), src.Line())
	assert.Equal(t, int64(6), src.Offset())
	assert.Equal(t, int64(6), src.Size())
	assert.NoError(t, src.Err())
}

func TestSource_SkipLine(t *testing.T) {
	src, err := logfilter.OpenSource(logfiltering.Fixture(t, "", "abc", "xyz"))
	require.NoError(t, err)
	defer src.Close()
	b, st := src.ReadSymbol()
	require.Equal(t, logfilter.ReadOK, st)
	require.Equal(t, byte('a'), b)
	require.Equal(t, logfilter.ReadOK, src.SkipLine())
	b, st = src.ReadSymbol()
	require.Equal(t, logfilter.ReadOK, st)
	assert.Equal(t, byte('x'), b)
	assert.Equal(t, logfilter.ReadOK, src.SkipLine())
	assert.Equal(t, int64(2), src.Line())
	assert.Equal(t, logfilter.EndOfFile, src.SkipLine())
}

func TestSource_SkipLine_unterminated(t *testing.T) {
	src, err := logfilter.OpenSource(logfiltering.FixtureRaw(t, "", "abc"))
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, logfilter.EndOfFile, src.SkipLine())
}

func TestSource_loneCR(t *testing.T) {
	check := func(t *testing.T, content string, at int64, skip bool) {
		src, err := logfilter.OpenSource(logfiltering.FixtureRaw(t, "", content))
		require.NoError(t, err)
		defer src.Close()
		var st logfilter.ReadStatus
		if skip {
			st = src.SkipLine()
		} else {
			_, st = readAll(t, src)
		}
		require.Equal(t, logfilter.ReadFailed, st)
		err = src.Err()
		require.Error(t, err)
		assert.ErrorIs(t, err, logfilter.ErrBadTerminator)
		var serr logfilter.SourceError
		require.True(t, errors.As(err, &serr))
		assert.Equal(t, at, serr.Offset)
		_, st = src.ReadSymbol()
		assert.Equal(t, logfilter.ReadFailed, st, "failure must be latched")
		assert.Equal(t, logfilter.ReadFailed, src.SkipLine())
	}
	t.Run("inside line", func(t *testing.T) { check(t, "ab\rc\r\n", 2, false) })
	t.Run("double CR", func(t *testing.T) { check(t, "ab\r\r\n", 2, false) })
	t.Run("at end of file", func(t *testing.T) { check(t, "ab\r\ncd\r", 6, false) })
	t.Run("skipped line", func(t *testing.T) { check(t, "ab\rc\r\n", 2, true) })
}

func TestSource_lineFeedOnly(t *testing.T) {
	src, err := logfilter.OpenSource(logfiltering.FixtureRaw(t, "", "a\nb\r\n"))
	require.NoError(t, err)
	defer src.Close()
	lines, st := readAll(t, src)
	assert.Equal(t, logfilter.EndOfFile, st)
	assert.Equal(t, []string{"a\nb"}, lines)
}

func TestSource_empty(t *testing.T) {
	src, err := logfilter.OpenSource(logfiltering.FixtureRaw(t, "", ""))
	require.NoError(t, err)
	defer src.Close()
	_, st := src.ReadSymbol()
	assert.Equal(t, logfilter.EndOfFile, st)
	assert.Equal(t, logfilter.EndOfFile, src.SkipLine())
}

func TestSource_openErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := logfilter.OpenSource(t.TempDir() + "/missing.log")
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		var serr logfilter.SourceError
		assert.True(t, errors.As(err, &serr))
	})
	t.Run("directory", func(t *testing.T) {
		_, err := logfilter.OpenSource(t.TempDir())
		assert.Error(t, err)
	})
}

func TestSource_windowSize(t *testing.T) {
	ps := pageSize(t)
	path := logfiltering.FixtureRaw(t, "", "x")
	for _, tc := range []struct{ want, have int }{
		{0, ps},
		{-1, ps},
		{1, ps},
		{ps, ps},
		{ps + 1, 2 * ps},
		{3 * ps, 3 * ps},
	} {
		src, err := logfilter.OpenSource(path, logfilter.WithWindowSize(tc.want))
		require.NoError(t, err)
		assert.Equal(t, tc.have, src.WindowSize(), "want %d", tc.want)
		src.Close()
	}
}

func TestSource_terminatorAcrossWindows(t *testing.T) {
	ps := pageSize(t)
	first := strings.Repeat("x", ps-1)
	src, err := logfilter.OpenSource(logfiltering.Fixture(t, "", first, "tail"))
	require.NoError(t, err)
	defer src.Close()
	lines, st := readAll(t, src)
	assert.Equal(t, logfilter.EndOfFile, st)
	assert.Equal(t, []string{first, "tail"}, lines)
	assert.Equal(t, int64(2), src.Line())
}

func TestSource_skipAcrossWindows(t *testing.T) {
	ps := pageSize(t)
	long := strings.Repeat("0123456789", 3*ps/10+7)
	src, err := logfilter.OpenSource(logfiltering.Fixture(t, "", long, "next"))
	require.NoError(t, err)
	defer src.Close()
	require.Equal(t, logfilter.ReadOK, src.SkipLine())
	lines, st := readAll(t, src)
	assert.Equal(t, logfilter.EndOfFile, st)
	assert.Equal(t, []string{"next"}, lines)
}

func TestSource_manyWindows(t *testing.T) {
	ps := pageSize(t)
	var lines []string
	for i := 0; len(lines)*20 < 5*ps; i++ {
		lines = append(lines, strings.Repeat(string(rune('a'+i%26)), 1+i%37))
	}
	src, err := logfilter.OpenSource(logfiltering.Fixture(t, "", lines...))
	require.NoError(t, err)
	defer src.Close()
	got, st := readAll(t, src)
	assert.Equal(t, logfilter.EndOfFile, st)
	assert.Equal(t, lines, got)
	assert.Equal(t, src.Size(), src.Offset())
}

func TestSource_Close(t *testing.T) {
	src, err := logfilter.OpenSource(logfiltering.Fixture(t, "", "abc"))
	require.NoError(t, err)
	require.NoError(t, src.Close())
	_, st := src.ReadSymbol()
	assert.Equal(t, logfilter.ReadFailed, st)
	assert.ErrorIs(t, src.Err(), fs.ErrClosed)
	assert.NoError(t, src.Close())
}
