package logfilter

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanSeps(t *testing.T, text string) (lines, seps []string) {
	t.Helper()
	scn := bufio.NewScanner(strings.NewReader(text))
	var sep lineSepScanner
	scn.Split(sep.ScanLines)
	for scn.Scan() {
		lines = append(lines, scn.Text())
		seps = append(seps, string(sep))
	}
	require.NoError(t, scn.Err())
	return lines, seps
}

func TestLineSepScanner(t *testing.T) {
	for _, tc := range []struct {
		name, text  string
		lines, seps []string
	}{
		{"crlf between lines", "line1\r\nline2", []string{"line1", "line2"}, []string{"\r\n", ""}},
		{"crlf last line", "line1\r\n", []string{"line1"}, []string{"\r\n"}},
		{"nl between lines", "line1\nline2", []string{"line1", "line2"}, []string{"\n", ""}},
		{"nl last line", "line1\n", []string{"line1"}, []string{"\n"}},
		{"cr between lines", "line1\rline2", []string{"line1", "line2"}, []string{"\r", ""}},
		{"cr last line", "line1\r", []string{"line1"}, []string{"\r"}},
		{"empty lines", "\n\r\n\r", []string{"", "", ""}, []string{"\n", "\r\n", "\r"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			lines, seps := scanSeps(t, tc.text)
			assert.Equal(t, tc.lines, lines)
			assert.Equal(t, tc.seps, seps)
		})
	}
}

func TestNormalize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Normalize(&buf, strings.NewReader("a\nb\r\nc\rd")))
	assert.Equal(t, "a\r\nb\r\nc\r\nd", buf.String())

	buf.Reset()
	require.NoError(t, Normalize(&buf, strings.NewReader("")))
	assert.Equal(t, "", buf.String())

	buf.Reset()
	require.NoError(t, Normalize(&buf, strings.NewReader("x\n\n")))
	assert.Equal(t, "x\r\n\r\n", buf.String())
}

func TestNormalize_crAtBufferBoundary(t *testing.T) {
	long := strings.Repeat("x", 4095)
	var buf bytes.Buffer
	r := bufio.NewReaderSize(strings.NewReader(long+"\r\nnext\r\n"), 16)
	require.NoError(t, Normalize(&buf, r))
	assert.Equal(t, long+"\r\nnext\r\n", buf.String())
}
