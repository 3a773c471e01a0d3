package logfilter

import (
	"bufio"
	"bytes"
	"io"
)

// Normalize copies text from r to w terminating each line with CR LF. Lines
// of r may be terminated by LF, CR LF or a single CR. A last line without
// terminator stays without one.
func Normalize(w io.Writer, r io.Reader) (err error) {
	var sep lineSepScanner
	scn := bufio.NewScanner(r)
	scn.Buffer(nil, 1<<30)
	scn.Split(sep.ScanLines)
	crlf := []byte{CR, LF}
	for scn.Scan() {
		if _, err = w.Write(scn.Bytes()); err != nil {
			return err
		}
		if len(sep) > 0 {
			if _, err = w.Write(crlf); err != nil {
				return err
			}
		}
	}
	return scn.Err()
}

// lineSepScanner is a bufio.SplitFunc that remembers the separator of the
// last token.
type lineSepScanner []byte

func (lsc *lineSepScanner) ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	// modificated version of bufio.ScanLines
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == LF {
			*lsc = data[i : i+1]
			return i + 1, data[:i], nil
		}
		switch {
		case i+1 < len(data):
			if data[i+1] == LF {
				*lsc = data[i : i+2]
				return i + 2, data[:i], nil
			}
		case !atEOF:
			return 0, nil, nil
		}
		*lsc = data[i : i+1]
		return i + 1, data[:i], nil
	}
	if atEOF {
		*lsc = nil
		return len(data), data, nil
	}
	return 0, nil, nil
}
