/*
Package logfilter scans large text files for lines that match a simple
glob-style filter. Files are never loaded as a whole. Only one window of a
file is mapped into memory at any time and lines are matched byte by byte
while they are read.

# Filters

A filter is a string of literal bytes with two meta characters:

	? matches exactly one arbitrary byte
	* matches any run of bytes, even an empty one

There is no escaping and no character classes. A filter always has to match
the complete line, e.g. the filter

	*ERROR*timeout*

selects all lines that contain "ERROR" followed by "timeout" somewhere
later in the line, while

	2024-??-?? *

selects lines starting with a date of 2024 followed by a space.

Filters are compiled into a chain of nodes once. Matching simulates all
positions of the chain that are reachable with the input seen so far at the
same time, using two buffers that are swapped after each byte. This needs
time linear in the product of filter length and line length, there is no
backtracking. The size of the buffers is computed when the filter is
compiled, see Filter.Bound.

# Sources

A Source reads a file as a sequence of bytes. Lines are terminated by CR LF.
A CR that is not immediately followed by LF makes the source fail
permanently. Use Normalize to convert text with other line endings.

The file is mapped in windows whose size is a multiple of the system's
allocation granularity (the page size on Unix systems). When a window is
consumed it is unmapped before the next one is mapped.

# Scanning

The Reader combines a Source with a Filter:

	var rd logfilter.Reader
	if err := rd.Open("server.log"); err != nil {
		…
	}
	defer rd.Close()
	if err := rd.SetFilter("*ERROR*"); err != nil {
		…
	}
	buf := make([]byte, 1024)
	for {
		line, err := rd.NextLine(buf)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			…
		}
		fmt.Printf("%d: %s\n", line.No, line.Text)
	}

Grep wraps this loop with callbacks and a match limit. Batch scans several
files with concurrent workers, each of them using its own Reader.
*/
package logfilter
