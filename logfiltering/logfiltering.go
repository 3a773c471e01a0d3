// Package logfiltering supports the use of logfilter in your Go tests.
//
// Fixture writes CR LF terminated test files:
//
//	func TestScan(t *testing.T) {
//		path := logfiltering.Fixture(t, "", "line 1", "line 2")
//		…
//	}
//
// Golden compares output with a reference file below testdata. To create or
// update reference files run the test with RecordEnv set to a regexp that
// matches the test name:
//
//	LOGFILTERING_RECORD=TestScan go test -run TestScan .
package logfiltering

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fractalqb/logfilter"
)

// When this environment variable is set to a regexp and the name of the
// current test matches, Golden records the output as new reference data
// instead of comparing it.
const RecordEnv = "LOGFILTERING_RECORD"

// GoTestdataDir is the name of Go's default directory for testdata (see go
// help test).
const GoTestdataDir = "testdata"

const (
	StdSuffix = ".golden"
	NoSuffix  = "\x00"
)

// Fixture writes lines into a new file in the test's temporary directory.
// Each line is terminated with CR LF. If name is empty "fixture.log" is used.
func Fixture(t testing.TB, name string, lines ...string) string {
	t.Helper()
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\r\n")
	}
	return FixtureRaw(t, name, sb.String())
}

// FixtureRaw writes content verbatim into a new file in the test's temporary
// directory.
func FixtureRaw(t testing.TB, name, content string) string {
	t.Helper()
	if name == "" {
		name = "fixture.log"
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

// FixtureText normalizes text with arbitrary line endings into a new
// fixture file.
func FixtureText(t testing.TB, name, text string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := logfilter.Normalize(&buf, strings.NewReader(text)); err != nil {
		t.Fatal(err)
	}
	return FixtureRaw(t, name, buf.String())
}

type RefRepo struct {
	Dir    string
	Suffix string
}

func (rr RefRepo) Filename(t testing.TB, hint string) string {
	suffix := rr.Suffix
	switch suffix {
	case "":
		suffix = StdSuffix
	case NoSuffix:
		suffix = ""
	}
	if hint == "" {
		return filepath.Join(rr.Dir, t.Name()+suffix)
	}
	if suffix == "" || strings.HasSuffix(hint, suffix) {
		return filepath.Join(rr.Dir, t.Name(), hint)
	}
	return filepath.Join(rr.Dir, t.Name(), hint+suffix)
}

type Config struct {
	RefFileName     func(t testing.TB, hint string) string
	RecordOverwrite bool
}

var defaultConfig = Config{
	RefFileName:     RefRepo{Dir: GoTestdataDir}.Filename,
	RecordOverwrite: true,
}

func Golden(t testing.TB, hint string, got []byte) {
	t.Helper()
	defaultConfig.Golden(t, hint, got)
}

func (cfg Config) Golden(t testing.TB, hint string, got []byte) {
	t.Helper()
	if recordTest(t) {
		cfg.Record(t, hint, got)
		return
	}
	reffile := cfg.RefFileName(t, hint)
	want, err := os.ReadFile(reffile)
	if os.IsNotExist(err) {
		t.Logf("to record a reference file run '%[1]s=%[2]s go test -run %[2]s'",
			RecordEnv,
			t.Name(),
		)
		t.Fatalf("reference file %s does not exist", reffile)
	} else if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Errorf("output differs from %s:\n--- want\n%s\n--- got\n%s", reffile, want, got)
	}
}

func recordTest(t testing.TB) bool {
	rec := os.Getenv(RecordEnv)
	if rec == "" {
		return false
	}
	r, err := regexp.Compile(rec)
	if err != nil {
		t.Logf("logfiltering: invalid regexp '%s' in %s, not recording: %s", rec, RecordEnv, err)
		return false
	}
	return r.MatchString(t.Name())
}

func (cfg Config) Record(t testing.TB, hint string, got []byte) {
	t.Helper()
	reffile := cfg.RefFileName(t, hint)
	if _, err := os.Stat(reffile); !os.IsNotExist(err) && !cfg.RecordOverwrite {
		t.Fatalf("reference file '%s' already exists", reffile)
	}
	if err := os.MkdirAll(filepath.Dir(reffile), 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(reffile, got, 0666); err != nil {
		t.Fatal(err)
	}
	t.Errorf("logfiltering recorder wrote: %s", reffile)
}
