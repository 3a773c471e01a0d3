package main

import (
	"bufio"
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/fractalqb/logfilter"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <filter> <file>...",
		Short: "Print all lines of the files that match the filter",
		Args:  cobra.MinimumNArgs(2),
		RunE:  scanFiles,
	}
	cmd.Flags().IntP("max-line", "m", logfilter.DefaultBufferSize,
		"Set the maximum length of printed lines, longer lines are truncated")
	cmd.Flags().IntP("limit", "l", 0,
		"Stop scanning a file after that many matches")
	cmd.Flags().IntP("jobs", "j", 1,
		"Set the number of files scanned concurrently")
	cmd.Flags().BoolP("line-number", "n", false,
		"Prefix each line with its line number")
	cmd.Flags().Int("window-size", 0,
		"Set the size of mapped file windows")
	return cmd
}

var errNonASCII = errors.New("filter must only contain ASCII characters")

func checkFilter(filter string) error {
	for i := 0; i < len(filter); i++ {
		if filter[i] >= 0x80 {
			return errNonASCII
		}
	}
	return nil
}

func scanFiles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := checkFilter(args[0]); err != nil {
		return err
	}
	filter, err := logfilter.Compile(args[0])
	if err != nil {
		return err
	}
	files := args[1:]
	out := matchPrinter{
		w:          bufio.NewWriter(cmd.OutOrStdout()),
		withPath:   len(files) > 1,
		lineNumber: cfg.LineNumber,
	}
	defer out.w.Flush()
	batch := logfilter.Batch{
		Grep: logfilter.Grep{
			MatchLimit: cfg.Limit,
			BufferSize: cfg.MaxLine,
			OnMatch:    out.print,
			Options: []logfilter.SourceOption{
				logfilter.WithWindowSize(cfg.WindowSize),
				logfilter.WithLogger(log),
			},
			Log: log,
		},
		Jobs: cfg.Jobs,
	}
	batch.Add(files...)
	res, err := batch.Run(context.Background(), filter)
	if err != nil {
		return err
	}
	var errs []error
	for _, r := range res {
		log.Info().Str("path", r.Path).Int("matches", r.Matches).Msg("done")
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if err := out.err; err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type matchPrinter struct {
	mu         sync.Mutex
	w          *bufio.Writer
	withPath   bool
	lineNumber bool
	err        error
}

func (p *matchPrinter) print(path string, line logfilter.Line) (abort bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return true
	}
	if p.withPath {
		p.w.WriteString(path)
		p.w.WriteByte(':')
	}
	if p.lineNumber {
		p.w.WriteString(strconv.FormatInt(line.No, 10))
		p.w.WriteByte(':')
	}
	p.w.Write(line.Text)
	if _, p.err = p.w.WriteString("\n"); p.err != nil {
		return true
	}
	if line.Truncated {
		log.Debug().Str("path", path).Int64("line", line.No).Msg("line truncated")
	}
	return false
}
