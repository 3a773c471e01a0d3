package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/fractalqb/logfilter"
)

const crlfSuffix = ".crlf"

func newNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [file]...",
		Short: "Convert line endings to CR LF",
		Long: `Convert line endings to CR LF. Without files stdin is written
to stdout. Otherwise each file is written next to the original with the
suffix appended.`,
		RunE: normalizeFiles,
	}
	cmd.Flags().StringP("suffix", "s", crlfSuffix,
		"Set file suffix for created files")
	cmd.Flags().BoolP("force", "f", false,
		"Force to overwrite existing files")
	return cmd
}

func normalizeFiles(cmd *cobra.Command, files []string) error {
	if len(files) == 0 {
		return logfilter.Normalize(cmd.OutOrStdout(), cmd.InOrStdin())
	}
	suffix, _ := cmd.Flags().GetString("suffix")
	force, _ := cmd.Flags().GetBool("force")
	if suffix == "" {
		return errors.New("empty suffix would overwrite the input")
	}
	for _, f := range files {
		if err := normalizeFile(f, f+suffix, force); err != nil {
			return err
		}
	}
	return nil
}

func normalizeFile(name, target string, force bool) (err error) {
	if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) && !force {
		return fmt.Errorf("%s already exists", target)
	}
	rd, err := os.Open(name)
	if err != nil {
		return err
	}
	defer rd.Close()
	wr, err := os.Create(target)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wr.Close(); err == nil {
			err = cerr
		}
	}()
	log.Info().Str("from", name).Str("to", target).Msg("normalize")
	return logfilter.Normalize(wr, rd)
}
