package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	devcmd "github.com/luhtfiimanal/go-serial-devcmd"
	"github.com/luhtfiimanal/go-serial-devcmd/internal/logger"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var resync bool
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse command lines from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, err := opts.newLogger(cmd, "parse", cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("resync") {
				resync = cfg.Resync
			}

			in := cmd.InOrStdin()
			name := "stdin"
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in, name = f, args[0]
			}
			return runParse(bufio.NewReader(in), cmd.OutOrStdout(), resync, log.WithField("input", name))
		},
	}
	cmd.Flags().BoolVar(&resync, "resync", false, "skip malformed lines instead of stopping")
	return cmd
}

// runParse prints one canonical command per parsed line.
func runParse(r io.Reader, out io.Writer, resync bool, log *logger.Logger) error {
	src := devcmd.NewReaderSource(r)
	p := devcmd.NewParser(src)

	line, failed := 0, 0
	for {
		line++
		cmd, err := p.ParseCommand()
		if err == nil {
			log.Debug("command parsed", slog.Int("line", line), slog.String("kind", cmd.Kind.String()))
			fmt.Fprintln(out, cmd)
			continue
		}

		if errors.Is(err, devcmd.ErrExhausted) {
			if src.Err() != nil {
				return fmt.Errorf("read input: %w", src.Err())
			}
			if p.AtLineStart() {
				break
			}
		}

		failed++
		log.ErrorWithCause("parse failed", err,
			fmt.Sprintf("line %d is not a valid command", line),
			"check the keyword, argument ranges and CR LF terminator")
		if !resync {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := p.Resync(); err != nil {
			break
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d malformed line(s)", failed)
	}
	return nil
}
