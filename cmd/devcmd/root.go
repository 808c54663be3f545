package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/luhtfiimanal/go-serial-devcmd/internal/config"
	"github.com/luhtfiimanal/go-serial-devcmd/internal/logger"
)

type rootOptions struct {
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "devcmd",
		Short: "Parse device-control command lines",
		Long: `devcmd reads CR LF terminated device-control commands and turns them
into typed commands:

  rb <addr>          read byte
  wb <addr> <byte>   write byte
  rd <addr> <len>    read data
  wp <page>          write page
  sd <device>        set device`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "link config file (YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newParseCmd(opts))
	root.AddCommand(newVersionCmd())
	addPlatformCommands(root, opts)
	return root
}

// loadConfig returns the file config, or the defaults when no file was given.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(o.cfgFile)
}

func (o *rootOptions) newLogger(cmd *cobra.Command, component string, cfg *config.Config) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	return logger.New(component, &logger.Config{Level: level, Output: cmd.ErrOrStderr()}), nil
}
