//go:build linux

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	devcmd "github.com/luhtfiimanal/go-serial-devcmd"
	"github.com/luhtfiimanal/go-serial-devcmd/internal/config"
	"github.com/luhtfiimanal/go-serial-devcmd/internal/logger"
)

func addPlatformCommands(root *cobra.Command, opts *rootOptions) {
	root.AddCommand(newListenCmd(opts))
}

func newListenCmd(opts *rootOptions) *cobra.Command {
	var (
		device string
		baud   int
		ack    bool
		resync bool
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Parse commands arriving on a serial link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("device") {
				cfg.Serial.Device = device
			}
			if flags.Changed("baud") {
				cfg.Serial.BaudRate = baud
			}
			if flags.Changed("ack") {
				cfg.Ack = ack
			}
			if flags.Changed("resync") {
				cfg.Resync = resync
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Serial.Device == "" {
				return errors.New("no serial device: set serial.device or --device")
			}

			log, err := opts.newLogger(cmd, "listen", cfg)
			if err != nil {
				return err
			}

			src, err := devcmd.OpenSerial(cfg.SerialConfig())
			if err != nil {
				log.ErrorWithCause("failed to open serial port", err,
					"the device does not exist or is not a terminal",
					"check serial.device and its permissions")
				return err
			}
			defer src.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				src.Close()
			}()

			return runListen(src, cfg, log.WithField("device", cfg.Serial.Device))
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "serial device (overrides serial.device)")
	cmd.Flags().IntVar(&baud, "baud", devcmd.DefaultBaudRate, "baud rate (overrides serial.baud_rate)")
	cmd.Flags().BoolVar(&ack, "ack", false, "answer each line with OK or ERR <CODE>")
	cmd.Flags().BoolVar(&resync, "resync", false, "skip malformed lines instead of stopping")
	return cmd
}

// runListen parses commands until the link closes, goes idle, or a line
// fails without resync.
func runListen(src *devcmd.SerialSource, cfg *config.Config, log *logger.Logger) error {
	p := devcmd.NewParser(src)
	log.Info("listening", slog.Int("baud_rate", src.Config().BaudRate))

	for {
		cmd, err := p.ParseCommand()
		if err == nil {
			log.Info("command", slog.String("kind", cmd.Kind.String()), slog.String("text", cmd.String()))
			if cfg.Ack {
				if err := src.WriteLine("OK", "\r\n"); err != nil {
					return fmt.Errorf("write ack: %w", err)
				}
			}
			continue
		}

		if errors.Is(err, devcmd.ErrExhausted) {
			return endOfLink(src.Err(), log)
		}

		log.Warn("malformed line", slog.String("code", devcmd.Code(err)))
		if cfg.Ack {
			if err := src.WriteLine("ERR "+devcmd.Code(err), "\r\n"); err != nil {
				return fmt.Errorf("write ack: %w", err)
			}
		}
		if !cfg.Resync {
			return err
		}
		if err := p.Resync(); err != nil {
			return endOfLink(src.Err(), log)
		}
	}
}

// endOfLink maps the reason the serial source stopped to the command result.
func endOfLink(err error, log *logger.Logger) error {
	switch {
	case err == nil, errors.Is(err, devcmd.ErrSerialClosed):
		log.Info("link closed")
		return nil
	case errors.Is(err, devcmd.ErrReadTimeout):
		log.Info("link idle, stopping")
		return nil
	}
	return fmt.Errorf("serial link: %w", err)
}
