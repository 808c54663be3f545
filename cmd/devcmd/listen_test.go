//go:build linux

package main

import (
	"bufio"
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"

	devcmd "github.com/luhtfiimanal/go-serial-devcmd"
	"github.com/luhtfiimanal/go-serial-devcmd/internal/config"
	"github.com/luhtfiimanal/go-serial-devcmd/internal/logger"
)

func TestRunListen_AckAndResync(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	src, err := devcmd.OpenSerial(devcmd.SerialConfig{Device: slave.Name()})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	cfg := config.Default()
	cfg.Ack = true
	cfg.Resync = true

	var logs bytes.Buffer
	log := logger.New("listen", &logger.Config{Level: slog.LevelInfo, Output: &logs})

	done := make(chan error, 1)
	go func() { done <- runListen(src, cfg, log) }()

	_, err = master.Write([]byte("wp 1\r\nzz\r\nsd x02\r\n"))
	require.NoError(t, err)

	acks := make(chan string, 3)
	go func() {
		r := bufio.NewReader(master)
		for i := 0; i < 3; i++ {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			acks <- line
		}
	}()

	for _, want := range []string{"OK\r\n", "ERR SYNTAX_ERROR\r\n", "OK\r\n"} {
		select {
		case got := <-acks:
			require.Equal(t, want, got)
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for %q", want)
		}
	}

	require.NoError(t, src.Close())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for listen to stop")
	}
	require.Contains(t, logs.String(), `"text":"sd x02"`)
}

func TestRunListen_StopsWithoutResync(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	src, err := devcmd.OpenSerial(devcmd.SerialConfig{Device: slave.Name()})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	var logs bytes.Buffer
	log := logger.New("listen", &logger.Config{Output: &logs})

	done := make(chan error, 1)
	go func() { done <- runListen(src, config.Default(), log) }()

	_, err = master.Write([]byte("wp 5000\r\n"))
	require.NoError(t, err)

	select {
	case err := <-done:
		require.ErrorIs(t, err, devcmd.ErrSyntax)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for listen to fail")
	}
}

func TestRunListen_IdleTimeout(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	src, err := devcmd.OpenSerial(devcmd.SerialConfig{Device: slave.Name(), ReadTimeout: 20 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	var logs bytes.Buffer
	err = runListen(src, config.Default(), logger.New("listen", &logger.Config{Output: &logs}))
	require.NoError(t, err)
	require.Contains(t, logs.String(), "link idle")
}

func TestListenCmd_RequiresDevice(t *testing.T) {
	_, _, err := execute(t, "", "listen")
	require.ErrorContains(t, err, "no serial device")
}

func TestListenCmd_RejectsBadBaud(t *testing.T) {
	_, _, err := execute(t, "", "listen", "--device", "/dev/ttyS0", "--baud", "1234")
	require.ErrorIs(t, err, devcmd.ErrUnsupportedBaud)
}
