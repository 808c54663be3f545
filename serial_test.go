//go:build linux

package devcmd

import (
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

// openPTY returns the master side of a PTY pair and a SerialSource on its slave.
func openPTY(t *testing.T, cfg SerialConfig) (*SerialSource, func([]byte)) {
	t.Helper()
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	cfg.Device = slave.Name()
	src, err := OpenSerial(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	write := func(b []byte) {
		_, err := master.Write(b)
		require.NoError(t, err)
	}
	return src, write
}

func TestSerialSource_BasicRead(t *testing.T) {
	src, write := openPTY(t, SerialConfig{BaudRate: 115200})

	bytes := make(chan byte, 16)
	go func() {
		for {
			c, ok := src.Next()
			if !ok {
				close(bytes)
				return
			}
			bytes <- c
		}
	}()

	write([]byte("rb 1\r\n"))

	var got []byte
	timeout := time.After(500 * time.Millisecond)
	for len(got) < 6 {
		select {
		case c := <-bytes:
			got = append(got, c)
		case <-timeout:
			t.Fatalf("timeout waiting for bytes, got %q", got)
		}
	}
	require.Equal(t, "rb 1\r\n", string(got))
}

func TestSerialSource_Parser(t *testing.T) {
	src, write := openPTY(t, SerialConfig{})
	require.Equal(t, DefaultBaudRate, src.Config().BaudRate)

	type result struct {
		cmd Command
		err error
	}
	results := make(chan result, 2)
	go func() {
		p := NewParser(src)
		for i := 0; i < 2; i++ {
			cmd, err := p.ParseCommand()
			results <- result{cmd, err}
		}
	}()

	write([]byte("sd x04\r\nwb 0x10 -128\r\n"))

	want := []Command{NewSetDevice(X04), NewWriteByte(0x10, 0x80)}
	for _, w := range want {
		select {
		case r := <-results:
			require.NoError(t, r.err)
			require.Equal(t, w, r.cmd)
		case <-time.After(500 * time.Millisecond):
			t.Fatal("timeout waiting for command")
		}
	}
}

func TestSerialSource_WriteLine(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	src, err := OpenSerial(SerialConfig{Device: slave.Name(), BaudRate: 115200})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	line := "OK"
	newline := "\r\n"
	require.NoError(t, src.WriteLine(line, newline))

	buf := make([]byte, len(line)+len(newline))
	n, err := master.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(line)+len(newline), n)
	require.Equal(t, line+newline, string(buf))
}

func TestSerialSource_Killability(t *testing.T) {
	src, _ := openPTY(t, SerialConfig{BaudRate: 115200})

	done := make(chan bool, 1)
	go func() {
		_, ok := src.Next()
		done <- ok
	}()

	// Give the goroutine a chance to block
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, src.Close())

	select {
	case ok := <-done:
		require.False(t, ok)
		require.ErrorIs(t, src.Err(), ErrSerialClosed)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for Next to return after Close")
	}

	// Should be a no-op due to closeOnce
	require.NoError(t, src.Close())
}

func TestSerialSource_ErrorPropagation(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { slave.Close() })

	src, err := OpenSerial(SerialConfig{Device: slave.Name(), BaudRate: 115200})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	done := make(chan bool, 1)
	go func() {
		_, ok := src.Next()
		done <- ok
	}()

	// Simulate device disconnect by closing master
	require.NoError(t, master.Close())

	select {
	case ok := <-done:
		require.False(t, ok)
		require.Error(t, src.Err())
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for error after device disconnect")
	}
}

func TestSerialSource_ReadTimeout(t *testing.T) {
	src, _ := openPTY(t, SerialConfig{ReadTimeout: 20 * time.Millisecond})

	p := NewParser(src)
	_, err := p.ParseCommand()
	require.ErrorIs(t, err, ErrExhausted)
	require.ErrorIs(t, src.Err(), ErrReadTimeout)
}

func TestOpenSerial_UnsupportedBaud(t *testing.T) {
	_, err := OpenSerial(SerialConfig{Device: "/dev/null", BaudRate: 1234})
	require.ErrorIs(t, err, ErrUnsupportedBaud)
	require.False(t, SupportedBaudRate(1234))
	require.True(t, SupportedBaudRate(9600))
}

func TestOpenSerial_MissingDevice(t *testing.T) {
	_, err := OpenSerial(SerialConfig{Device: "/dev/does-not-exist"})
	require.Error(t, err)
}
