//go:build linux

package devcmd

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// SerialSource is a Source backed by a raw, unbuffered Linux serial port.
// Next blocks until a byte arrives; Close may be called from another
// goroutine to unblock it.
type SerialSource struct {
	fd        int
	file      *os.File
	done      chan struct{}
	closeOnce sync.Once
	config    SerialConfig
	pipeR     int // self-pipe read fd
	pipeW     int // self-pipe write fd

	buf  [256]byte
	head int
	tail int
	err  error
}

// OpenSerial opens a serial port in raw 8N1 mode and returns it as a Source.
func OpenSerial(cfg SerialConfig) (*SerialSource, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	baud, ok := baudToUnix(cfg.BaudRate)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBaud, cfg.BaudRate)
	}

	fd, err := syscall.Open(cfg.Device, syscall.O_RDWR|syscall.O_NOCTTY|syscall.O_NONBLOCK, 0666)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("get termios: %w", err)
	}

	// Raw mode
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8

	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= baud

	// VMIN=1, VTIME=0: a read returns as soon as one byte is there
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("set termios: %w", err)
	}

	// Back to blocking mode now that config is done
	syscall.SetNonblock(fd, false)

	pipeFds := make([]int, 2)
	if err := unix.Pipe(pipeFds); err != nil {
		syscall.Close(fd)
		return nil, fmt.Errorf("pipe: %w", err)
	}

	return &SerialSource{
		fd:     fd,
		file:   os.NewFile(uintptr(fd), cfg.Device),
		done:   make(chan struct{}),
		config: cfg,
		pipeR:  pipeFds[0],
		pipeW:  pipeFds[1],
	}, nil
}

// Config returns the configuration the port was opened with.
func (s *SerialSource) Config() SerialConfig {
	return s.config
}

// Next implements Source. It returns false when the port is closed, times
// out, or fails; Err tells which.
func (s *SerialSource) Next() (byte, bool) {
	if s.head >= s.tail {
		if s.err != nil {
			return 0, false
		}
		if err := s.fill(); err != nil {
			s.err = err
			return 0, false
		}
	}
	c := s.buf[s.head]
	s.head++
	return c, true
}

// Err returns the reason the source stopped yielding bytes.
func (s *SerialSource) Err() error {
	return s.err
}

// fill waits for input or the close signal and refills the buffer.
func (s *SerialSource) fill() error {
	timeout := -1
	if s.config.ReadTimeout > 0 {
		timeout = max(int(s.config.ReadTimeout.Milliseconds()), 1)
	}
	for {
		pfd := []unix.PollFd{
			{Fd: int32(s.fd), Events: unix.POLLIN},
			{Fd: int32(s.pipeR), Events: unix.POLLIN},
		}
		n, err := unix.Poll(pfd, timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}

		select {
		case <-s.done:
			return ErrSerialClosed
		default:
		}
		if pfd[1].Revents&unix.POLLIN != 0 {
			return ErrSerialClosed
		}
		if n == 0 {
			return ErrReadTimeout
		}
		if pfd[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			n, err := s.file.Read(s.buf[:])
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			s.head, s.tail = 0, n
			return nil
		}
	}
}

// WriteLine writes a line (with specified newline) to the serial port.
func (s *SerialSource) WriteLine(line string, newline string) error {
	_, err := s.file.WriteString(line + newline)
	return err
}

// Close closes the serial port and unblocks a pending Next.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *SerialSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		// Wake up poll using self-pipe
		if s.pipeW > 0 {
			unix.Write(s.pipeW, []byte{1})
		}
		if s.file != nil {
			err = s.file.Close()
		}
		if s.pipeR > 0 {
			unix.Close(s.pipeR)
		}
		if s.pipeW > 0 {
			unix.Close(s.pipeW)
		}
	})
	return err
}

func baudToUnix(baud int) (uint32, bool) {
	switch baud {
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	case 230400:
		return unix.B230400, true
	default:
		return 0, false
	}
}
