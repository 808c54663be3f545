package devcmd

import (
	"errors"
	"io"
)

// BufferSourceSize is the capacity of a BufferSource.
const BufferSourceSize = 32

// ErrBufferTooLarge is returned when a BufferSource is loaded with more than
// BufferSourceSize bytes.
var ErrBufferTooLarge = errors.New("buffer source: input exceeds capacity")

// Source supplies input bytes to a Parser one at a time. Next returns false
// once no more bytes are available. The parser does not distinguish a clean
// end of input from a transport failure; sources that can fail keep the cause
// available through an Err method.
type Source interface {
	Next() (byte, bool)
}

// ReaderSource reads bytes from an io.Reader, such as os.Stdin or a socket.
type ReaderSource struct {
	r   io.Reader
	buf [1]byte
	err error
}

// NewReaderSource returns a Source reading from r. Wrap r in a bufio.Reader
// when it is expensive to read one byte at a time.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// Next implements Source.
func (s *ReaderSource) Next() (byte, bool) {
	if s.err != nil {
		return 0, false
	}
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		s.err = err
		return 0, false
	}
	return s.buf[0], true
}

// Err returns the error that ended the stream, or nil at a clean end of input.
func (s *ReaderSource) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Reader returns the wrapped reader.
func (s *ReaderSource) Reader() io.Reader {
	return s.r
}

// BufferSource is a fixed-capacity in-memory byte queue. It never allocates
// after construction, which makes it suitable for embedded targets.
type BufferSource struct {
	buf  [BufferSourceSize]byte
	head int
	tail int
}

// NewBufferSource returns a BufferSource holding a copy of b.
func NewBufferSource(b []byte) (*BufferSource, error) {
	s := &BufferSource{}
	if err := s.Load(b); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the queued bytes with a copy of b.
func (s *BufferSource) Load(b []byte) error {
	if len(b) > BufferSourceSize {
		return ErrBufferTooLarge
	}
	s.head = 0
	s.tail = copy(s.buf[:], b)
	return nil
}

// Len returns the number of bytes still queued.
func (s *BufferSource) Len() int {
	return s.tail - s.head
}

// Next implements Source.
func (s *BufferSource) Next() (byte, bool) {
	if s.head >= s.tail {
		return 0, false
	}
	c := s.buf[s.head]
	s.head++
	return c, true
}
