package devcmd

import "math"

// ScannedStringSize is the capacity of the identifier/string buffer. The last
// slot always stays zero, so at most ScannedStringSize-1 bytes are accepted.
const ScannedStringSize = 16

// State is a state of the scanner's finite-state machine.
type State int

const (
	StateInitial State = iota
	StateIdentifier
	StateFinish // CR seen, LF pending
	StateString
	StateNumberWithSign
	StateAnyNumber // leading 0 seen, radix not known yet
	StateEscape
	StateStringEnd
	StateDecimalNumber
	StateBinaryNumber
	StateOctalNumber
	StateHexadecimalNumber
)

var stateNames = [...]string{
	StateInitial:           "initial",
	StateIdentifier:        "identifier",
	StateFinish:            "finish",
	StateString:            "string",
	StateNumberWithSign:    "number-with-sign",
	StateAnyNumber:         "any-number",
	StateEscape:            "escape",
	StateStringEnd:         "string-end",
	StateDecimalNumber:     "decimal-number",
	StateBinaryNumber:      "binary-number",
	StateOctalNumber:       "octal-number",
	StateHexadecimalNumber: "hexadecimal-number",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Scanner converts a byte stream into tokens one byte at a time. It never
// allocates: identifiers and strings accumulate in a fixed array and numbers
// in an int32.
//
// A Scanner is owned by a single parsing session and is not safe for
// concurrent use.
type Scanner struct {
	state    State
	text     [ScannedStringSize]byte
	textLen  int
	number   int32
	negative bool
	err      error
}

// NewScanner returns a Scanner in the initial state.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Reset discards any partial token and returns the scanner to the initial state.
func (s *Scanner) Reset() {
	*s = Scanner{}
}

// State returns the current machine state.
func (s *Scanner) State() State {
	return s.state
}

// Bytes returns the last scanned identifier or string. The slice aliases the
// scanner buffer and is only valid until the next call to Scan.
func (s *Scanner) Bytes() []byte {
	return s.text[:s.textLen]
}

// Text returns the last scanned identifier or string.
func (s *Scanner) Text() string {
	return string(s.text[:s.textLen])
}

// Number returns the last scanned number with its sign applied.
func (s *Scanner) Number() int32 {
	return s.number
}

// Err returns the reason for the most recent TokenInvalid: ErrLexical or
// ErrOverflow. It is nil when no invalid token has been emitted.
func (s *Scanner) Err() error {
	return s.err
}

// Scan feeds one byte to the machine. It reports true together with a token
// when c completes one, and false while a token is still being accumulated.
// After TokenInvalid the session should be treated as failed.
func (s *Scanner) Scan(c byte) (Token, bool) {
	switch s.state {
	case StateInitial:
		return s.scanInitial(c)
	case StateIdentifier:
		return s.scanIdentifier(c)
	case StateFinish:
		return s.scanFinish(c)
	case StateString:
		return s.scanString(c)
	case StateNumberWithSign:
		return s.scanNumberWithSign(c)
	case StateAnyNumber:
		return s.scanAnyNumber(c)
	case StateEscape:
		return s.scanEscape(c)
	case StateStringEnd:
		return s.scanStringEnd(c)
	case StateDecimalNumber:
		return s.scanDigits(c, 10)
	case StateBinaryNumber:
		return s.scanDigits(c, 2)
	case StateOctalNumber:
		return s.scanDigits(c, 8)
	case StateHexadecimalNumber:
		return s.scanDigits(c, 16)
	}
	return s.fail(ErrLexical)
}

func (s *Scanner) fail(err error) (Token, bool) {
	s.err = err
	return TokenInvalid, true
}

func (s *Scanner) emit(t Token, next State) (Token, bool) {
	s.state = next
	return t, true
}

func (s *Scanner) clearNumber() {
	s.number = 0
	s.negative = false
}

func (s *Scanner) clearText() {
	s.text = [ScannedStringSize]byte{}
	s.textLen = 0
}

func (s *Scanner) pushChar(c byte) bool {
	if s.textLen >= ScannedStringSize-1 {
		return false
	}
	s.text[s.textLen] = c
	s.textLen++
	return true
}

// pushDigit accumulates the unsigned magnitude; the sign waits for finalizeNumber.
func (s *Scanner) pushDigit(d, radix int32) bool {
	if s.number > (math.MaxInt32-d)/radix {
		return false
	}
	s.number = s.number*radix + d
	return true
}

func (s *Scanner) finalizeNumber() bool {
	if !s.negative {
		return true
	}
	if s.number == math.MinInt32 {
		return false
	}
	s.number = -s.number
	return true
}

func (s *Scanner) scanInitial(c byte) (Token, bool) {
	switch {
	case c == ' ':
	case c == '\r':
		s.state = StateFinish
	case c == '-':
		s.clearNumber()
		s.negative = true
		s.state = StateNumberWithSign
	case c == '0':
		s.clearNumber()
		s.state = StateAnyNumber
	case '1' <= c && c <= '9':
		s.clearNumber()
		if !s.pushDigit(int32(c-'0'), 10) {
			return s.fail(ErrOverflow)
		}
		s.state = StateDecimalNumber
	case c == '\'':
		s.clearText()
		s.state = StateString
	case isAlpha(c):
		s.clearText()
		if !s.pushChar(c) {
			return s.fail(ErrOverflow)
		}
		s.state = StateIdentifier
	default:
		return s.fail(ErrLexical)
	}
	return 0, false
}

func (s *Scanner) scanIdentifier(c byte) (Token, bool) {
	switch {
	case c == ' ':
		return s.emit(TokenIdentifier, StateInitial)
	case c == '\r':
		return s.emit(TokenIdentifier, StateFinish)
	case c == '_' || isAlpha(c) || isDigit(c):
		if !s.pushChar(c) {
			return s.fail(ErrOverflow)
		}
		return 0, false
	}
	return s.fail(ErrLexical)
}

// scanFinish only accepts LF; a lone CR is an error.
func (s *Scanner) scanFinish(c byte) (Token, bool) {
	if c == '\n' {
		return s.emit(TokenFinish, StateInitial)
	}
	return s.fail(ErrLexical)
}

func (s *Scanner) scanString(c byte) (Token, bool) {
	switch {
	case c == '\\':
		s.state = StateEscape
	case c == '\'':
		s.state = StateStringEnd
	case isPrint(c):
		if !s.pushChar(c) {
			return s.fail(ErrOverflow)
		}
	default:
		return s.fail(ErrLexical)
	}
	return 0, false
}

func (s *Scanner) scanEscape(c byte) (Token, bool) {
	if !isPrint(c) {
		return s.fail(ErrLexical)
	}
	if !s.pushChar(c) {
		return s.fail(ErrOverflow)
	}
	s.state = StateString
	return 0, false
}

func (s *Scanner) scanStringEnd(c byte) (Token, bool) {
	switch c {
	case ' ':
		return s.emit(TokenString, StateInitial)
	case '\r':
		return s.emit(TokenString, StateFinish)
	}
	return s.fail(ErrLexical)
}

func (s *Scanner) scanNumberWithSign(c byte) (Token, bool) {
	switch {
	case c == '0':
		s.state = StateAnyNumber
	case isDigit(c):
		if !s.pushDigit(int32(c-'0'), 10) {
			return s.fail(ErrOverflow)
		}
		s.state = StateDecimalNumber
	default:
		return s.fail(ErrLexical)
	}
	return 0, false
}

func (s *Scanner) scanAnyNumber(c byte) (Token, bool) {
	switch {
	case c == ' ' || c == '\r':
		return s.endNumber(c)
	case c == 'b':
		s.state = StateBinaryNumber
	case c == 'o':
		s.state = StateOctalNumber
	case c == 'x':
		s.state = StateHexadecimalNumber
	case c == 'd':
		s.state = StateDecimalNumber
	case isDigit(c):
		if !s.pushDigit(int32(c-'0'), 10) {
			return s.fail(ErrOverflow)
		}
		s.state = StateDecimalNumber
	default:
		return s.fail(ErrLexical)
	}
	return 0, false
}

// scanDigits handles the four radix states, which differ only in the digit set.
func (s *Scanner) scanDigits(c byte, radix int32) (Token, bool) {
	if c == ' ' || c == '\r' {
		return s.endNumber(c)
	}
	d, ok := digitValue(c, radix)
	if !ok {
		return s.fail(ErrLexical)
	}
	if !s.pushDigit(d, radix) {
		return s.fail(ErrOverflow)
	}
	return 0, false
}

// endNumber applies the sign and emits the number on a space or CR.
func (s *Scanner) endNumber(c byte) (Token, bool) {
	if !s.finalizeNumber() {
		return s.fail(ErrOverflow)
	}
	if c == '\r' {
		return s.emit(TokenNumber, StateFinish)
	}
	return s.emit(TokenNumber, StateInitial)
}

// isAlpha checks if a character is an ASCII letter
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDigit checks if a character is a decimal digit
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isPrint checks if a character is printable ASCII
func isPrint(c byte) bool {
	return c >= 0x20 && c <= 0x7E
}

func digitValue(c byte, radix int32) (int32, bool) {
	var d int32
	switch {
	case isDigit(c):
		d = int32(c - '0')
	case c >= 'a' && c <= 'f':
		d = int32(c-'a') + 10
	case c >= 'A' && c <= 'F':
		d = int32(c-'A') + 10
	default:
		return 0, false
	}
	if d >= radix {
		return 0, false
	}
	return d, true
}
