package devcmd

// Token is the kind of lexeme the Scanner emits at a token boundary.
// Tokens carry no payload; the text or value is read from the Scanner
// at the moment the token is returned.
type Token int

const (
	// TokenIdentifier is a letter followed by letters, digits or underscores.
	TokenIdentifier Token = iota
	// TokenString is a single-quoted printable ASCII literal.
	TokenString
	// TokenNumber is a signed integer literal in any supported radix.
	TokenNumber
	// TokenFinish is the CR LF line terminator.
	TokenFinish
	// TokenInvalid reports a byte that is not allowed in the current state.
	TokenInvalid
)

// String returns a string representation of the token kind
func (t Token) String() string {
	switch t {
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenFinish:
		return "FINISH"
	case TokenInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}
