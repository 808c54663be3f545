package devcmd

// Parser assembles Commands from the tokens of a Scanner fed by a Source.
// The grammar is LL(1): the keyword alone decides the argument sequence.
//
// ParseCommand is all-or-nothing. After an error the scanner may be left in the
// middle of a token and the session should be considered finished, unless the
// caller calls Resync.
type Parser struct {
	src     Source
	scanner Scanner
	// lineStart is true before the first byte and after each LF.
	lineStart bool
}

// NewParser returns a Parser reading from src.
func NewParser(src Source) *Parser {
	return &Parser{src: src, lineStart: true}
}

// Release hands back the underlying Source. The Parser must not be used afterwards.
func (p *Parser) Release() Source {
	src := p.src
	p.src = nil
	return src
}

// AtLineStart reports whether the parser stopped on a line boundary: nothing
// has been read yet, or the last byte consumed was LF. An ErrExhausted
// returned at a line boundary is a clean end of input.
func (p *Parser) AtLineStart() bool {
	return p.lineStart
}

// Scanner exposes the scanner state for diagnostics after a failed parse.
func (p *Parser) Scanner() *Scanner {
	return &p.scanner
}

// ParseCommand reads exactly one CR LF terminated command line. Every error
// it returns satisfies errors.Is(err, ErrParseFailed); the concrete value is
// one of ErrLexical, ErrOverflow, ErrSyntax or ErrExhausted.
func (p *Parser) ParseCommand() (Command, error) {
	tok, err := p.nextToken()
	if err != nil {
		return Command{}, err
	}
	if tok != TokenIdentifier {
		return Command{}, ErrSyntax
	}

	kind, ok := lookupKeyword(p.scanner.Bytes())
	if !ok {
		return Command{}, ErrSyntax
	}
	switch kind {
	case ReadByte:
		return p.parseReadByte()
	case WriteByte:
		return p.parseWriteByte()
	case ReadData:
		return p.parseReadData()
	case WritePage:
		return p.parseWritePage()
	default:
		return p.parseSetDevice()
	}
}

// Resync discards input up to and including the next LF and resets the
// scanner, so that parsing can continue on the following line. It returns
// ErrExhausted if the source runs dry first.
func (p *Parser) Resync() error {
	p.scanner.Reset()
	if p.lineStart {
		return nil
	}
	for {
		c, ok := p.src.Next()
		if !ok {
			return ErrExhausted
		}
		if c == '\n' {
			p.lineStart = true
			return nil
		}
	}
}

// nextToken pulls bytes until the scanner completes a token.
func (p *Parser) nextToken() (Token, error) {
	for {
		c, ok := p.src.Next()
		if !ok {
			return 0, ErrExhausted
		}
		p.lineStart = c == '\n'
		tok, done := p.scanner.Scan(c)
		if !done {
			continue
		}
		if tok == TokenInvalid {
			return tok, p.scanner.Err()
		}
		return tok, nil
	}
}

func (p *Parser) expectNumber() (int32, error) {
	tok, err := p.nextToken()
	if err != nil {
		return 0, err
	}
	if tok != TokenNumber {
		return 0, ErrSyntax
	}
	return p.scanner.Number(), nil
}

func (p *Parser) expectFinish() error {
	tok, err := p.nextToken()
	if err != nil {
		return err
	}
	if tok != TokenFinish {
		return ErrSyntax
	}
	return nil
}

// parseAddress also serves length arguments; both are non-negative.
func (p *Parser) parseAddress() (uint32, error) {
	n, err := p.expectNumber()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrSyntax
	}
	return uint32(n), nil
}

// parseData accepts [-128, 255]; negative values map to their two's complement byte.
func (p *Parser) parseData() (uint8, error) {
	n, err := p.expectNumber()
	if err != nil {
		return 0, err
	}
	switch {
	case n < -128 || n > 255:
		return 0, ErrSyntax
	case n < 0:
		return uint8(n + 0x100), nil
	}
	return uint8(n), nil
}

func (p *Parser) parsePage() (uint16, error) {
	n, err := p.expectNumber()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxPage {
		return 0, ErrSyntax
	}
	return uint16(n), nil
}

func (p *Parser) parseDeviceName() (DeviceName, error) {
	tok, err := p.nextToken()
	if err != nil {
		return 0, err
	}
	if tok != TokenIdentifier {
		return 0, ErrSyntax
	}
	d, ok := lookupDevice(p.scanner.Bytes())
	if !ok {
		return 0, ErrSyntax
	}
	return d, nil
}

func (p *Parser) parseReadByte() (Command, error) {
	addr, err := p.parseAddress()
	if err != nil {
		return Command{}, err
	}
	if err := p.expectFinish(); err != nil {
		return Command{}, err
	}
	return NewReadByte(addr), nil
}

func (p *Parser) parseWriteByte() (Command, error) {
	addr, err := p.parseAddress()
	if err != nil {
		return Command{}, err
	}
	data, err := p.parseData()
	if err != nil {
		return Command{}, err
	}
	if err := p.expectFinish(); err != nil {
		return Command{}, err
	}
	return NewWriteByte(addr, data), nil
}

func (p *Parser) parseReadData() (Command, error) {
	addr, err := p.parseAddress()
	if err != nil {
		return Command{}, err
	}
	length, err := p.parseAddress()
	if err != nil {
		return Command{}, err
	}
	if err := p.expectFinish(); err != nil {
		return Command{}, err
	}
	return NewReadData(addr, length), nil
}

func (p *Parser) parseWritePage() (Command, error) {
	page, err := p.parsePage()
	if err != nil {
		return Command{}, err
	}
	if err := p.expectFinish(); err != nil {
		return Command{}, err
	}
	return NewWritePage(page), nil
}

func (p *Parser) parseSetDevice() (Command, error) {
	d, err := p.parseDeviceName()
	if err != nil {
		return Command{}, err
	}
	if err := p.expectFinish(); err != nil {
		return Command{}, err
	}
	return NewSetDevice(d), nil
}
