package lispy

import (
	"bytes"
	"fmt"
	"regexp"
)

type TokenType int

const (
	TokenTypeEmpty TokenType = iota
	TokenLParen
	TokenRParen
	TokenLCurly
	TokenRCurly
	TokenNumber
	TokenSymbol
	TokenString
	TokenComment
	TokenEnd
)

type Token struct {
	typ  TokenType
	str  string
	line int
}

var EndTk = Token{typ: TokenEnd}

func (t Token) String() string {
	switch t.typ {
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLCurly:
		return "{"
	case TokenRCurly:
		return "}"
	case TokenEnd:
		return "end of input"
	}
	return t.str
}

type LexerState int

const (
	LexerNormal      LexerState = iota
	LexerCommentLine            // ; to end of line
	LexerStrLit                 // inside "..."
	LexerStrEscaped             // just saw a backslash inside a string
)

// Lexer turns runes into tokens. Feed it with LexNextRune and call
// Finish at the end of input.
type Lexer struct {
	state   LexerState
	tokens  []Token
	buffer  *bytes.Buffer
	linenum int

	// line on which the token in buffer started
	startLine int
}

func NewLexer() *Lexer {
	return &Lexer{
		tokens:  make([]Token, 0, 10),
		buffer:  new(bytes.Buffer),
		state:   LexerNormal,
		linenum: 1,
	}
}

func (lexer *Lexer) Linenum() int {
	return lexer.linenum
}

func (lexer *Lexer) Reset() {
	lexer.tokens = lexer.tokens[:0]
	lexer.state = LexerNormal
	lexer.linenum = 1
	lexer.buffer.Reset()
}

func (lexer *Lexer) AppendToken(tok Token) {
	lexer.tokens = append(lexer.tokens, tok)
}

func (lexer *Lexer) Tokens() []Token {
	return lexer.tokens
}

var (
	DecimalRegex = regexp.MustCompile(`^-?[0-9]+$`)
	SymbolRegex  = regexp.MustCompile(`^[a-zA-Z0-9_+\-*/\\=<>!&%]+$`)
)

func isSymbolRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '_', '+', '-', '*', '/', '\\', '=', '<', '>', '!', '&', '%':
		return true
	}
	return false
}

// DecodeAtom classifies a run of symbol characters.
func (lexer *Lexer) DecodeAtom(atom string) (Token, error) {
	if DecimalRegex.MatchString(atom) {
		return Token{typ: TokenNumber, str: atom, line: lexer.startLine}, nil
	}
	if SymbolRegex.MatchString(atom) {
		return Token{typ: TokenSymbol, str: atom, line: lexer.startLine}, nil
	}
	return Token{}, &ParseError{Line: lexer.startLine, Msg: fmt.Sprintf("unrecognized atom: '%s'", atom)}
}

func (lexer *Lexer) dumpBuffer() error {
	if lexer.buffer.Len() == 0 {
		return nil
	}
	tok, err := lexer.DecodeAtom(lexer.buffer.String())
	if err != nil {
		return err
	}
	lexer.buffer.Reset()
	lexer.AppendToken(tok)
	return nil
}

func (lexer *Lexer) dumpComment() {
	str := lexer.buffer.String()
	lexer.buffer.Reset()
	lexer.AppendToken(Token{typ: TokenComment, str: str, line: lexer.startLine})
}

// dumpString keeps the literal as written, quotes and escapes included.
func (lexer *Lexer) dumpString() {
	str := `"` + lexer.buffer.String() + `"`
	lexer.buffer.Reset()
	lexer.AppendToken(Token{typ: TokenString, str: str, line: lexer.startLine})
}

func (lexer *Lexer) brace(r rune) Token {
	var typ TokenType
	switch r {
	case '(':
		typ = TokenLParen
	case ')':
		typ = TokenRParen
	case '{':
		typ = TokenLCurly
	case '}':
		typ = TokenRCurly
	}
	return Token{typ: typ, line: lexer.linenum}
}

func (lexer *Lexer) LexNextRune(r rune) error {
	defer func() {
		if r == '\n' {
			lexer.linenum++
		}
	}()

	switch lexer.state {
	case LexerCommentLine:
		if r == '\n' || r == '\r' {
			lexer.dumpComment()
			lexer.state = LexerNormal
			return nil
		}
		lexer.buffer.WriteRune(r)
		return nil

	case LexerStrEscaped:
		lexer.buffer.WriteRune(r)
		lexer.state = LexerStrLit
		return nil

	case LexerStrLit:
		switch r {
		case '\\':
			lexer.buffer.WriteRune(r)
			lexer.state = LexerStrEscaped
		case '"':
			lexer.dumpString()
			lexer.state = LexerNormal
		default:
			lexer.buffer.WriteRune(r)
		}
		return nil
	}

	// LexerNormal
	if isSymbolRune(r) {
		if lexer.buffer.Len() == 0 {
			lexer.startLine = lexer.linenum
		}
		lexer.buffer.WriteRune(r)
		return nil
	}

	err := lexer.dumpBuffer()
	if err != nil {
		return err
	}
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return nil
	case '(', ')', '{', '}':
		lexer.AppendToken(lexer.brace(r))
		return nil
	case ';':
		lexer.startLine = lexer.linenum
		lexer.buffer.WriteRune(r)
		lexer.state = LexerCommentLine
		return nil
	case '"':
		lexer.startLine = lexer.linenum
		lexer.state = LexerStrLit
		return nil
	}
	return &ParseError{Line: lexer.linenum, Msg: fmt.Sprintf("unexpected character %q", r)}
}

// Finish flushes the last token. A string still open at the end of
// input yields ErrMoreInputNeeded.
func (lexer *Lexer) Finish() error {
	switch lexer.state {
	case LexerStrLit, LexerStrEscaped:
		return ErrMoreInputNeeded
	case LexerCommentLine:
		lexer.dumpComment()
		lexer.state = LexerNormal
		return nil
	}
	return lexer.dumpBuffer()
}

// LexString tokenizes all of src.
func (lexer *Lexer) LexString(src string) ([]Token, error) {
	lexer.Reset()
	for _, r := range src {
		if err := lexer.LexNextRune(r); err != nil {
			return nil, err
		}
	}
	if err := lexer.Finish(); err != nil {
		return nil, err
	}
	return lexer.tokens, nil
}
