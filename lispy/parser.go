package lispy

import (
	"fmt"
)

type NodeKind int

const (
	NodeNumber NodeKind = iota
	NodeSymbol
	NodeString
	NodeComment
	NodeSexpr
	NodeQexpr
	NodeRoot
)

func (k NodeKind) String() string {
	switch k {
	case NodeNumber:
		return "number"
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeComment:
		return "comment"
	case NodeSexpr:
		return "sexpr"
	case NodeQexpr:
		return "qexpr"
	case NodeRoot:
		return "root"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is one element of the parse tree. Leaves carry their source
// text in Literal; lists and the root carry Children.
type Node struct {
	Kind     NodeKind
	Literal  string
	Children []*Node
	Line     int
}

// Parser builds a Node tree from source text. Each Parser owns its
// lexer; parsers share no state.
type Parser struct {
	lexer *Lexer
	toks  []Token
	pos   int
}

func NewParser() *Parser {
	return &Parser{lexer: NewLexer()}
}

func (p *Parser) Linenum() int {
	return p.lexer.Linenum()
}

// Parse returns the root node of src. Input that ends inside an open
// list or string gives ErrMoreInputNeeded; any other problem is a
// *ParseError.
func (p *Parser) Parse(src string) (*Node, error) {
	toks, err := p.lexer.LexString(src)
	if err != nil {
		return nil, err
	}
	p.toks = toks
	p.pos = 0

	root := &Node{Kind: NodeRoot, Line: 1}
	for p.pos < len(p.toks) {
		n, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, n)
	}
	return root, nil
}

func (p *Parser) next() Token {
	if p.pos >= len(p.toks) {
		return EndTk
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok
}

func (p *Parser) ParseExpression(depth int) (*Node, error) {
	tok := p.next()
	switch tok.typ {
	case TokenNumber:
		return &Node{Kind: NodeNumber, Literal: tok.str, Line: tok.line}, nil
	case TokenSymbol:
		return &Node{Kind: NodeSymbol, Literal: tok.str, Line: tok.line}, nil
	case TokenString:
		return &Node{Kind: NodeString, Literal: tok.str, Line: tok.line}, nil
	case TokenComment:
		return &Node{Kind: NodeComment, Literal: tok.str, Line: tok.line}, nil
	case TokenLParen:
		return p.ParseList(depth+1, NodeSexpr, TokenRParen, tok.line)
	case TokenLCurly:
		return p.ParseList(depth+1, NodeQexpr, TokenRCurly, tok.line)
	case TokenRParen, TokenRCurly:
		return nil, &ParseError{Line: tok.line, Msg: fmt.Sprintf("unexpected '%s'", tok)}
	}
	return nil, ErrMoreInputNeeded
}

func (p *Parser) ParseList(depth int, kind NodeKind, end TokenType, line int) (*Node, error) {
	list := &Node{Kind: kind, Line: line}
	for {
		if p.pos >= len(p.toks) {
			return nil, ErrMoreInputNeeded
		}
		tok := p.toks[p.pos]
		switch tok.typ {
		case end:
			p.pos++
			return list, nil
		case TokenRParen, TokenRCurly:
			return nil, &ParseError{Line: tok.line,
				Msg: fmt.Sprintf("unexpected '%s' in %s opened on line %d", tok, kind, line)}
		}
		child, err := p.ParseExpression(depth)
		if err != nil {
			return nil, err
		}
		list.Children = append(list.Children, child)
	}
}
