package sexp

import (
	"fmt"
	"io"
	"strings"
)

// Parser builds expressions from a token stream
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenEOF {
			return result, nil
		}
		expr, err := p.parseExpr(tok)
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}
}

func (p *Parser) parseExpr(tok Token) (Sexp, error) {
	switch tok.Type {
	case TokenLeftParen:
		return p.parseList(tok.Line)
	case TokenSymbol:
		return Sym(tok.Value), nil
	case TokenString:
		return Str(tok.Value), nil
	case TokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", tok.Line)
	default:
		return nil, fmt.Errorf("line %d: unexpected token %q", tok.Line, tok.Value)
	}
}

func (p *Parser) parseList(start int) (List, error) {
	list := List{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenRightParen:
			return list, nil
		case TokenEOF:
			return nil, fmt.Errorf("line %d: unexpected EOF in list", start)
		}
		elem, err := p.parseExpr(tok)
		if err != nil {
			return nil, err
		}
		list = append(list, elem)
	}
}

// Parse parses every S-expression in r
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString parses every S-expression in s
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
