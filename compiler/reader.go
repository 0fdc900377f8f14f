package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Reader turns s-expression text into expressions. Syntax:
//
//	(selector receiver args...)   message send
//	(define name expr)            global definition
//	(quote datum) or 'datum       quoted data
//	42  3.5  true  false  nil     literals
//	name                          global reference
//
// This is conventional front-end glue; the engine proper consumes only
// compiled units.
type Reader struct {
	src  string
	pos  int
	line int
}

// NewReader creates a reader over src.
func NewReader(src string) *Reader {
	return &Reader{src: src, line: 1}
}

// ReadAll reads every top-level expression in the source.
func ReadAll(src string) ([]Expr, error) {
	r := NewReader(src)
	var exprs []Expr
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return exprs, nil
		}
		e, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
}

func (r *Reader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", r.line, fmt.Sprintf(format, args...))
}

func (r *Reader) skipSpace() {
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch {
		case c == '\n':
			r.line++
			r.pos++
		case c == ' ' || c == '\t' || c == '\r':
			r.pos++
		case c == ';':
			// Comment to end of line.
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
		default:
			return
		}
	}
}

func (r *Reader) here() Position {
	return Position{Offset: r.pos, Line: r.line}
}

func (r *Reader) readExpr() (Expr, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return nil, r.errorf("unexpected end of input")
	}
	pos := r.here()
	switch c := r.src[r.pos]; {
	case c == '(':
		return r.readForm()
	case c == ')':
		return nil, r.errorf("unexpected ')'")
	case c == '\'':
		r.pos++
		d, err := r.readDatum()
		if err != nil {
			return nil, err
		}
		return &Quote{PosVal: pos, Datum: d}, nil
	default:
		return r.readAtom()
	}
}

// readForm reads a parenthesized form: define, quote, or a send.
func (r *Reader) readForm() (Expr, error) {
	pos := r.here()
	r.pos++ // consume '('
	r.skipSpace()
	if r.pos < len(r.src) && r.src[r.pos] == ')' {
		return nil, r.errorf("empty form")
	}

	head, err := r.readToken()
	if err != nil {
		return nil, err
	}

	switch head {
	case "define":
		name, err := r.readToken()
		if err != nil {
			return nil, err
		}
		value, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		return &Define{PosVal: pos, Name: name, Value: value}, nil

	case "quote":
		d, err := r.readDatum()
		if err != nil {
			return nil, err
		}
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		return &Quote{PosVal: pos, Datum: d}, nil

	default:
		// A send: head is the selector, first operand the receiver.
		receiver, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		var args []Expr
		for {
			r.skipSpace()
			if r.pos >= len(r.src) {
				return nil, r.errorf("missing ')'")
			}
			if r.src[r.pos] == ')' {
				r.pos++
				return &Send{PosVal: pos, Selector: head, Receiver: receiver, Args: args}, nil
			}
			arg, err := r.readExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
}

func (r *Reader) expectClose() error {
	r.skipSpace()
	if r.pos >= len(r.src) || r.src[r.pos] != ')' {
		return r.errorf("missing ')'")
	}
	r.pos++
	return nil
}

func (r *Reader) readAtom() (Expr, error) {
	pos := r.here()
	tok, err := r.readToken()
	if err != nil {
		return nil, err
	}
	switch tok {
	case "nil":
		return &NilLit{PosVal: pos}, nil
	case "true":
		return &BoolLit{PosVal: pos, Value: true}, nil
	case "false":
		return &BoolLit{PosVal: pos, Value: false}, nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return &IntLit{PosVal: pos, Value: n}, nil
	}
	if looksNumeric(tok) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, r.errorf("malformed number %q", tok)
		}
		return &FloatLit{PosVal: pos, Value: f}, nil
	}
	return &Ident{PosVal: pos, Name: tok}, nil
}

func (r *Reader) readDatum() (Datum, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return nil, r.errorf("unexpected end of input in quote")
	}
	if r.src[r.pos] == '(' {
		r.pos++
		var items []Datum
		for {
			r.skipSpace()
			if r.pos >= len(r.src) {
				return nil, r.errorf("missing ')' in quoted list")
			}
			if r.src[r.pos] == ')' {
				r.pos++
				return ListDatum{Items: items}, nil
			}
			item, err := r.readDatum()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	tok, err := r.readToken()
	if err != nil {
		return nil, err
	}
	switch tok {
	case "nil":
		return NilDatum{}, nil
	case "true":
		return BoolDatum{Value: true}, nil
	case "false":
		return BoolDatum{Value: false}, nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return IntDatum{Value: n}, nil
	}
	if looksNumeric(tok) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, r.errorf("malformed number %q", tok)
		}
		return FloatDatum{Value: f}, nil
	}
	return SymbolDatum{Name: tok}, nil
}

func (r *Reader) readToken() (string, error) {
	r.skipSpace()
	start := r.pos
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		r.pos++
	}
	if r.pos == start {
		return "", r.errorf("expected token")
	}
	return r.src[start:r.pos], nil
}

func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '\'' || c == ';' || unicode.IsSpace(rune(c))
}

// looksNumeric reports whether tok starts like a number, so "3.x" is a
// malformed number rather than an identifier.
func looksNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	if c == '-' || c == '+' {
		if len(tok) == 1 {
			return false
		}
		c = tok[1]
	}
	return c >= '0' && c <= '9' || strings.HasPrefix(tok, ".") && len(tok) > 1 && tok[1] >= '0' && tok[1] <= '9'
}
