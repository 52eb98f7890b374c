// Package filter translates run predicates such as
//
//	ratio < 0.5 && (copies >= 10 || source ~ '*.txt')
//
// into SQL where clauses over a fixed set of columns.
package filter

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse translates predicate into SQL. Identifiers must be one of columns.
func Parse(predicate string, columns ...string) (string, error) {
	tree, err := ParseAST(predicate, columns...)
	if err != nil {
		return "", err
	}
	return tree.String(), nil
}

func ParseAST(predicate string, columns ...string) (tree *Tree, err error) {
	p := &parser{
		lexer:   lexer{raw: predicate},
		columns: columns,
	}
	defer func() {
		if r := recover(); r != nil {
			if syntaxErr, ok := r.(*SyntaxError); ok {
				tree, err = nil, syntaxErr
				return
			}
			panic(r)
		}
	}()
	expr := p.parseOr()
	if token, ok := p.peek(); ok {
		p.fail("unexpected %q", token)
	}
	return &Tree{Expr: expr}, nil
}

type SyntaxError struct {
	Message string
	Near    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s near %q", e.Message, e.Near)
}

type parser struct {
	lexer
	columns []string
	token   string
	peeked  bool
	eof     bool
}

func (p *parser) peek() (string, bool) {
	if !p.peeked {
		token, ok := p.next()
		p.token, p.eof, p.peeked = token, !ok, true
	}
	return p.token, !p.eof
}

func (p *parser) advance() (string, bool) {
	token, ok := p.peek()
	p.peeked = false
	return token, ok
}

func (p *parser) accept(token string) bool {
	if next, ok := p.peek(); ok && next == token {
		p.peeked = false
		return true
	}
	return false
}

func (p *parser) expect(token string) {
	if !p.accept(token) {
		next, _ := p.peek()
		p.fail("expects %q, got %q", token, next)
	}
}

func (p *parser) fail(format string, args ...any) {
	panic(&SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Near:    p.near(),
	})
}

func (p *parser) parseOr() Expr {
	left := p.parseAnd()
	for p.accept("|") {
		p.expect("|")
		left = &BinaryExpr{Op: []*OperatorType{Or, Or}, Left: left, Right: p.parseAnd()}
	}
	return left
}

func (p *parser) parseAnd() Expr {
	left := p.parsePrimary()
	for p.accept("&") {
		p.expect("&")
		left = &BinaryExpr{Op: []*OperatorType{And, And}, Left: left, Right: p.parsePrimary()}
	}
	return left
}

func (p *parser) parsePrimary() Expr {
	if p.accept("(") {
		expr := p.parseOr()
		p.expect(")")
		return &ParenExpr{Expr: expr}
	}
	token, ok := p.advance()
	if !ok {
		p.fail("unexpected end of predicate")
	}
	if !isIdent(token) {
		p.fail("expects a field, got %q", token)
	}
	name := strings.Trim(token, "`")
	if !slices.Contains(p.columns, name) {
		p.fail("unknown field %q, available fields are %s", name, strings.Join(p.columns, "/"))
	}
	expr := &BinaryExpr{
		Left: &Ident{Name: name},
		Op:   p.parseOperator(),
	}
	lit := p.parseLiteral()
	expr.Right = lit
	op := toOperator(expr.Op, lit == Null)
	switch {
	case lit == Null && op != "is" && op != "is not":
		p.fail("null only compares with == and !=")
	case strings.HasSuffix(op, "like") && lit.Type != String:
		p.fail("~ expects a string")
	}
	likeHack(expr)
	return expr
}

func (p *parser) parseOperator() []*OperatorType {
	token, _ := p.advance()
	switch token {
	case ">":
		if p.accept("=") {
			return []*OperatorType{Greater, Equal}
		}
		return []*OperatorType{Greater}
	case "<":
		if p.accept("=") {
			return []*OperatorType{Less, Equal}
		}
		return []*OperatorType{Less}
	case "=":
		p.expect("=")
		return []*OperatorType{Equal, Equal}
	case "~":
		return []*OperatorType{Like}
	case "!":
		if p.accept("~") {
			return []*OperatorType{Not, Like}
		}
		p.expect("=")
		return []*OperatorType{Not, Equal}
	}
	p.fail("expects an operator, got %q", token)
	return nil
}

func (p *parser) parseLiteral() *LiteralExpr {
	token, ok := p.advance()
	if !ok {
		p.fail("expects a value")
	}
	sign := ""
	if token == "-" {
		sign = "-"
		if token, ok = p.advance(); !ok {
			p.fail("expects a number")
		}
	}
	if isInt(token) {
		value := sign + token
		if p.accept(".") {
			fraction, _ := p.advance()
			if !isInt(fraction) {
				p.fail("expects a fraction, got %q", fraction)
			}
			value += "." + fraction
		}
		return &LiteralExpr{Type: Decimal, Value: value}
	}
	if sign != "" {
		p.fail("expects a number, got %q", token)
	}
	switch token[0] {
	case '"', '\'':
		if len(token) < 2 || token[len(token)-1] != token[0] {
			p.fail("unterminated string %s", token)
		}
		return &LiteralExpr{Type: String, Value: token[1 : len(token)-1]}
	}
	switch strings.ToLower(token) {
	case "true", "false":
		return &LiteralExpr{Type: Boolean, Value: token}
	case "null":
		return Null
	}
	p.fail("expects a value, got %q", token)
	return nil
}

type lexer struct {
	raw string
	idx int
}

// near returns the word of the input around the lexer position.
func (l *lexer) near() string {
	index := strings.LastIndexFunc(l.raw[:l.idx], unicode.IsSpace)
	if index < 0 {
		index = 0
	} else {
		index += 1
	}
	snippet := l.raw[index:]
	index = strings.IndexFunc(snippet, unicode.IsSpace)
	if index < 0 {
		index = len(snippet)
	}
	return snippet[:index]
}

func (l *lexer) next() (string, bool) {
	line := l.raw

	var (
		singleQuoted bool
		doubleQuoted bool
		backQuoted   bool
		arg          []byte
	)

	for ; l.idx < len(line); l.idx++ {
		switch ch := line[l.idx]; ch {
		case '(', ')', '.', '=', '-', '>', '<', '!', '~', '&', '|':
			if doubleQuoted || singleQuoted || backQuoted {
				arg = append(arg, ch)
			} else {
				if len(arg) > 0 {
					return string(arg), true
				}
				l.idx++
				return string(ch), true
			}
		case ' ', '\t', '\n', '\r':
			if doubleQuoted || singleQuoted || backQuoted {
				arg = append(arg, ch)
			} else if len(arg) > 0 {
				l.idx++
				return string(arg), true
			}
		case '"':
			arg = append(arg, ch)
			if !(escaped(line, l.idx) || singleQuoted || backQuoted) {
				if doubleQuoted = !doubleQuoted; !doubleQuoted {
					l.idx++
					return string(arg), true
				}
			}
		case '\'':
			arg = append(arg, ch)
			if !(escaped(line, l.idx) || doubleQuoted || backQuoted) {
				if singleQuoted = !singleQuoted; !singleQuoted {
					l.idx++
					return string(arg), true
				}
			}
		case '`':
			arg = append(arg, ch)
			if !(escaped(line, l.idx) || singleQuoted || doubleQuoted) {
				if backQuoted = !backQuoted; !backQuoted {
					l.idx++
					return string(arg), true
				}
			}
		default:
			arg = append(arg, ch)
		}
	}

	if len(arg) > 0 {
		return string(arg), true
	}

	return "", false
}

// escaped reports whether the quote at idx follows a backslash.
func escaped(line string, idx int) bool {
	return idx > 0 && line[idx-1] == '\\'
}

func isInt(token string) bool {
	if token == "" {
		return false
	}
	for _, ch := range token {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func isIdent(token string) bool {
	if len(token) == 0 {
		return false
	}
	if strings.HasPrefix(token, "`") && strings.HasSuffix(token, "`") {
		token = token[1 : len(token)-1]
	}
	for i := 0; len(token) > 0; i++ {
		ch, size := utf8.DecodeRuneInString(token)
		if i == 0 {
			if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch == '_')) {
				return false
			}
		} else {
			if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch == '_')) {
				return false
			}
		}
		token = token[size:]
	}
	return true
}
