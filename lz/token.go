package lz

import (
	"strconv"
)

type Kind uint8

const (
	KindLiteral Kind = iota
	KindCopy
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindCopy:
		return "copy"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is one unit of factorized output: a literal symbol, or a copy of
// Length symbols starting at the absolute text offset Position. A copy may
// overlap the output it produces.
type Token struct {
	Kind     Kind
	Symbol   byte
	Position int
	Length   int
}

func Literal(b byte) Token {
	return Token{Kind: KindLiteral, Symbol: b}
}

func Copy(position, length int) Token {
	return Token{Kind: KindCopy, Position: position, Length: length}
}

func (t Token) IsCopy() bool { return t.Kind == KindCopy }

// Size is the number of symbols the token expands to.
func (t Token) Size() int {
	if t.Kind == KindCopy {
		return t.Length
	}
	return 1
}

func (t Token) String() string {
	switch t.Kind {
	case KindLiteral:
		return "Literal(" + strconv.QuoteRune(rune(t.Symbol)) + ")"
	case KindCopy:
		return "Copy(" + strconv.Itoa(t.Position) + ", " + strconv.Itoa(t.Length) + ")"
	}
	return t.Kind.String()
}
