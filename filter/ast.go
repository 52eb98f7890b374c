package filter

import (
	"strings"
)

type Tree struct {
	Expr Expr
}

func (t *Tree) String() string {
	var predicate strings.Builder
	writeExpr(&predicate, t.Expr)
	return strings.TrimSpace(predicate.String())
}

func writeExpr(predicate *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Ident:
		predicate.WriteString(" ")
		predicate.WriteString(e.Name)
	case *LiteralExpr:
		predicate.WriteString(" ")
		if e.Type == String {
			predicate.WriteString("'")
			predicate.WriteString(strings.ReplaceAll(e.Value, "'", "''"))
			predicate.WriteString("'")
		} else {
			predicate.WriteString(e.Value)
		}
	case *ParenExpr:
		inner := Tree{Expr: e.Expr}
		predicate.WriteString(" (")
		predicate.WriteString(inner.String())
		predicate.WriteString(")")
	case *BinaryExpr:
		lit, isLit := e.Right.(*LiteralExpr)
		writeExpr(predicate, e.Left)
		predicate.WriteString(" ")
		predicate.WriteString(toOperator(e.Op, isLit && lit == Null))
		writeExpr(predicate, e.Right)
	default:
		panic("unreachable")
	}
}

type Expr interface {
	expr()
}

func (*Ident) expr()       {}
func (*LiteralExpr) expr() {}
func (*BinaryExpr) expr()  {}
func (*ParenExpr) expr()   {}

type Ident struct {
	Name string
}

type LiteralType struct {
	Type int
}

type LiteralExpr struct {
	Type  *LiteralType
	Value string
}

const (
	LiteralTypeString = iota
	LiteralTypeBoolean
	LiteralTypeDecimal
	LiteralTypeNull
)

var (
	String  = &LiteralType{Type: LiteralTypeString}
	Boolean = &LiteralType{Type: LiteralTypeBoolean}
	Decimal = &LiteralType{Type: LiteralTypeDecimal}
)

var Null = &LiteralExpr{
	Type:  &LiteralType{Type: LiteralTypeNull},
	Value: "null",
}

const (
	GREATER = iota + 1
	LESS
	EQUAL
	NOT
	LIKE
	AND
	OR
)

type OperatorType struct {
	Type int
}

var (
	Greater = &OperatorType{Type: GREATER}
	Less    = &OperatorType{Type: LESS}
	Equal   = &OperatorType{Type: EQUAL}
	Not     = &OperatorType{Type: NOT}
	Like    = &OperatorType{Type: LIKE}
	And     = &OperatorType{Type: AND}
	Or      = &OperatorType{Type: OR}
)

type BinaryExpr struct {
	Op    []*OperatorType
	Left  Expr
	Right Expr
}

type ParenExpr struct {
	Expr Expr
}

// likeHack turns the right side of ~ into a like pattern: a bare value
// matches anywhere, a leading or trailing * anchors the other end.
func likeHack(expr *BinaryExpr) {
	var isLike bool
	for _, op := range expr.Op {
		if op.Type == LIKE {
			isLike = true
			break
		}
	}
	if isLike {
		if lit, ok := expr.Right.(*LiteralExpr); ok && lit.Type == String {
			clean := strings.Trim(lit.Value, "*")
			if len(clean) == len(lit.Value) {
				lit.Value = "%" + lit.Value + "%"
			} else {
				if strings.HasPrefix(lit.Value, "*") {
					lit.Value = "%" + lit.Value[1:]
				}
				if strings.HasSuffix(lit.Value, "*") {
					lit.Value = lit.Value[:len(lit.Value)-1] + "%"
				}
			}
		}
	}
}

func toOperator(operators []*OperatorType, isNull bool) string {
	switch len(operators) {
	case 1:
		switch operators[0] {
		case Greater:
			return ">"
		case Less:
			return "<"
		case Like:
			return "like"
		}
	case 2:
		op1, op2 := operators[0], operators[1]
		switch op1 {
		case Greater:
			if op2 == Equal {
				return ">="
			}
		case Less:
			if op2 == Equal {
				return "<="
			}
		case Equal:
			if op2 == Equal {
				if isNull {
					return "is"
				}
				return "="
			}
		case Not:
			switch op2 {
			case Equal:
				if isNull {
					return "is not"
				}
				return "!="
			case Like:
				return "not like"
			}
		case And:
			if op2 == And {
				return "and"
			}
		case Or:
			if op2 == Or {
				return "or"
			}
		}
	}
	panic("unreachable")
}
