package expression

import "fmt"

type BinaryOp int

const (
	AND BinaryOp = iota
	OR
	LT
	GT
)

func (op BinaryOp) String() string {
	switch op {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case LT:
		return "<"
	case GT:
		return ">"
	default:
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
}

// IsLogical reports whether op combines boolean operands.
func (op BinaryOp) IsLogical() bool {
	return op == AND || op == OR
}

// IsComparison reports whether op compares two values.
func (op BinaryOp) IsComparison() bool {
	return op == LT || op == GT
}

type ExpressionType int

const (
	EXPRESSION_TYPE_BINARY ExpressionType = iota
	EXPRESSION_TYPE_IDENT
	EXPRESSION_TYPE_INTEGER_LITERAL
)

/**
 * Expression is an immutable tree. Parents own their children.
 * Binary nodes yield booleans, Ident and IntegerLiteral yield values.
 */
type Expression interface {
	GetType() ExpressionType
}

type Binary struct {
	Lhs Expression
	Op  BinaryOp
	Rhs Expression
}

func NewBinary(lhs Expression, op BinaryOp, rhs Expression) *Binary {
	return &Binary{lhs, op, rhs}
}

func (b *Binary) GetType() ExpressionType {
	return EXPRESSION_TYPE_BINARY
}

// Ident refers to a column of the evaluated batch by name.
type Ident struct {
	Name string
}

func NewIdent(name string) *Ident {
	return &Ident{name}
}

func (i *Ident) GetType() ExpressionType {
	return EXPRESSION_TYPE_IDENT
}

type IntegerLiteral struct {
	Value int64
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{value}
}

func (l *IntegerLiteral) GetType() ExpressionType {
	return EXPRESSION_TYPE_INTEGER_LITERAL
}

// IsValueExpression reports whether e produces a value rather than a boolean.
func IsValueExpression(e Expression) bool {
	switch e.(type) {
	case *Ident, *IntegerLiteral:
		return true
	}
	return false
}

// ReferencedColumns lists the column names used in e, first use order, no duplicates.
func ReferencedColumns(e Expression) []string {
	ret := make([]string, 0)
	seen := make(map[string]struct{})
	var walk func(Expression)
	walk = func(cur Expression) {
		switch n := cur.(type) {
		case *Binary:
			walk(n.Lhs)
			walk(n.Rhs)
		case *Ident:
			if _, ok := seen[n.Name]; !ok {
				seen[n.Name] = struct{}{}
				ret = append(ret, n.Name)
			}
		}
	}
	if e != nil {
		walk(e)
	}
	return ret
}
