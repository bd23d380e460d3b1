package expression

import (
	"fmt"
	"strings"

	"github.com/pingcap/errors"
)

// PrintExpTree renders e in SQL like infix form with full parenthesization.
func PrintExpTree(e Expression) string {
	var sb strings.Builder
	writeExp(&sb, e)
	return sb.String()
}

func writeExp(sb *strings.Builder, e Expression) {
	switch n := e.(type) {
	case *Binary:
		sb.WriteString("(")
		writeExp(sb, n.Lhs)
		sb.WriteString(" ")
		sb.WriteString(n.Op.String())
		sb.WriteString(" ")
		writeExp(sb, n.Rhs)
		sb.WriteString(")")
	case *Ident:
		sb.WriteString(n.Name)
	case *IntegerLiteral:
		sb.WriteString(fmt.Sprintf("%d", n.Value))
	case nil:
		sb.WriteString("<nil>")
	default:
		panic("unknown expression type")
	}
}

// Validate checks that e can be evaluated as a predicate: logical nodes take
// boolean operands, comparison nodes take value operands and the root is boolean.
func Validate(e Expression) error {
	if e == nil {
		return errors.New("empty predicate")
	}
	if IsValueExpression(e) {
		return errors.Errorf("predicate must be boolean: %s", PrintExpTree(e))
	}
	return validateBool(e)
}

func validateBool(e Expression) error {
	b, ok := e.(*Binary)
	if !ok {
		return errors.Errorf("expected boolean expression: %s", PrintExpTree(e))
	}
	switch {
	case b.Op.IsLogical():
		if err := validateBool(b.Lhs); err != nil {
			return err
		}
		return validateBool(b.Rhs)
	case b.Op.IsComparison():
		if !IsValueExpression(b.Lhs) || !IsValueExpression(b.Rhs) {
			return errors.Errorf("comparison operands must be columns or literals: %s", PrintExpTree(b))
		}
		return nil
	default:
		return errors.Errorf("unknown operator %s", b.Op)
	}
}
