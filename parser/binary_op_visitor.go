package parser

import (
	"math"

	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/opcode"
	tidbtypes "github.com/pingcap/tidb/types"
	driver "github.com/pingcap/tidb/types/parser_driver"
	"github.com/ryogrid/SamehadaQE/execution/expression"
)

// BinaryOpVisitor converts a WHERE clause into an expression tree.
type BinaryOpVisitor struct {
	fromTable   *string
	Expression_ expression.Expression
	err         error
}

func NewBinaryOpVisitor(fromTable *string) *BinaryOpVisitor {
	return &BinaryOpVisitor{fromTable: fromTable}
}

func (v *BinaryOpVisitor) child(node ast.Node) (expression.Expression, error) {
	cv := NewBinaryOpVisitor(v.fromTable)
	node.Accept(cv)
	if cv.err == nil && cv.Expression_ == nil {
		return nil, newUnsupported("expression %T", node)
	}
	return cv.Expression_, cv.err
}

func (v *BinaryOpVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.BinaryOperationExpr:
		op, err := GetTypeForBOperationExpr(node.Op)
		if err != nil {
			v.err = err
			return in, true
		}
		lhs, err := v.child(node.L)
		if err != nil {
			v.err = err
			return in, true
		}
		rhs, err := v.child(node.R)
		if err != nil {
			v.err = err
			return in, true
		}
		v.Expression_ = expression.NewBinary(lhs, op, rhs)
	case *ast.ParenthesesExpr:
		v.Expression_, v.err = v.child(node.Expr)
	case *ast.ColumnNameExpr:
		if err := checkQualifier(node.Name, v.fromTable); err != nil {
			v.err = err
			return in, true
		}
		v.Expression_ = expression.NewIdent(node.Name.Name.String())
	case *ast.UnaryOperationExpr:
		if node.Op != opcode.Minus {
			v.err = newUnsupported("unary operator %s", node.Op.String())
			return in, true
		}
		val, ok := node.V.(*driver.ValueExpr)
		if !ok {
			v.err = newUnsupported("negation of %T", node.V)
			return in, true
		}
		// 9223372036854775808 only fits once negated
		if val.Datum.Kind() == tidbtypes.KindUint64 && val.Datum.GetUint64() == 1<<63 {
			v.Expression_ = expression.NewIntegerLiteral(math.MinInt64)
			return in, true
		}
		lit, err := ValueExprToIntegerLiteral(val)
		if err != nil {
			v.err = err
			return in, true
		}
		v.Expression_ = expression.NewIntegerLiteral(-lit.Value)
	case *driver.ValueExpr:
		v.Expression_, v.err = ValueExprToIntegerLiteral(node)
	default:
		v.err = newUnsupported("expression %T", in)
	}
	return in, true
}

func (v *BinaryOpVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func GetTypeForBOperationExpr(opcode_ opcode.Op) (expression.BinaryOp, error) {
	switch opcode_ {
	case opcode.GT:
		return expression.GT, nil
	case opcode.LT:
		return expression.LT, nil
	case opcode.LogicAnd:
		return expression.AND, nil
	case opcode.LogicOr:
		return expression.OR, nil
	default:
		return 0, newUnsupported("operator %s", opcode_.String())
	}
}

// ValueExprToIntegerLiteral accepts signed and unsigned integer constants only.
func ValueExprToIntegerLiteral(expr *driver.ValueExpr) (*expression.IntegerLiteral, error) {
	switch expr.Datum.Kind() {
	case tidbtypes.KindInt64:
		return expression.NewIntegerLiteral(expr.Datum.GetInt64()), nil
	case tidbtypes.KindUint64:
		u := expr.Datum.GetUint64()
		if u > math.MaxInt64 {
			return nil, newUnsupported("integer literal %d out of range", u)
		}
		return expression.NewIntegerLiteral(int64(u)), nil
	default:
		return nil, newUnsupported("literal of kind %d", expr.Datum.Kind())
	}
}
