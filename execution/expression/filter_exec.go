package expression

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/pingcap/errors"
)

// ColumnNotFoundError is returned when an Ident names a column the batch
// does not have, or a column which is not of an integer type.
type ColumnNotFoundError struct {
	Name   string
	Reason string
}

func (e *ColumnNotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("Binder Error: column %s not found", e.Name)
	}
	return fmt.Sprintf("Binder Error: column %s %s", e.Name, e.Reason)
}

func IsColumnNotFound(err error) bool {
	_, ok := errors.Cause(err).(*ColumnNotFoundError)
	return ok
}

/**
 * FilterExec evaluates a predicate over a whole record batch at once.
 * Each node of the tree yields a vector with one slot per row.
 * Only the record reference is held, so one FilterExec may be reused.
 */
type FilterExec struct {
	record arrow.Record
}

func NewFilterExec(record arrow.Record) *FilterExec {
	return &FilterExec{record}
}

// EvaluatePredicate returns one boolean per row of record.
func EvaluatePredicate(e Expression, record arrow.Record) ([]bool, error) {
	return NewFilterExec(record).Evaluate(e)
}

func (f *FilterExec) Evaluate(e Expression) ([]bool, error) {
	return f.visitExpression(e)
}

func (f *FilterExec) numRows() int {
	return int(f.record.NumRows())
}

// boolean context
func (f *FilterExec) visitExpression(e Expression) ([]bool, error) {
	switch n := e.(type) {
	case *Binary:
		if n.Op.IsLogical() {
			return f.visitLogicalBinary(n)
		}
		return f.visitCompareBinary(n)
	case *Ident, *IntegerLiteral:
		panic(fmt.Sprintf("value expression %s used as a predicate", PrintExpTree(e)))
	default:
		panic("unknown expression type")
	}
}

func (f *FilterExec) visitLogicalBinary(b *Binary) ([]bool, error) {
	lhs, err := f.visitExpression(b.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := f.visitExpression(b.Rhs)
	if err != nil {
		return nil, err
	}

	ret := make([]bool, len(lhs))
	switch b.Op {
	case AND:
		for i := range lhs {
			ret[i] = lhs[i] && rhs[i]
		}
	case OR:
		for i := range lhs {
			ret[i] = lhs[i] || rhs[i]
		}
	default:
		panic("unknown logical operator")
	}
	return ret, nil
}

func (f *FilterExec) visitCompareBinary(b *Binary) ([]bool, error) {
	lhs, err := f.visitBinaryValue(b.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := f.visitBinaryValue(b.Rhs)
	if err != nil {
		return nil, err
	}

	ret := make([]bool, len(lhs))
	switch b.Op {
	case LT:
		for i := range lhs {
			ret[i] = lhs[i] < rhs[i]
		}
	case GT:
		for i := range lhs {
			ret[i] = lhs[i] > rhs[i]
		}
	default:
		panic("unknown comparison operator")
	}
	return ret, nil
}

// value context
func (f *FilterExec) visitBinaryValue(e Expression) ([]int64, error) {
	switch n := e.(type) {
	case *Ident:
		return f.visitIdent(n)
	case *IntegerLiteral:
		return f.visitIntegerLiteral(n), nil
	case *Binary:
		panic(fmt.Sprintf("boolean expression %s used as a value", PrintExpTree(e)))
	default:
		panic("unknown expression type")
	}
}

func (f *FilterExec) visitIdent(ident *Ident) ([]int64, error) {
	indices := f.record.Schema().FieldIndices(ident.Name)
	if len(indices) == 0 {
		return nil, errors.Trace(&ColumnNotFoundError{Name: ident.Name})
	}
	col := f.record.Column(indices[0])
	if col.NullN() > 0 {
		return nil, errors.Trace(&ColumnNotFoundError{Name: ident.Name, Reason: "contains null values"})
	}

	ret := make([]int64, col.Len())
	switch arr := col.(type) {
	case *array.Int32:
		for i, v := range arr.Int32Values() {
			ret[i] = int64(v)
		}
	case *array.Int64:
		copy(ret, arr.Int64Values())
	default:
		return nil, errors.Trace(&ColumnNotFoundError{
			Name:   ident.Name,
			Reason: fmt.Sprintf("has non integer type %s", col.DataType()),
		})
	}
	return ret, nil
}

func (f *FilterExec) visitIntegerLiteral(lit *IntegerLiteral) []int64 {
	ret := make([]int64, f.numRows())
	for i := range ret {
		ret[i] = lit.Value
	}
	return ret
}
