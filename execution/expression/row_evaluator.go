package expression

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQE/types"
)

// RowEvaluator evaluates an expression against one row of a batch at a time.
// It is slow and used to cross check FilterExec.
type RowEvaluator struct {
	record arrow.Record
}

func NewRowEvaluator(record arrow.Record) *RowEvaluator {
	return &RowEvaluator{record}
}

func (r *RowEvaluator) Evaluate(e Expression, row int) (types.Value, error) {
	switch n := e.(type) {
	case *Binary:
		lhs, err := r.Evaluate(n.Lhs, row)
		if err != nil {
			return types.Value{}, err
		}
		rhs, err := r.Evaluate(n.Rhs, row)
		if err != nil {
			return types.Value{}, err
		}
		switch n.Op {
		case AND:
			return types.NewBoolean(lhs.ToBoolean() && rhs.ToBoolean()), nil
		case OR:
			return types.NewBoolean(lhs.ToBoolean() || rhs.ToBoolean()), nil
		case LT:
			return types.NewBoolean(lhs.CompareLessThan(rhs)), nil
		case GT:
			return types.NewBoolean(lhs.CompareGreaterThan(rhs)), nil
		default:
			panic("unknown operator")
		}
	case *Ident:
		return r.columnValue(n.Name, row)
	case *IntegerLiteral:
		return types.NewBigInt(n.Value), nil
	default:
		panic("unknown expression type")
	}
}

// EvaluateAll runs Evaluate for every row and collects the boolean results.
func (r *RowEvaluator) EvaluateAll(e Expression) ([]bool, error) {
	ret := make([]bool, r.record.NumRows())
	for i := range ret {
		v, err := r.Evaluate(e, i)
		if err != nil {
			return nil, err
		}
		ret[i] = v.ToBoolean()
	}
	return ret, nil
}

func (r *RowEvaluator) columnValue(name string, row int) (types.Value, error) {
	indices := r.record.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return types.Value{}, errors.Trace(&ColumnNotFoundError{Name: name})
	}
	col := r.record.Column(indices[0])
	if col.IsNull(row) {
		return types.Value{}, errors.Trace(&ColumnNotFoundError{Name: name, Reason: "contains null values"})
	}
	switch arr := col.(type) {
	case *array.Int32:
		return types.NewInteger(arr.Value(row)), nil
	case *array.Int64:
		return types.NewBigInt(arr.Value(row)), nil
	default:
		return types.Value{}, errors.Trace(&ColumnNotFoundError{
			Name:   name,
			Reason: fmt.Sprintf("has non integer type %s", col.DataType()),
		})
	}
}
