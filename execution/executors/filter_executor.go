package executors

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/ryogrid/SamehadaQE/execution/expression"
)

// FilterExecutor evaluates its predicate over each batch and hands the
// batch on together with the indices of the surviving rows.
type FilterExecutor struct {
	predicate expression.Expression
	next      Operator[Selection]
}

func NewFilterExecutor(predicate expression.Expression, next Operator[Selection]) *FilterExecutor {
	return &FilterExecutor{predicate, next}
}

func (e *FilterExecutor) Transform(record arrow.Record) (Selection, error) {
	mask, err := expression.EvaluatePredicate(e.predicate, record)
	if err != nil {
		return Selection{}, err
	}
	return NewSelection(SelectionFromMask(mask), record), nil
}

func (e *FilterExecutor) Execute(record arrow.Record) error {
	sel, err := e.Transform(record)
	if err != nil {
		return err
	}
	return e.next.Execute(sel)
}

func (e *FilterExecutor) AllInputsReceived() error {
	return e.next.AllInputsReceived()
}
