package executors

import "github.com/apache/arrow/go/v17/arrow"

// CollectExecutor is the sink: it keeps every record it gets, in arrival
// order, in a caller owned slice. The caller releases them.
type CollectExecutor struct {
	out  *[]arrow.Record
	done bool
}

func NewCollectExecutor(out *[]arrow.Record) *CollectExecutor {
	return &CollectExecutor{out, false}
}

func (e *CollectExecutor) Execute(record arrow.Record) error {
	record.Retain()
	*e.out = append(*e.out, record)
	return nil
}

func (e *CollectExecutor) AllInputsReceived() error {
	e.done = true
	return nil
}

func (e *CollectExecutor) IsDone() bool {
	return e.done
}
