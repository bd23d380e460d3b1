package executors

import (
	"github.com/apache/arrow/go/v17/arrow"
	pair "github.com/notEpsilon/go-pair"
)

// SelectionVector holds the ascending, duplicate free indices of the rows of
// a batch which passed a predicate.
type SelectionVector []int

// Selection is what Filter hands to Select: the surviving row indices and the batch they index.
type Selection = pair.Pair[SelectionVector, arrow.Record]

func NewSelection(sel SelectionVector, record arrow.Record) Selection {
	return Selection{First: sel, Second: record}
}

func SelectionFromMask(mask []bool) SelectionVector {
	ret := make(SelectionVector, 0, len(mask))
	for i, ok := range mask {
		if ok {
			ret = append(ret, i)
		}
	}
	return ret
}

// IsAll reports whether sel covers all numRows rows.
func (sel SelectionVector) IsAll(numRows int) bool {
	return len(sel) == numRows
}
