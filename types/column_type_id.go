package types

import (
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/pingcap/errors"
)

type TypeID int

const (
	Invalid TypeID = iota
	Boolean
	Integer
	BigInt
	Float
	Varchar
)

// Size is the fixed width of a value in bytes. 0 for variable length types.
func (t TypeID) Size() uint32 {
	switch t {
	case Boolean:
		return 1
	case Integer:
		return 4
	case BigInt, Float:
		return 8
	}
	return 0
}

func (t TypeID) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Integer:
		return "INTEGER"
	case BigInt:
		return "BIGINT"
	case Float:
		return "FLOAT"
	case Varchar:
		return "VARCHAR"
	}
	return "INVALID"
}

// IsInteger reports whether values of t can take part in integer comparisons.
func (t TypeID) IsInteger() bool {
	return t == Integer || t == BigInt
}

func (t TypeID) ArrowType() arrow.DataType {
	switch t {
	case Boolean:
		return arrow.FixedWidthTypes.Boolean
	case Integer:
		return arrow.PrimitiveTypes.Int32
	case BigInt:
		return arrow.PrimitiveTypes.Int64
	case Float:
		return arrow.PrimitiveTypes.Float64
	case Varchar:
		return arrow.BinaryTypes.String
	default:
		panic("unknown type id")
	}
}

func FromArrow(dt arrow.DataType) (TypeID, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return Boolean, nil
	case arrow.INT32:
		return Integer, nil
	case arrow.INT64:
		return BigInt, nil
	case arrow.FLOAT64:
		return Float, nil
	case arrow.STRING:
		return Varchar, nil
	}
	return Invalid, errors.Errorf("unsupported column type: %s", dt)
}

// ParseTypeName accepts SQL style names such as INT, BIGINT or VARCHAR(256).
func ParseTypeName(name string) (TypeID, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if idx := strings.IndexByte(n, '('); idx >= 0 {
		n = n[:idx]
	}
	switch n {
	case "BOOL", "BOOLEAN":
		return Boolean, nil
	case "INT", "INTEGER", "INT32":
		return Integer, nil
	case "BIGINT", "INT64":
		return BigInt, nil
	case "FLOAT", "DOUBLE", "FLOAT64":
		return Float, nil
	case "VARCHAR", "TEXT", "STRING":
		return Varchar, nil
	}
	return Invalid, errors.Errorf("unknown type name: %s", name)
}
