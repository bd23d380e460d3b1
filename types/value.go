package types

import "fmt"

// Value is a single scalar produced by row at a time evaluation.
type Value struct {
	integer   int64
	boolean   bool
	valueType TypeID
}

func NewInteger(value int32) Value {
	return Value{integer: int64(value), valueType: Integer}
}

func NewBigInt(value int64) Value {
	return Value{integer: value, valueType: BigInt}
}

func NewBoolean(value bool) Value {
	return Value{boolean: value, valueType: Boolean}
}

func (v Value) ValueType() TypeID {
	return v.valueType
}

func (v Value) ToBigInt() int64 {
	if !v.valueType.IsInteger() {
		panic("value is not an integer")
	}
	return v.integer
}

func (v Value) ToBoolean() bool {
	if v.valueType != Boolean {
		panic("value is not a boolean")
	}
	return v.boolean
}

func (v Value) CompareLessThan(right Value) bool {
	return v.ToBigInt() < right.ToBigInt()
}

func (v Value) CompareGreaterThan(right Value) bool {
	return v.ToBigInt() > right.ToBigInt()
}

func (v Value) CompareEquals(right Value) bool {
	switch v.valueType {
	case Integer, BigInt:
		return right.valueType.IsInteger() && v.integer == right.integer
	case Boolean:
		return right.valueType == Boolean && v.boolean == right.boolean
	}
	return false
}

func (v Value) String() string {
	switch v.valueType {
	case Integer, BigInt:
		return fmt.Sprintf("%d", v.integer)
	case Boolean:
		return fmt.Sprintf("%t", v.boolean)
	}
	return "<invalid>"
}
