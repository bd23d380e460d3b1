package parser

import (
	"github.com/pingcap/parser/ast"
)

type SelectFieldsVisitor struct {
	QueryInfo_ *QueryInfo
	err        error
}

func (v *SelectFieldsVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if v.err != nil {
		return in, true
	}
	switch node := in.(type) {
	case *ast.SelectField:
		// when specifed wildcard
		if node.WildCard != nil {
			if node.WildCard.Table.L != "" {
				v.err = newUnsupported("qualified wildcard")
				return in, true
			}
			colname := "*"
			v.QueryInfo_.SelectFields_ = append(v.QueryInfo_.SelectFields_, &SelectFieldExpression{&colname})
			return in, true
		}
		if node.AsName.L != "" {
			v.err = newUnsupported("column alias %s", node.AsName.O)
			return in, true
		}
	case *ast.ColumnNameExpr:
		if err := checkQualifier(node.Name, v.QueryInfo_.FromTable_); err != nil {
			v.err = err
			return in, true
		}
		colname := node.Name.Name.String()
		v.QueryInfo_.SelectFields_ = append(v.QueryInfo_.SelectFields_, &SelectFieldExpression{&colname})
		return in, true
	default:
		v.err = newUnsupported("projection of %T", in)
		return in, true
	}
	return in, false
}

func (v *SelectFieldsVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

// checkQualifier accepts bare column names and names qualified with the FROM table.
func checkQualifier(name *ast.ColumnName, fromTable *string) error {
	if name.Schema.L != "" {
		return newUnsupported("schema qualified column %s", name.String())
	}
	if name.Table.L == "" {
		return nil
	}
	if fromTable == nil || name.Table.O != *fromTable {
		return newUnsupported("column %s of another table", name.String())
	}
	return nil
}
