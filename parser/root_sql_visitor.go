package parser

import (
	"github.com/pingcap/parser/ast"
)

type RootSQLVisitor struct {
	QueryInfo_ *QueryInfo
	err        error
}

func NewRootSQLVisitor() *RootSQLVisitor {
	ret := new(RootSQLVisitor)
	qinfo := new(QueryInfo)
	qinfo.QueryType_ = SELECT
	qinfo.SelectFields_ = make([]*SelectFieldExpression, 0)
	ret.QueryInfo_ = qinfo

	return ret
}

func (v *RootSQLVisitor) setErr(err error) {
	if v.err == nil {
		v.err = err
	}
}

func (v *RootSQLVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if v.err != nil {
		return in, true
	}

	switch node := in.(type) {
	case *ast.SelectStmt:
		v.QueryInfo_.QueryType_ = SELECT
		// fields are walked before FROM, but qualified names need the table
		if node.From != nil {
			node.From.Accept(v)
		}
	case *ast.TableRefsClause:
	case *ast.Join:
		if node.Right != nil {
			v.setErr(newUnsupported("JOIN"))
			return in, true
		}
	case *ast.TableSource:
		if node.AsName.L != "" {
			v.setErr(newUnsupported("table alias %s", node.AsName.O))
			return in, true
		}
		if _, ok := node.Source.(*ast.TableName); !ok {
			v.setErr(newUnsupported("subquery in FROM"))
			return in, true
		}
	case *ast.TableName:
		if node.Schema.L != "" {
			v.setErr(newUnsupported("schema qualified table %s.%s", node.Schema.O, node.Name.O))
			return in, true
		}
		tblname := node.Name.String()
		v.QueryInfo_.FromTable_ = &tblname
		return in, true
	case *ast.FieldList:
	case *ast.SelectField:
		sv := &SelectFieldsVisitor{v.QueryInfo_, nil}
		node.Accept(sv)
		v.setErr(sv.err)
		return in, true
	case ast.ExprNode:
		// WHERE clause. expressions of other clauses are handled by their own visitors
		bv := NewBinaryOpVisitor(v.QueryInfo_.FromTable_)
		node.Accept(bv)
		if bv.err != nil {
			v.setErr(bv.err)
			return in, true
		}
		v.QueryInfo_.WhereExpression_ = bv.Expression_
		return in, true
	default:
		v.setErr(newUnsupported("%T", in))
		return in, true
	}
	return in, false
}

func (v *RootSQLVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
