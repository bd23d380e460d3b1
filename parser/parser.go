package parser

import (
	"fmt"

	"github.com/pingcap/errors"
	"github.com/pingcap/parser"
	"github.com/pingcap/parser/ast"
	_ "github.com/pingcap/tidb/types/parser_driver"
	"github.com/ryogrid/SamehadaQE/execution/expression"
)

type QueryType int32

const (
	SELECT QueryType = iota
)

type SelectFieldExpression struct {
	// "*" when a wildcard was specified
	ColName_ *string
}

func (s *SelectFieldExpression) IsWildCard() bool {
	return *s.ColName_ == "*"
}

type QueryInfo struct {
	QueryType_       QueryType
	SelectFields_    []*SelectFieldExpression
	FromTable_       *string
	WhereExpression_ expression.Expression // nil when no WHERE clause
}

// UnsupportedError is returned for SQL which parses fine but uses a
// construct this engine does not handle.
type UnsupportedError struct {
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("Not implemented Error: %s is not supported", e.Feature)
}

func IsUnsupported(err error) bool {
	_, ok := errors.Cause(err).(*UnsupportedError)
	return ok
}

func newUnsupported(format string, args ...interface{}) error {
	return errors.Trace(&UnsupportedError{fmt.Sprintf(format, args...)})
}

func parse(sql string) (ast.StmtNode, error) {
	p := parser.New()

	stmtNodes, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, errors.Annotate(err, "Parser Error")
	}
	if len(stmtNodes) != 1 {
		return nil, newUnsupported("%d statements in one query", len(stmtNodes))
	}
	return stmtNodes[0], nil
}

// checkSelectClauses rejects clauses the plan builder cannot express.
func checkSelectClauses(sel *ast.SelectStmt) error {
	switch {
	case sel.From == nil:
		return newUnsupported("SELECT without FROM")
	case sel.Distinct:
		return newUnsupported("DISTINCT")
	case sel.GroupBy != nil:
		return newUnsupported("GROUP BY")
	case sel.Having != nil:
		return newUnsupported("HAVING")
	case sel.OrderBy != nil:
		return newUnsupported("ORDER BY")
	case sel.Limit != nil:
		return newUnsupported("LIMIT")
	case len(sel.WindowSpecs) > 0:
		return newUnsupported("WINDOW")
	case sel.LockTp != ast.SelectLockNone:
		return newUnsupported("SELECT %s", sel.LockTp.String())
	}
	return nil
}

func extractInfoFromAST(rootNode ast.StmtNode) (*QueryInfo, error) {
	sel, ok := rootNode.(*ast.SelectStmt)
	if !ok {
		return nil, newUnsupported("statement %T", rootNode)
	}
	if err := checkSelectClauses(sel); err != nil {
		return nil, err
	}

	v := NewRootSQLVisitor()
	sel.Accept(v)
	if v.err != nil {
		return nil, v.err
	}
	qi := v.QueryInfo_

	if qi.FromTable_ == nil {
		return nil, newUnsupported("query without table")
	}
	if len(qi.SelectFields_) == 0 {
		return nil, newUnsupported("empty projection")
	}
	for _, f := range qi.SelectFields_ {
		if f.IsWildCard() && len(qi.SelectFields_) > 1 {
			return nil, newUnsupported("wildcard mixed with columns")
		}
	}
	if qi.WhereExpression_ != nil {
		if err := expression.Validate(qi.WhereExpression_); err != nil {
			return nil, errors.Trace(&UnsupportedError{fmt.Sprintf("WHERE clause %s", err.Error())})
		}
	}
	return qi, nil
}

// ProcessSQLStr parses one SELECT statement and extracts what the planner needs.
func ProcessSQLStr(sqlStr *string) (*QueryInfo, error) {
	astNode, err := parse(*sqlStr)
	if err != nil {
		return nil, err
	}
	return extractInfoFromAST(astNode)
}
