package parser

import (
	"reflect"
	"strings"

	"github.com/pingcap/errors"
	"github.com/pingcap/parser"
	"github.com/pingcap/parser/ast"
)

// PrintNodesVisitor records the Go type of every AST node it enters, indented by depth.
type PrintNodesVisitor struct {
	sb    strings.Builder
	depth int
}

func NewPrintNodesVisitor() *PrintNodesVisitor {
	return new(PrintNodesVisitor)
}

func (v *PrintNodesVisitor) Enter(in ast.Node) (ast.Node, bool) {
	refVal := reflect.ValueOf(in)
	v.sb.WriteString(strings.Repeat("  ", v.depth))
	v.sb.WriteString(refVal.Type().String())
	v.sb.WriteString("\n")
	v.depth++
	return in, false
}

func (v *PrintNodesVisitor) Leave(in ast.Node) (ast.Node, bool) {
	v.depth--
	return in, true
}

func (v *PrintNodesVisitor) String() string {
	return v.sb.String()
}

// PrintParsedNodes dumps the AST of every statement in sqlStr.
func PrintParsedNodes(sqlStr *string) (string, error) {
	p := parser.New()
	stmtNodes, _, err := p.Parse(*sqlStr, "", "")
	if err != nil {
		return "", errors.Annotate(err, "Parser Error")
	}
	v := NewPrintNodesVisitor()
	for _, stmt := range stmtNodes {
		stmt.Accept(v)
	}
	return v.String(), nil
}
