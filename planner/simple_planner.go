package planner

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQE/catalog"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/execution/expression"
	"github.com/ryogrid/SamehadaQE/execution/plans"
	"github.com/ryogrid/SamehadaQE/parser"
)

// SimplePlanner turns a single table SELECT into
// TableScan -> [Filter] -> Projection.
type SimplePlanner struct {
	catalog_ catalog.Catalog
}

func NewSimplePlanner(c catalog.Catalog) *SimplePlanner {
	return &SimplePlanner{c}
}

func (pner *SimplePlanner) MakePlan(qi *parser.QueryInfo) (*plans.LogicalPlanDag, error) {
	switch qi.QueryType_ {
	case parser.SELECT:
		return pner.MakeSelectPlan(qi)
	default:
		panic("unknown query type")
	}
}

func (pner *SimplePlanner) MakeSelectPlan(qi *parser.QueryInfo) (*plans.LogicalPlanDag, error) {
	tblName := *qi.FromTable_
	schema, err := pner.catalog_.GetSchema(tblName)
	if err != nil {
		return nil, err
	}

	projections, err := makeProjections(qi, schema)
	if err != nil {
		return nil, err
	}

	builder := plans.NewDagBuilder(nil)
	node := builder.CreateScan(tblName, schema)
	if qi.WhereExpression_ != nil {
		// column existance check
		for _, col := range expression.ReferencedColumns(qi.WhereExpression_) {
			if len(schema.FieldIndices(col)) == 0 {
				return nil, errors.Trace(&expression.ColumnNotFoundError{Name: col})
			}
		}
		node = builder.CreateFilter(qi.WhereExpression_, node)
	}
	builder.CreateProject(projections, node)

	common.ShPrintf(common.DEBUG_INFO, "planner: %s\n", plans.PrintPlanTree(builder.GetDag(), builder.GetDag().Sinks()[0]))
	return builder.GetDag(), nil
}

func makeProjections(qi *parser.QueryInfo, schema *arrow.Schema) ([]expression.Expression, error) {
	ret := make([]expression.Expression, 0, len(qi.SelectFields_))
	if len(qi.SelectFields_) == 1 && qi.SelectFields_[0].IsWildCard() {
		for _, f := range schema.Fields() {
			ret = append(ret, expression.NewIdent(f.Name))
		}
		return ret, nil
	}

	// column existance check
	for _, sfield := range qi.SelectFields_ {
		colName := *sfield.ColName_
		if len(schema.FieldIndices(colName)) == 0 {
			return nil, errors.Trace(&expression.ColumnNotFoundError{Name: colName})
		}
		ret = append(ret, expression.NewIdent(colName))
	}
	return ret, nil
}

// PlanSQL parses sqlStr and builds its logical plan against c.
func PlanSQL(sqlStr string, c catalog.Catalog) (*plans.LogicalPlanDag, error) {
	qi, err := parser.ProcessSQLStr(&sqlStr)
	if err != nil {
		return nil, err
	}
	return NewSimplePlanner(c).MakePlan(qi)
}
