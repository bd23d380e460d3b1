package samehada

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/fatih/color"
	"github.com/ryogrid/SamehadaQE/catalog"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/execution/executors"
	"github.com/ryogrid/SamehadaQE/execution/plans"
	"github.com/ryogrid/SamehadaQE/parser"
	"github.com/ryogrid/SamehadaQE/planner"
	"github.com/ryogrid/SamehadaQE/planner/optimizer"
	"github.com/ryogrid/SamehadaQE/storage/columnar"
)

type SamehadaQE struct {
	config_      *common.EngineConfig
	catalog_     *catalog.TableCatalog
	planner_     planner.Planner
	optimizer_   optimizer.Optimizer
	exec_engine_ *executors.ExecutionEngine
	mem          memory.Allocator
}

// NewSamehadaQE applies cfg process wide and registers its tables.
func NewSamehadaQE(cfg *common.EngineConfig) (*SamehadaQE, error) {
	if cfg == nil {
		cfg = common.NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Apply(); err != nil {
		return nil, err
	}
	c, err := catalog.BootstrapCatalogFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewSamehadaQEWithCatalog(cfg, c), nil
}

func NewSamehadaQEWithCatalog(cfg *common.EngineConfig, c *catalog.TableCatalog) *SamehadaQE {
	if cfg == nil {
		cfg = common.NewDefaultConfig()
	}
	mem := memory.NewGoAllocator()
	execCtx := executors.NewExecutorContextFromCatalog(c, mem, cfg.BatchSize)
	return &SamehadaQE{
		config_:      cfg,
		catalog_:     c,
		planner_:     planner.NewSimplePlanner(c),
		optimizer_:   optimizer.NewRuleBasedOptimizer(c, &optimizer.MergeFiltersRule{}),
		exec_engine_: executors.NewExecutionEngine(execCtx),
		mem:          mem,
	}
}

func (sq *SamehadaQE) GetCatalog() *catalog.TableCatalog {
	return sq.catalog_
}

// RegisterTable adds a table backed by the columnar file at path.
func (sq *SamehadaQE) RegisterTable(name string, path string) error {
	_, err := sq.catalog_.RegisterFile(name, path)
	return err
}

// RegisterRecords adds an in memory table holding records.
func (sq *SamehadaQE) RegisterRecords(name string, schema *arrow.Schema, records ...arrow.Record) error {
	mf, err := columnar.WriteMemFile(schema, common.DefaultRowGroupLength, records...)
	if err != nil {
		return err
	}
	_, err = sq.catalog_.AddTableWithSource(name, schema, mf)
	return err
}

func (sq *SamehadaQE) makePlan(sqlStr string) (*plans.LogicalPlanDag, error) {
	qi, err := parser.ProcessSQLStr(&sqlStr)
	if err != nil {
		return nil, err
	}
	plan, err := sq.planner_.MakePlan(qi)
	if err != nil {
		return nil, err
	}
	return sq.optimizer_.Optimize(plan)
}

// ExecuteSQL runs one SELECT statement. The returned records belong to the
// caller, who releases them.
func (sq *SamehadaQE) ExecuteSQL(ctx context.Context, sqlStr string) ([]arrow.Record, error) {
	plan, err := sq.makePlan(sqlStr)
	if err != nil {
		common.ShPrintf(common.WARN, "query failed: %v\n", err)
		return nil, err
	}
	result, err := sq.exec_engine_.Execute(ctx, plan)
	if err != nil {
		common.ShPrintf(common.WARN, "query failed: %v\n", err)
		return nil, err
	}
	common.ShPrintf(common.INFO, "query returned %d rows in %d batches\n", executors.NumRows(result), len(result))
	return result, nil
}

// ExplainSQL renders the optimized logical plan and the operator chain it runs as.
func (sq *SamehadaQE) ExplainSQL(sqlStr string) (string, error) {
	plan, err := sq.makePlan(sqlStr)
	if err != nil {
		return "", err
	}
	out := make([]arrow.Record, 0)
	p, err := sq.exec_engine_.BuildPipeline(context.Background(), plan, &out)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(plans.PrintPlanTree(plan, plan.Sinks()[0]))
	sb.WriteString("pipeline: ")
	sb.WriteString(p.String())
	sb.WriteString("\n")
	return sb.String(), nil
}

// ConvRecordsToStrings flattens records into rows of printable values.
func ConvRecordsToStrings(records []arrow.Record) [][]string {
	retVals := make([][]string, 0)
	for _, rec := range records {
		cols := rec.Columns()
		for row := 0; row < int(rec.NumRows()); row++ {
			rowVals := make([]string, 0, len(cols))
			for _, col := range cols {
				rowVals = append(rowVals, col.ValueStr(row))
			}
			retVals = append(retVals, rowVals)
		}
	}
	return retVals
}

// PrintExecuteResults writes a header line of column names and one line per row.
func PrintExecuteResults(w io.Writer, schema *arrow.Schema, records []arrow.Record) {
	header := color.New(color.FgCyan, color.Bold)
	names := make([]string, 0, schema.NumFields())
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	header.Fprintln(w, strings.Join(names, "\t"))
	fmt.Fprintln(w, "----")
	for _, row := range ConvRecordsToStrings(records) {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	color.New(color.Faint).Fprintf(w, "(%d rows)\n", executors.NumRows(records))
}

// ResultSchema is the output schema of the plan sqlStr compiles to.
func (sq *SamehadaQE) ResultSchema(sqlStr string) (*arrow.Schema, error) {
	plan, err := sq.makePlan(sqlStr)
	if err != nil {
		return nil, err
	}
	return plan.GetNode(plan.Sinks()[0]).GetSchema(), nil
}
