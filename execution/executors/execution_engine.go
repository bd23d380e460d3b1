package executors

import (
	"context"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/container/dag"
	"github.com/ryogrid/SamehadaQE/execution/plans"
)

// Pipeline is a wired operator chain from a scan to a collect sink.
type Pipeline struct {
	scan   *ScanExecutor
	input  ScanInput
	sink   *CollectExecutor
	stages []string
}

func (p *Pipeline) Run() error {
	if err := p.scan.Execute(p.input); err != nil {
		return err
	}
	return p.scan.AllInputsReceived()
}

func (p *Pipeline) String() string {
	return strings.Join(p.stages, " -> ")
}

type ExecutionEngine struct {
	context *ExecutorContext
}

func NewExecutionEngine(context *ExecutorContext) *ExecutionEngine {
	return &ExecutionEngine{context}
}

// linearSpine returns the nodes from the single sink down to the scan.
func linearSpine(d *plans.LogicalPlanDag) ([]dag.NodeID, error) {
	if d.Len() == 0 {
		return nil, errors.New("empty plan")
	}
	sinks := d.Sinks()
	if len(sinks) != 1 {
		return nil, errors.Errorf("plan must have exactly one sink, got %d", len(sinks))
	}

	spine := make([]dag.NodeID, 0, d.Len())
	cur := sinks[0]
	for {
		spine = append(spine, cur)
		inputs := d.GetInputs(cur)
		if d.GetNode(cur).GetType() == plans.TableScan {
			if len(inputs) != 0 {
				return nil, errors.Errorf("table scan #%d must not have inputs", cur)
			}
			break
		}
		if len(inputs) != 1 {
			return nil, errors.Errorf("node #%d (%s) must have exactly one input, got %d",
				cur, d.GetNode(cur).GetType(), len(inputs))
		}
		if len(d.GetUsages(inputs[0])) != 1 {
			return nil, errors.Errorf("node #%d is shared, only linear plans can be executed", inputs[0])
		}
		cur = inputs[0]
	}
	return spine, nil
}

// BuildPipeline mirrors the plan's linear spine with physical operators.
// TableScan becomes Scan, Filter becomes Filter followed by Select, and
// Projection adds no operator since it keeps the input schema.
func (e *ExecutionEngine) BuildPipeline(ctx context.Context, d *plans.LogicalPlanDag, out *[]arrow.Record) (*Pipeline, error) {
	spine, err := linearSpine(d)
	if err != nil {
		return nil, err
	}

	sink := NewCollectExecutor(out)
	var next Operator[arrow.Record] = sink
	stages := []string{"Collect"}

	for _, id := range spine[:len(spine)-1] {
		switch n := d.GetNode(id).(type) {
		case *plans.ProjectionPlanNode:
		case *plans.FilterPlanNode:
			sel := NewSelectExecutor(ctx, e.context.GetAllocator(), next)
			next = NewFilterExecutor(n.GetPredicate(), sel)
			stages = append(stages, "Select", "Filter")
		default:
			return nil, errors.Errorf("unsupported plan node #%d (%s)", id, d.GetNode(id).GetType())
		}
	}

	scanNode, ok := d.GetNode(spine[len(spine)-1]).(*plans.TableScanPlanNode)
	common.SH_Assert(ok, "spine must end with a table scan")
	loc, err := e.context.GetTableLocator().LocateTable(scanNode.GetTableName())
	if err != nil {
		return nil, err
	}
	scan := NewScanExecutor(ctx, e.context, next)
	stages = append(stages, "Scan")

	for i, j := 0, len(stages)-1; i < j; i, j = i+1, j-1 {
		stages[i], stages[j] = stages[j], stages[i]
	}
	input := ScanInput{FilePath: loc.FilePath, Source: loc.Source, ChunkSize: e.context.GetBatchSize()}
	return &Pipeline{scan, input, sink, stages}, nil
}

// Execute runs the plan and returns the collected records, owned by the caller.
// Nothing is returned when any stage fails.
func (e *ExecutionEngine) Execute(ctx context.Context, d *plans.LogicalPlanDag) ([]arrow.Record, error) {
	out := make([]arrow.Record, 0)
	p, err := e.BuildPipeline(ctx, d, &out)
	if err != nil {
		return nil, err
	}
	common.ShPrintf(common.DEBUG_INFO, "engine: running %s\n", p)

	if err := p.Run(); err != nil {
		ReleaseRecords(out)
		return nil, err
	}
	return out, nil
}

func ReleaseRecords(records []arrow.Record) {
	for _, r := range records {
		r.Release()
	}
}

// NumRows sums the rows of records.
func NumRows(records []arrow.Record) int64 {
	var ret int64
	for _, r := range records {
		ret += r.NumRows()
	}
	return ret
}
