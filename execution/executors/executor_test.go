package executors

import (
	"context"
	"io"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/ryogrid/SamehadaQE/catalog"
	"github.com/ryogrid/SamehadaQE/execution/expression"
	"github.com/ryogrid/SamehadaQE/execution/plans"
	"github.com/ryogrid/SamehadaQE/testing/testing_tbl_gen"
	"github.com/ryogrid/SamehadaQE/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idBetween(lo, hi int64) expression.Expression {
	return expression.NewBinary(
		expression.NewBinary(expression.NewIdent("id"), expression.GT, expression.NewIntegerLiteral(lo)),
		expression.AND,
		expression.NewBinary(expression.NewIdent("id"), expression.LT, expression.NewIntegerLiteral(hi)),
	)
}

func idTableMeta(numRows uint32) *testing_tbl_gen.TableInsertMeta {
	return &testing_tbl_gen.TableInsertMeta{
		Name_:     "ids",
		Num_rows_: numRows,
		Col_meta_: []*testing_tbl_gen.ColumnInsertMeta{testing_tbl_gen.SerialIntColumn("id", 0)},
	}
}

// setupTable writes a generated table to a temp file and registers it.
func setupTable(t *testing.T, meta *testing_tbl_gen.TableInsertMeta) (*catalog.TableCatalog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), meta.Name_+".parquet")
	require.NoError(t, testing_tbl_gen.WriteTableFile(path, meta, 1))
	c := catalog.NewTableCatalog()
	_, err := c.RegisterFile(meta.Name_, path)
	require.NoError(t, err)
	return c, path
}

func TestScanFilterSelectCollect(t *testing.T) {
	c, path := setupTable(t, idTableMeta(testing_tbl_gen.TEST2_SIZE))
	ctx := context.Background()
	ec := NewExecutorContextFromCatalog(c, memory.NewGoAllocator(), 0)

	out := make([]arrow.Record, 0)
	collect := NewCollectExecutor(&out)
	sel := NewSelectExecutor(ctx, ec.GetAllocator(), collect)
	filter := NewFilterExecutor(idBetween(10, 50), sel)
	scan := NewScanExecutor(ctx, ec, filter)

	require.NoError(t, scan.Execute(ScanInput{FilePath: path}))
	require.NoError(t, scan.AllInputsReceived())
	defer ReleaseRecords(out)

	assert.True(t, collect.IsDone())
	require.Len(t, out, 1)
	assert.EqualValues(t, 39, out[0].NumRows())
	assert.EqualValues(t, 1, out[0].NumCols())
	ids := out[0].Column(0).(*array.Int32)
	assert.EqualValues(t, 11, ids.Value(0))
	assert.EqualValues(t, 49, ids.Value(38))
}

func TestScanChunking(t *testing.T) {
	c, path := setupTable(t, testing_tbl_gen.WideTableMeta("wide", testing_tbl_gen.TEST1_SIZE, 13))
	ctx := context.Background()
	ec := NewExecutorContextFromCatalog(c, nil, 0)

	out := make([]arrow.Record, 0)
	scan := NewScanExecutor(ctx, ec, NewCollectExecutor(&out))
	require.NoError(t, scan.Execute(ScanInput{FilePath: path, ChunkSize: 500}))
	defer ReleaseRecords(out)

	require.Len(t, out, 2)
	for _, rec := range out {
		assert.EqualValues(t, 500, rec.NumRows())
		assert.EqualValues(t, 13, rec.NumCols())
	}

	schema, err := scan.Schema(ScanInput{FilePath: path})
	require.NoError(t, err)
	assert.Equal(t, 13, schema.NumFields())
}

func TestScanMissingFile(t *testing.T) {
	ec := NewExecutorContext(nil, nil, nil, 10)
	out := make([]arrow.Record, 0)
	scan := NewScanExecutor(context.Background(), ec, NewCollectExecutor(&out))
	err := scan.Execute(ScanInput{FilePath: filepath.Join(t.TempDir(), "missing.parquet")})
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestFilterSelectMatchesRowEvaluation(t *testing.T) {
	meta := &testing_tbl_gen.TableInsertMeta{
		Name_:     "rnd",
		Num_rows_: 700,
		Col_meta_: []*testing_tbl_gen.ColumnInsertMeta{
			testing_tbl_gen.UniformColumn("id", types.Integer, -100, 100),
			testing_tbl_gen.UniformColumn("v", types.BigInt, 0, 50),
			testing_tbl_gen.UniformColumn("s", types.Varchar, 0, 9),
		},
	}
	mem := memory.NewGoAllocator()
	recs := testing_tbl_gen.GenerateRecords(meta, mem, 11, 256)
	defer ReleaseRecords(recs)

	rnd := rand.New(rand.NewSource(3))
	ctx := context.Background()
	for round := 0; round < 20; round++ {
		lo := rnd.Int63n(150) - 100
		pred := expression.NewBinary(idBetween(lo, lo+rnd.Int63n(80)), expression.OR,
			expression.NewBinary(expression.NewIdent("v"), expression.GT, expression.NewIntegerLiteral(rnd.Int63n(50))))

		filter := NewFilterExecutor(pred, nil)
		sel := NewSelectExecutor(ctx, mem, nil)
		for _, rec := range recs {
			selection, err := filter.Transform(rec)
			require.NoError(t, err)
			got, err := sel.Transform(selection)
			require.NoError(t, err)

			mask, err := expression.NewRowEvaluator(rec).EvaluateAll(pred)
			require.NoError(t, err)
			want := SelectionFromMask(mask)
			assert.Equal(t, want, selection.First)

			require.EqualValues(t, len(want), got.NumRows())
			require.True(t, rec.Schema().Equal(got.Schema()))
			for c := 0; c < int(rec.NumCols()); c++ {
				for i, row := range want {
					assert.Equal(t, rec.Column(c).ValueStr(row), got.Column(c).ValueStr(i))
				}
			}
			got.Release()
		}
	}
}

func TestSelectEdgeCases(t *testing.T) {
	mem := memory.NewGoAllocator()
	recs := testing_tbl_gen.GenerateRecords(idTableMeta(10), mem, 1, 0)
	defer ReleaseRecords(recs)
	sel := NewSelectExecutor(context.Background(), mem, nil)

	empty, err := sel.Transform(NewSelection(SelectionVector{}, recs[0]))
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.NumRows())
	assert.EqualValues(t, 1, empty.NumCols())
	empty.Release()

	all, err := sel.Transform(NewSelection(SelectionFromMask(make([]bool, 10)), recs[0]))
	require.NoError(t, err)
	assert.EqualValues(t, 0, all.NumRows())
	all.Release()

	full := make([]bool, 10)
	for i := range full {
		full[i] = true
	}
	same, err := sel.Transform(NewSelection(SelectionFromMask(full), recs[0]))
	require.NoError(t, err)
	assert.EqualValues(t, 10, same.NumRows())
	assert.True(t, recs[0].Schema().Equal(same.Schema()))
	same.Release()
	// the caller's reference on the input survives releasing the output
	assert.Equal(t, 10, recs[0].Column(0).Len())
}

func TestFilterPropagatesColumnError(t *testing.T) {
	mem := memory.NewGoAllocator()
	recs := testing_tbl_gen.GenerateRecords(idTableMeta(10), mem, 1, 0)
	defer ReleaseRecords(recs)

	out := make([]arrow.Record, 0)
	pred := expression.NewBinary(expression.NewIdent("nope"), expression.GT, expression.NewIntegerLiteral(1))
	filter := NewFilterExecutor(pred, NewSelectExecutor(context.Background(), mem, NewCollectExecutor(&out)))
	err := filter.Execute(recs[0])
	require.Error(t, err)
	assert.True(t, expression.IsColumnNotFound(err))
	assert.Empty(t, out)
}

func TestPipeTransforms(t *testing.T) {
	meta := idTableMeta(testing_tbl_gen.TEST2_SIZE)
	mf, err := testing_tbl_gen.WriteTableMemFile(meta, 1)
	require.NoError(t, err)

	ctx := context.Background()
	mem := memory.NewGoAllocator()
	ec := NewExecutorContext(nil, nil, mem, 100)
	scan := NewScanTransform(ctx, ec)
	defer scan.Close()

	var p Transform[ScanInput, arrow.Record] = NewPipe[ScanInput, Selection, arrow.Record](
		NewPipe[ScanInput, arrow.Record, Selection](scan, NewFilterExecutor(idBetween(10, 50), nil)),
		NewSelectExecutor(ctx, mem, nil),
	)

	input := ScanInput{Source: mf}
	var total int64
	batches := 0
	for {
		rec, err := p.Transform(input)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		total += rec.NumRows()
		batches++
		rec.Release()
	}
	assert.Equal(t, 5, batches)
	assert.EqualValues(t, 39, total)

	_, err = scan.Transform(ScanInput{FilePath: "other.parquet"})
	require.Error(t, err)
}

func TestPushTransform(t *testing.T) {
	mem := memory.NewGoAllocator()
	recs := testing_tbl_gen.GenerateRecords(idTableMeta(20), mem, 1, 0)
	defer ReleaseRecords(recs)

	out := make([]arrow.Record, 0)
	collect := NewCollectExecutor(&out)
	double := TransformFunc[arrow.Record, arrow.Record](func(rec arrow.Record) (arrow.Record, error) {
		rec.Retain()
		return rec, nil
	})
	op := NewPushTransform[arrow.Record, arrow.Record](double, collect)
	require.NoError(t, op.Execute(recs[0]))
	require.NoError(t, op.AllInputsReceived())
	assert.True(t, collect.IsDone())
	require.Len(t, out, 1)
	assert.Same(t, recs[0], out[0])
	// one reference from double, one from collect
	out[0].Release()
	out[0].Release()
}

func TestExecutionEngine(t *testing.T) {
	c, _ := setupTable(t, idTableMeta(testing_tbl_gen.TEST2_SIZE))
	schema, err := c.GetSchema("ids")
	require.NoError(t, err)

	b := plans.NewDagBuilder(nil)
	scan := b.CreateScan("ids", schema)
	filter := b.CreateFilter(idBetween(10, 50), scan)
	b.CreateProject([]expression.Expression{expression.NewIdent("id")}, filter)

	engine := NewExecutionEngine(NewExecutorContextFromCatalog(c, nil, 0))
	out := make([]arrow.Record, 0)
	p, err := engine.BuildPipeline(context.Background(), b.GetDag(), &out)
	require.NoError(t, err)
	assert.Equal(t, "Scan -> Filter -> Select -> Collect", p.String())

	recs, err := engine.Execute(context.Background(), b.GetDag())
	require.NoError(t, err)
	defer ReleaseRecords(recs)
	require.Len(t, recs, 1)
	assert.EqualValues(t, 39, NumRows(recs))
}

func TestExecutionEngineScanOnly(t *testing.T) {
	c, _ := setupTable(t, idTableMeta(30))
	schema, err := c.GetSchema("ids")
	require.NoError(t, err)

	b := plans.NewDagBuilder(nil)
	b.CreateProject([]expression.Expression{expression.NewIdent("id")}, b.CreateScan("ids", schema))

	engine := NewExecutionEngine(NewExecutorContextFromCatalog(c, nil, 8))
	out := make([]arrow.Record, 0)
	p, err := engine.BuildPipeline(context.Background(), b.GetDag(), &out)
	require.NoError(t, err)
	assert.Equal(t, "Scan -> Collect", p.String())

	recs, err := engine.Execute(context.Background(), b.GetDag())
	require.NoError(t, err)
	defer ReleaseRecords(recs)
	assert.Len(t, recs, 4)
	assert.EqualValues(t, 30, NumRows(recs))
}

func TestExecutionEngineRejectsBadPlans(t *testing.T) {
	c, _ := setupTable(t, idTableMeta(10))
	schema, err := c.GetSchema("ids")
	require.NoError(t, err)
	engine := NewExecutionEngine(NewExecutorContextFromCatalog(c, nil, 0))
	ctx := context.Background()

	_, err = engine.Execute(ctx, plans.NewLogicalPlanDag())
	require.Error(t, err)

	// shared scan: two sinks
	b := plans.NewDagBuilder(nil)
	scan := b.CreateScan("ids", schema)
	b.CreateFilter(idBetween(0, 5), scan)
	b.CreateFilter(idBetween(5, 9), scan)
	_, err = engine.Execute(ctx, b.GetDag())
	require.Error(t, err)

	// unknown table
	b = plans.NewDagBuilder(nil)
	b.CreateScan("nope", schema)
	_, err = engine.Execute(ctx, b.GetDag())
	require.Error(t, err)
	assert.True(t, catalog.IsTableNotFound(err))
}
