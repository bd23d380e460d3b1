package samehada

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/ryogrid/SamehadaQE/catalog"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/container/hash"
	"github.com/ryogrid/SamehadaQE/execution/executors"
	"github.com/ryogrid/SamehadaQE/parser"
	"github.com/ryogrid/SamehadaQE/testing/testing_tbl_gen"
	"github.com/ryogrid/SamehadaQE/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idsMeta() *testing_tbl_gen.TableInsertMeta {
	return &testing_tbl_gen.TableInsertMeta{
		Name_:     "ids",
		Num_rows_: testing_tbl_gen.TEST2_SIZE,
		Col_meta_: []*testing_tbl_gen.ColumnInsertMeta{
			testing_tbl_gen.SerialIntColumn("id", 0),
			testing_tbl_gen.UniformColumn("v", types.Integer, -100, 100),
		},
	}
}

func newEngineWithIds(t *testing.T) *SamehadaQE {
	t.Helper()
	qe, err := NewSamehadaQE(nil)
	require.NoError(t, err)

	meta := idsMeta()
	recs := testing_tbl_gen.GenerateRecords(meta, memory.NewGoAllocator(), 7, 128)
	defer func() {
		for _, r := range recs {
			r.Release()
		}
	}()
	require.NoError(t, qe.RegisterRecords(meta.Name_, testing_tbl_gen.MakeSchema(meta), recs...))
	return qe
}

func TestExecuteSQLFilter(t *testing.T) {
	qe := newEngineWithIds(t)

	result, err := qe.ExecuteSQL(context.Background(), "SELECT id FROM ids WHERE id > 10 AND id < 50")
	require.NoError(t, err)
	defer executors.ReleaseRecords(result)

	require.EqualValues(t, 39, executors.NumRows(result))
	expected := int32(11)
	for _, rec := range result {
		ids := rec.Column(0).(*array.Int32)
		for i := 0; i < ids.Len(); i++ {
			assert.Equal(t, expected, ids.Value(i))
			expected++
		}
	}
	assert.Equal(t, int32(50), expected)
}

func TestExecuteSQLWildcard(t *testing.T) {
	qe := newEngineWithIds(t)

	result, err := qe.ExecuteSQL(context.Background(), "SELECT * FROM ids")
	require.NoError(t, err)
	defer executors.ReleaseRecords(result)

	require.EqualValues(t, testing_tbl_gen.TEST2_SIZE, executors.NumRows(result))
	for _, rec := range result {
		assert.EqualValues(t, 2, rec.NumCols())
	}
}

func TestExecuteSQLIsIdempotent(t *testing.T) {
	qe := newEngineWithIds(t)
	sql := "SELECT id, v FROM ids WHERE (v > 0 OR id < 20) AND id > 5"

	first, err := qe.ExecuteSQL(context.Background(), sql)
	require.NoError(t, err)
	defer executors.ReleaseRecords(first)
	second, err := qe.ExecuteSQL(context.Background(), sql)
	require.NoError(t, err)
	defer executors.ReleaseRecords(second)

	require.Equal(t, executors.NumRows(first), executors.NumRows(second))
	require.Equal(t, hash.RecordsFingerprint(first), hash.RecordsFingerprint(second))
}

func TestExecuteSQLErrors(t *testing.T) {
	qe := newEngineWithIds(t)
	ctx := context.Background()

	_, err := qe.ExecuteSQL(ctx, "SELECT id FROM nowhere")
	require.Error(t, err)
	assert.True(t, catalog.IsTableNotFound(err))

	_, err = qe.ExecuteSQL(ctx, "SELECT id FROM ids ORDER BY id")
	require.Error(t, err)
	assert.True(t, parser.IsUnsupported(err))

	_, err = qe.ExecuteSQL(ctx, "SELECT missing FROM ids")
	require.Error(t, err)

	_, err = qe.ExecuteSQL(ctx, "SELEC id FROM ids")
	require.Error(t, err)
}

func TestExplainSQL(t *testing.T) {
	qe := newEngineWithIds(t)

	explained, err := qe.ExplainSQL("SELECT id FROM ids WHERE id > 10")
	require.NoError(t, err)
	assert.Contains(t, explained, "TableScan [ids]")
	assert.Contains(t, explained, "Filter (id > 10)")
	assert.Contains(t, explained, "Scan -> Filter -> Select -> Collect")

	explained, err = qe.ExplainSQL("SELECT id FROM ids")
	require.NoError(t, err)
	assert.Contains(t, explained, "Scan -> Collect")
}

func TestNewSamehadaQEFromConfig(t *testing.T) {
	meta := idsMeta()
	path := filepath.Join(t.TempDir(), "ids.parquet")
	require.NoError(t, testing_tbl_gen.WriteTableFile(path, meta, 3))

	cfg := common.NewDefaultConfig()
	cfg.BatchSize = 100
	cfg.Tables = append(cfg.Tables, common.TableConfig{Name: "ids", Path: path})
	qe, err := NewSamehadaQE(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"ids"}, qe.GetCatalog().TableNames())

	schema, err := qe.ResultSchema("SELECT id FROM ids")
	require.NoError(t, err)
	assert.Equal(t, "id", schema.Field(0).Name)

	result, err := qe.ExecuteSQL(context.Background(), "SELECT id FROM ids WHERE id < 250")
	require.NoError(t, err)
	defer executors.ReleaseRecords(result)
	assert.EqualValues(t, 250, executors.NumRows(result))
	// batches with no surviving rows are still passed on
	assert.Len(t, result, 5)

	var buf bytes.Buffer
	PrintExecuteResults(&buf, schema, result)
	assert.Contains(t, buf.String(), "(250 rows)")
	assert.Contains(t, buf.String(), "\n249\t")
}

func TestConvRecordsToStrings(t *testing.T) {
	meta := idsMeta()
	meta.Num_rows_ = 3
	recs := testing_tbl_gen.GenerateRecords(meta, memory.NewGoAllocator(), 1, 2)
	defer executors.ReleaseRecords(recs)

	rows := ConvRecordsToStrings(recs)
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, strconv.Itoa(i), row[0])
		assert.Len(t, row, 2)
	}
}
