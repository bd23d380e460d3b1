package executors

import (
	"context"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/storage/columnar"
)

// ScanInput names the columnar data to read. Source, when set, is read
// instead of opening FilePath.
type ScanInput struct {
	FilePath  string
	Source    parquet.ReaderAtSeeker
	ChunkSize int
}

func (in ScanInput) name() string {
	if in.FilePath != "" {
		return in.FilePath
	}
	return "<memory>"
}

func openScanInput(ctx context.Context, ec *ExecutorContext, input ScanInput) (*columnar.TableReader, error) {
	chunk := input.ChunkSize
	if chunk <= 0 {
		chunk = ec.GetBatchSize()
	}
	if input.Source != nil {
		return columnar.OpenSource(ctx, input.name(), input.Source, chunk, ec.GetAllocator())
	}
	return columnar.OpenFile(ctx, input.FilePath, chunk, ec.GetAllocator())
}

/**
 * ScanExecutor reads a columnar file and pushes every record batch to its
 * successor in file order. A pushed record is valid only during the push.
 */
type ScanExecutor struct {
	ctx     context.Context
	context *ExecutorContext
	next    Operator[arrow.Record]
}

func NewScanExecutor(ctx context.Context, execCtx *ExecutorContext, next Operator[arrow.Record]) *ScanExecutor {
	return &ScanExecutor{ctx, execCtx, next}
}

// Schema probes the schema of the data input points at.
func (e *ScanExecutor) Schema(input ScanInput) (*arrow.Schema, error) {
	if input.Source == nil {
		return columnar.ReadSchema(input.FilePath)
	}
	r, err := openScanInput(e.ctx, e.context, input)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Schema(), nil
}

func (e *ScanExecutor) Execute(input ScanInput) error {
	r, err := openScanInput(e.ctx, e.context, input)
	if err != nil {
		return err
	}
	defer r.Close()

	numBatches := 0
	for r.Next() {
		if err := e.next.Execute(r.Record()); err != nil {
			return err
		}
		numBatches++
	}
	if err := r.Err(); err != nil {
		return err
	}
	common.ShPrintf(common.DEBUG_INFO, "scan: %s produced %d batches\n", input.name(), numBatches)
	return nil
}

func (e *ScanExecutor) AllInputsReceived() error {
	return e.next.AllInputsReceived()
}

/**
 * ScanTransform is the pipe style scan. The first call opens input, every
 * call returns the next record and io.EOF is returned once the data is
 * exhausted. A returned record stays valid until the next call or Close.
 */
type ScanTransform struct {
	ctx     context.Context
	context *ExecutorContext
	reader  *columnar.TableReader
	opened  ScanInput
}

func NewScanTransform(ctx context.Context, execCtx *ExecutorContext) *ScanTransform {
	return &ScanTransform{ctx: ctx, context: execCtx}
}

func (s *ScanTransform) Transform(input ScanInput) (arrow.Record, error) {
	if s.reader == nil {
		r, err := openScanInput(s.ctx, s.context, input)
		if err != nil {
			return nil, err
		}
		s.reader = r
		s.opened = input
	} else if s.opened.FilePath != input.FilePath || s.opened.Source != input.Source {
		return nil, errors.Errorf("scan is already reading %s", s.opened.name())
	}

	if s.reader.Next() {
		return s.reader.Record(), nil
	}
	if err := s.reader.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *ScanTransform) Close() error {
	if s.reader == nil {
		return nil
	}
	err := s.reader.Close()
	s.reader = nil
	return err
}
