package mocks

import (
	"context"
	"io"

	"github.com/zdziszkee/swift-directory/internal/importer"
	reader "github.com/zdziszkee/swift-directory/internal/readers"
)

// MockImporter implements importer.Importer
type MockImporter struct {
	ImportFunc func(ctx context.Context, rows reader.RowReader) (*importer.ImportSummary, error)
}

func (m *MockImporter) Import(ctx context.Context, rows reader.RowReader) (*importer.ImportSummary, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, rows)
	}
	return nil, ErrNotImplemented
}

// SliceRowReader serves fixed rows to an importer
type SliceRowReader struct {
	Rows   [][]string
	Err    error
	Closed bool
	next   int
}

func (r *SliceRowReader) Next() ([]string, error) {
	if r.next >= len(r.Rows) {
		if r.Err != nil {
			return nil, r.Err
		}
		return nil, io.EOF
	}
	row := r.Rows[r.next]
	r.next++
	return row, nil
}

func (r *SliceRowReader) Close() error {
	r.Closed = true
	return nil
}
