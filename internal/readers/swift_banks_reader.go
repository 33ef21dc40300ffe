package reader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/zdziszkee/swift-directory/internal/readers/csv"
	"github.com/zdziszkee/swift-directory/internal/readers/xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// RowReader streams the rows of a SWIFT code sheet, header included.
// Next returns io.EOF after the last row.
type RowReader interface {
	Next() ([]string, error)
	Close() error
}

// Open picks a RowReader for name by its extension (.csv or .xlsx).
func Open(name string, r io.Reader) (RowReader, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		return csv.NewReader(r), nil
	case ".xlsx", ".xlsm":
		x, err := xlsx.NewReader(r)
		if err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
