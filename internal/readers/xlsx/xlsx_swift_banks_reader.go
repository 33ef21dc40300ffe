package xlsx

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var ErrNoSheets = errors.New("workbook has no sheets")

// XLSXSwiftBanksReader streams the rows of the first sheet of a workbook.
type XLSXSwiftBanksReader struct {
	file  *excelize.File
	rows  *excelize.Rows
	row   int
	width int
}

func NewReader(r io.Reader) (*XLSXSwiftBanksReader, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		file.Close()
		return nil, ErrNoSheets
	}

	rows, err := file.Rows(sheets[0])
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	return &XLSXSwiftBanksReader{file: file, rows: rows}, nil
}

func (x *XLSXSwiftBanksReader) Next() ([]string, error) {
	if !x.rows.Next() {
		if err := x.rows.Error(); err != nil {
			return nil, fmt.Errorf("row %d: %w", x.row, err)
		}
		return nil, io.EOF
	}
	cells, err := x.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", x.row, err)
	}
	// excelize drops trailing empty cells; pad data rows to the header width
	if x.row == 0 {
		x.width = len(cells)
	} else if len(cells) < x.width {
		cells = append(cells, make([]string, x.width-len(cells))...)
	}
	x.row++
	return cells, nil
}

func (x *XLSXSwiftBanksReader) Close() error {
	if err := x.rows.Close(); err != nil {
		x.file.Close()
		return err
	}
	return x.file.Close()
}
