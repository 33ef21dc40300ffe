package csv

import (
	"encoding/csv"
	"fmt"
	"io"
)

type CSVSwiftBanksReader struct {
	reader *csv.Reader
	row    int
}

func NewReader(r io.Reader) *CSVSwiftBanksReader {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	// rows are validated by the parser
	csvReader.FieldsPerRecord = -1
	return &CSVSwiftBanksReader{reader: csvReader}
}

func (c *CSVSwiftBanksReader) Next() ([]string, error) {
	row, err := c.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", c.row, err)
	}
	c.row++
	return row, nil
}

func (c *CSVSwiftBanksReader) Close() error {
	return nil
}
