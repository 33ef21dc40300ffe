package xlsx_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/zdziszkee/swift-directory/internal/readers/xlsx"
)

func TestXLSX(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "XLSX Reader Suite")
}

func workbook(rows ...[]interface{}) *bytes.Reader {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.SetSheetRow(sheet, cell, &row)).To(Succeed())
	}
	buf, err := f.WriteToBuffer()
	Expect(err).NotTo(HaveOccurred())
	return bytes.NewReader(buf.Bytes())
}

func readAll(r *xlsx.XLSXSwiftBanksReader) [][]string {
	var rows [][]string
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows
		}
		Expect(err).NotTo(HaveOccurred())
		rows = append(rows, row)
	}
}

var header = []interface{}{"COUNTRY ISO2 CODE", "SWIFT CODE", "CODE TYPE", "NAME", "ADDRESS", "TOWN NAME", "COUNTRY NAME", "TIME ZONE"}

var _ = Describe("XLSXSwiftBanksReader", func() {
	Context("with a valid workbook", func() {
		It("should stream the rows of the first sheet", func() {
			r, err := xlsx.NewReader(workbook(
				header,
				[]interface{}{"US", "AAAAUS33XXX", "BIC11", "Test Bank", "1 Main St", "NYC", "United States", "America/New_York"},
				[]interface{}{"PL", "BBBBPLPWXXX", "BIC11", "Bank PL", "", "Warsaw", "Poland", "Europe/Warsaw"},
			))
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()

			rows := readAll(r)
			Expect(rows).To(HaveLen(3))
			Expect(rows[0][1]).To(Equal("SWIFT CODE"))
			Expect(rows[1]).To(Equal([]string{"US", "AAAAUS33XXX", "BIC11", "Test Bank", "1 Main St", "NYC", "United States", "America/New_York"}))
			Expect(rows[2][4]).To(Equal(""))
		})

		It("should pad rows with trailing empty cells to the header width", func() {
			r, err := xlsx.NewReader(workbook(
				header,
				[]interface{}{"US", "AAAAUS33XXX", "BIC11", "Test Bank"},
			))
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()

			rows := readAll(r)
			Expect(rows).To(HaveLen(2))
			Expect(rows[1]).To(HaveLen(8))
			Expect(rows[1][7]).To(Equal(""))
		})
	})

	Context("with an empty workbook", func() {
		It("should return io.EOF immediately", func() {
			r, err := xlsx.NewReader(workbook())
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()

			_, err = r.Next()
			Expect(err).To(Equal(io.EOF))
		})
	})

	Context("with data that is not a workbook", func() {
		It("should return an error", func() {
			_, err := xlsx.NewReader(strings.NewReader("not a zip file"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("open workbook"))
		})
	})
})
