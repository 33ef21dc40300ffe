package reader_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	reader "github.com/zdziszkee/swift-directory/internal/readers"
)

func TestReaders(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Readers Suite")
}

var _ = Describe("Open", func() {
	It("should pick the CSV reader for .csv files", func() {
		r, err := reader.Open("codes.CSV", strings.NewReader("a,b\n"))
		Expect(err).NotTo(HaveOccurred())
		row, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(row).To(Equal([]string{"a", "b"}))
		_, err = r.Next()
		Expect(err).To(Equal(io.EOF))
		Expect(r.Close()).To(Succeed())
	})

	It("should pick the XLSX reader for .xlsx files", func() {
		f := excelize.NewFile()
		Expect(f.SetCellValue("Sheet1", "A1", "COUNTRY ISO2 CODE")).To(Succeed())
		buf, err := f.WriteToBuffer()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Close()).To(Succeed())

		r, err := reader.Open("/tmp/codes.xlsx", bytes.NewReader(buf.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		row, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(row).To(Equal([]string{"COUNTRY ISO2 CODE"}))
		Expect(r.Close()).To(Succeed())
	})

	It("should reject other extensions", func() {
		_, err := reader.Open("codes.json", strings.NewReader("{}"))
		Expect(err).To(MatchError(reader.ErrUnsupportedFormat))
	})
})
