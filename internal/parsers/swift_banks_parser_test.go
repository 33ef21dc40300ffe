package parser_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zdziszkee/swift-directory/internal/models"
	parser "github.com/zdziszkee/swift-directory/internal/parsers"
)

func TestSwiftBanksParser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SwiftBanksParser Suite")
}

var _ = Describe("DefaultSwiftBanksParser", func() {
	var p parser.SwiftBanksParser

	BeforeEach(func() {
		p = parser.DefaultSwiftBanksParser{}
	})

	Describe("ParseRow", func() {
		Context("with a headquarters row", func() {
			It("should parse the row correctly", func() {
				row, err := p.ParseRow(1, []string{"US", "AAAAUS33XXX", "BIC11", "Test Bank", "1 Main St", "NYC", "United States", "America/New_York"})
				Expect(err).NotTo(HaveOccurred())
				Expect(row.Country).To(Equal(models.Country{ISO2Code: "US", Name: "United States", TimeZone: "America/New_York"}))
				Expect(row.Bank).To(Equal(models.SwiftBank{
					SwiftCode:     "AAAAUS33XXX",
					BankName:      "Test Bank",
					Address:       "1 Main St",
					TownName:      "NYC",
					CountryISO2:   "US",
					IsHeadquarter: true,
				}))
			})
		})

		Context("with a branch row", func() {
			It("should mark IsHeadquarter as false", func() {
				row, err := p.ParseRow(2, []string{"US", "AAAAUS33ABC", "", "Test Bank Branch", "2 Main St", "NYC", "United States", "America/New_York"})
				Expect(err).NotTo(HaveOccurred())
				Expect(row.Bank.IsHeadquarter).To(BeFalse())
			})
		})

		Context("with untrimmed lower case codes", func() {
			It("should normalise code and country", func() {
				row, err := p.ParseRow(3, []string{" pl ", " bankplpwxxx ", "", " Bank ", "", "", "POLAND", "Europe/Warsaw"})
				Expect(err).NotTo(HaveOccurred())
				Expect(row.Bank.SwiftCode).To(Equal("BANKPLPWXXX"))
				Expect(row.Bank.CountryISO2).To(Equal("PL"))
				Expect(row.Bank.BankName).To(Equal("Bank"))
				Expect(row.Bank.IsHeadquarter).To(BeTrue())
			})
		})

		Context("with a blank row", func() {
			It("should report ErrBlankRow", func() {
				_, err := p.ParseRow(4, nil)
				Expect(err).To(MatchError(parser.ErrBlankRow))

				_, err = p.ParseRow(4, []string{"", "  ", ""})
				Expect(err).To(MatchError(parser.ErrBlankRow))
			})
		})

		Context("with missing cells", func() {
			It("should report ErrInvalidRow with the row index", func() {
				_, err := p.ParseRow(5, []string{"US", "AAAAUS33XXX", "", "Test Bank"})
				Expect(err).To(MatchError(parser.ErrInvalidRow))
				Expect(err.Error()).To(ContainSubstring("invalid row 5"))
			})
		})

		Context("with an empty code", func() {
			It("should report ErrInvalidRow", func() {
				_, err := p.ParseRow(6, []string{"US", "", "", "Test Bank", "", "", "United States", ""})
				Expect(err).To(MatchError(parser.ErrInvalidRow))
			})
		})

		Context("with a malformed country code", func() {
			It("should report ErrInvalidRow", func() {
				_, err := p.ParseRow(7, []string{"USA", "AAAAUS33XXX", "", "Test Bank", "", "", "United States", ""})
				Expect(err).To(MatchError(ContainSubstring("does not match ISO2 format")))
			})
		})
	})

	Describe("HeaderMatches", func() {
		It("should accept the published header regardless of case and spacing", func() {
			Expect(parser.HeaderMatches([]string{" country iso2 code ", "Swift Code", "CODE TYPE", "Name", "Address", "TOWN NAME", "Country Name", " TIME ZONE"})).To(BeTrue())
		})

		It("should reject a different header", func() {
			Expect(parser.HeaderMatches([]string{"SWIFT CODE", "COUNTRY ISO2 CODE"})).To(BeFalse())
		})
	})
})
