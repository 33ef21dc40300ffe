package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	models "github.com/zdziszkee/swift-directory/internal/models"
)

// Column positions of the import spreadsheet
const (
	ColCountryISO2 = iota
	ColSwiftCode
	ColCodeType // ignored
	ColBankName
	ColAddress
	ColTownName
	ColCountryName
	ColTimeZone

	ColumnCount
)

// ExpectedHeader is the header row of the published SWIFT code sheet
var ExpectedHeader = []string{"COUNTRY ISO2 CODE", "SWIFT CODE", "CODE TYPE", "NAME", "ADDRESS", "TOWN NAME", "COUNTRY NAME", "TIME ZONE"}

var (
	// ErrBlankRow marks a row without data; callers skip it.
	ErrBlankRow = errors.New("blank row")
	// ErrInvalidRow marks a row that does not fit the fixed layout.
	ErrInvalidRow = errors.New("invalid row")
)

var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// ParsedRow is the pair of records extracted from one spreadsheet row
type ParsedRow struct {
	Country models.Country
	Bank    models.SwiftBank
}

// SwiftBanksParser turns one spreadsheet row into a country and a bank
type SwiftBanksParser interface {
	ParseRow(index int, cells []string) (*ParsedRow, error)
}

// DefaultSwiftBanksParser parses the published eight column layout
type DefaultSwiftBanksParser struct{}

// ParseRow returns ErrBlankRow for empty rows and ErrInvalidRow when a
// required cell is missing or malformed. index is reported in errors.
func (p DefaultSwiftBanksParser) ParseRow(index int, cells []string) (*ParsedRow, error) {
	if isBlank(cells) {
		return nil, ErrBlankRow
	}
	if len(cells) < ColumnCount {
		return nil, fmt.Errorf("%w %d: expected %d cells, got %d", ErrInvalidRow, index, ColumnCount, len(cells))
	}

	cell := func(i int) string { return strings.TrimSpace(cells[i]) }

	swiftCode := strings.ToUpper(cell(ColSwiftCode))
	if swiftCode == "" {
		return nil, fmt.Errorf("%w %d: swift code cannot be empty", ErrInvalidRow, index)
	}
	countryISO2 := strings.ToUpper(cell(ColCountryISO2))
	if !countryCodeRegex.MatchString(countryISO2) {
		return nil, fmt.Errorf("%w %d: country ISO2 code '%s' does not match ISO2 format", ErrInvalidRow, index, countryISO2)
	}

	return &ParsedRow{
		Country: models.Country{
			ISO2Code: countryISO2,
			Name:     cell(ColCountryName),
			TimeZone: cell(ColTimeZone),
		},
		Bank: models.SwiftBank{
			SwiftCode:     swiftCode,
			BankName:      cell(ColBankName),
			Address:       cell(ColAddress),
			TownName:      cell(ColTownName),
			CountryISO2:   countryISO2,
			IsHeadquarter: models.IsHeadquarterCode(swiftCode),
		},
	}, nil
}

// HeaderMatches compares a header row with ExpectedHeader, ignoring case
// and surrounding whitespace.
func HeaderMatches(header []string) bool {
	if len(header) < len(ExpectedHeader) {
		return false
	}
	for i, expected := range ExpectedHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), expected) {
			return false
		}
	}
	return true
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
