package models

import (
	"strings"
	"unicode/utf8"
)

const (
	// CodePrefixLength is the number of leading characters shared by a
	// headquarters and all of its branches.
	CodePrefixLength = 8
	// HeadquarterSuffix marks a headquarters code in imported data.
	HeadquarterSuffix = "XXX"
)

// SwiftBank represents a row of the swift_banks table
type SwiftBank struct {
	SwiftCode     string `db:"swift_code"`
	BankName      string `db:"bank_name"`
	Address       string `db:"address"`
	TownName      string `db:"town_name"`
	CountryISO2   string `db:"country_iso2"`
	IsHeadquarter bool   `db:"is_headquarter"`
}

// CodePrefix returns the institution part of a SWIFT code, counted in
// characters. Codes shorter than CodePrefixLength are their own prefix.
func CodePrefix(code string) string {
	runes := []rune(code)
	if len(runes) < CodePrefixLength {
		return code
	}
	return string(runes[:CodePrefixLength])
}

// IsHeadquarterCode reports whether code follows the headquarters naming
// convention.
func IsHeadquarterCode(code string) bool {
	return strings.HasSuffix(code, HeadquarterSuffix)
}

// SameInstitution reports whether two codes belong to the same institution.
func SameInstitution(a, b string) bool {
	return utf8.RuneCountInString(a) >= CodePrefixLength &&
		utf8.RuneCountInString(b) >= CodePrefixLength &&
		CodePrefix(a) == CodePrefix(b)
}
