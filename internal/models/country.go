package models

// Country represents a row of the countries table
type Country struct {
	ISO2Code string `db:"iso2_code"`
	Name     string `db:"name"`
	TimeZone string `db:"time_zone"`
}
