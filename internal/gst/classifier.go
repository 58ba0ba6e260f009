package gst

import "regexp"

// SupplyClass categorizes an outward supply for the GSTR-3B style summary.
type SupplyClass string

const (
	SupplyTaxable   SupplyClass = "TAXABLE"
	SupplyZeroRated SupplyClass = "ZERO_RATED"
	SupplyNilRated  SupplyClass = "NIL_RATED"
)

// zeroRatedTitle matches product titles flagged as zero rated in the catalog
// ("zero rated", "zero-rated", "Zero Rated", ...).
var zeroRatedTitle = regexp.MustCompile(`(?i)zero[-\s]?rated`)

// TitleIndicatesZeroRated reports whether a product title marks the supply
// as zero rated.
func TitleIndicatesZeroRated(title string) bool {
	return zeroRatedTitle.MatchString(title)
}

// Classify determines the supply class of a line item. A positive GST rate
// always means a taxable supply; at 0% the zero-rated flag or title marker
// wins over nil rated.
func Classify(gstPercent float64, zeroRatedFlag bool, title string) SupplyClass {
	if gstPercent > 0 {
		return SupplyTaxable
	}
	if zeroRatedFlag || TitleIndicatesZeroRated(title) {
		return SupplyZeroRated
	}
	return SupplyNilRated
}

// IsB2B reports whether an order is a business sale. The signal is a
// non-empty company on the billing address.
func IsB2B(company string) bool {
	return company != ""
}
