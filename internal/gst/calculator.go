package gst

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNegativeInput is returned when an amount, quantity or rate is negative.
var ErrNegativeInput = errors.New("amount, quantity and rates must be non-negative")

// Breakdown holds the tax split for a line amount. All values are full
// precision; rounding happens only at presentation boundaries.
type Breakdown struct {
	GrossAmount  float64 `json:"grossAmount"`
	TaxableValue float64 `json:"taxableValue"`
	IGST         float64 `json:"igst"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	Cess         float64 `json:"cess"`
}

// TotalTax returns the sum of all tax components.
func (b Breakdown) TotalTax() float64 {
	return b.IGST + b.CGST + b.SGST + b.Cess
}

// ComputeTaxes extracts taxes from a tax-inclusive amount.
// taxable = gross / (1 + (gst+cess)/100). For interstate supplies the whole
// tax is IGST; for intrastate supplies it splits evenly into CGST and SGST,
// with IGST carried as the cgst+sgst convenience column used on statements.
func ComputeTaxes(amount, quantity, gstPercent, cessPercent float64, interstate bool) (Breakdown, error) {
	if amount < 0 || quantity < 0 || gstPercent < 0 || cessPercent < 0 {
		return Breakdown{}, ErrNegativeInput
	}

	gross := amount * quantity
	taxable := gross / (1 + (gstPercent+cessPercent)/100)

	b := Breakdown{
		GrossAmount:  gross,
		TaxableValue: taxable,
		Cess:         (cessPercent / 100) * taxable,
	}
	if interstate {
		b.IGST = gross - taxable
	} else {
		b.CGST = (gstPercent / 2 / 100) * taxable
		b.SGST = (gstPercent / 2 / 100) * taxable
		b.IGST = b.CGST + b.SGST
	}
	return b, nil
}

// ComputeStatementRow fills every GSTR-1/HSN statement column at once from a
// tax-inclusive unit price: igst is the full extracted tax (gross - taxable)
// while cgst and sgst are simultaneously the intrastate halves. Statement
// consumers pick the columns that apply.
func ComputeStatementRow(amount, quantity, gstPercent, cessPercent float64) Breakdown {
	unitTaxable := amount / (1 + (gstPercent+cessPercent)/100)
	taxable := unitTaxable * quantity

	return Breakdown{
		GrossAmount:  amount * quantity,
		TaxableValue: taxable,
		IGST:         (amount - unitTaxable) * quantity,
		CGST:         (gstPercent / 2 / 100) * taxable,
		SGST:         (gstPercent / 2 / 100) * taxable,
		Cess:         (cessPercent / 100) * taxable,
	}
}

// ComputeSupplyRow is the supply-summary variant of ComputeStatementRow:
// IGST is zero when the GST rate is zero, even if a cess applies.
func ComputeSupplyRow(amount, quantity, gstPercent, cessPercent float64) Breakdown {
	b := ComputeStatementRow(amount, quantity, gstPercent, cessPercent)
	if gstPercent == 0 {
		b.IGST = 0
	}
	return b
}

// ComputeFlatTaxes applies tax-exclusive flat math to an amount:
// cgst = sgst = amount*gst/200, igst = cgst+sgst, cess = amount*cess/100.
// Used by the order report, bill reconciliation and offline invoice summary.
func ComputeFlatTaxes(amount, gstPercent, cessPercent float64) Breakdown {
	half := amount * gstPercent / 200
	return Breakdown{
		GrossAmount:  amount,
		TaxableValue: amount,
		CGST:         half,
		SGST:         half,
		IGST:         half * 2,
		Cess:         amount * cessPercent / 100,
	}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Money formats a value with two decimals for report output.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// RateLabel formats a GST percentage for use in grouping keys and rate
// columns, without trailing zeros.
func RateLabel(gstPercent float64) string {
	return strconv.FormatFloat(gstPercent, 'f', -1, 64)
}
