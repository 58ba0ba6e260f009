package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTaxesIntrastate(t *testing.T) {
	b, err := ComputeTaxes(1000, 1, 18, 0, false)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, b.GrossAmount, 0.01)
	assert.InDelta(t, 847.46, b.TaxableValue, 0.01)
	assert.InDelta(t, 76.27, b.CGST, 0.01)
	assert.InDelta(t, 76.27, b.SGST, 0.01)
	assert.InDelta(t, 152.54, b.IGST, 0.01)
	assert.InDelta(t, 0.0, b.Cess, 0.01)
}

func TestComputeTaxesInterstate(t *testing.T) {
	b, err := ComputeTaxes(1000, 1, 18, 0, true)
	require.NoError(t, err)

	assert.InDelta(t, 847.46, b.TaxableValue, 0.01)
	assert.InDelta(t, 152.54, b.IGST, 0.01)
	assert.Equal(t, 0.0, b.CGST)
	assert.Equal(t, 0.0, b.SGST)
}

func TestComputeTaxesWithCess(t *testing.T) {
	b, err := ComputeTaxes(1000, 1, 28, 12, true)
	require.NoError(t, err)

	// taxable = 1000 / 1.40
	assert.InDelta(t, 714.29, b.TaxableValue, 0.01)
	assert.InDelta(t, 85.71, b.Cess, 0.01)
	// IGST carries the full extracted tax, cess included
	assert.InDelta(t, 285.71, b.IGST, 0.01)
}

func TestComputeTaxesQuantity(t *testing.T) {
	single, err := ComputeTaxes(500, 1, 18, 0, false)
	require.NoError(t, err)
	triple, err := ComputeTaxes(500, 3, 18, 0, false)
	require.NoError(t, err)

	assert.InDelta(t, single.TaxableValue*3, triple.TaxableValue, 0.01)
	assert.InDelta(t, single.CGST*3, triple.CGST, 0.01)
}

func TestComputeTaxesNegativeInput(t *testing.T) {
	cases := []struct {
		name                        string
		amount, qty, gstPct, cessPct float64
	}{
		{"negative amount", -1, 1, 18, 0},
		{"negative quantity", 100, -1, 18, 0},
		{"negative gst", 100, 1, -18, 0},
		{"negative cess", 100, 1, 18, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeTaxes(tc.amount, tc.qty, tc.gstPct, tc.cessPct, false)
			assert.ErrorIs(t, err, ErrNegativeInput)
		})
	}
}

func TestComputeTaxesZeroRate(t *testing.T) {
	b, err := ComputeTaxes(1000, 1, 0, 0, false)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, b.TaxableValue, 0.01)
	assert.Equal(t, 0.0, b.TotalTax())
}

func TestComputeStatementRow(t *testing.T) {
	b := ComputeStatementRow(1180, 2, 18, 0)

	// unit taxable 1000, so two units
	assert.InDelta(t, 2000.0, b.TaxableValue, 0.01)
	assert.InDelta(t, 360.0, b.IGST, 0.01)
	// cgst/sgst are simultaneously the intrastate halves
	assert.InDelta(t, 180.0, b.CGST, 0.01)
	assert.InDelta(t, 180.0, b.SGST, 0.01)
}

func TestComputeSupplyRowZeroRate(t *testing.T) {
	b := ComputeSupplyRow(500, 1, 0, 5)

	assert.Equal(t, 0.0, b.IGST)
	assert.True(t, b.Cess > 0)

	// non-zero rates behave exactly like the statement row
	withRate := ComputeSupplyRow(1180, 1, 18, 0)
	statement := ComputeStatementRow(1180, 1, 18, 0)
	assert.Equal(t, statement.IGST, withRate.IGST)
}

func TestComputeFlatTaxes(t *testing.T) {
	b := ComputeFlatTaxes(1000, 18, 12)

	assert.InDelta(t, 90.0, b.CGST, 0.01)
	assert.InDelta(t, 90.0, b.SGST, 0.01)
	assert.InDelta(t, 180.0, b.IGST, 0.01)
	assert.InDelta(t, 120.0, b.Cess, 0.01)
	assert.InDelta(t, 1000.0, b.TaxableValue, 0.01)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 847.46, Round2(847.457627))
	assert.Equal(t, 76.27, Round2(76.2711))
	assert.Equal(t, 0.0, Round2(0))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "847.46", Money(847.457627))
	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "1000.00", Money(1000))
}

func TestRateLabel(t *testing.T) {
	assert.Equal(t, "18", RateLabel(18))
	assert.Equal(t, "0.25", RateLabel(0.25))
	assert.Equal(t, "0", RateLabel(0))
}
