package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		gst       float64
		zeroFlag  bool
		title     string
		expected  SupplyClass
	}{
		{"positive rate is taxable", 18, false, "Widget", SupplyTaxable},
		{"positive rate wins over zero-rated flag", 5, true, "Zero Rated Widget", SupplyTaxable},
		{"zero rate with flag", 0, true, "Widget", SupplyZeroRated},
		{"zero rate with title marker", 0, false, "Zero-Rated Export Widget", SupplyZeroRated},
		{"zero rate plain is nil rated", 0, false, "Widget", SupplyNilRated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.gst, tc.zeroFlag, tc.title))
		})
	}
}

func TestTitleIndicatesZeroRated(t *testing.T) {
	assert.True(t, TitleIndicatesZeroRated("zero rated export"))
	assert.True(t, TitleIndicatesZeroRated("Zero-Rated Goods"))
	assert.True(t, TitleIndicatesZeroRated("ZERORATED"))
	assert.False(t, TitleIndicatesZeroRated("nil rated"))
	assert.False(t, TitleIndicatesZeroRated(""))
}

func TestIsB2B(t *testing.T) {
	assert.True(t, IsB2B("Acme Pvt Ltd"))
	assert.False(t, IsB2B(""))
}

func TestStateCode(t *testing.T) {
	assert.Equal(t, "27", StateCode("MH"))
	assert.Equal(t, "29", StateCode("KA"))
	assert.Equal(t, "07", StateCode("DL"))
	assert.Equal(t, "N/A", StateCode("XX"))
	assert.Equal(t, "N/A", StateCode(""))
}

func TestDecimalOrZero(t *testing.T) {
	assert.Equal(t, 18.5, DecimalOrZero("18.5"))
	assert.Equal(t, 18.5, DecimalOrZero(" 18.5 "))
	assert.Equal(t, 0.0, DecimalOrZero(""))
	assert.Equal(t, 0.0, DecimalOrZero("abc"))
}

func TestQuantityOrOne(t *testing.T) {
	assert.Equal(t, 1.0, QuantityOrOne(0))
	assert.Equal(t, 3.0, QuantityOrOne(3))
	assert.Equal(t, 0.5, QuantityOrOne(0.5))
}
