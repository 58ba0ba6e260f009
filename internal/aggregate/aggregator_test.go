package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gst-reporting-service/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func b2bOrder(company, province, provinceCode string, items ...models.OrderLineItem) models.Order {
	return models.Order{
		Date:           "2024-03-15T10:00:00Z",
		BillingAddress: &models.OrderAddress{Company: company},
		Customer: &models.OrderCustomer{
			DefaultAddress: &models.OrderAddress{Province: province, ProvinceCode: provinceCode},
		},
		LineItems: items,
	}
}

func b2cOrder(items ...models.OrderLineItem) models.Order {
	return models.Order{
		Date:      "2024-03-15T10:00:00Z",
		LineItems: items,
	}
}

func item(price, qty, gst, cess float64) models.OrderLineItem {
	return models.OrderLineItem{
		Price:           models.Flexible(price),
		CurrentQuantity: models.Flexible(qty),
		GST:             models.Flexible(gst),
		Cess:            models.Flexible(cess),
	}
}

func TestGSTR1RowsB2B(t *testing.T) {
	orders := []models.Order{
		b2bOrder("Acme Pvt Ltd", "Maharashtra", "MH", item(1180, 1, 18, 0)),
		b2bOrder("Bharat Traders", "Maharashtra", "MH", item(1180, 1, 18, 0)),
		b2cOrder(item(590, 1, 18, 0)),
	}

	rows := GSTR1Rows(orders, "b2b")
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Maharashtra", row.Province)
	assert.Equal(t, "27", row.GSTCode)
	assert.Equal(t, "18", row.GST)
	assert.Equal(t, "2360.00", row.TotalPrice)
	assert.Equal(t, "2000.00", row.TotalTaxableAmount)
	assert.Equal(t, "360.00", row.IGSTAmount)
	assert.Equal(t, "180.00", row.CGSTAmount)
	assert.Equal(t, "180.00", row.SGSTAmount)
}

func TestGSTR1RowsB2CGroupsByRate(t *testing.T) {
	orders := []models.Order{
		b2cOrder(item(1180, 1, 18, 0), item(525, 1, 5, 0)),
		b2cOrder(item(1180, 1, 18, 0)),
		b2bOrder("Acme Pvt Ltd", "Karnataka", "KA", item(1180, 1, 18, 0)),
	}

	rows := GSTR1Rows(orders, "b2c")
	require.Len(t, rows, 2)

	// rows come out in first-seen order
	assert.Equal(t, "18", rows[0].GST)
	assert.Equal(t, "5", rows[1].GST)
	assert.Equal(t, "2360.00", rows[0].TotalPrice)
	assert.Empty(t, rows[0].Province)
	assert.Empty(t, rows[0].GSTCode)
}

func TestGSTR1RowsUnknownProvinceCode(t *testing.T) {
	order := b2bOrder("Acme Pvt Ltd", "Somewhere", "XX", item(118, 1, 18, 0))

	rows := GSTR1Rows([]models.Order{order}, "b2b")
	require.Len(t, rows, 1)
	assert.Equal(t, "N/A", rows[0].GSTCode)
}

func TestHSNSalesRows(t *testing.T) {
	orders := []models.Order{
		b2cOrder(
			models.OrderLineItem{HSN: "6403", Price: 1180, CurrentQuantity: 2, GST: 18},
			models.OrderLineItem{Price: 100, CurrentQuantity: 1},
		),
		b2cOrder(
			models.OrderLineItem{HSN: "6403", Price: 1180, CurrentQuantity: 1, GST: 18},
		),
	}

	rows := HSNSalesRows(orders)
	require.Len(t, rows, 2)

	row := rows[0]
	assert.Equal(t, "6403", row.HSN)
	assert.Equal(t, 3.0, row.TotalQuantity)
	assert.Equal(t, "3540.00", row.TotalPrice)
	assert.Equal(t, "3000.00", row.TotalTaxableAmount)
	assert.Equal(t, "540.00", row.IGSTAmount)
	assert.Equal(t, "270.00", row.CGSTAmount)
	assert.Equal(t, "270.00", row.SGSTAmount)
	// integrated_tax is cgst + sgst + cess as filed
	assert.Equal(t, "540.00", row.IntegratedTax)

	assert.Equal(t, "N/A", rows[1].HSN)
}

func TestHSNSalesRowsOrderIndependentTotals(t *testing.T) {
	a := b2cOrder(models.OrderLineItem{HSN: "6403", Price: 1180, CurrentQuantity: 1, GST: 18})
	b := b2cOrder(models.OrderLineItem{HSN: "6403", Price: 590, CurrentQuantity: 1, GST: 18})

	forward := HSNSalesRows([]models.Order{a, b})
	reverse := HSNSalesRows([]models.Order{b, a})

	require.Len(t, forward, 1)
	require.Len(t, reverse, 1)
	assert.Equal(t, forward[0].TotalTaxableAmount, reverse[0].TotalTaxableAmount)
	assert.Equal(t, forward[0].IGSTAmount, reverse[0].IGSTAmount)
}

func TestHSNPurchaseRows(t *testing.T) {
	bills := []models.Bill{
		{HSN: "8471", GST: 18, Quantity: 2, Total: 2360, TaxableValue: 2000, IGSTAmount: 360, CGSTAmount: 180, SGSTAmount: 180, CessAmount: 0},
		{HSN: "8471", GST: 12, Quantity: 0, Total: 1120, TaxableValue: 1000, IGSTAmount: 120, CGSTAmount: 60, SGSTAmount: 60, CessAmount: 10},
		{HSN: "", GST: 5, Quantity: 1, Total: 105, TaxableValue: 100, IGSTAmount: 5},
	}

	rows := HSNPurchaseRows(bills)
	require.Len(t, rows, 2)

	row := rows[0]
	assert.Equal(t, "8471", row.HSN)
	// rate is fixed from the first bill seen for the HSN
	assert.Equal(t, 18.0, row.Rate)
	// zero quantity counts as one unit
	assert.Equal(t, 3.0, row.TotalQty)
	assert.Equal(t, "3480.00", row.TotalValue)
	assert.Equal(t, "3000.00", row.TaxableValue)
	assert.Equal(t, "480.00", row.IntegratedTax)
	assert.Equal(t, "10.00", row.Cess)

	// missing HSN falls into the "0" bucket
	assert.Equal(t, "0", rows[1].HSN)
}

func TestSupplySummaryFixedRows(t *testing.T) {
	orders := []models.Order{
		b2cOrder(
			models.OrderLineItem{Title: "Widget", Price: 1180, CurrentQuantity: 1, GST: 18},
			models.OrderLineItem{Title: "Zero Rated Export", Price: 500, CurrentQuantity: 1},
			models.OrderLineItem{Title: "Fresh Produce", Price: 200, CurrentQuantity: 1},
		),
	}

	rows := SupplySummary(orders)
	require.Len(t, rows, 3)

	assert.Equal(t, "Outward taxable supplies (other than zero rated, nil rated and exempted)", rows[0].NatureOfSupply)
	assert.Equal(t, "Outward taxable supplies (zero rated)", rows[1].NatureOfSupply)
	assert.Equal(t, "Other outward supplies (Nil rated, exempted)", rows[2].NatureOfSupply)

	assert.Equal(t, "1000.00", rows[0].TotalTaxableValue)
	assert.Equal(t, "180.00", rows[0].IntegratedTax)
	assert.Equal(t, "500.00", rows[1].TotalTaxableValue)
	assert.Equal(t, "0.00", rows[1].IntegratedTax)
	assert.Equal(t, "200.00", rows[2].TotalTaxableValue)
}

func TestSupplySummaryEmptyOrdersStillThreeRows(t *testing.T) {
	rows := SupplySummary(nil)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "0.00", row.TotalTaxableValue)
	}
}

func TestDocumentSummary(t *testing.T) {
	orders := []models.Order{
		{InvoiceNumber: "1003", FinancialStatus: "paid"},
		{InvoiceNumber: "1001", FinancialStatus: "paid"},
		{InvoiceNumber: "1002", FinancialStatus: "voided"},
		{InvoiceNumber: "1004", FinancialStatus: "refunded"},
		{InvoiceNumber: "1005", FinancialStatus: "paid", CancelledAt: strPtr("2024-03-20T00:00:00Z")},
	}

	rows := DocumentSummary(orders)
	require.Len(t, rows, 3)

	invoices := rows[0]
	assert.Equal(t, "Invoices for outward supply", invoices.NatureOfDocument)
	assert.Equal(t, "1001", invoices.SrNoFrom)
	assert.Equal(t, "1005", invoices.SrNoTo)
	assert.Equal(t, 4, invoices.TotalNumber)
	assert.Equal(t, 2, invoices.Cancelled)

	purchase := rows[1]
	assert.Equal(t, "Purchase Bills", purchase.NatureOfDocument)
	assert.Equal(t, 0, purchase.TotalNumber)

	credits := rows[2]
	assert.Equal(t, "Credit Notes", credits.NatureOfDocument)
	assert.Equal(t, "1004", credits.SrNoFrom)
	assert.Equal(t, "1004", credits.SrNoTo)
	assert.Equal(t, 1, credits.TotalNumber)
}

func TestITC(t *testing.T) {
	bills := []models.Bill{
		{IGSTAmount: 100, CGSTAmount: 50, SGSTAmount: 50, SelectedProduct: models.BillProduct{Cess: 10}},
		{IGSTAmount: 200, CGSTAmount: 100, SGSTAmount: 100, SelectedProduct: models.BillProduct{Cess: 5}},
	}

	summary := ITC(bills, "march", intPtr(2024))
	assert.Equal(t, "All Other ITC", summary.Details)
	assert.Equal(t, "march", summary.Month)
	assert.Equal(t, 2024, summary.Year)
	assert.Equal(t, "300.00", summary.IntegratedTax)
	assert.Equal(t, "150.00", summary.CentralTax)
	assert.Equal(t, "150.00", summary.StateUTTax)
	assert.Equal(t, "15.00", summary.Cess)
}

func TestITCUnfiltered(t *testing.T) {
	summary := ITC([]models.Bill{{IGSTAmount: 1}}, "", nil)
	assert.Equal(t, "All", summary.Month)
	assert.Equal(t, "All", summary.Year)
}

func TestOrderReport(t *testing.T) {
	orders := []models.Order{
		{
			Date:      "2024-03-10T00:00:00Z",
			LineItems: []models.OrderLineItem{{Price: 1000, GST: 18, Cess: 12}},
			TotalShippingPriceSet: &models.PriceSet{
				ShopMoney: models.ShopMoney{Amount: 50},
			},
		},
		{
			Date:      "2024-03-12T00:00:00Z",
			LineItems: []models.OrderLineItem{{Price: 500, GST: 5}},
		},
	}

	report := OrderReport(orders)
	require.Len(t, report.Orders, 2)

	first := report.Orders[0]
	assert.Equal(t, "1000.00", first.SubtotalPrice)
	assert.Equal(t, "90.00", first.CGST)
	assert.Equal(t, "90.00", first.SGST)
	assert.Equal(t, "180.00", first.IGST)
	assert.Equal(t, "120.00", first.Cess)

	assert.Equal(t, "1500.00", report.TotalSubtotalPrice)
	assert.Equal(t, "50.00", report.TotalShippingAmount)
	assert.Equal(t, "205.00", report.TotalIGST)
}

func TestBillTaxSummary(t *testing.T) {
	bills := []models.Bill{
		{
			BillNumber:      "B1",
			BillDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			SelectedProduct: models.BillProduct{HSN: "8471", Price: 1000, GST: 18, Cess: 12},
		},
	}

	envelope := BillTaxSummary(bills)
	require.Len(t, envelope.Bills, 1)

	details := envelope.Bills[0].ProductDetails
	assert.Equal(t, "8471", details.HSN)
	assert.InDelta(t, 90.0, details.CGSTAmount, 0.01)
	assert.InDelta(t, 90.0, details.SGSTAmount, 0.01)
	assert.InDelta(t, 180.0, details.IGSTAmount, 0.01)
	assert.InDelta(t, 120.0, details.CessAmount, 0.01)

	assert.InDelta(t, 1000.0, envelope.Totals.TotalPrice, 0.01)
	assert.InDelta(t, 180.0, envelope.Totals.TotalIGST, 0.01)
}

func TestInvoiceSummaryEmpty(t *testing.T) {
	envelope := InvoiceSummary(nil)
	assert.Nil(t, envelope.Summary)
	assert.NotNil(t, envelope.Orders)
	assert.Empty(t, envelope.Orders)
}

func TestInvoiceSummarySingle(t *testing.T) {
	invoices := []models.OfflineInvoice{
		{Rate: 1000.5, GST: 18, Total: 1180.59, ShippingCharge: 25.5},
	}

	envelope := InvoiceSummary(invoices)
	require.NotNil(t, envelope.Summary)

	// single invoice figures stay unrounded
	assert.Equal(t, 1, envelope.Summary.TotalOrders)
	assert.InDelta(t, 1180.59, envelope.Summary.TotalSubtotalPrice, 0.001)
	assert.InDelta(t, 90.045, envelope.Summary.TotalCGST, 0.001)
	assert.InDelta(t, 25.5, envelope.Summary.TotalShipping, 0.001)
}

func TestInvoiceSummaryMultipleRoundsTotals(t *testing.T) {
	invoices := []models.OfflineInvoice{
		{Rate: 1000.4, GST: 18, Total: 1180.47},
		{Rate: 500.3, GST: 18, Total: 590.35},
	}

	envelope := InvoiceSummary(invoices)
	require.NotNil(t, envelope.Summary)

	assert.Equal(t, 2, envelope.Summary.TotalOrders)
	// multi-invoice totals round to whole rupees
	assert.Equal(t, 1771.0, envelope.Summary.TotalSubtotalPrice)
	assert.Equal(t, 270.0, envelope.Summary.TotalIGST)
}
