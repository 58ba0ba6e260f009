package models

import (
	"strings"

	"gst-reporting-service/internal/gst"
)

// Flexible is a float64 that tolerates upstream order JSON where numeric
// fields arrive as strings, numbers or null. Unparsable values decode as 0
// per the DecimalOrZero policy.
type Flexible float64

// UnmarshalJSON implements json.Unmarshaler
func (f *Flexible) UnmarshalJSON(data []byte) error {
	*f = Flexible(gst.DecimalOrZero(strings.Trim(string(data), `"`)))
	return nil
}

// Float returns the plain float64 value.
func (f Flexible) Float() float64 {
	return float64(f)
}

// OrderLineItem is a single sold line within an upstream order.
type OrderLineItem struct {
	Title           string   `json:"title"`
	Price           Flexible `json:"price"`
	CurrentQuantity Flexible `json:"current_quantity"`
	GST             Flexible `json:"gst"`
	Cess            Flexible `json:"cess"`
	HSN             string   `json:"hsn"`
	ZeroRated       bool     `json:"zero_rated"`
}

// OrderAddress carries the address fields the reports read.
type OrderAddress struct {
	Company      string `json:"company"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
}

// OrderCustomer wraps the customer's default address.
type OrderCustomer struct {
	DefaultAddress *OrderAddress `json:"default_address"`
}

// ShopMoney is a money value in the shop currency.
type ShopMoney struct {
	Amount Flexible `json:"amount"`
}

// PriceSet wraps a shop-currency money value.
type PriceSet struct {
	ShopMoney ShopMoney `json:"shop_money"`
}

// Order is the upstream order shape consumed by the report aggregations.
type Order struct {
	Date                  string          `json:"date"`
	InvoiceNumber         string          `json:"invoice_number"`
	FinancialStatus       string          `json:"financial_status"`
	CancelledAt           *string         `json:"cancelled_at"`
	LineItems             []OrderLineItem `json:"line_items"`
	BillingAddress        *OrderAddress   `json:"billing_address"`
	Customer              *OrderCustomer  `json:"customer"`
	TotalShippingPriceSet *PriceSet       `json:"total_shipping_price_set"`
}

// IsB2B reports whether the order carries a billing company name.
func (o Order) IsB2B() bool {
	return o.BillingAddress != nil && o.BillingAddress.Company != ""
}

// GSTR1Row is one aggregated row of the GSTR-1 report. B2C rows omit the
// province and GST state code.
type GSTR1Row struct {
	Province           string `json:"province,omitempty"`
	GSTCode            string `json:"gst_code,omitempty"`
	GST                string `json:"gst"`
	TotalPrice         string `json:"total_price"`
	TotalTaxableAmount string `json:"total_taxable_amount"`
	IGSTAmount         string `json:"igst_amount"`
	CGSTAmount         string `json:"cgst_amount"`
	SGSTAmount         string `json:"sgst_amount"`
	CessAmount         string `json:"cess_amount"`
}

// HSNSalesRow is one row of the HSN-wise sales summary.
type HSNSalesRow struct {
	HSN                string  `json:"hsn"`
	TotalPrice         string  `json:"total_price"`
	TotalTaxableAmount string  `json:"total_taxable_amount"`
	IGSTAmount         string  `json:"igst_amount"`
	CGSTAmount         string  `json:"cgst_amount"`
	SGSTAmount         string  `json:"sgst_amount"`
	CessAmount         string  `json:"cess_amount"`
	TotalQuantity      float64 `json:"total_quantity"`
	IntegratedTax      string  `json:"integrated_tax"`
	CentralTax         string  `json:"central_tax"`
	StateUTTax         string  `json:"state_ut_tax"`
}

// HSNPurchaseRow is one row of the HSN-wise purchase summary. The JSON keys
// are the statutory column headings and must stay exactly as filed.
type HSNPurchaseRow struct {
	HSN           string  `json:"HSN"`
	TotalQty      float64 `json:"Total Qty"`
	TotalValue    string  `json:"Total Value (Rs.)"`
	Rate          float64 `json:"Rate (%)"`
	TaxableValue  string  `json:"Taxable value (Rs.)"`
	IntegratedTax string  `json:"Integrated Tax (Rs.)"`
	CentralTax    string  `json:"Central Tax (Rs.)"`
	StateUTTax    string  `json:"State/UT Tax (Rs.)"`
	Cess          string  `json:"CESS (Rs.)"`
}

// HSNPurchaseEnvelope wraps the purchase summary rows.
type HSNPurchaseEnvelope struct {
	HSNSummary []HSNPurchaseRow `json:"hsn_summary"`
}

// SupplySummaryRow is one fixed row of the outward supply summary. JSON keys
// are statutory headings.
type SupplySummaryRow struct {
	NatureOfSupply    string `json:"Nature of Supply"`
	TotalTaxableValue string `json:"Total Taxable Value (Rs.)"`
	IntegratedTax     string `json:"Integrated Tax (Rs.)"`
	CentralTax        string `json:"Central Tax (Rs.)"`
	StateUTTax        string `json:"State/UT Tax (Rs.)"`
	Cess              string `json:"CESS (Rs.)"`
}

// SupplySummaryEnvelope wraps the three supply summary rows.
type SupplySummaryEnvelope struct {
	SupplySummary []SupplySummaryRow `json:"supply_summary"`
}

// DocumentSummaryRow is one row of the GSTR-1 document summary.
type DocumentSummaryRow struct {
	NatureOfDocument string `json:"Nature of Document"`
	SrNoFrom         string `json:"Sr.No. From"`
	SrNoTo           string `json:"Sr.No. To"`
	TotalNumber      int    `json:"Total Number"`
	Cancelled        int    `json:"Cancelled"`
}

// DocumentSummaryEnvelope wraps the document summary rows.
type DocumentSummaryEnvelope struct {
	DocumentSummary []DocumentSummaryRow `json:"document_summary"`
}

// ITCSummary is the eligible input tax credit rollup over purchase bills.
// Month and year read "All" when no period filter applied.
type ITCSummary struct {
	Details       string `json:"details"`
	Month         string `json:"month"`
	Year          any    `json:"year"`
	IntegratedTax string `json:"integrated_tax"`
	CentralTax    string `json:"central_tax"`
	StateUTTax    string `json:"state_ut_tax"`
	Cess          string `json:"cess"`
}

// OrderReportEntry is an order annotated with its flat tax split.
type OrderReportEntry struct {
	Order
	SubtotalPrice string `json:"subtotal_price"`
	Cess          string `json:"cess"`
	CGST          string `json:"cgst"`
	SGST          string `json:"sgst"`
	IGST          string `json:"igst"`
}

// OrderReportEnvelope is the order tax report response.
type OrderReportEnvelope struct {
	TotalSubtotalPrice  string             `json:"total_subtotal_price"`
	TotalShippingAmount string             `json:"total_shipping_amount"`
	TotalCess           string             `json:"total_cess"`
	TotalCGST           string             `json:"total_cgst"`
	TotalSGST           string             `json:"total_sgst"`
	TotalIGST           string             `json:"total_igst"`
	Orders              []OrderReportEntry `json:"orders"`
}

// BillTaxTotals are the flat tax totals over a set of bills.
type BillTaxTotals struct {
	TotalPrice float64 `json:"totalPrice"`
	TotalCGST  float64 `json:"totalCGST"`
	TotalSGST  float64 `json:"totalSGST"`
	TotalIGST  float64 `json:"totalIGST"`
	TotalCESS  float64 `json:"totalCESS"`
}

// BillTaxDetails is the per-bill flat tax computation over the product
// snapshot.
type BillTaxDetails struct {
	HSN        string  `json:"hsn"`
	GST        float64 `json:"gst"`
	Cess       float64 `json:"cess"`
	Price      float64 `json:"price"`
	CGSTAmount float64 `json:"cgstAmount"`
	SGSTAmount float64 `json:"sgstAmount"`
	IGSTAmount float64 `json:"igstAmount"`
	CessAmount float64 `json:"cessAmount"`
}

// BillWithTaxes pairs a bill with its computed tax details.
type BillWithTaxes struct {
	Bill
	ProductDetails BillTaxDetails `json:"productDetails"`
}

// BillTaxEnvelope is the bill tax reconciliation response.
type BillTaxEnvelope struct {
	Totals BillTaxTotals   `json:"totals"`
	Bills  []BillWithTaxes `json:"bills"`
}

// InvoiceSummaryTotals are the offline invoice totals over a date range.
type InvoiceSummaryTotals struct {
	TotalOrders        int     `json:"totalOrders"`
	TotalSubtotalPrice float64 `json:"totalSubtotalPrice"`
	TotalCess          float64 `json:"totalCess"`
	TotalCGST          float64 `json:"totalCGST"`
	TotalSGST          float64 `json:"totalSGST"`
	TotalIGST          float64 `json:"totalIGST"`
	TotalShipping      float64 `json:"totalShipping"`
}

// InvoiceSummaryEnvelope is the offline invoice summary response. Summary is
// null when no invoices fall in the range.
type InvoiceSummaryEnvelope struct {
	Summary *InvoiceSummaryTotals `json:"summary"`
	Orders  []OfflineInvoice      `json:"orders"`
}
