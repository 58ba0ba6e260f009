package aggregate

import (
	"math"
	"sort"

	"gst-reporting-service/internal/gst"
	"gst-reporting-service/internal/models"
)

// Totals accumulates report sums for one grouping key.
type Totals struct {
	Province  string
	GSTCode   string
	RateLabel string
	Rate      float64
	HSN       string

	TotalPrice   float64
	TotalTaxable float64
	IGST         float64
	CGST         float64
	SGST         float64
	Cess         float64
	Quantity     float64
}

// accumulator groups Totals by string key while preserving first-seen order,
// so report rows come out in a deterministic order regardless of map
// iteration.
type accumulator struct {
	keys   []string
	totals map[string]*Totals
}

func newAccumulator() *accumulator {
	return &accumulator{totals: make(map[string]*Totals)}
}

// get returns the Totals for key, calling init exactly once on first sight.
func (a *accumulator) get(key string, init func(*Totals)) *Totals {
	if t, ok := a.totals[key]; ok {
		return t
	}
	t := &Totals{}
	if init != nil {
		init(t)
	}
	a.totals[key] = t
	a.keys = append(a.keys, key)
	return t
}

// list returns all Totals in first-seen order.
func (a *accumulator) list() []*Totals {
	out := make([]*Totals, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, a.totals[k])
	}
	return out
}

// GSTR1Rows aggregates orders into GSTR-1 rows. orderType "b2b" keeps only
// business sales and groups by province-gstCode-rate; "b2c" keeps consumer
// sales grouped by rate alone; anything else keeps all orders.
func GSTR1Rows(orders []models.Order, orderType string) []models.GSTR1Row {
	acc := newAccumulator()

	for _, order := range orders {
		isB2B := order.IsB2B()
		switch orderType {
		case "b2b":
			if !isB2B {
				continue
			}
		case "b2c":
			if isB2B {
				continue
			}
		}

		province := "N/A"
		provinceCode := ""
		if order.Customer != nil && order.Customer.DefaultAddress != nil {
			if order.Customer.DefaultAddress.Province != "" {
				province = order.Customer.DefaultAddress.Province
			}
			provinceCode = order.Customer.DefaultAddress.ProvinceCode
		}
		gstCode := gst.StateCode(provinceCode)

		for _, item := range order.LineItems {
			price := item.Price.Float()
			quantity := gst.QuantityOrOne(item.CurrentQuantity.Float())
			rate := item.GST.Float()
			cess := item.Cess.Float()
			rateLabel := gst.RateLabel(rate)

			b := gst.ComputeStatementRow(price, quantity, rate, cess)

			key := rateLabel
			if isB2B {
				key = province + "-" + gstCode + "-" + rateLabel
			}
			t := acc.get(key, func(t *Totals) {
				if isB2B {
					t.Province = province
					t.GSTCode = gstCode
				}
				t.RateLabel = rateLabel
			})
			t.TotalPrice += price * quantity
			t.TotalTaxable += b.TaxableValue
			t.IGST += b.IGST
			t.CGST += b.CGST
			t.SGST += b.SGST
			t.Cess += b.Cess
		}
	}

	rows := make([]models.GSTR1Row, 0, len(acc.keys))
	for _, t := range acc.list() {
		rows = append(rows, models.GSTR1Row{
			Province:           t.Province,
			GSTCode:            t.GSTCode,
			GST:                t.RateLabel,
			TotalPrice:         gst.Money(t.TotalPrice),
			TotalTaxableAmount: gst.Money(t.TotalTaxable),
			IGSTAmount:         gst.Money(t.IGST),
			CGSTAmount:         gst.Money(t.CGST),
			SGSTAmount:         gst.Money(t.SGST),
			CessAmount:         gst.Money(t.Cess),
		})
	}
	return rows
}

// HSNSalesRows aggregates orders into HSN-wise sales rows. Line items with
// no HSN fall into the "N/A" bucket. The integrated_tax column is the sum of
// cgst, sgst and cess as filed.
func HSNSalesRows(orders []models.Order) []models.HSNSalesRow {
	acc := newAccumulator()

	for _, order := range orders {
		for _, item := range order.LineItems {
			hsn := item.HSN
			if hsn == "" {
				hsn = "N/A"
			}
			price := item.Price.Float()
			quantity := gst.QuantityOrOne(item.CurrentQuantity.Float())
			b := gst.ComputeStatementRow(price, quantity, item.GST.Float(), item.Cess.Float())

			t := acc.get(hsn, func(t *Totals) { t.HSN = hsn })
			t.TotalPrice += price * quantity
			t.TotalTaxable += b.TaxableValue
			t.IGST += b.IGST
			t.CGST += b.CGST
			t.SGST += b.SGST
			t.Cess += b.Cess
			t.Quantity += quantity
		}
	}

	rows := make([]models.HSNSalesRow, 0, len(acc.keys))
	for _, t := range acc.list() {
		rows = append(rows, models.HSNSalesRow{
			HSN:                t.HSN,
			TotalPrice:         gst.Money(t.TotalPrice),
			TotalTaxableAmount: gst.Money(t.TotalTaxable),
			IGSTAmount:         gst.Money(t.IGST),
			CGSTAmount:         gst.Money(t.CGST),
			SGSTAmount:         gst.Money(t.SGST),
			CessAmount:         gst.Money(t.Cess),
			TotalQuantity:      t.Quantity,
			IntegratedTax:      gst.Money(t.CGST + t.SGST + t.Cess),
			CentralTax:         gst.Money(t.CGST),
			StateUTTax:         gst.Money(t.SGST),
		})
	}
	return rows
}

// HSNPurchaseRows aggregates purchase bills into HSN rows. The bills' stored
// tax amounts are summed as-is; the per-key rate is fixed from the first bill
// seen for that HSN. Bills with no HSN fall into the "0" bucket.
func HSNPurchaseRows(bills []models.Bill) []models.HSNPurchaseRow {
	acc := newAccumulator()

	for _, bill := range bills {
		hsn := bill.HSN
		if hsn == "" {
			hsn = "0"
		}
		rate := bill.GST
		t := acc.get(hsn, func(t *Totals) {
			t.HSN = hsn
			t.Rate = rate
		})
		t.Quantity += gst.QuantityOrOne(bill.Quantity)
		t.TotalPrice += bill.Total
		t.TotalTaxable += bill.TaxableValue
		t.IGST += bill.IGSTAmount
		t.CGST += bill.CGSTAmount
		t.SGST += bill.SGSTAmount
		t.Cess += bill.CessAmount
	}

	rows := make([]models.HSNPurchaseRow, 0, len(acc.keys))
	for _, t := range acc.list() {
		rows = append(rows, models.HSNPurchaseRow{
			HSN:           t.HSN,
			TotalQty:      t.Quantity,
			TotalValue:    gst.Money(t.TotalPrice),
			Rate:          t.Rate,
			TaxableValue:  gst.Money(t.TotalTaxable),
			IntegratedTax: gst.Money(t.IGST),
			CentralTax:    gst.Money(t.CGST),
			StateUTTax:    gst.Money(t.SGST),
			Cess:          gst.Money(t.Cess),
		})
	}
	return rows
}

// Supply summary row labels, in filing order.
const (
	supplyLabelTaxable   = "Outward taxable supplies (other than zero rated, nil rated and exempted)"
	supplyLabelZeroRated = "Outward taxable supplies (zero rated)"
	supplyLabelNilRated  = "Other outward supplies (Nil rated, exempted)"
)

// SupplySummary buckets every line item into the three fixed
// nature-of-supply rows.
func SupplySummary(orders []models.Order) []models.SupplySummaryRow {
	buckets := map[gst.SupplyClass]*Totals{
		gst.SupplyTaxable:   {},
		gst.SupplyZeroRated: {},
		gst.SupplyNilRated:  {},
	}

	for _, order := range orders {
		for _, item := range order.LineItems {
			price := item.Price.Float()
			quantity := gst.QuantityOrOne(item.CurrentQuantity.Float())
			rate := item.GST.Float()
			b := gst.ComputeSupplyRow(price, quantity, rate, item.Cess.Float())

			t := buckets[gst.Classify(rate, item.ZeroRated, item.Title)]
			t.TotalTaxable += b.TaxableValue
			t.IGST += b.IGST
			t.CGST += b.CGST
			t.SGST += b.SGST
			t.Cess += b.Cess
		}
	}

	rows := make([]models.SupplySummaryRow, 0, 3)
	for _, entry := range []struct {
		label string
		class gst.SupplyClass
	}{
		{supplyLabelTaxable, gst.SupplyTaxable},
		{supplyLabelZeroRated, gst.SupplyZeroRated},
		{supplyLabelNilRated, gst.SupplyNilRated},
	} {
		t := buckets[entry.class]
		rows = append(rows, models.SupplySummaryRow{
			NatureOfSupply:    entry.label,
			TotalTaxableValue: gst.Money(t.TotalTaxable),
			IntegratedTax:     gst.Money(t.IGST),
			CentralTax:        gst.Money(t.CGST),
			StateUTTax:        gst.Money(t.SGST),
			Cess:              gst.Money(t.Cess),
		})
	}
	return rows
}

// DocumentSummary builds the GSTR-1 document rows: outward invoices,
// purchase bills (carried as an empty row, purchases are reported through
// the HSN purchase summary) and credit notes. Serial ranges come from sorted
// invoice numbers.
func DocumentSummary(orders []models.Order) []models.DocumentSummaryRow {
	var invoiceNumbers, creditNumbers []string
	cancelled := 0

	for _, order := range orders {
		refunded := order.FinancialStatus == "refunded" || order.FinancialStatus == "partially_refunded"
		if refunded {
			creditNumbers = append(creditNumbers, order.InvoiceNumber)
			continue
		}
		invoiceNumbers = append(invoiceNumbers, order.InvoiceNumber)
		if order.CancelledAt != nil || order.FinancialStatus == "voided" {
			cancelled++
		}
	}
	sort.Strings(invoiceNumbers)
	sort.Strings(creditNumbers)

	first := func(s []string) string {
		if len(s) == 0 {
			return ""
		}
		return s[0]
	}
	last := func(s []string) string {
		if len(s) == 0 {
			return ""
		}
		return s[len(s)-1]
	}

	return []models.DocumentSummaryRow{
		{
			NatureOfDocument: "Invoices for outward supply",
			SrNoFrom:         first(invoiceNumbers),
			SrNoTo:           last(invoiceNumbers),
			TotalNumber:      len(invoiceNumbers),
			Cancelled:        cancelled,
		},
		{
			NatureOfDocument: "Purchase Bills",
		},
		{
			NatureOfDocument: "Credit Notes",
			SrNoFrom:         first(creditNumbers),
			SrNoTo:           last(creditNumbers),
			TotalNumber:      len(creditNumbers),
		},
	}
}

// ITC rolls the bills' stored tax amounts into the eligible input tax credit
// summary. month and year are echoed back, "All" when unfiltered.
func ITC(bills []models.Bill, month string, year *int) models.ITCSummary {
	var igst, cgst, sgst, cess float64
	for _, bill := range bills {
		igst += bill.IGSTAmount
		cgst += bill.CGSTAmount
		sgst += bill.SGSTAmount
		cess += bill.SelectedProduct.Cess
	}

	summary := models.ITCSummary{
		Details:       "All Other ITC",
		Month:         "All",
		Year:          "All",
		IntegratedTax: gst.Money(igst),
		CentralTax:    gst.Money(cgst),
		StateUTTax:    gst.Money(sgst),
		Cess:          gst.Money(cess),
	}
	if month != "" {
		summary.Month = month
	}
	if year != nil {
		summary.Year = *year
	}
	return summary
}

// OrderReport annotates each order with its flat (tax-exclusive) line item
// split and totals everything up, shipping included.
func OrderReport(orders []models.Order) models.OrderReportEnvelope {
	var totalSubtotal, totalShipping, totalCess, totalCGST, totalSGST, totalIGST float64

	entries := make([]models.OrderReportEntry, 0, len(orders))
	for _, order := range orders {
		var subtotal, cess, cgst, sgst, igst float64
		for _, item := range order.LineItems {
			price := item.Price.Float()
			b := gst.ComputeFlatTaxes(price, item.GST.Float(), item.Cess.Float())

			subtotal += price
			cess += b.Cess
			cgst += b.CGST
			sgst += b.SGST
			igst += b.IGST
		}
		if order.TotalShippingPriceSet != nil {
			totalShipping += order.TotalShippingPriceSet.ShopMoney.Amount.Float()
		}

		totalSubtotal += subtotal
		totalCess += cess
		totalCGST += cgst
		totalSGST += sgst
		totalIGST += igst

		entries = append(entries, models.OrderReportEntry{
			Order:         order,
			SubtotalPrice: gst.Money(subtotal),
			Cess:          gst.Money(cess),
			CGST:          gst.Money(cgst),
			SGST:          gst.Money(sgst),
			IGST:          gst.Money(igst),
		})
	}

	return models.OrderReportEnvelope{
		TotalSubtotalPrice:  gst.Money(totalSubtotal),
		TotalShippingAmount: gst.Money(totalShipping),
		TotalCess:           gst.Money(totalCess),
		TotalCGST:           gst.Money(totalCGST),
		TotalSGST:           gst.Money(totalSGST),
		TotalIGST:           gst.Money(totalIGST),
		Orders:              entries,
	}
}

// BillTaxSummary computes the flat tax split for each bill's product
// snapshot and the totals over the set. The single-bill case is the same
// per-record formula, so N=1 and N>1 agree numerically.
func BillTaxSummary(bills []models.Bill) models.BillTaxEnvelope {
	var totals models.BillTaxTotals

	annotated := make([]models.BillWithTaxes, 0, len(bills))
	for _, bill := range bills {
		p := bill.SelectedProduct
		b := gst.ComputeFlatTaxes(p.Price, p.GST, p.Cess)

		totals.TotalPrice += p.Price
		totals.TotalCGST += b.CGST
		totals.TotalSGST += b.SGST
		totals.TotalIGST += b.IGST
		totals.TotalCESS += b.Cess

		annotated = append(annotated, models.BillWithTaxes{
			Bill: bill,
			ProductDetails: models.BillTaxDetails{
				HSN:        p.HSN,
				GST:        p.GST,
				Cess:       p.Cess,
				Price:      p.Price,
				CGSTAmount: b.CGST,
				SGSTAmount: b.SGST,
				IGSTAmount: b.IGST,
				CessAmount: b.Cess,
			},
		})
	}

	return models.BillTaxEnvelope{Totals: totals, Bills: annotated}
}

// InvoiceSummary totals offline invoices over a range. A single invoice
// reports its own unrounded figures; multi-invoice totals round to whole
// rupees as filed.
func InvoiceSummary(invoices []models.OfflineInvoice) models.InvoiceSummaryEnvelope {
	if len(invoices) == 0 {
		return models.InvoiceSummaryEnvelope{Orders: []models.OfflineInvoice{}}
	}

	var totals models.InvoiceSummaryTotals
	for _, inv := range invoices {
		b := gst.ComputeFlatTaxes(inv.Rate, inv.GST, inv.Cess)

		totals.TotalOrders++
		totals.TotalSubtotalPrice += inv.Total
		totals.TotalCess += b.Cess
		totals.TotalCGST += b.CGST
		totals.TotalSGST += b.SGST
		totals.TotalIGST += b.IGST
		totals.TotalShipping += inv.ShippingCharge
	}

	if len(invoices) > 1 {
		totals.TotalSubtotalPrice = math.Round(totals.TotalSubtotalPrice)
		totals.TotalCess = math.Round(totals.TotalCess)
		totals.TotalCGST = math.Round(totals.TotalCGST)
		totals.TotalSGST = math.Round(totals.TotalSGST)
		totals.TotalIGST = math.Round(totals.TotalIGST)
		totals.TotalShipping = math.Round(totals.TotalShipping)
	}

	return models.InvoiceSummaryEnvelope{Summary: &totals, Orders: invoices}
}
