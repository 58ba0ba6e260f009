package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportType identifies a persisted statutory report payload.
type ReportType string

const (
	ReportTypeGSTR1B2B    ReportType = "gstr1-b2b"
	ReportTypeGSTR1B2C    ReportType = "gstr1-b2c"
	ReportTypeGSTR1       ReportType = "gstr1"
	ReportTypeHSNSales    ReportType = "hsn-sales"
	ReportTypeHSNPurchase ReportType = "hsn-purchase"
)

// JSONB is a custom type for PostgreSQL JSONB fields
type JSONB json.RawMessage

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
		return nil
	case string:
		*j = JSONB([]byte(v))
		return nil
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler
func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSONB) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		*j = nil
		return nil
	}
	*j = JSONB(data)
	return nil
}

// ReportRecord is a finalized report payload, memoized once per
// store x type x period. Payloads are immutable after first write; there is
// no TTL and no eviction.
type ReportRecord struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreName   string     `json:"storeName" gorm:"type:varchar(255);not null;uniqueIndex:idx_report_unique,priority:1"`
	ReportType  ReportType `json:"reportType" gorm:"type:varchar(50);not null;uniqueIndex:idx_report_unique,priority:2"`
	Month       string     `json:"month" gorm:"type:varchar(20);not null;uniqueIndex:idx_report_unique,priority:3"`
	Year        int        `json:"year" gorm:"not null;uniqueIndex:idx_report_unique,priority:4"`
	Payload     JSONB      `json:"payload" gorm:"type:jsonb"`
	GeneratedAt time.Time  `json:"generatedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// BillProduct holds the product snapshot attached to a purchase bill.
// Stored as JSONB alongside the bill row.
type BillProduct struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
	GST   float64 `json:"gst"`
	Cess  float64 `json:"cess"`
	HSN   string  `json:"hsn"`
}

// Value implements the driver.Valuer interface for BillProduct
func (p BillProduct) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for BillProduct
func (p *BillProduct) Scan(value interface{}) error {
	if value == nil {
		*p = BillProduct{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported type for BillProduct: %T", value)
	}
}

// Bill is a purchase-side record. Tax amounts are computed at entry time and
// stored; the purchase reports aggregate the stored values as-is.
type Bill struct {
	ID                  uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreName           string      `json:"storeName" gorm:"type:varchar(255);not null;index"`
	BillNumber          string      `json:"billNumber" gorm:"type:varchar(100);not null"`
	PayeeVendor         string      `json:"payeeVendor" gorm:"type:varchar(255)"`
	BillDate            time.Time   `json:"billDate"`
	DueDate             *time.Time  `json:"dueDate"`
	HSN                 string      `json:"hsn" gorm:"type:varchar(10)"`
	GST                 float64     `json:"gst" gorm:"type:decimal(5,2)"`
	Quantity            float64     `json:"quantity" gorm:"type:decimal(12,2)"`
	Rate                float64     `json:"rate" gorm:"type:decimal(12,2)"`
	Total               float64     `json:"total" gorm:"type:decimal(12,2)"`
	TaxableValue        float64     `json:"taxableValue" gorm:"type:decimal(12,2)"`
	TotalTax            float64     `json:"totalTax" gorm:"type:decimal(12,2)"`
	TotalShippingCharge float64     `json:"totalShippingCharge" gorm:"type:decimal(12,2)"`
	IGSTAmount          float64     `json:"igstAmount" gorm:"type:decimal(12,2)"`
	CGSTAmount          float64     `json:"cgstAmount" gorm:"type:decimal(12,2)"`
	SGSTAmount          float64     `json:"sgstAmount" gorm:"type:decimal(12,2)"`
	CessAmount          float64     `json:"cessAmount" gorm:"type:decimal(12,2)"`
	PaymentTerms        string      `json:"paymentTerms" gorm:"type:varchar(100)"`
	PaymentDate         *time.Time  `json:"paymentDate"`
	SelectedProduct     BillProduct `json:"selectedProduct" gorm:"type:jsonb"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// OfflineInvoice is a manually entered sales invoice. Dates are kept in the
// DD/MM/YYYY form they are entered in.
type OfflineInvoice struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreName      string    `json:"storeName" gorm:"type:varchar(255);not null;index"`
	InvoiceNumber  string    `json:"invoiceNumber" gorm:"type:varchar(100);not null"`
	CustomerName   string    `json:"customerName" gorm:"type:varchar(255)"`
	InvoiceDate    string    `json:"invoiceDate" gorm:"type:varchar(10)"`
	DateOfSupply   string    `json:"dateOfSupply" gorm:"type:varchar(10)"`
	Status         string    `json:"status" gorm:"type:varchar(50)"`
	HSN            string    `json:"hsn" gorm:"type:varchar(10)"`
	GST            float64   `json:"gst" gorm:"type:decimal(5,2)"`
	Cess           float64   `json:"cess" gorm:"type:decimal(5,2)"`
	Rate           float64   `json:"rate" gorm:"type:decimal(12,2)"`
	Total          float64   `json:"total" gorm:"type:decimal(12,2)"`
	TotalTax       float64   `json:"totalTax" gorm:"type:decimal(12,2)"`
	ShippingCharge float64   `json:"shippingCharge" gorm:"type:decimal(12,2)"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// OfflineInvoiceView is the list representation of an invoice. Tax inputs
// (hsn, gst, cess, shipping) are only exposed on the /full endpoints.
type OfflineInvoiceView struct {
	ID            uuid.UUID `json:"id"`
	StoreName     string    `json:"storeName"`
	InvoiceNumber string    `json:"invoiceNumber"`
	CustomerName  string    `json:"customerName"`
	InvoiceDate   string    `json:"invoiceDate"`
	DateOfSupply  string    `json:"dateOfSupply"`
	Status        string    `json:"status"`
	Rate          float64   `json:"rate"`
	Total         float64   `json:"total"`
	TotalTax      float64   `json:"totalTax"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// View trims an invoice down to its list representation.
func (i OfflineInvoice) View() OfflineInvoiceView {
	return OfflineInvoiceView{
		ID:            i.ID,
		StoreName:     i.StoreName,
		InvoiceNumber: i.InvoiceNumber,
		CustomerName:  i.CustomerName,
		InvoiceDate:   i.InvoiceDate,
		DateOfSupply:  i.DateOfSupply,
		Status:        i.Status,
		Rate:          i.Rate,
		Total:         i.Total,
		TotalTax:      i.TotalTax,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
