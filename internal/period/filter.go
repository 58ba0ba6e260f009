package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gst-reporting-service/internal/models"
)

// monthIndex maps full month names to their 0-based index.
var monthIndex = map[string]int{
	"january": 0, "february": 1, "march": 2, "april": 3,
	"may": 4, "june": 5, "july": 6, "august": 7,
	"september": 8, "october": 9, "november": 10, "december": 11,
}

// MonthIndex resolves a full month name (case-insensitive) to its 0-based
// index. ok is false for unknown names; the caller decides whether that is a
// validation error or simply no month filter.
func MonthIndex(name string) (int, bool) {
	i, ok := monthIndex[strings.ToLower(name)]
	return i, ok
}

// orderDateLayouts are tried in order when normalizing upstream order dates.
var orderDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseOrderDate normalizes an upstream order date string to a time.Time.
func ParseOrderDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDMY parses a DD/MM/YYYY date.
func ParseDMY(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD/MM/YYYY", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in %q", s)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in %q", s)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD/MM/YYYY", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// StartOfDay truncates a time to midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes a time to 23:59:59.999 so range filters include the
// whole end date.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// InRange reports whether t falls within [start, end], inclusive both ends.
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// ParseRange parses a startDate/endDate pair and widens it to whole days.
// Dates may be ISO or DD/MM/YYYY.
func ParseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, ok := ParseOrderDate(startDate)
	if !ok {
		var err error
		start, err = ParseDMY(startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate: %w", err)
		}
	}
	end, ok := ParseOrderDate(endDate)
	if !ok {
		var err error
		end, err = ParseDMY(endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate: %w", err)
		}
	}
	return StartOfDay(start), EndOfDay(end), nil
}

// Matches reports whether t falls in the requested month and/or year. Nil
// filters always match.
func Matches(t time.Time, month, year *int) bool {
	if month != nil && int(t.Month())-1 != *month {
		return false
	}
	if year != nil && t.Year() != *year {
		return false
	}
	return true
}

// FilterOrders keeps orders dated in the requested month/year. With no
// filters the input is returned unchanged. Orders whose date cannot be
// parsed are excluded when a filter is active. Filtering is idempotent.
func FilterOrders(orders []models.Order, month, year *int) []models.Order {
	if month == nil && year == nil {
		return orders
	}
	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		t, ok := ParseOrderDate(order.Date)
		if !ok {
			continue
		}
		if Matches(t, month, year) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// FilterBills keeps bills whose bill date falls in the requested month/year.
func FilterBills(bills []models.Bill, month, year *int) []models.Bill {
	if month == nil && year == nil {
		return bills
	}
	filtered := make([]models.Bill, 0, len(bills))
	for _, bill := range bills {
		if Matches(bill.BillDate, month, year) {
			filtered = append(filtered, bill)
		}
	}
	return filtered
}

// FilterBillsRange keeps bills whose bill date or due date falls in
// [start, end].
func FilterBillsRange(bills []models.Bill, start, end time.Time) []models.Bill {
	filtered := make([]models.Bill, 0, len(bills))
	for _, bill := range bills {
		if InRange(bill.BillDate, start, end) {
			filtered = append(filtered, bill)
			continue
		}
		if bill.DueDate != nil && InRange(*bill.DueDate, start, end) {
			filtered = append(filtered, bill)
		}
	}
	return filtered
}

// FilterInvoicesRange keeps offline invoices whose invoice date (DD/MM/YYYY)
// falls in [start, end]. Invoices with unparsable dates are excluded.
func FilterInvoicesRange(invoices []models.OfflineInvoice, start, end time.Time) []models.OfflineInvoice {
	filtered := make([]models.OfflineInvoice, 0, len(invoices))
	for _, inv := range invoices {
		t, err := ParseDMY(inv.InvoiceDate)
		if err != nil {
			continue
		}
		if InRange(t, start, end) {
			filtered = append(filtered, inv)
		}
	}
	return filtered
}
