package clients

import (
	"context"

	"gst-reporting-service/internal/models"
)

// Credentials are the opaque store credentials every report request carries.
// They are forwarded to the order source verbatim, never validated here.
type Credentials struct {
	StoreName   string
	APIVersion  string
	AccessToken string
}

// Complete reports whether all three credential headers were supplied.
func (c Credentials) Complete() bool {
	return c.StoreName != "" && c.APIVersion != "" && c.AccessToken != ""
}

// OrderSource provides the orders a report period is computed over.
type OrderSource interface {
	FetchOrders(ctx context.Context, creds Credentials) ([]models.Order, error)
}
