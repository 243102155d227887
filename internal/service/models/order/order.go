package order

import (
	"strings"
	"time"

	"github.com/hrrarya/order-pdf-export/internal/service/models/status"
)

// Snapshot is a read-only, point-in-time projection of an order, fetched
// fresh per request and consumed by the renderer. It is never written
// back to the store.
type Snapshot struct {
	ID                 int64         `json:"id"`
	CreatedAt          time.Time     `json:"createdAt"`
	Status             status.Status `json:"status"`
	Billing            Address       `json:"billing"`
	ShippingAddress    string        `json:"shippingAddress,omitempty"`
	LineItems          []LineItem    `json:"lineItems"`
	Totals             Totals        `json:"totals"`
	PaymentMethodTitle string        `json:"paymentMethodTitle,omitempty"`
	TransactionID      string        `json:"transactionId,omitempty"`
	CustomerNote       string        `json:"customerNote,omitempty"`
	CustomerID         int64         `json:"customerId,omitempty"`
}

// Address holds the billing contact block. All fields are optional.
type Address struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Formatted string `json:"formatted,omitempty"`
}

// LineItem is one purchased position. LineTotalMinor is authoritative as
// stored and may diverge from UnitPriceMinor*Quantity under discounts or
// proration; neither is ever recomputed from the other.
type LineItem struct {
	Name           string     `json:"name"`
	SKU            string     `json:"sku,omitempty"`
	Quantity       int        `json:"quantity"`
	UnitPriceMinor int64      `json:"unitPriceMinor"`
	LineTotalMinor int64      `json:"lineTotalMinor"`
	Meta           []ItemMeta `json:"meta,omitempty"`
}

// ItemMeta is a display key/value attached to a line item, in stored order.
type ItemMeta struct {
	DisplayKey   string `json:"displayKey"`
	DisplayValue string `json:"displayValue"`
}

// Totals carries the order-level amounts in minor units. The grand total
// arrives preformatted because currency and locale formatting belong to
// the store.
type Totals struct {
	SubtotalMinor       int64  `json:"subtotalMinor"`
	ShippingMinor       int64  `json:"shippingMinor"`
	TaxMinor            int64  `json:"taxMinor"`
	DiscountMinor       int64  `json:"discountMinor"`
	GrandTotalFormatted string `json:"grandTotalFormatted"`
}

// CustomerName returns the billing name, falling back to the billing
// email when no name was collected. May be empty.
func (s *Snapshot) CustomerName() string {
	name := strings.TrimSpace(strings.TrimSpace(s.Billing.FirstName) + " " + strings.TrimSpace(s.Billing.LastName))
	if name != "" {
		return name
	}

	return s.Billing.Email
}
