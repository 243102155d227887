package renderer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hrrarya/order-pdf-export/internal/service/models/order"
)

// SiteIdentity holds the store constants printed on every invoice.
type SiteIdentity struct {
	Name           string
	Description    string
	CurrencySymbol string
}

// Document is the structured invoice layout, assembled deterministically
// from a snapshot before any drawing happens. Tests assert on sections
// here without touching the PDF engine.
type Document struct {
	Header   HeaderSection
	Customer CustomerSection
	Items    ItemsSection
	Totals   TotalsSection
	Payment  *PaymentSection
	Notes    *NotesSection
	Footer   FooterSection

	// GeneratedAt is the raw generation instant, also embedded as the
	// PDF creation date so two renders of one snapshot are byte-equal.
	GeneratedAt time.Time
}

type HeaderSection struct {
	StoreName        string
	StoreDescription string
	OrderRef         string
	Date             string
	Status           string
}

type AddressBlock struct {
	Title string
	Name  string
	Lines []string
	Email string
	Phone string
}

type CustomerSection struct {
	Billing  AddressBlock
	Shipping *AddressBlock
}

type ItemRow struct {
	Name      string
	SKU       string
	Meta      []string
	Quantity  string
	UnitPrice string
	LineTotal string
}

type ItemsSection struct {
	Rows []ItemRow
}

type TotalRow struct {
	Label    string
	Value    string
	Emphasis bool
}

type TotalsSection struct {
	Rows []TotalRow
}

type PaymentSection struct {
	Method        string
	TransactionID string
}

type NotesSection struct {
	Note string
}

type FooterSection struct {
	GeneratedAt string
}

// Builder turns snapshots into documents. Pure given a fixed clock.
type Builder struct {
	site SiteIdentity
	now  func() time.Time
}

type builderOption func(*Builder)

func NewBuilder(site SiteIdentity, opts ...builderOption) *Builder {
	if site.CurrencySymbol == "" {
		site.CurrencySymbol = "$"
	}
	b := &Builder{
		site: site,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// WithClock overrides the generation timestamp source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) builderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// Build assembles the fixed section order: header, customer, items,
// totals, payment, notes, footer. Line items keep the snapshot's order.
func (b *Builder) Build(snap *order.Snapshot) *Document {
	generatedAt := b.now()
	doc := &Document{
		GeneratedAt: generatedAt,
		Header: HeaderSection{
			StoreName:        b.site.Name,
			StoreDescription: b.site.Description,
			OrderRef:         fmt.Sprintf("Order #%d", snap.ID),
			Date:             snap.CreatedAt.Format("January 2, 2006"),
			Status:           snap.Status.Label(),
		},
		Customer: b.buildCustomer(snap),
		Items:    b.buildItems(snap),
		Totals:   b.buildTotals(snap),
		Footer: FooterSection{
			GeneratedAt: fmt.Sprintf("Generated on %s", generatedAt.Format("January 2, 2006 3:04 pm")),
		},
	}

	if snap.PaymentMethodTitle != "" {
		doc.Payment = &PaymentSection{
			Method:        snap.PaymentMethodTitle,
			TransactionID: snap.TransactionID,
		}
	}

	if snap.CustomerNote != "" {
		doc.Notes = &NotesSection{Note: snap.CustomerNote}
	}

	return doc
}

func (b *Builder) buildCustomer(snap *order.Snapshot) CustomerSection {
	section := CustomerSection{
		Billing: AddressBlock{
			Title: "Billing Address",
			Name:  snap.CustomerName(),
			Lines: addressLines(snap.Billing.Formatted),
			Email: snap.Billing.Email,
			Phone: snap.Billing.Phone,
		},
	}

	if snap.ShippingAddress != "" {
		section.Shipping = &AddressBlock{
			Title: "Shipping Address",
			Lines: addressLines(snap.ShippingAddress),
		}
	}

	return section
}

// buildItems renders one row per line item. Unit price and line total
// come from the snapshot independently; neither is derived from the
// other, so proration divergence stays visible.
func (b *Builder) buildItems(snap *order.Snapshot) ItemsSection {
	rows := make([]ItemRow, 0, len(snap.LineItems))
	for _, item := range snap.LineItems {
		row := ItemRow{
			Name:      item.Name,
			Quantity:  strconv.Itoa(item.Quantity),
			UnitPrice: b.money(item.UnitPriceMinor),
			LineTotal: b.money(item.LineTotalMinor),
		}
		if item.SKU != "" {
			row.SKU = fmt.Sprintf("SKU: %s", item.SKU)
		}
		for _, meta := range item.Meta {
			row.Meta = append(row.Meta, fmt.Sprintf("%s: %s", meta.DisplayKey, meta.DisplayValue))
		}
		rows = append(rows, row)
	}

	return ItemsSection{Rows: rows}
}

// buildTotals always shows Subtotal and Grand Total; Shipping, Tax and
// Discount appear only when greater than zero, Discount with a leading
// minus.
func (b *Builder) buildTotals(snap *order.Snapshot) TotalsSection {
	rows := []TotalRow{
		{Label: "Subtotal:", Value: b.money(snap.Totals.SubtotalMinor)},
	}

	if snap.Totals.ShippingMinor > 0 {
		rows = append(rows, TotalRow{Label: "Shipping:", Value: b.money(snap.Totals.ShippingMinor)})
	}
	if snap.Totals.TaxMinor > 0 {
		rows = append(rows, TotalRow{Label: "Tax:", Value: b.money(snap.Totals.TaxMinor)})
	}
	if snap.Totals.DiscountMinor > 0 {
		rows = append(rows, TotalRow{Label: "Discount:", Value: "-" + b.money(snap.Totals.DiscountMinor)})
	}

	rows = append(rows, TotalRow{Label: "Total:", Value: snap.Totals.GrandTotalFormatted, Emphasis: true})

	return TotalsSection{Rows: rows}
}

// money formats a minor-unit amount with the store currency symbol.
func (b *Builder) money(minor int64) string {
	return fmt.Sprintf("%s%d.%02d", b.site.CurrencySymbol, minor/100, minor%100)
}

func addressLines(formatted string) []string {
	if formatted == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(formatted, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
