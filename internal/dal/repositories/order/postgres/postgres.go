package postgresrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hrrarya/order-pdf-export/internal/dal/postgres"
	"github.com/hrrarya/order-pdf-export/internal/service/models/order"
	"github.com/hrrarya/order-pdf-export/internal/service/models/status"
)

// OrderDal represents the order row shape in the store.
type OrderDal struct {
	Id                  int64
	CustomerId          int64
	Status              string
	BillingFirstName    string
	BillingLastName     string
	BillingEmail        string
	BillingPhone        string
	BillingAddress      string
	ShippingAddress     string
	SubtotalMinor       int64
	ShippingMinor       int64
	TaxMinor            int64
	DiscountMinor       int64
	GrandTotalFormatted string
	PaymentMethodTitle  string
	TransactionId       string
	CustomerNote        string
	CreatedAt           time.Time
}

// ToModel converts OrderDal to a service layer Snapshot.
func (o *OrderDal) ToModel() *order.Snapshot {
	return &order.Snapshot{
		ID:        o.Id,
		CreatedAt: o.CreatedAt,
		Status:    status.Status(o.Status),
		Billing: order.Address{
			FirstName: o.BillingFirstName,
			LastName:  o.BillingLastName,
			Email:     o.BillingEmail,
			Phone:     o.BillingPhone,
			Formatted: o.BillingAddress,
		},
		ShippingAddress: o.ShippingAddress,
		LineItems:       []order.LineItem{},
		Totals: order.Totals{
			SubtotalMinor:       o.SubtotalMinor,
			ShippingMinor:       o.ShippingMinor,
			TaxMinor:            o.TaxMinor,
			DiscountMinor:       o.DiscountMinor,
			GrandTotalFormatted: o.GrandTotalFormatted,
		},
		PaymentMethodTitle: o.PaymentMethodTitle,
		TransactionID:      o.TransactionId,
		CustomerNote:       o.CustomerNote,
		CustomerID:         o.CustomerId,
	}
}

// itemMetaDal is the wire shape of line item metadata in the meta jsonb
// column, in stored order.
type itemMetaDal struct {
	DisplayKey   string `json:"display_key"`
	DisplayValue string `json:"display_value"`
}

var orderColumns = []string{
	"id",
	"customer_id",
	"status",
	"billing_first_name",
	"billing_last_name",
	"billing_email",
	"billing_phone",
	"billing_address",
	"shipping_address",
	"subtotal_minor",
	"shipping_minor",
	"tax_minor",
	"discount_minor",
	"grand_total_formatted",
	"payment_method_title",
	"transaction_id",
	"customer_note",
	"created_at",
}

// PostgresOrderRepository adapts the Postgres order store to the export
// core. Read-only: the core never writes orders.
type PostgresOrderRepository struct {
	client *postgres.Client
}

func NewPostgresOrderRepository(client *postgres.Client) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		client: client,
	}
}

// GetOrderByID returns the snapshot with its line items, or nil when no
// such order exists. A row lacking a valid identifier counts as absent.
func (r *PostgresOrderRepository) GetOrderByID(ctx context.Context, id int64) (*order.Snapshot, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build order query: %w", err)
	}

	var dal OrderDal
	err = r.client.Pool().QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.CustomerId,
		&dal.Status,
		&dal.BillingFirstName,
		&dal.BillingLastName,
		&dal.BillingEmail,
		&dal.BillingPhone,
		&dal.BillingAddress,
		&dal.ShippingAddress,
		&dal.SubtotalMinor,
		&dal.ShippingMinor,
		&dal.TaxMinor,
		&dal.DiscountMinor,
		&dal.GrandTotalFormatted,
		&dal.PaymentMethodTitle,
		&dal.TransactionId,
		&dal.CustomerNote,
		&dal.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	if dal.Id <= 0 {
		return nil, nil
	}

	snap := dal.ToModel()

	items, err := r.lineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	snap.LineItems = items

	return snap, nil
}

// lineItems loads the order's items in stored position order.
func (r *PostgresOrderRepository) lineItems(ctx context.Context, orderID int64) ([]order.LineItem, error) {
	query, args, err := sq.Select(
		"name",
		"sku",
		"quantity",
		"unit_price_minor",
		"line_total_minor",
		"meta",
	).
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("position ASC", "id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build line items query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	items := []order.LineItem{}
	for rows.Next() {
		var (
			item    order.LineItem
			rawMeta []byte
		)
		err := rows.Scan(
			&item.Name,
			&item.SKU,
			&item.Quantity,
			&item.UnitPriceMinor,
			&item.LineTotalMinor,
			&rawMeta,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}

		if len(rawMeta) > 0 {
			var metaDal []itemMetaDal
			if err := json.Unmarshal(rawMeta, &metaDal); err != nil {
				return nil, fmt.Errorf("failed to decode line item meta: %w", err)
			}
			for _, m := range metaDal {
				item.Meta = append(item.Meta, order.ItemMeta{
					DisplayKey:   m.DisplayKey,
					DisplayValue: m.DisplayValue,
				})
			}
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

// Query retrieves one admin list page plus the unpaged total.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Snapshot, int64, error) {
	conditions := sq.And{}
	if filter.Status != "" {
		conditions = append(conditions, sq.Eq{"status": filter.Status.String()})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"billing_first_name": pattern},
			sq.ILike{"billing_last_name": pattern},
			sq.ILike{"billing_email": pattern},
		})
	}

	countBuilder := sq.Select("count(*)").From("orders").PlaceholderFormat(sq.Dollar)
	pageBuilder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())).
		PlaceholderFormat(sq.Dollar)
	if len(conditions) > 0 {
		countBuilder = countBuilder.Where(conditions)
		pageBuilder = pageBuilder.Where(conditions)
	}

	query, args, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query, args, err = pageBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build page query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []order.Snapshot{}
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.CustomerId,
			&dal.Status,
			&dal.BillingFirstName,
			&dal.BillingLastName,
			&dal.BillingEmail,
			&dal.BillingPhone,
			&dal.BillingAddress,
			&dal.ShippingAddress,
			&dal.SubtotalMinor,
			&dal.ShippingMinor,
			&dal.TaxMinor,
			&dal.DiscountMinor,
			&dal.GrandTotalFormatted,
			&dal.PaymentMethodTitle,
			&dal.TransactionId,
			&dal.CustomerNote,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, total, nil
}
