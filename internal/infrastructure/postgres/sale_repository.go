package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, shop_id, seller_id, subtotal, tax_total, discount_total, grand_total,
	payment_status, client_id, client_created_at, created_at, synced_at`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.ShopID, &s.SellerID, &s.Subtotal, &s.TaxTotal, &s.DiscountTotal, &s.GrandTotal,
		&s.PaymentStatus, &s.ClientID, &s.ClientCreatedAt, &s.CreatedAt, &s.SyncedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByClientID busca por la llave de idempotencia.
func (r *SaleRepo) FindByClientID(ctx context.Context, clientID string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE client_id = $1`, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("find sale by client_id", err)
	}
	return s, nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}
	return s, nil
}

// Create inserta la cabecera y asigna el ID generado.
// La violación de sales_client_id_key se devuelve como domain.ErrDuplicate; la tx queda abortada.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (shop_id, seller_id, subtotal, tax_total, discount_total, grand_total,
			payment_status, client_id, client_created_at, created_at, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		sale.ShopID, sale.SellerID, sale.Subtotal, sale.TaxTotal, sale.DiscountTotal, sale.GrandTotal,
		sale.PaymentStatus, sale.ClientID, sale.ClientCreatedAt, sale.CreatedAt, sale.SyncedAt,
	).Scan(&sale.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert sale", err)
	}
	return nil
}

// CreateLineItems inserta las líneas en un solo batch.
func (r *SaleRepo) CreateLineItems(ctx context.Context, saleID int64, items []*entity.SaleLineItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, discount_amount, tax_amount, line_total, profit_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	b := &pgx.Batch{}
	for _, it := range items {
		it.SaleID = saleID
		b.Queue(query,
			saleID, it.ProductID, it.Quantity, it.UnitPrice, it.DiscountAmount, it.TaxAmount, it.LineTotal, it.ProfitAmount,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&it.ID)
		})
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		return wrapErr("insert sale items", err)
	}
	return nil
}

// ListLineItems devuelve las líneas de una venta en orden de inserción.
func (r *SaleRepo) ListLineItems(ctx context.Context, saleID int64) ([]*entity.SaleLineItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, discount_amount, tax_amount, line_total, profit_amount
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, wrapErr("list sale items", err)
	}
	defer rows.Close()

	var list []*entity.SaleLineItem
	for rows.Next() {
		var it entity.SaleLineItem
		if err := rows.Scan(
			&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.DiscountAmount, &it.TaxAmount, &it.LineTotal, &it.ProfitAmount,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
