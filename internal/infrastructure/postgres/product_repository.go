package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, unit, sell_price, cost_price, tax_rate, total_stock, active, created_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Unit, &p.SellPrice, &p.CostPrice, &p.TaxRate, &p.TotalStock, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActive obtiene un producto activo; (nil, nil) si no existe o está inactivo.
func (r *ProductRepo) GetActive(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND active`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get active product", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID, activo o no.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return p, nil
}

// LockForTransfer bloquea la fila del producto (SELECT FOR UPDATE).
func (r *ProductRepo) LockForTransfer(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, wrapErr("lock product", err)
	}
	return p, nil
}

// DecrementTotalStock descuenta del almacén central solo si alcanza.
func (r *ProductRepo) DecrementTotalStock(ctx context.Context, id, quantity int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET total_stock = total_stock - $2 WHERE id = $1 AND total_stock >= $2`, id, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStoreStock
		}
		return wrapErr("decrement total_stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStoreStock
	}
	return nil
}
