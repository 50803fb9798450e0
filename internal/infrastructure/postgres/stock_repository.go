package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.StockRow, error) {
	var s entity.StockRow
	if err := row.Scan(&s.ShopID, &s.ProductID, &s.OnHand, &s.SoldCount, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get lectura sin bloqueo.
func (r *StockRepo) Get(ctx context.Context, shopID, productID int64) (*entity.StockRow, error) {
	query := `
		SELECT shop_id, product_id, on_hand, sold_count, updated_at
		FROM stock WHERE shop_id = $1 AND product_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, shopID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock", err)
	}
	return s, nil
}

// LockStock obtiene el stock y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
// La espera está acotada por el lock_timeout de la transacción.
func (r *StockRepo) LockStock(ctx context.Context, shopID, productID int64) (*entity.StockRow, error) {
	query := `
		SELECT shop_id, product_id, on_hand, sold_count, updated_at
		FROM stock WHERE shop_id = $1 AND product_id = $2
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, shopID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStockNotFound
		}
		return nil, wrapErr("lock stock", err)
	}
	return s, nil
}

// DecrementStock resta de on_hand solo si alcanza (además del CHECK on_hand >= 0).
func (r *StockRepo) DecrementStock(ctx context.Context, shopID, productID, quantity int64) error {
	query := `
		UPDATE stock SET on_hand = on_hand - $3, updated_at = now()
		WHERE shop_id = $1 AND product_id = $2 AND on_hand >= $3`
	tag, err := r.q.Exec(ctx, query, shopID, productID, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return wrapErr("decrement stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// IncrementSoldCount suma al contador de vendidos.
func (r *StockRepo) IncrementSoldCount(ctx context.Context, shopID, productID, quantity int64) error {
	query := `
		UPDATE stock SET sold_count = sold_count + $3, updated_at = now()
		WHERE shop_id = $1 AND product_id = $2`
	tag, err := r.q.Exec(ctx, query, shopID, productID, quantity)
	if err != nil {
		return wrapErr("increment sold_count", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStockNotFound
	}
	return nil
}

// IncrementOnHand suma a on_hand creando la fila si no existe (el upsert bloquea la fila).
func (r *StockRepo) IncrementOnHand(ctx context.Context, shopID, productID, quantity int64) (*entity.StockRow, error) {
	query := `
		INSERT INTO stock (shop_id, product_id, on_hand, sold_count, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (shop_id, product_id)
		DO UPDATE SET on_hand = stock.on_hand + EXCLUDED.on_hand, updated_at = now()
		RETURNING shop_id, product_id, on_hand, sold_count, updated_at`
	s, err := scanStock(r.q.QueryRow(ctx, query, shopID, productID, quantity))
	if err != nil {
		return nil, wrapErr("increment on_hand", err)
	}
	return s, nil
}
