package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventas-sync-api/internal/application/sales"
	"github.com/jhoicas/ventas-sync-api/internal/application/stock"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

var (
	_ sales.SaleTxRunner = (*TxRunner)(nil)
	_ stock.TxRunner     = (*TxRunner)(nil)
)

// TxOptions límites que se aplican con SET LOCAL al inicio de cada transacción.
type TxOptions struct {
	LockTimeout      time.Duration
	StatementTimeout time.Duration
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions) *TxRunner {
	return &TxRunner{pool: pool, opts: opts}
}

// RunSale inicia una transacción con repos de ventas, stock y catálogo (confirmación de venta).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewSaleRepository(tx), NewStockRepository(tx), NewProductRepository(tx))
	})
}

// RunStock inicia una transacción con repos de stock y catálogo (transferencias).
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewStockRepository(tx), NewProductRepository(tx))
	})
}

// run hace Commit si fn devuelve nil y Rollback en cualquier otro caso.
// Si no se puede abrir la transacción devuelve domain.ErrStoreUnavailable.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.applyLimits(ctx, tx); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

func (r *TxRunner) applyLimits(ctx context.Context, tx pgx.Tx) error {
	if ms := r.opts.LockTimeout.Milliseconds(); ms > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)); err != nil {
			return wrapErr("set lock_timeout", err)
		}
	}
	if ms := r.opts.StatementTimeout.Milliseconds(); ms > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", ms)); err != nil {
			return wrapErr("set statement_timeout", err)
		}
	}
	return nil
}
