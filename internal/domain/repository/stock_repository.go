package repository

import (
	"context"

	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

// StockRepository define el puerto para las filas de stock por (tienda, producto).
// LockStock y las mutaciones solo son válidas sobre un repositorio atado a una transacción.
type StockRepository interface {
	// Get lectura sin bloqueo; (nil, nil) si no existe la fila.
	Get(ctx context.Context, shopID, productID int64) (*entity.StockRow, error)

	// LockStock lee la fila con bloqueo exclusivo (SELECT ... FOR UPDATE) hasta el fin de la tx.
	// Devuelve domain.ErrStockNotFound si no existe.
	LockStock(ctx context.Context, shopID, productID int64) (*entity.StockRow, error)

	// DecrementStock resta quantity de on_hand; nunca deja on_hand negativo (domain.ErrInsufficientStock).
	DecrementStock(ctx context.Context, shopID, productID, quantity int64) error
	IncrementSoldCount(ctx context.Context, shopID, productID, quantity int64) error

	// IncrementOnHand suma stock (transferencia); crea la fila si no existe.
	IncrementOnHand(ctx context.Context, shopID, productID, quantity int64) (*entity.StockRow, error)
}
