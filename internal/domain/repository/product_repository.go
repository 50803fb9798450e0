package repository

import (
	"context"

	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

// ProductRepository catálogo de productos (precios, impuesto, estado) y almacén central.
type ProductRepository interface {
	// GetActive devuelve el producto solo si está activo; (nil, nil) si no existe o está inactivo.
	GetActive(ctx context.Context, id int64) (*entity.Product, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)

	// LockForTransfer bloquea la fila del producto (FOR UPDATE) para descontar del almacén central.
	// Devuelve domain.ErrProductNotFound si no existe.
	LockForTransfer(ctx context.Context, id int64) (*entity.Product, error)
	// DecrementTotalStock nunca deja total_stock negativo (domain.ErrInsufficientStoreStock).
	DecrementTotalStock(ctx context.Context, id, quantity int64) error
}
