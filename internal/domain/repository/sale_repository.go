package repository

import (
	"context"

	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// Las ventas son append-only: no hay Update ni Delete.
type SaleRepository interface {
	// FindByClientID devuelve la venta con esa llave de idempotencia o (nil, nil) si no existe.
	FindByClientID(ctx context.Context, clientID string) (*entity.Sale, error)
	// GetByID (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)

	// Create inserta la cabecera y asigna sale.ID. Si client_id ya existe devuelve domain.ErrDuplicate
	// (la restricción UNIQUE es la fuente de verdad de la idempotencia).
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLineItems(ctx context.Context, saleID int64, items []*entity.SaleLineItem) error
	ListLineItems(ctx context.Context, saleID int64) ([]*entity.SaleLineItem, error)
}
