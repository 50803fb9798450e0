package repository

import (
	"context"

	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

// SellerRepository puerto de lectura de usuarios del punto de venta (login).
type SellerRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.Seller, error)
}
