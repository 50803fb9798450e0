package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

var _ repository.SellerRepository = (*SellerRepo)(nil)

// SellerRepo usuarios del punto de venta.
type SellerRepo struct {
	q Querier
}

func NewSellerRepository(q Querier) *SellerRepo {
	return &SellerRepo{q: q}
}

// FindByUsername (nil, nil) si no existe.
func (r *SellerRepo) FindByUsername(ctx context.Context, username string) (*entity.Seller, error) {
	query := `
		SELECT id, COALESCE(shop_id, 0), username, name, password_hash, role, active, created_at
		FROM sellers WHERE username = $1`
	var s entity.Seller
	err := r.q.QueryRow(ctx, query, username).Scan(
		&s.ID, &s.ShopID, &s.Username, &s.Name, &s.PasswordHash, &s.Role, &s.Active, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("find seller", err)
	}
	return &s, nil
}
