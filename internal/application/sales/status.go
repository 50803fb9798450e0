package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

// StatusUseCase consulta si un evento ya fue confirmado (lo usa el dispositivo antes de reintentar).
type StatusUseCase struct {
	saleRepo repository.SaleRepository
}

func NewStatusUseCase(saleRepo repository.SaleRepository) *StatusUseCase {
	return &StatusUseCase{saleRepo: saleRepo}
}

// SyncStatus busca la venta por client_id.
//
// Retorna:
//   - domain.ErrInvalidInput si client_id viene vacío.
//   - domain.ErrNotFound     si no hay venta con ese client_id.
//   - domain.ErrForbidden    si la venta es de otra tienda y el actor es vendedor.
func (uc *StatusUseCase) SyncStatus(ctx context.Context, actor entity.Actor, clientID string) (*dto.SyncStatusResponse, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id requerido", domain.ErrInvalidInput)
	}
	sale, err := uc.saleRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("sync status: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanOperateShop(sale.ShopID) {
		return nil, domain.ErrForbidden
	}
	return &dto.SyncStatusResponse{
		SaleID:          sale.ID,
		ClientID:        sale.ClientID,
		ShopID:          sale.ShopID,
		ClientCreatedAt: sale.ClientCreatedAt,
		CreatedAt:       sale.CreatedAt,
		SyncedAt:        sale.SyncedAt,
		SyncedOffline:   sale.SyncedAt != nil,
	}, nil
}

// ToSaleResponse arma la respuesta de una venta confirmada o duplicada.
func ToSaleResponse(res *Result) dto.SaleResponse {
	s := res.Sale
	return dto.SaleResponse{
		ID:       s.ID,
		Status:   res.Status,
		ClientID: s.ClientID,
		ShopID:   s.ShopID,
		SellerID: s.SellerID,
		Date:     s.CreatedAt,
		Totals: dto.SaleTotalsResponse{
			Subtotal:      s.Subtotal,
			TaxTotal:      s.TaxTotal,
			DiscountTotal: s.DiscountTotal,
			GrandTotal:    s.GrandTotal,
		},
	}
}
