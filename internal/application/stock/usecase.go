package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
	"github.com/jhoicas/ventas-sync-api/pkg/logger"
)

// MaxTransferQuantity tope por transferencia.
const MaxTransferQuantity = 1_000_000

// StockUseCase lectura de stock por tienda y transferencia desde el almacén central.
type StockUseCase struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	log       *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, stockRepo repository.StockRepository, log *logger.Logger) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, stockRepo: stockRepo, log: log}
}

// GetStock devuelve on_hand y sold_count de (tienda, producto).
// domain.ErrForbidden si el vendedor no es de la tienda; domain.ErrStockNotFound si no hay fila.
func (uc *StockUseCase) GetStock(ctx context.Context, actor entity.Actor, shopID, productID int64) (*dto.StockResponse, error) {
	if shopID <= 0 || productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if !actor.CanOperateShop(shopID) {
		return nil, domain.ErrForbidden
	}
	row, err := uc.stockRepo.Get(ctx, shopID, productID)
	if err != nil {
		return nil, fmt.Errorf("stock: leer fila: %w", err)
	}
	if row == nil {
		return nil, domain.ErrStockNotFound
	}
	return toStockResponse(row), nil
}

// TransferStock mueve quantity unidades del almacén central (products.total_stock) a la tienda.
// En una sola transacción: bloquea el producto, verifica y descuenta el almacén, y suma a la fila
// de stock de la tienda (creándola si no existe). Compite por la misma fila que las ventas.
//
// Retorna:
//   - domain.ErrInvalidInput           cantidad fuera de rango.
//   - domain.ErrForbidden              vendedor de otra tienda.
//   - domain.ErrProductNotFound        producto inexistente o inactivo.
//   - domain.ErrInsufficientStoreStock el almacén central no alcanza.
func (uc *StockUseCase) TransferStock(ctx context.Context, actor entity.Actor, shopID, productID, quantity int64) (*dto.StockResponse, error) {
	if shopID <= 0 || productID <= 0 || quantity <= 0 || quantity > MaxTransferQuantity {
		return nil, domain.ErrInvalidInput
	}
	if !actor.CanOperateShop(shopID) {
		return nil, domain.ErrForbidden
	}

	var out *entity.StockRow
	err := uc.txRunner.RunStock(ctx, func(
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.LockForTransfer(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil || !product.Active {
			return domain.ErrProductNotFound
		}
		if product.TotalStock < quantity {
			return fmt.Errorf("%w: disponible=%d solicitado=%d", domain.ErrInsufficientStoreStock, product.TotalStock, quantity)
		}
		if err := productRepo.DecrementTotalStock(ctx, productID, quantity); err != nil {
			return err
		}
		out, err = stockRepo.IncrementOnHand(ctx, shopID, productID, quantity)
		return err
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInsufficientStoreStock) && !errors.Is(err, domain.ErrProductNotFound) {
			uc.log.WithContext(ctx).Error().Err(err).Int64("shop_id", shopID).Int64("product_id", productID).Msg("transferencia de stock fallida")
		}
		return nil, err
	}

	uc.log.WithContext(ctx).Info().
		Int64("shop_id", shopID).
		Int64("product_id", productID).
		Int64("quantity", quantity).
		Int64("seller_id", actor.SellerID).
		Int64("on_hand", out.OnHand).
		Msg("stock transferido a tienda")
	return toStockResponse(out), nil
}

func toStockResponse(row *entity.StockRow) *dto.StockResponse {
	return &dto.StockResponse{
		ShopID:    row.ShopID,
		ProductID: row.ProductID,
		OnHand:    row.OnHand,
		SoldCount: row.SoldCount,
	}
}
