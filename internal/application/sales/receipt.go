package sales

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta confirmada.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, productRepo: productRepo, generator: generator}
}

// DownloadReceipt recupera la venta y sus líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la venta no existe.
//   - domain.ErrForbidden       si la venta es de otra tienda y el actor es vendedor.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, actor entity.Actor, saleID int64) ([]byte, string, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if !actor.CanOperateShop(sale.ShopID) {
		return nil, "", domain.ErrForbidden
	}

	items, err := uc.saleRepo.ListLineItems(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener líneas: %w", err)
	}

	names := make(map[int64]string)
	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		name, ok := names[it.ProductID]
		if !ok {
			name = "Producto " + strconv.FormatInt(it.ProductID, 10) // fallback
			// GetByID y no GetActive: el comprobante muestra productos aunque hoy estén inactivos.
			if p, pErr := uc.productRepo.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
				name = p.Name
			}
			names[it.ProductID] = name
		}
		lines = append(lines, ReceiptLine{Item: it, ProductName: name})
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, sale, lines)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%d.pdf", sale.ID), nil
}
