package sales

import (
	"context"

	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

// SaleTxRunner ejecuta fn dentro de una transacción con repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso (incluido panic).
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// IdempotencyCache atajo (opcional) para reenvíos de eventos ya confirmados.
// La fuente de verdad sigue siendo la restricción UNIQUE de sales.client_id.
type IdempotencyCache interface {
	// Get devuelve (nil, nil) si no hay entrada.
	Get(ctx context.Context, clientID string) (*entity.Sale, error)
	Put(ctx context.Context, sale *entity.Sale) error
}

// SaleConfirmer contrato del motor de confirmación que usa el coordinador de sincronización.
type SaleConfirmer interface {
	Confirm(ctx context.Context, actor entity.Actor, ev entity.SaleEvent) (*Result, error)
}

// ReceiptLine línea enriquecida con el nombre del producto para el comprobante.
type ReceiptLine struct {
	Item        *entity.SaleLineItem
	ProductName string
}

// ReceiptPDFGenerator genera el comprobante de venta en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, lines []ReceiptLine) ([]byte, error)
}
