package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de la venta.
const (
	PaymentStatusPaid = "paid"
)

// Estados por evento en el reporte de sincronización.
const (
	SyncStatusSynced    = "synced"
	SyncStatusDuplicate = "duplicate"
	SyncStatusError     = "error"
)

// Sale representa la cabecera de una venta confirmada. Se crea una sola vez por ClientID
// y nunca se modifica después de creada.
type Sale struct {
	ID              int64
	ShopID          int64
	SellerID        int64
	Subtotal        decimal.Decimal
	TaxTotal        decimal.Decimal
	DiscountTotal   decimal.Decimal
	GrandTotal      decimal.Decimal
	PaymentStatus   string
	ClientID        string // llave de idempotencia (UNIQUE en la tabla sales)
	ClientCreatedAt time.Time
	CreatedAt       time.Time
	SyncedAt        *time.Time // solo para ventas que llegaron por sincronización offline
}

// SaleEvent es el evento de venta enviado por un dispositivo, ya validado en la frontera HTTP.
type SaleEvent struct {
	ClientID        string
	ShopID          int64
	ClientCreatedAt time.Time
	Lines           []LineRequest
	Offline         bool // true si llega por el endpoint de sincronización por lotes
}

// LineRequest una línea solicitada. RequestedUnitPrice nil = usar precio de catálogo.
type LineRequest struct {
	ProductID          int64
	Quantity           int64
	RequestedUnitPrice *decimal.Decimal
}
