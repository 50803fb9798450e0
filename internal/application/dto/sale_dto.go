package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SaleEventRequest evento de venta tal como lo envía el dispositivo (no confiable).
// Los ids y cantidades llegan como json.Number para poder rechazar decimales o textos en la validación.
type SaleEventRequest struct {
	ClientID        string            `json:"client_id"`
	ShopID          json.Number       `json:"shop_id"`
	ClientCreatedAt string            `json:"client_created_at"`
	Items           []SaleLineRequest `json:"items"`
}

// SaleLineRequest línea del evento. RequestedUnitPrice opcional (precio manual del vendedor).
type SaleLineRequest struct {
	ProductID          json.Number      `json:"product_id"`
	Quantity           json.Number      `json:"quantity"`
	RequestedUnitPrice *decimal.Decimal `json:"requested_unit_price,omitempty"`
}

// ConfirmSaleRequest body para POST /api/sales/shops/:shopId.
// ClientID opcional: si no viene el servidor genera uno.
type ConfirmSaleRequest struct {
	ClientID        string            `json:"client_id,omitempty"`
	ClientCreatedAt string            `json:"client_created_at,omitempty"`
	Items           []SaleLineRequest `json:"items"`
}

// SaleTotalsResponse totales de la venta.
type SaleTotalsResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// SaleResponse respuesta de la confirmación individual.
type SaleResponse struct {
	ID       int64              `json:"id"`
	Status   string             `json:"status"` // synced | duplicate
	ClientID string             `json:"client_id"`
	ShopID   int64              `json:"shop_id"`
	SellerID int64              `json:"seller_id"`
	Date     time.Time          `json:"date"`
	Totals   SaleTotalsResponse `json:"totals"`
}
