package entity

import "github.com/shopspring/decimal"

// SaleLineItem línea de detalle de una venta. Pertenece a una sola Sale (ON DELETE CASCADE).
type SaleLineItem struct {
	ID             int64
	SaleID         int64
	ProductID      int64
	Quantity       int64
	UnitPrice      decimal.Decimal // precio efectivamente cobrado
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	LineTotal      decimal.Decimal // subtotal + impuesto
	ProfitAmount   decimal.Decimal
}
