package sales

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CatalogPrice datos autoritativos del catálogo para valorizar una línea.
type CatalogPrice struct {
	SellPrice decimal.Decimal
	CostPrice decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje
}

// LinePricing resultado de valorizar una línea.
type LinePricing struct {
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Discount  decimal.Decimal
	Profit    decimal.Decimal
	LineTotal decimal.Decimal
}

// PriceLine calcula una línea (servicio de dominio).
//
//	precio     = requested si viene y es >= 0, si no catalog.SellPrice
//	subtotal   = precio * cantidad
//	impuesto   = tasa/100 * subtotal
//	descuento  = max(0, catalog.SellPrice - precio) * cantidad
//	utilidad   = (precio - costo) * cantidad
//	total      = subtotal + impuesto
func PriceLine(catalog CatalogPrice, quantity int64, requested *decimal.Decimal) LinePricing {
	price := catalog.SellPrice
	if requested != nil && !requested.IsNegative() {
		price = *requested
	}
	qty := decimal.NewFromInt(quantity)
	subtotal := price.Mul(qty)
	tax := catalog.TaxRate.Div(hundred).Mul(subtotal)
	discount := decimal.Max(decimal.Zero, catalog.SellPrice.Sub(price)).Mul(qty)
	return LinePricing{
		UnitPrice: price,
		Subtotal:  subtotal,
		Tax:       tax,
		Discount:  discount,
		Profit:    price.Sub(catalog.CostPrice).Mul(qty),
		LineTotal: subtotal.Add(tax),
	}
}

// Totals acumulados de la venta.
type Totals struct {
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
}

// Add acumula una línea.
func (t *Totals) Add(l LinePricing) {
	t.Subtotal = t.Subtotal.Add(l.Subtotal)
	t.TaxTotal = t.TaxTotal.Add(l.Tax)
	t.DiscountTotal = t.DiscountTotal.Add(l.Discount)
}

// GrandTotal = subtotal + impuestos - descuentos.
func (t Totals) GrandTotal() decimal.Decimal {
	return t.Subtotal.Add(t.TaxTotal).Sub(t.DiscountTotal)
}
