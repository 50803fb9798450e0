package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/sales"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var catalog = sales.CatalogPrice{SellPrice: dec(1000), CostPrice: dec(600), TaxRate: dec(10)}

// Precio de catálogo: 3 x 1000 con 10% de IVA.
func TestPriceLine_PrecioCatalogo(t *testing.T) {
	l := sales.PriceLine(catalog, 3, nil)

	assert.True(t, l.UnitPrice.Equal(dec(1000)))
	assert.True(t, l.Subtotal.Equal(dec(3000)), "subtotal=%s", l.Subtotal)
	assert.True(t, l.Tax.Equal(dec(300)), "tax=%s", l.Tax)
	assert.True(t, l.Discount.IsZero())
	assert.True(t, l.Profit.Equal(dec(1200)), "profit=%s", l.Profit)
	assert.True(t, l.LineTotal.Equal(dec(3300)))

	var tot sales.Totals
	tot.Add(l)
	assert.True(t, tot.GrandTotal().Equal(dec(3300)))
}

// Precio manual menor al de catálogo: la diferencia se registra como descuento.
func TestPriceLine_PrecioManualRegistraDescuento(t *testing.T) {
	price := dec(800)
	l := sales.PriceLine(catalog, 2, &price)

	assert.True(t, l.Subtotal.Equal(dec(1600)))
	assert.True(t, l.Tax.Equal(dec(160)))
	assert.True(t, l.Discount.Equal(dec(400)))
	assert.True(t, l.Profit.Equal(dec(400)))

	var tot sales.Totals
	tot.Add(l)
	assert.True(t, tot.GrandTotal().Equal(dec(1360)), "grand=%s", tot.GrandTotal())
}

// Precio manual mayor al de catálogo: nunca hay descuento negativo.
func TestPriceLine_PrecioManualMayorSinDescuento(t *testing.T) {
	price := dec(1200)
	l := sales.PriceLine(catalog, 1, &price)

	assert.True(t, l.Discount.IsZero())
	assert.True(t, l.Profit.Equal(dec(600)))
}

func TestPriceLine_PrecioNegativoUsaCatalogo(t *testing.T) {
	price := dec(-5)
	l := sales.PriceLine(catalog, 1, &price)
	assert.True(t, l.UnitPrice.Equal(dec(1000)))
}

// Impuestos fraccionarios se acumulan sin deriva de punto flotante.
func TestTotals_SinDerivaDecimal(t *testing.T) {
	c := sales.CatalogPrice{SellPrice: decimal.RequireFromString("0.10"), TaxRate: decimal.RequireFromString("7.5")}
	var tot sales.Totals
	for i := 0; i < 1000; i++ {
		tot.Add(sales.PriceLine(c, 1, nil))
	}
	assert.Equal(t, "100", tot.Subtotal.String())
	assert.Equal(t, "7.5", tot.TaxTotal.String())
}

func TestAggregateQuantities_SumaYOrdena(t *testing.T) {
	totals, ids := sales.AggregateQuantities([]entity.LineRequest{
		{ProductID: 9, Quantity: 1},
		{ProductID: 2, Quantity: 3},
		{ProductID: 9, Quantity: 4},
	})

	assert.Equal(t, []int64{2, 9}, ids)
	assert.Equal(t, int64(3), totals[2])
	assert.Equal(t, int64(5), totals[9])
}
