package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product entrada del catálogo. Para este núcleo es de solo lectura salvo TotalStock,
// el almacén central desde donde se transfiere stock a las tiendas.
type Product struct {
	ID         int64
	Name       string
	Unit       string
	SellPrice  decimal.Decimal
	CostPrice  decimal.Decimal
	TaxRate    decimal.Decimal // porcentaje: 10 = 10%
	TotalStock int64
	Active     bool
	CreatedAt  time.Time
}
