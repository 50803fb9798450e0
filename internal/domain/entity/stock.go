package entity

import "time"

// StockRow contadores por (tienda, producto). OnHand nunca es negativo.
type StockRow struct {
	ShopID    int64
	ProductID int64
	OnHand    int64
	SoldCount int64
	UpdatedAt time.Time
}
