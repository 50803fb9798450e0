package dto

// StockResponse contadores de una fila de stock.
type StockResponse struct {
	ShopID    int64 `json:"shop_id"`
	ProductID int64 `json:"product_id"`
	OnHand    int64 `json:"on_hand"`
	SoldCount int64 `json:"sold_count"`
}

// TransferStockRequest body para POST /api/stock/shops/:shopId/products/:productId/add.
type TransferStockRequest struct {
	Quantity int64 `json:"quantity"`
}
