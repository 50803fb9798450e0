package dto

import (
	"encoding/json"
	"time"
)

// SyncRequest body para POST /api/sync/offline-sales.
// Cada evento se decodifica por separado para que un evento mal formado no invalide el lote.
type SyncRequest struct {
	Sales []json.RawMessage `json:"sales"`
}

// SyncResult resultado por evento, en el mismo orden del lote.
type SyncResult struct {
	ClientID  string `json:"client_id"`
	Status    string `json:"status"` // synced | duplicate | error
	SaleID    int64  `json:"sale_id,omitempty"`
	Code      string `json:"code,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
	Available *int64 `json:"available,omitempty"`
	Requested int64  `json:"requested,omitempty"`
}

// SyncResponse reporte del lote.
type SyncResponse struct {
	BatchID string       `json:"batch_id"`
	Results []SyncResult `json:"results"`
}

// SyncStatusResponse respuesta de GET /api/sync/status.
type SyncStatusResponse struct {
	SaleID          int64      `json:"sale_id"`
	ClientID        string     `json:"client_id"`
	ShopID          int64      `json:"shop_id"`
	ClientCreatedAt time.Time  `json:"client_created_at"`
	CreatedAt       time.Time  `json:"created_at"`
	SyncedAt        *time.Time `json:"synced_at,omitempty"`
	SyncedOffline   bool       `json:"synced_from_offline"`
}
