package dto

// ErrorResponse cuerpo de error HTTP. Los campos de producto solo vienen en errores de stock/catálogo.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID int64  `json:"product_id,omitempty"`
	Available *int64 `json:"available,omitempty"`
	Requested int64  `json:"requested,omitempty"`
}
