package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SellerResponse usuario autenticado (sin hash).
type SellerResponse struct {
	ID       int64  `json:"id"`
	ShopID   int64  `json:"shop_id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginResponse token + usuario.
type LoginResponse struct {
	Token  string         `json:"token"`
	Seller SellerResponse `json:"seller"`
}
