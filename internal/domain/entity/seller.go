package entity

import "time"

// Roles válidos.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// Seller usuario que opera el punto de venta. Los vendedores están ligados a una tienda;
// los administradores no (ShopID = 0).
type Seller struct {
	ID           int64
	ShopID       int64
	Username     string
	Name         string
	PasswordHash string // bcrypt
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// Actor identidad autenticada que ejecuta una operación (extraída del JWT).
type Actor struct {
	SellerID int64
	ShopID   int64
	Role     string
}

// CanOperateShop indica si el actor puede registrar ventas o mover stock en la tienda.
func (a Actor) CanOperateShop(shopID int64) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleSeller:
		return a.ShopID != 0 && a.ShopID == shopID
	}
	return false
}
