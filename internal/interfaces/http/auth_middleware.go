package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalSellerID = "seller_id"
	LocalShopID   = "shop_id"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae SellerID, ShopID y Role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSellerID, claims.SellerID)
		c.Locals(LocalShopID, claims.ShopID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// GetSellerID devuelve el SellerID del contexto (después del middleware de auth).
func GetSellerID(c *fiber.Ctx) int64 {
	v, _ := c.Locals(LocalSellerID).(int64)
	return v
}

// GetShopID devuelve la tienda del token; 0 para administradores.
func GetShopID(c *fiber.Ctx) int64 {
	v, _ := c.Locals(LocalShopID).(int64)
	return v
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalRole).(string)
	return v
}

// GetActor arma la identidad que reciben los casos de uso.
func GetActor(c *fiber.Ctx) entity.Actor {
	return entity.Actor{
		SellerID: GetSellerID(c),
		ShopID:   GetShopID(c),
		Role:     GetRole(c),
	}
}
