package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims del token de sesión de un vendedor o administrador.
type Claims struct {
	jwt.RegisteredClaims
	SellerID int64  `json:"seller_id"`
	ShopID   int64  `json:"shop_id,omitempty"` // 0 para admin
	Role     string `json:"role"`              // "admin" | "seller"
}

// Generate genera un token JWT firmado que incluye sellerID, shopID y role.
func Generate(secret string, sellerID, shopID int64, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(sellerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		SellerID: sellerID,
		ShopID:   shopID,
		Role:     role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ErrInvalidToken envuelve cualquier fallo de validación del token.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Parse valida firma HS256 y expiración y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SellerID <= 0 {
		return nil, fmt.Errorf("%w: seller_id ausente", ErrInvalidToken)
	}
	return &claims, nil
}
