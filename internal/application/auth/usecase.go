package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
	"github.com/jhoicas/ventas-sync-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de vendedores y administradores del punto de venta.
type AuthUseCase struct {
	sellerRepo repository.SellerRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(sellerRepo repository.SellerRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{sellerRepo: sellerRepo, jwtCfg: jwtCfg}
}

// Login verifica usuario/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto responden igual (ErrUnauthorized).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	seller, err := uc.sellerRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !seller.Active {
		return nil, domain.ErrForbidden
	}
	// Un vendedor sin tienda no podría operar ninguna; se trata como cuenta mal configurada.
	if seller.Role == entity.RoleSeller && seller.ShopID == 0 {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, seller.ID, seller.ShopID, seller.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:  token,
		Seller: toSellerResponse(seller),
	}, nil
}

func toSellerResponse(s *entity.Seller) dto.SellerResponse {
	return dto.SellerResponse{
		ID:       s.ID,
		ShopID:   s.ShopID,
		Username: s.Username,
		Name:     s.Name,
		Role:     s.Role,
	}
}
