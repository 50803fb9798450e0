package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ventas-sync-api/internal/application/auth"
	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/ventas-sync-api/pkg/jwt"
)

type fakeSellerRepo struct {
	sellers map[string]*entity.Seller
	err     error
}

func (r *fakeSellerRepo) FindByUsername(_ context.Context, username string) (*entity.Seller, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sellers[username], nil
}

func newRepo(t *testing.T) *fakeSellerRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeSellerRepo{sellers: map[string]*entity.Seller{
		"ana":    {ID: 7, ShopID: 3, Username: "ana", Name: "Ana", PasswordHash: string(hash), Role: entity.RoleSeller, Active: true},
		"root":   {ID: 1, Username: "root", Name: "Admin", PasswordHash: string(hash), Role: entity.RoleAdmin, Active: true},
		"baja":   {ID: 9, ShopID: 3, Username: "baja", PasswordHash: string(hash), Role: entity.RoleSeller, Active: false},
		"suelto": {ID: 10, Username: "suelto", PasswordHash: string(hash), Role: entity.RoleSeller, Active: true},
	}}
}

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 10, Issuer: "ventas-sync-test"}

func TestLogin_VendedorRecibeTokenConTienda(t *testing.T) {
	uc := auth.NewAuthUseCase(newRepo(t), jwtCfg)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.Seller.ID)

	claims, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.SellerID)
	assert.Equal(t, int64(3), claims.ShopID)
	assert.Equal(t, entity.RoleSeller, claims.Role)
}

func TestLogin_AdminSinTienda(t *testing.T) {
	uc := auth.NewAuthUseCase(newRepo(t), jwtCfg)
	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "root", Password: "clave-segura"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(0), claims.ShopID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := auth.NewAuthUseCase(newRepo(t), jwtCfg)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "otra"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "clave-segura"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_CuentaInactivaOSinTienda(t *testing.T) {
	uc := auth.NewAuthUseCase(newRepo(t), jwtCfg)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "baja", Password: "clave-segura"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "suelto", Password: "clave-segura"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestLogin_ErrorDeRepositorio(t *testing.T) {
	repo := newRepo(t)
	repo.err = errors.New("db caída")
	uc := auth.NewAuthUseCase(repo, jwtCfg)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "clave-segura"})
	assert.EqualError(t, err, "db caída")
}
