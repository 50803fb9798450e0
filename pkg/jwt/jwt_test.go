package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/ventas-sync-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", 7, 3, "seller", "ventas-sync-test", 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.SellerID)
	assert.Equal(t, int64(3), claims.ShopID)
	assert.Equal(t, "seller", claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "ventas-sync-test", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", 7, 3, "seller", "x", 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otro", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_SinSellerID(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", 0, 3, "seller", "x", 5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("s3cret", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", 7, 3, "seller", "x", -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", 1, 0, "admin", "x", 5)
	assert.Error(t, err)
	_, err = pkgjwt.Parse("", "abc")
	assert.Error(t, err)
}
