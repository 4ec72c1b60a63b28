package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := auth.GenerateToken(auth.Claims{
		UserID:   7,
		Username: "alice",
		Email:    "alice@x.com",
		Role:     auth.RoleCustomer,
		Kind:     auth.KindCustomer,
	})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.True(t, claims.IsCustomer())
	assert.False(t, claims.IsAdmin())

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, config.CustomerTokenTTL(), ttl)
}

func TestAdminTokenUsesAdminTTL(t *testing.T) {
	token, err := auth.GenerateToken(auth.Claims{UserID: 1, Username: "root", Role: auth.RoleAdmin, Kind: auth.KindAdmin})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, config.AdminTokenTTL(), claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestUnknownKindRejected(t *testing.T) {
	_, err := auth.GenerateToken(auth.Claims{UserID: 1, Kind: "robot"})
	assert.Error(t, err)
}

func TestValidateRejectsTampering(t *testing.T) {
	token, err := auth.GenerateToken(auth.Claims{UserID: 1, Role: auth.RoleCustomer, Kind: auth.KindCustomer})
	require.NoError(t, err)

	_, err = auth.ValidateToken(token + "x")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	claims := auth.Claims{
		UserID: 1,
		Role:   auth.RoleCustomer,
		Kind:   auth.KindCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.JWTSecret()))
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateRejectsOtherAlgorithm(t *testing.T) {
	claims := auth.Claims{UserID: 1, Role: auth.RoleAdmin, Kind: auth.KindAdmin}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(config.JWTSecret()))
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	config.Set("BCRYPT_COST", "4")

	hash, err := auth.HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)
	assert.True(t, auth.CheckPassword(hash, "pw123"))
	assert.False(t, auth.CheckPassword(hash, "wrongpw"))
}
