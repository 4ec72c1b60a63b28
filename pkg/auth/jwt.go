package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shashiranjanraj/brewandco/config"
	"golang.org/x/crypto/bcrypt"
)

// Identity kinds. A token is minted for exactly one of them.
const (
	KindCustomer = "customer"
	KindAdmin    = "admin"
)

// Persisted roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// Claims holds the typed JWT payload. Role is copied from the persisted
// role column at login time and is the only input to authorization.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// IsCustomer reports whether the token was minted for a customer account.
func (c *Claims) IsCustomer() bool { return c.Kind == KindCustomer }

func secret() []byte {
	return []byte(config.JWTSecret())
}

func ttl(kind string) time.Duration {
	if kind == KindAdmin {
		return config.AdminTokenTTL()
	}
	return config.CustomerTokenTTL()
}

// GenerateToken signs c with HS256. Expiry depends on c.Kind.
func GenerateToken(c Claims) (string, error) {
	if c.Kind != KindCustomer && c.Kind != KindAdmin {
		return "", fmt.Errorf("auth: unknown token kind %q", c.Kind)
	}

	now := time.Now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(c.UserID), 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl(c.Kind))),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret())
}

// ValidateToken parses and validates a JWT string. Any failure (bad
// signature, expiry, unexpected algorithm) wraps ErrInvalidToken.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != KindCustomer && claims.Kind != KindAdmin {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidToken, claims.Kind)
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password using
// BCRYPT_COST.
func HashPassword(plain string) (string, error) {
	cost := config.BcryptCost()
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
