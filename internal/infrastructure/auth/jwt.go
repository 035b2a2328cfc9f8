// Package auth is the adapter for the identity collaborator.
//
// The core trusts a pre-validated store ID plus a "caller owns this
// store" check; this package supplies both from a signed access token
// and the store registry records. Token issuance and password hashing
// live here too, kept out of the domain and application layers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/storepos/backend/internal/domain/shared"
	"github.com/storepos/backend/internal/domain/store"
	"github.com/storepos/backend/internal/infrastructure/config"
)

// Claims are the access-token claims carried by every request
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access tokens
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a token service from JWT configuration
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenExpiration,
	}
}

// Issue creates a signed access token for a user
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a signed token and returns the authenticated user ID
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return userID, nil
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password against its bcrypt hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// OwnershipVerifier is the narrow interface the core consumes: given
// an authenticated user and a store, does the user own it?
type OwnershipVerifier interface {
	VerifyOwnership(ctx context.Context, userID uuid.UUID, storeID uint64) error
}

// StoreOwnershipVerifier checks ownership against the registry records
type StoreOwnershipVerifier struct {
	stores store.Repository
}

// NewStoreOwnershipVerifier creates an ownership verifier over the
// store repository
func NewStoreOwnershipVerifier(stores store.Repository) *StoreOwnershipVerifier {
	return &StoreOwnershipVerifier{stores: stores}
}

// VerifyOwnership returns nil when the user owns the store,
// shared.ErrStoreNotFound when the store does not exist and
// shared.ErrForbidden otherwise.
func (v *StoreOwnershipVerifier) VerifyOwnership(ctx context.Context, userID uuid.UUID, storeID uint64) error {
	s, err := v.stores.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	if s.OwnerID != userID {
		return shared.ErrForbidden
	}
	return nil
}

// Ensure StoreOwnershipVerifier implements OwnershipVerifier
var _ OwnershipVerifier = (*StoreOwnershipVerifier)(nil)
