package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/advncdblog/backend/internal/models"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var (
	// ErrInvalidToken covers bad signatures, expiry and superseded refresh
	// tokens alike, so callers can't distinguish why a token was rejected.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound means the token verified but its subject no longer
	// resolves to a stored user.
	ErrUserNotFound = errors.New("user not found")
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type accessClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the access/refresh token pair. Both tokens
// share one HS256 secret; the refresh token additionally has to match the
// value stored on the user row, which a newer login overwrites. Access tokens
// are not revocation-checked against that stored value, so they stay valid
// until their own 15-minute expiry.
type TokenService struct {
	db     *gorm.DB
	secret []byte
}

func NewTokenService(db *gorm.DB, secret []byte) *TokenService {
	return &TokenService{db: db, secret: secret}
}

// Issue signs a short-lived access token carrying {identity, role} and a
// long-lived refresh token carrying {identity}, then persists the refresh
// token onto the user row, replacing any prior value.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := time.Now()
	sub := strconv.Itoa(user.ID)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	})
	accessToken, err := access.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(refreshTokenTTL)),
	})
	refreshToken, err := refresh.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("refresh_token", refreshToken).Error; err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	user.RefreshToken = refreshToken

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Verify checks signature and expiry, then resolves the embedded identity to
// the stored user. The returned user never serializes its password or
// refresh token.
func (s *TokenService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	return &user, nil
}

// Refresh exchanges a refresh token for a fresh pair. The presented token
// must equal the one stored on the account, so a login elsewhere invalidates
// it even before its 7-day expiry.
func (s *TokenService) Refresh(ctx context.Context, token string) (*TokenPair, error) {
	user, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if user.RefreshToken != token {
		return nil, ErrInvalidToken
	}

	return s.Issue(ctx, user)
}
