package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"visitordesk/config"
)

var (
	// ErrTokenExpired means the signature checked out but the lifetime elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other verification failure: tampered
	// payload, wrong secret, malformed structure.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the identity payload shared by both token classes.
type Claims struct {
	UserID uint64 `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the two token classes. Access and refresh
// tokens use distinct secrets so one can never stand in for the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     time.Duration(cfg.AccessExpire) * time.Second,
		refreshTTL:    time.Duration(cfg.RefreshExpire) * time.Second,
	}
}

// GenerateTokens issues a fresh access/refresh pair for the given identity.
func (m *TokenManager) GenerateTokens(userID uint64, email, role string) (accessToken, refreshToken string, err error) {
	now := time.Now()
	accessToken, err = m.sign(userID, email, role, now, m.accessTTL, m.accessSecret)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = m.sign(userID, email, role, now, m.refreshTTL, m.refreshSecret)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (m *TokenManager) sign(userID uint64, email, role string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess verifies a token against the access secret.
func (m *TokenManager) ParseAccess(tokenStr string) (*Claims, error) {
	return parse(tokenStr, m.accessSecret)
}

// ParseRefresh verifies a token against the refresh secret.
func (m *TokenManager) ParseRefresh(tokenStr string) (*Claims, error) {
	return parse(tokenStr, m.refreshSecret)
}

func parse(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
