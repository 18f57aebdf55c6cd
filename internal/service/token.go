package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/blogkit/backend/internal/config"
)

// TokenClaims is the verified content of a signed token: the owning user
// and the unique token id (jti) correlating a refresh token with its
// persisted revocation record.
type TokenClaims struct {
	UserID int64
	JTI    string
}

// TokenIssuer signs and verifies access and refresh tokens. The two kinds
// use separate HMAC-SHA256 secrets so either can be rotated independently
// of the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  Expiry
	refreshExpiry Expiry
}

func NewTokenIssuer(cfg config.AuthConfig) (*TokenIssuer, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("%w: ACCESS_TOKEN_SECRET is required", ErrMisconfigured)
	}
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("%w: REFRESH_TOKEN_SECRET is required", ErrMisconfigured)
	}

	accessExpiry, err := ParseExpiry(cfg.AccessExpiry)
	if err != nil {
		return nil, err
	}
	refreshExpiry, err := ParseExpiry(cfg.RefreshExpiry)
	if err != nil {
		return nil, err
	}

	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}, nil
}

func (i *TokenIssuer) AccessExpiry() Expiry  { return i.accessExpiry }
func (i *TokenIssuer) RefreshExpiry() Expiry { return i.refreshExpiry }

// IssueAccessToken returns a signed access token for userID and the jti
// embedded in it.
func (i *TokenIssuer) IssueAccessToken(userID int64) (string, string, error) {
	return sign(userID, i.accessSecret, i.accessExpiry)
}

// IssueRefreshToken returns a signed refresh token for userID and the jti
// under which its revocation record is persisted.
func (i *TokenIssuer) IssueRefreshToken(userID int64) (string, string, error) {
	return sign(userID, i.refreshSecret, i.refreshExpiry)
}

func (i *TokenIssuer) VerifyAccessToken(tokenStr string) (*TokenClaims, error) {
	return verify(tokenStr, i.accessSecret)
}

func (i *TokenIssuer) VerifyRefreshToken(tokenStr string) (*TokenClaims, error) {
	return verify(tokenStr, i.refreshSecret)
}

func sign(userID int64, secret []byte, expiry Expiry) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry.Time(now)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// verify checks the signature and claim shape. Every failure mode,
// including the underlying jwt library error, collapses into
// ErrUnauthenticated so callers never learn which check rejected the token.
func verify(tokenStr string, secret []byte) (*TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &TokenClaims{UserID: userID, JTI: claims.ID}, nil
}
