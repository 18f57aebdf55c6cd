package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/blogkit/backend/internal/config"
	"github.com/blogkit/backend/internal/db"
	"github.com/blogkit/backend/internal/model"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

type UserRepository interface {
	CreateUser(ctx context.Context, email string, name *string, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, update model.UserUpdate) (*model.User, error)
}

type RefreshTokenStore interface {
	CreateRefreshToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	GetRefreshTokenByJTI(ctx context.Context, jti string) (*model.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, jti string, replacedBy *string) error
}

// AuthService composes the password hasher, token issuer and refresh-token
// store into the register, login, refresh, logout and change-password use
// cases. Callers pass the authenticated user id explicitly; the service
// never reads ambient request state.
type AuthService struct {
	users         UserRepository
	tokens        RefreshTokenStore
	issuer        *TokenIssuer
	accessCookie  Expiry
	refreshCookie Expiry
	logger        *slog.Logger
}

func NewAuthService(users UserRepository, tokens RefreshTokenStore, issuer *TokenIssuer, cfg config.AuthConfig, logger *slog.Logger) (*AuthService, error) {
	accessCookie, err := ParseExpiry(cfg.AccessCookieExpiry)
	if err != nil {
		return nil, err
	}
	refreshCookie, err := ParseExpiry(cfg.RefreshCookieExpiry)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:         users,
		tokens:        tokens,
		issuer:        issuer,
		accessCookie:  accessCookie,
		refreshCookie: refreshCookie,
		logger:        logger,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email string, name *string, password string) (*model.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, ErrInvalidInput
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, email, name, hash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Login deliberately returns the same ErrUnauthenticated for an unknown
// email and a wrong password so responses cannot be used to enumerate
// registered accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrUnauthenticated
	}

	return s.issueTokens(ctx, user)
}

// Refresh consumes a presented refresh token and rotates it: a new
// access/refresh pair is issued and the presented token becomes unusable.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*model.AuthResult, error) {
	return s.verifyAndRotate(ctx, presented)
}

// Logout revokes the presented refresh token without a replacement. It is
// best-effort: a missing, malformed or already-revoked token never turns
// into a caller-visible error because the boundary clears the cookies
// regardless. The outcome is reported so it can be logged, not propagated.
func (s *AuthService) Logout(ctx context.Context, presented string) RevocationStatus {
	if presented == "" {
		return RevocationSkipped
	}
	return s.revokePresented(ctx, presented)
}

// ChangePassword re-hashes the password for userID and issues a fresh
// token pair. The caller's authenticated id must match userID. The refresh
// token presented alongside the request is revoked best-effort; the
// outcome is returned with the result and never fails the operation.
func (s *AuthService) ChangePassword(ctx context.Context, authUserID, userID int64, oldPassword, newPassword, presentedRefresh string) (*model.AuthResult, RevocationStatus, error) {
	if authUserID != userID {
		return nil, RevocationSkipped, ErrUnauthorized
	}
	if len(newPassword) < minPasswordLength || len(newPassword) > maxPasswordLength {
		return nil, RevocationSkipped, ErrInvalidInput
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, RevocationSkipped, ErrUnauthenticated
		}
		return nil, RevocationSkipped, err
	}

	if !CheckPassword(oldPassword, user.PasswordHash) {
		return nil, RevocationSkipped, ErrUnauthorized
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, RevocationSkipped, err
	}

	updated, err := s.users.UpdateUser(ctx, userID, model.UserUpdate{PasswordHash: &hash})
	if err != nil {
		return nil, RevocationSkipped, err
	}

	result, err := s.issueTokens(ctx, updated)
	if err != nil {
		return nil, RevocationSkipped, err
	}

	status := RevocationSkipped
	if presentedRefresh != "" {
		status = s.revokePresented(ctx, presentedRefresh)
	}
	return result, status, nil
}

// verifyAndRotate is the refresh-token state machine. A token is usable
// only while its record is neither revoked nor expired and still belongs
// to the user named in the signed payload. On success the new record is
// persisted before the old one is revoked, so a crash in between leaves
// the user with two briefly-usable tokens rather than none.
func (s *AuthService) verifyAndRotate(ctx context.Context, presented string) (*model.AuthResult, error) {
	if presented == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.issuer.VerifyRefreshToken(presented)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	record, err := s.tokens.GetRefreshTokenByJTI(ctx, claims.JTI)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	// a revoked record with replaced_by set means this token was already
	// rotated: the presentation is a replay
	if !record.Usable(time.Now()) || record.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, record.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	result, newJTI, err := s.issueTokensWithJTI(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.RevokeRefreshToken(ctx, claims.JTI, &newJTI); err != nil {
		return nil, err
	}

	return result, nil
}

// revokePresented verifies the token just enough to find its record and
// marks it revoked without a replacement. Failures are logged and folded
// into the returned status.
func (s *AuthService) revokePresented(ctx context.Context, presented string) RevocationStatus {
	claims, err := s.issuer.VerifyRefreshToken(presented)
	if err != nil {
		s.logger.Warn("refresh token revocation skipped: token did not verify")
		return RevocationFailed
	}

	if err := s.tokens.RevokeRefreshToken(ctx, claims.JTI, nil); err != nil {
		s.logger.Warn("refresh token revocation failed", "jti", claims.JTI, "error", err)
		return RevocationFailed
	}
	return RevocationSucceeded
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*model.AuthResult, error) {
	result, _, err := s.issueTokensWithJTI(ctx, user)
	return result, err
}

func (s *AuthService) issueTokensWithJTI(ctx context.Context, user *model.User) (*model.AuthResult, string, error) {
	accessToken, _, err := s.issuer.IssueAccessToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	refreshToken, jti, err := s.issuer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	expiresAt := s.issuer.RefreshExpiry().Time(time.Now())
	if err := s.tokens.CreateRefreshToken(ctx, jti, user.ID, expiresAt); err != nil {
		// random jti collisions should not happen, but a duplicate insert
		// is surfaced rather than assumed impossible
		if isUniqueViolation(err) {
			return nil, "", ErrConflict
		}
		return nil, "", err
	}

	return &model.AuthResult{
		User:                  user.Public(),
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessCookieMaxAgeMS:  s.accessCookie.Milliseconds(),
		RefreshCookieMaxAgeMS: s.refreshCookie.Milliseconds(),
	}, jti, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
