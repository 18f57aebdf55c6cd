package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogkit/backend/internal/config"
	"github.com/blogkit/backend/internal/model"
)

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, email string, name *string, passwordHash string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	f.nextID++
	user := &model.User{
		ID:           f.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, id int64, update model.UserUpdate) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = update.Name
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	u.UpdatedAt = time.Now()
	return u, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakeTokenStore struct {
	records map[string]*model.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{records: make(map[string]*model.RefreshToken)}
}

func (f *fakeTokenStore) CreateRefreshToken(_ context.Context, jti string, userID int64, expiresAt time.Time) error {
	if _, ok := f.records[jti]; ok {
		return &pgconn.PgError{Code: "23505"}
	}
	f.records[jti] = &model.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeTokenStore) GetRefreshTokenByJTI(_ context.Context, jti string) (*model.RefreshToken, error) {
	if rec, ok := f.records[jti]; ok {
		return rec, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTokenStore) RevokeRefreshToken(_ context.Context, jti string, replacedBy *string) error {
	rec, ok := f.records[jti]
	if !ok {
		return nil
	}
	rec.IsRevoked = true
	if rec.ReplacedBy == nil {
		rec.ReplacedBy = replacedBy
	}
	return nil
}

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeTokenStore) {
	t.Helper()

	cfg := config.AuthConfig{
		AccessSecret:        testAccessSecret,
		RefreshSecret:       testRefreshSecret,
		AccessExpiry:        "15m",
		RefreshExpiry:       "7d",
		AccessCookieExpiry:  "15m",
		RefreshCookieExpiry: "7d",
	}

	issuer, err := NewTokenIssuer(cfg)
	require.NoError(t, err)

	users := newFakeUserRepo()
	tokens := newFakeTokenStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := NewAuthService(users, tokens, issuer, cfg, logger)
	require.NoError(t, err)
	return svc, users, tokens
}

func registerUser(t *testing.T, svc *AuthService) *model.AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), "a@b.com", nil, "Aa1!abcd")
	require.NoError(t, err)
	return result
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)

	result := registerUser(t, svc)
	assert.NotZero(t, result.User.ID)
	assert.Equal(t, "a@b.com", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, int64(15*60*1000), result.AccessCookieMaxAgeMS)
	assert.Equal(t, int64(7*24*60*60*1000), result.RefreshCookieMaxAgeMS)

	// exactly one persisted, non-revoked refresh record
	require.Len(t, tokens.records, 1)
	for _, rec := range tokens.records {
		assert.Equal(t, result.User.ID, rec.UserID)
		assert.False(t, rec.IsRevoked)
		assert.Nil(t, rec.ReplacedBy)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	registerUser(t, svc)
	_, err := svc.Register(context.Background(), "a@b.com", nil, "Aa1!abcd")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "", nil, "Aa1!abcd")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), "a@b.com", nil, "short")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Unknown email and wrong password must be indistinguishable to the
// caller.
func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerUser(t, svc)

	_, errUnknown := svc.Login(context.Background(), "nobody@b.com", "Aa1!abcd")
	_, errWrongPw := svc.Login(context.Background(), "a@b.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, ErrUnauthenticated)
	assert.ErrorIs(t, errWrongPw, ErrUnauthenticated)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLoginSucceeds(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerUser(t, svc)

	result, err := svc.Login(context.Background(), "a@b.com", "Aa1!abcd")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	first := registerUser(t, svc)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the consumed token is single-use
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefreshChainContinuity(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	first := registerUser(t, svc)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	// the replacement is good for exactly one further rotation
	third, err := svc.Refresh(context.Background(), second.RefreshToken)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), second.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Refresh(context.Background(), third.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshLinksRotationLineage(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	first := registerUser(t, svc)

	_, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	var rotated, replacement *model.RefreshToken
	for _, rec := range tokens.records {
		if rec.IsRevoked {
			rotated = rec
		} else {
			replacement = rec
		}
	}
	require.NotNil(t, rotated)
	require.NotNil(t, replacement)
	require.NotNil(t, rotated.ReplacedBy)
	assert.Equal(t, replacement.JTI, *rotated.ReplacedBy)
}

func TestRevocationIsMonotonic(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	first := registerUser(t, svc)

	_, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	var rotatedJTI, replacedBy string
	for jti, rec := range tokens.records {
		if rec.IsRevoked {
			rotatedJTI = jti
			replacedBy = *rec.ReplacedBy
		}
	}
	require.NotEmpty(t, rotatedJTI)

	// re-revoking must neither clear the flag nor rewrite the lineage
	other := "some-other-jti"
	require.NoError(t, tokens.RevokeRefreshToken(context.Background(), rotatedJTI, &other))
	rec := tokens.records[rotatedJTI]
	assert.True(t, rec.IsRevoked)
	assert.Equal(t, replacedBy, *rec.ReplacedBy)
}

func TestRefreshRejectsMissingToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefreshRejectsExpiredRecord(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	first := registerUser(t, svc)

	for _, rec := range tokens.records {
		rec.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err := svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// A forged token naming another user but carrying a real jti must be
// rejected even though its signature verifies.
func TestRefreshRejectsCrossUserSubstitution(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	registerUser(t, svc)

	var realJTI string
	for jti := range tokens.records {
		realJTI = jti
	}

	claims := jwt.RegisteredClaims{
		ID:        realJTI,
		Subject:   strconv.FormatInt(999, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testRefreshSecret))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), forged)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	result := registerUser(t, svc)

	assert.Equal(t, RevocationSucceeded, svc.Logout(context.Background(), result.RefreshToken))
	assert.Equal(t, RevocationSucceeded, svc.Logout(context.Background(), result.RefreshToken))

	for _, rec := range tokens.records {
		assert.True(t, rec.IsRevoked)
		assert.Nil(t, rec.ReplacedBy)
	}

	// a logged-out token no longer refreshes
	_, err := svc.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutToleratesBadTokens(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	assert.Equal(t, RevocationSkipped, svc.Logout(context.Background(), ""))
	assert.Equal(t, RevocationFailed, svc.Logout(context.Background(), "garbage"))
}

func TestChangePasswordEnforcesOwnership(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	result := registerUser(t, svc)

	_, _, err := svc.ChangePassword(context.Background(), result.User.ID+1, result.User.ID, "Aa1!abcd", "Bb2@efgh", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	result := registerUser(t, svc)

	_, _, err := svc.ChangePassword(context.Background(), result.User.ID, result.User.ID, "wrong", "Bb2@efgh", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestChangePasswordRotatesCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	result := registerUser(t, svc)

	updated, status, err := svc.ChangePassword(context.Background(), result.User.ID, result.User.ID, "Aa1!abcd", "Bb2@efgh", result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, RevocationSucceeded, status)
	assert.NotEmpty(t, updated.AccessToken)
	assert.NotEmpty(t, updated.RefreshToken)

	// the presented refresh token was revoked best-effort
	_, err = svc.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// old password is gone, new one works
	_, err = svc.Login(context.Background(), "a@b.com", "Aa1!abcd")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Login(context.Background(), "a@b.com", "Bb2@efgh")
	assert.NoError(t, err)
}

func TestChangePasswordRevocationFailureIsNonFatal(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	result := registerUser(t, svc)

	updated, status, err := svc.ChangePassword(context.Background(), result.User.ID, result.User.ID, "Aa1!abcd", "Bb2@efgh", "malformed-token")
	require.NoError(t, err)
	assert.Equal(t, RevocationFailed, status)
	assert.NotEmpty(t, updated.RefreshToken)
}
