package service

import (
	"context"
	"strings"

	"github.com/blogkit/backend/internal/db"
	"github.com/blogkit/backend/internal/model"
)

type UserAccountRepository interface {
	UserRepository
	DeleteUser(ctx context.Context, id int64) error
}

// UserService covers the profile operations outside the credential flows:
// lookup, profile update and account deletion.
type UserService struct {
	users UserAccountRepository
}

func NewUserService(users UserAccountRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes name and/or email. Only the account owner may
// update it, and a target email already held by a different user is a
// conflict.
func (s *UserService) UpdateProfile(ctx context.Context, authUserID, id int64, name, email *string) (*model.User, error) {
	if authUserID != id {
		return nil, ErrUnauthorized
	}

	if email != nil {
		trimmed := strings.TrimSpace(*email)
		if trimmed == "" {
			return nil, ErrInvalidInput
		}
		existing, err := s.users.GetUserByEmail(ctx, trimmed)
		if err != nil && !db.IsNoRows(err) {
			return nil, err
		}
		if err == nil && existing.ID != id {
			return nil, ErrConflict
		}
		email = &trimmed
	}

	user, err := s.users.UpdateUser(ctx, id, model.UserUpdate{Name: name, Email: email})
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteAccount(ctx context.Context, authUserID, id int64) error {
	if authUserID != id {
		return ErrUnauthorized
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
