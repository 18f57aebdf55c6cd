package service

import (
	"context"

	"github.com/blogkit/backend/internal/db"
	"github.com/blogkit/backend/internal/model"
)

type PostRepository interface {
	CreatePost(ctx context.Context, authorID int64, title, content string) (*model.Post, error)
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	UpdatePost(ctx context.Context, id int64, update model.PostUpdate) (*model.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

type PostService struct {
	posts PostRepository
}

func NewPostService(posts PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) CreatePost(ctx context.Context, authorID int64, title, content string) (*model.Post, error) {
	return s.posts.CreatePost(ctx, authorID, title, content)
}

func (s *PostService) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	return s.posts.ListPosts(ctx)
}

// UpdatePost rejects non-owners with ErrUnauthorized instead of masking
// the mismatch as a missing row.
func (s *PostService) UpdatePost(ctx context.Context, authUserID, id int64, update model.PostUpdate) (*model.Post, error) {
	if _, err := s.ownedPost(ctx, authUserID, id); err != nil {
		return nil, err
	}
	post, err := s.posts.UpdatePost(ctx, id, update)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, authUserID, id int64) error {
	if _, err := s.ownedPost(ctx, authUserID, id); err != nil {
		return err
	}
	return s.posts.DeletePost(ctx, id)
}

func (s *PostService) ownedPost(ctx context.Context, authUserID, id int64) (*model.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.AuthorID != authUserID {
		return nil, ErrUnauthorized
	}
	return post, nil
}
