package service

import (
	"context"

	"github.com/blogkit/backend/internal/db"
	"github.com/blogkit/backend/internal/model"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error)
	GetCommentByID(ctx context.Context, id int64) (*model.Comment, error)
	ListComments(ctx context.Context) ([]model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, id int64, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type CommentService struct {
	comments CommentRepository
	posts    PostRepository
}

func NewCommentService(comments CommentRepository, posts PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// CreateComment requires the target post to exist; a comment on a missing
// post is a NotFound, not a foreign-key error surfaced raw.
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID int64, content string) (*model.Comment, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.comments.CreateComment(ctx, postID, authorID, content)
}

func (s *CommentService) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context) ([]model.Comment, error) {
	return s.comments.ListComments(ctx)
}

func (s *CommentService) ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	return s.comments.ListCommentsByPost(ctx, postID)
}

func (s *CommentService) UpdateComment(ctx context.Context, authUserID, id int64, content string) (*model.Comment, error) {
	if err := s.ownedComment(ctx, authUserID, id); err != nil {
		return nil, err
	}
	comment, err := s.comments.UpdateComment(ctx, id, content)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, authUserID, id int64) error {
	if err := s.ownedComment(ctx, authUserID, id); err != nil {
		return err
	}
	return s.comments.DeleteComment(ctx, id)
}

func (s *CommentService) ownedComment(ctx context.Context, authUserID, id int64) error {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	if comment.AuthorID != authUserID {
		return ErrUnauthorized
	}
	return nil
}
