package db

import (
	"context"

	"github.com/blogkit/backend/internal/model"
)

func (db *Postgres) CreateComment(ctx context.Context, postID, authorID int64, content string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (post_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, post_id, author_id, content, created_at, updated_at
	`
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, postID, authorID, content).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *Postgres) GetCommentByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, author_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *Postgres) ListComments(ctx context.Context) ([]model.Comment, error) {
	query := `
		SELECT id, post_id, author_id, content, created_at, updated_at
		FROM comments
		ORDER BY created_at DESC
	`
	return db.scanComments(ctx, query)
}

func (db *Postgres) ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	query := `
		SELECT id, post_id, author_id, content, created_at, updated_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`
	return db.scanComments(ctx, query, postID)
}

func (db *Postgres) scanComments(ctx context.Context, query string, args ...any) ([]model.Comment, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (db *Postgres) UpdateComment(ctx context.Context, id int64, content string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, post_id, author_id, content, created_at, updated_at
	`
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, id, content).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (db *Postgres) DeleteComment(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}
