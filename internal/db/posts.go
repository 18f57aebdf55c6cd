package db

import (
	"context"

	"github.com/blogkit/backend/internal/model"
)

func (db *Postgres) CreatePost(ctx context.Context, authorID int64, title, content string) (*model.Post, error) {
	query := `
		INSERT INTO posts (author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, author_id, title, content, created_at, updated_at
	`
	var post model.Post
	err := db.Pool.QueryRow(ctx, query, authorID, title, content).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *Postgres) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	query := `
		SELECT id, author_id, title, content, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	var post model.Post
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *Postgres) ListPosts(ctx context.Context) ([]model.Post, error) {
	query := `
		SELECT id, author_id, title, content, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Content,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (db *Postgres) UpdatePost(ctx context.Context, id int64, update model.PostUpdate) (*model.Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, author_id, title, content, created_at, updated_at
	`
	var post model.Post
	err := db.Pool.QueryRow(ctx, query, id, update.Title, update.Content).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (db *Postgres) DeletePost(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}
