package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogkit/backend/internal/model"
)

type fakePostRepo struct {
	nextID int64
	posts  map[int64]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*model.Post)}
}

func (f *fakePostRepo) CreatePost(_ context.Context, authorID int64, title, content string) (*model.Post, error) {
	f.nextID++
	post := &model.Post{
		ID:        f.nextID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.posts[post.ID] = post
	return post, nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id int64) (*model.Post, error) {
	if post, ok := f.posts[id]; ok {
		return post, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePostRepo) ListPosts(_ context.Context) ([]model.Post, error) {
	var posts []model.Post
	for _, post := range f.posts {
		posts = append(posts, *post)
	}
	return posts, nil
}

func (f *fakePostRepo) UpdatePost(_ context.Context, id int64, update model.PostUpdate) (*model.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Content != nil {
		post.Content = *update.Content
	}
	post.UpdatedAt = time.Now()
	return post, nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id int64) error {
	delete(f.posts, id)
	return nil
}

func TestGetPostNotFound(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	_, err := svc.GetPost(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)

	post, err := svc.CreatePost(context.Background(), 1, "title", "content")
	require.NoError(t, err)

	title := "new title"
	_, err = svc.UpdatePost(context.Background(), 2, post.ID, model.PostUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrUnauthorized)

	updated, err := svc.UpdatePost(context.Background(), 1, post.ID, model.PostUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "content", updated.Content)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)

	post, err := svc.CreatePost(context.Background(), 1, "title", "content")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePost(context.Background(), 2, post.ID), ErrUnauthorized)
	require.NoError(t, svc.DeletePost(context.Background(), 1, post.ID))

	_, err = svc.GetPost(context.Background(), post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
