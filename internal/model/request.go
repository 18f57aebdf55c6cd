package model

type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Name     *string `json:"name"`
	Password string  `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

type UpdateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Name  *string `json:"name"`
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content"`
}

type CreateCommentRequest struct {
	PostID  int64  `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
