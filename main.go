package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/blogkit/backend/internal/config"
	"github.com/blogkit/backend/internal/db"
	"github.com/blogkit/backend/internal/handler"
	"github.com/blogkit/backend/internal/logging"
	"github.com/blogkit/backend/internal/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not loaded, using environment variables")
	}

	cfg := config.Load()
	logger := logging.New(cfg.Server.Env)

	ctx := context.Background()
	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	issuer, err := service.NewTokenIssuer(cfg.Auth)
	if err != nil {
		log.Fatalf("failed to build token issuer: %v", err)
	}

	authService, err := service.NewAuthService(pg, pg, issuer, cfg.Auth, logger)
	if err != nil {
		log.Fatalf("failed to build auth service: %v", err)
	}
	userService := service.NewUserService(pg)
	postService := service.NewPostService(pg)
	commentService := service.NewCommentService(pg, pg)

	authHandler := handler.NewAuthHandler(authService, cfg.Auth.CookieSecure, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	postHandler := handler.NewPostHandler(postService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(handler.RequestIDMiddleware())

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", handler.AuthMiddleware(issuer), authHandler.Me)
		auth.PATCH("/password/:id", handler.AuthMiddleware(issuer), authHandler.ChangePassword)
	}

	users := v1.Group("/users")
	{
		users.GET("/:id", userHandler.GetUser)
		users.PATCH("/:id", handler.AuthMiddleware(issuer), userHandler.UpdateUser)
		users.DELETE("/:id", handler.AuthMiddleware(issuer), userHandler.DeleteUser)
	}

	posts := v1.Group("/posts")
	{
		posts.GET("", postHandler.ListPosts)
		posts.GET("/:id", postHandler.GetPost)
		posts.POST("", handler.AuthMiddleware(issuer), postHandler.CreatePost)
		posts.PATCH("/:id", handler.AuthMiddleware(issuer), postHandler.UpdatePost)
		posts.DELETE("/:id", handler.AuthMiddleware(issuer), postHandler.DeletePost)
	}

	comments := v1.Group("/comments")
	{
		comments.GET("", commentHandler.ListComments)
		comments.GET("/:id", commentHandler.GetComment)
		comments.POST("", handler.AuthMiddleware(issuer), commentHandler.CreateComment)
		comments.PATCH("/:id", handler.AuthMiddleware(issuer), commentHandler.UpdateComment)
		comments.DELETE("/:id", handler.AuthMiddleware(issuer), commentHandler.DeleteComment)
	}

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
