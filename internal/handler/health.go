package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogkit/backend/internal/model"
)

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "blog API server is running",
	})
}
