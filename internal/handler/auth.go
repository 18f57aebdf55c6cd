package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogkit/backend/internal/model"
	"github.com/blogkit/backend/internal/service"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"

	// the refresh cookie is only ever needed by the auth endpoints, so it
	// is scoped to their path prefix
	accessCookiePath  = "/"
	refreshCookiePath = "/api/v1/auth"
)

type AuthHandler struct {
	svc          *service.AuthService
	cookieSecure bool
	logger       *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookieSecure: cookieSecure, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	result, err := h.svc.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, result)
	c.JSON(http.StatusCreated, model.AuthResponse{User: result.User})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, result)
	c.JSON(http.StatusOK, model.AuthResponse{User: result.User})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie(refreshCookieName)
	result, err := h.svc.Refresh(c.Request.Context(), presented)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.setAuthCookies(c, result)
	c.JSON(http.StatusOK, model.AuthResponse{User: result.User})
}

// Logout always succeeds from the caller's perspective: the cookies are
// cleared whether or not the presented token could be revoked.
func (h *AuthHandler) Logout(c *gin.Context) {
	presented, _ := c.Cookie(refreshCookieName)
	status := h.svc.Logout(c.Request.Context(), presented)
	if status == service.RevocationFailed {
		h.logger.Warn("logout revocation failed", "requestId", RequestID(c))
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, model.StatusResponse{Status: "logged_out"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	authUserID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	presented, _ := c.Cookie(refreshCookieName)
	result, status, err := h.svc.ChangePassword(c.Request.Context(), authUserID, userID, req.OldPassword, req.NewPassword, presented)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if status == service.RevocationFailed {
		h.logger.Warn("change-password revocation failed", "requestId", RequestID(c))
	}

	h.setAuthCookies(c, result)
	c.JSON(http.StatusOK, model.AuthResponse{User: result.User})
}

func (h *AuthHandler) Me(c *gin.Context) {
	authUserID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, model.MeResponse{UserID: authUserID})
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, result *model.AuthResult) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookieName, result.AccessToken, int(result.AccessCookieMaxAgeMS/1000), accessCookiePath, "", h.cookieSecure, true)
	c.SetCookie(refreshCookieName, result.RefreshToken, int(result.RefreshCookieMaxAgeMS/1000), refreshCookiePath, "", h.cookieSecure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookieName, "", -1, accessCookiePath, "", h.cookieSecure, true)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", h.cookieSecure, true)
}
