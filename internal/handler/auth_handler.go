package handler

import (
	"net/http"

	"jharkhand-tourism/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c *gin.Context) {
	var in service.SignupInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.AuthService.Signup(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var in loginRequest
	if !bindJSON(c, &in) {
		return
	}
	session, err := h.AuthService.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) RegisterAdmin(c *gin.Context) {
	var in service.AdminSignupInput
	if !bindJSON(c, &in) {
		return
	}
	admin, err := h.AuthService.RegisterAdmin(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var in loginRequest
	if !bindJSON(c, &in) {
		return
	}
	session, err := h.AuthService.AdminLogin(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me returns the caller's profile.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.AuthService.Profile(c.Request.Context(), c.GetInt(ctxUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// LinkTelegram handles PUT /api/me/telegram.
func (h *Handler) LinkTelegram(c *gin.Context) {
	var in struct {
		TelegramID int64 `json:"telegram_id"`
	}
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.AuthService.LinkTelegram(c.Request.Context(), c.GetInt(ctxUserID), in.TelegramID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /api/admin/users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.UserService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// BlockUser handles PUT /api/admin/users/:id/block {blocked}.
func (h *Handler) BlockUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in struct {
		Blocked bool `json:"blocked"`
	}
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.UserService.SetBlocked(c.Request.Context(), id, in.Blocked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
