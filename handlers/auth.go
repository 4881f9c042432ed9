package handlers

import (
	"errors"
	"net/http"

	"cleaningmanager/middleware"
	"cleaningmanager/models"
	"cleaningmanager/services/user"
	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves sign-up, sign-in and the caller's own session.
type AuthHandler struct {
	Users user.UserService
}

func NewAuthHandler(us user.UserService) *AuthHandler {
	return &AuthHandler{Users: us}
}

// SignUpHandler creates an account and profile. Admin accounts can only be
// created by a signed-in admin.
func (h *AuthHandler) SignUpHandler(c *gin.Context) {
	var req models.UserRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	created, err := h.Users.SignUp(c.Request.Context(), req, middleware.CurrentSession(c).IsAdmin())
	if errors.Is(err, user.ErrAdminSignupDenied) {
		utils.JSONError(c, http.StatusForbidden, "Sign up failed", err.Error())
		return
	}
	if err != nil {
		utils.RespondError(c, "Sign up failed", err)
		return
	}
	getLogger(c).Info("Account created", zap.String("uid", created.ID), zap.String("role", created.Role))
	c.JSON(http.StatusCreated, created)
}

func (h *AuthHandler) SignInHandler(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	resp, err := h.Users.SignIn(c.Request.Context(), creds)
	if err != nil {
		utils.RespondError(c, "Sign in failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) MeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentSession(c).User)
}

func (h *AuthHandler) SignOutHandler(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if err := h.Users.SignOut(c.Request.Context(), session.UID); err != nil {
		utils.RespondError(c, "Sign out failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

type userActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetUserActiveHandler enables or disables another user's profile.
func (h *AuthHandler) SetUserActiveHandler(c *gin.Context) {
	var req userActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	uid := c.Param("uid")
	if uid == middleware.CurrentSession(c).UID && !*req.Active {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "cannot disable your own account")
		return
	}
	updated, err := h.Users.SetUserActive(c.Request.Context(), uid, *req.Active)
	if err != nil {
		utils.RespondError(c, "Failed to update user", err)
		return
	}
	getLogger(c).Info("User active flag set", zap.String("uid", uid), zap.Bool("active", updated.IsActive))
	c.JSON(http.StatusOK, updated)
}
