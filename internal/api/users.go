package api

import (
	"net/http"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/game"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterUser creates a new account with starter coins and the base rating.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req CredentialsPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	if _, err := h.repo.GetUserByUsername(req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrUsernameTaken})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateUser})
		return
	}

	u := game.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Coins:        constants.StarterCoins,
		Elo:          constants.StartingElo,
	}
	if err := h.repo.CreateUser(&u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateUser})
		return
	}

	c.JSON(http.StatusCreated, gin.H{constants.JSONKeyMessage: "User created"})
}

// GetUser returns a user's profile. Users may only read their own profile;
// the admin account may read any.
func (h *Handler) GetUser(c *gin.Context) {
	username := c.Param("username")
	if username != currentUsername(c) && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrForbidden})
		return
	}
	u, err := h.repo.GetUserByUsername(username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(http.StatusOK, u)
}

type UpdateUserPayload struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Image string `json:"image"`
}

// UpdateUser replaces a user's editable profile fields, self-or-admin only.
func (h *Handler) UpdateUser(c *gin.Context) {
	username := c.Param("username")
	if username != currentUsername(c) && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrForbidden})
		return
	}
	var req UpdateUserPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	u, err := h.repo.GetUserByUsername(username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	u.Name = req.Name
	u.Bio = req.Bio
	u.Image = req.Image
	if err := h.repo.UpdateUser(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateUser})
		return
	}
	c.JSON(http.StatusOK, u)
}
