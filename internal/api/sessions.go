package api

import (
	"net/http"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// CreateSession verifies credentials and returns a bearer token.
func (h *Handler) CreateSession(c *gin.Context) {
	var req CredentialsPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	u, err := h.repo.GetUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidCredentials})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidCredentials})
		return
	}

	token, err := createSessionToken(u.ID, u.Username, constants.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyToken: token})
}
