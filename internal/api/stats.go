package api

import (
	"net/http"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/gin-gonic/gin"
)

const scoreboardLimit = 100

type StatsResponse struct {
	Username string `json:"username"`
	Elo      int    `json:"elo"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Ties     int    `json:"ties"`
}

// GetStats returns the caller's rating and battle record.
func (h *Handler) GetStats(c *gin.Context) {
	userID := currentUserID(c)
	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
		return
	}
	wins, losses, ties, err := h.repo.GetUserRecord(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		Username: user.Username,
		Elo:      user.Elo,
		Wins:     wins,
		Losses:   losses,
		Ties:     ties,
	})
}

// GetScoreboard returns users ordered by rating, highest first. Ties on
// rating are broken by username.
func (h *Handler) GetScoreboard(c *gin.Context) {
	users, err := h.repo.GetScoreboard(scoreboardLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchScoreboard})
		return
	}
	entries := make([]gin.H, 0, len(users))
	for _, u := range users {
		entries = append(entries, gin.H{"username": u.Username, "elo": u.Elo})
	}
	c.JSON(http.StatusOK, entries)
}
