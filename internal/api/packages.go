package api

import (
	"errors"
	"net/http"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/game"
	"github.com/fabio-anzola/MCTG/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PackageCardPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Damage int    `json:"damage"`
}

// CreatePackage creates a sealed five-card package. Admin only. Card types
// and elements are derived from the card names; missing IDs are minted.
func (h *Handler) CreatePackage(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrForbidden})
		return
	}
	var req []PackageCardPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if len(req) != constants.PackageSize {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrPackageMustHaveFive})
		return
	}

	cards := make([]game.Card, 0, len(req))
	for _, p := range req {
		if p.Name == "" || p.Damage < 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := h.repo.GetCardByID(id); err == nil {
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrCardIDTaken})
			return
		}
		cards = append(cards, game.Card{
			ID:      id,
			Name:    p.Name,
			Damage:  p.Damage,
			Type:    game.TypeFromName(p.Name),
			Element: game.ElementFromName(p.Name),
		})
	}

	pkg, err := h.repo.CreatePackage(cards)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreatePackage})
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

// BuyPackage sells the oldest unsold package to the caller.
func (h *Handler) BuyPackage(c *gin.Context) {
	cards, err := h.repo.BuyPackage(currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNoPackageAvailable):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrNoPackageAvailable})
		case errors.Is(err, storage.ErrNotEnoughCoins):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotEnoughCoins})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		}
		return
	}
	c.JSON(http.StatusOK, cards)
}
