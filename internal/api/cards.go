package api

import (
	"errors"
	"net/http"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/storage"
	"github.com/gin-gonic/gin"
)

// ListCards returns the caller's full card collection.
func (h *Handler) ListCards(c *gin.Context) {
	cards, err := h.repo.GetOwnedCards(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCards})
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GetDeck returns the caller's configured 4-card deck.
func (h *Handler) GetDeck(c *gin.Context) {
	cards, err := h.repo.GetDeckCards(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCards})
		return
	}
	c.JSON(http.StatusOK, cards)
}

// SetDeck replaces the caller's configured deck with exactly four own cards.
func (h *Handler) SetDeck(c *gin.Context) {
	var cardIDs []string
	if err := c.ShouldBindJSON(&cardIDs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if len(cardIDs) != constants.DeckSize {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrDeckNeedsFour})
		return
	}
	if err := h.repo.SetDeck(currentUserID(c), cardIDs); err != nil {
		if errors.Is(err, storage.ErrCardNotOwned) {
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrDeckNotOwned})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveDeck})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Deck updated"})
}
