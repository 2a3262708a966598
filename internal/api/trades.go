package api

import (
	"errors"
	"net/http"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/game"
	"github.com/fabio-anzola/MCTG/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TradePayload struct {
	ID            string `json:"id"`
	CardID        string `json:"card_to_trade"`
	WantedType    string `json:"type"`
	MinimumDamage int    `json:"minimum_damage"`
}

type TradeAcceptPayload struct {
	CardID string `json:"card_id"`
}

// ListTrades returns all open trade offers.
func (h *Handler) ListTrades(c *gin.Context) {
	trades, err := h.repo.ListTrades()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(http.StatusOK, trades)
}

// CreateTrade opens a trade offer for one of the caller's cards. Cards that
// are part of the configured deck cannot be offered.
func (h *Handler) CreateTrade(c *gin.Context) {
	var req TradePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.CardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	wantedType := game.CardType(req.WantedType)
	if wantedType != game.TypeMonster && wantedType != game.TypeSpell {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	userID := currentUserID(c)
	card, err := h.repo.GetCardByID(req.CardID)
	if err != nil || card.UserID == nil || *card.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrCardNotOwned})
		return
	}
	if card.InDeck {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrCardInDeck})
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := h.repo.GetTradeByID(id); err == nil {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTradeIDTaken})
		return
	}

	trade := &game.Trade{
		ID:            id,
		CardID:        card.ID,
		OfferedByID:   userID,
		WantedType:    wantedType,
		MinimumDamage: req.MinimumDamage,
	}
	if err := h.repo.CreateTrade(trade); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateTrade})
		return
	}
	c.JSON(http.StatusCreated, trade)
}

// DeleteTrade removes an open trade. Only its creator may do so.
func (h *Handler) DeleteTrade(c *gin.Context) {
	trade, err := h.repo.GetTradeByID(c.Param("tradeID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrTradeNotFound})
		return
	}
	if trade.OfferedByID != currentUserID(c) && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrTradeNotOwnedByUser})
		return
	}
	if err := h.repo.DeleteTrade(trade.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDeleteTrade})
		return
	}
	c.Status(http.StatusNoContent)
}

// AcceptTrade executes a trade by offering one of the caller's cards in
// exchange. The repository enforces ownership, the self-trade rule and the
// stated type and damage requirements.
func (h *Handler) AcceptTrade(c *gin.Context) {
	var req TradeAcceptPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.CardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	err := h.repo.ExecuteTrade(c.Param("tradeID"), currentUserID(c), req.CardID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrTradeNotFound})
		case errors.Is(err, storage.ErrSelfTrade):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrSelfTrade})
		case errors.Is(err, storage.ErrCardNotOwned):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrCardNotOwned})
		case errors.Is(err, storage.ErrTradeRequirement):
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrTradeRequirement})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedExecuteTrade})
		}
		return
	}
	c.Status(http.StatusOK)
}
