package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/game"
	"github.com/gin-gonic/gin"
)

// EnterBattle joins the matchmaking queue. If a pending battle exists the
// caller is matched into it, otherwise a new pending battle is created. The
// request then blocks until the battle is finalized and answers with the
// full plain-text battle log. The battle ID travels in the X-Battle-Id
// response header so both participants can refetch the log later.
func (h *Handler) EnterBattle(c *gin.Context) {
	userID := currentUserID(c)

	battleID, _, err := h.matchmaker.RequestBattle(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrMatchmakingFailed})
		return
	}

	if err := h.matchmaker.AwaitCompletion(c.Request.Context(), battleID); err != nil {
		c.Header(constants.HeaderBattleID, strconv.FormatUint(uint64(battleID), 10))
		c.JSON(http.StatusRequestTimeout, gin.H{constants.JSONKeyError: constants.ErrBattleWaitAborted})
		return
	}

	entries, err := h.repo.GetBattleLog(battleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLog})
		return
	}

	c.Header(constants.HeaderBattleID, strconv.FormatUint(uint64(battleID), 10))
	c.Data(http.StatusOK, constants.ContentTypePlainText, []byte(renderBattleLog(entries)))
}

// GetBattleLog returns the stored log of a finished or running battle as
// plain text, one numbered line per row.
func (h *Handler) GetBattleLog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("battleID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	battleID := uint(id)

	if _, err := h.repo.GetBattleByID(battleID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	entries, err := h.repo.GetBattleLog(battleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLog})
		return
	}
	c.Data(http.StatusOK, constants.ContentTypePlainText, []byte(renderBattleLog(entries)))
}

func renderBattleLog(entries []game.BattleLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d: %s\n", e.RowNr, e.Text)
	}
	return sb.String()
}
