package storage

import (
	"errors"
	"time"

	"github.com/fabio-anzola/MCTG/internal/game"
)

var (
	// ErrNoPendingBattle is returned by ClaimPendingBattle when no battle is
	// waiting for a second participant.
	ErrNoPendingBattle = errors.New("no pending battle")

	ErrNotEnoughCoins     = errors.New("not enough coins")
	ErrNoPackageAvailable = errors.New("no package available")
	ErrCardNotOwned       = errors.New("card not owned by user")
	ErrSelfTrade          = errors.New("cannot trade with oneself")
	ErrTradeRequirement   = errors.New("offered card does not meet trade requirements")
)

// ParticipantOutcome describes one user's finalized battle result and the
// rating adjustment to apply alongside it.
type ParticipantOutcome struct {
	UserID   uint
	Result   game.BattleResult
	EloDelta int
}

type Repository interface {
	// Users
	CreateUser(u *game.User) error
	GetUserByUsername(username string) (*game.User, error)
	GetUserByID(id uint) (*game.User, error)
	UpdateUser(u *game.User) error

	// Cards and deck
	GetOwnedCards(userID uint) ([]game.Card, error)
	GetDeckCards(userID uint) ([]game.Card, error)
	// SetDeck replaces the user's configured deck with the given card IDs.
	// All cards must belong to the user.
	SetDeck(userID uint, cardIDs []string) error
	GetCardByID(id string) (*game.Card, error)

	// Packages
	CreatePackage(cards []game.Card) (*game.CardPackage, error)
	// BuyPackage sells the oldest unsold package to the user, transferring
	// its cards and deducting the price in one transaction.
	BuyPackage(userID uint) ([]game.Card, error)

	// Trades
	ListTrades() ([]game.Trade, error)
	GetTradeByID(id string) (*game.Trade, error)
	CreateTrade(t *game.Trade) error
	DeleteTrade(id string) error
	// ExecuteTrade swaps ownership of the traded and offered cards and
	// removes the trade, enforcing the trade requirements.
	ExecuteTrade(tradeID string, buyerID uint, offeredCardID string) error

	// Scoreboard and stats
	GetScoreboard(limit int) ([]game.User, error)
	GetUserRecord(userID uint) (wins, losses, ties int, err error)

	// Battles
	CreateBattle(creatorID uint) (*game.Battle, error)
	// ClaimPendingBattle adds userID as second participant of the earliest
	// pending battle inside one transaction. Returns ErrNoPendingBattle when
	// none is open.
	ClaimPendingBattle(userID uint) (*game.Battle, error)
	GetBattleByID(id uint) (*game.Battle, error)
	GetParticipants(battleID uint) ([]game.Participation, error)
	IsBattleComplete(battleID uint) (bool, error)
	// AppendBattleLog appends a log line, assigning the next row number.
	AppendBattleLog(battleID uint, text string) error
	GetBattleLog(battleID uint) ([]game.BattleLogEntry, error)
	SetBattleStart(battleID uint, startedAt time.Time) error
	// FinalizeBattle writes end time, round count, per-participant results,
	// rating deltas and the closing log lines in one transaction.
	FinalizeBattle(battleID uint, endedAt time.Time, rounds int, closingLines []string, outcomes []ParticipantOutcome) error
	// FindStalePendingBattles returns battles that have been waiting for an
	// opponent since before the given time.
	FindStalePendingBattles(createdBefore time.Time) ([]game.Battle, error)
}
