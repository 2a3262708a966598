package api

import (
	"context"

	"github.com/fabio-anzola/MCTG/internal/storage"
)

// Matchmaking is the battle subsystem surface the HTTP layer depends on.
type Matchmaking interface {
	RequestBattle(userID uint) (battleID uint, matched bool, err error)
	AwaitCompletion(ctx context.Context, battleID uint) error
}

// Handler groups all HTTP handlers of the API.
type Handler struct {
	repo       storage.Repository
	matchmaker Matchmaking
}

func NewHandler(repo storage.Repository, matchmaker Matchmaking) *Handler {
	return &Handler{repo: repo, matchmaker: matchmaker}
}
