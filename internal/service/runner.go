package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fabio-anzola/MCTG/internal/engine"
)

var ErrBattleNotReady = errors.New("battle does not have two participants")

// RunBattle executes a matched battle to completion: it resolves both
// participants, snapshots their full card collections as battle decks, runs
// the round loop and finalizes the outcome. Every log line is committed as
// its own unit of work; deck state stays in memory until finalization, so a
// mid-battle crash loses only the unfinished battle, never card ownership.
func RunBattle(repo BattleRepo, rng *rand.Rand, battleID uint) error {
	parts, err := repo.GetParticipants(battleID)
	if err != nil {
		return err
	}
	if len(parts) != 2 {
		return ErrBattleNotReady
	}

	userA, err := repo.GetUserByID(parts[0].UserID)
	if err != nil {
		return err
	}
	userB, err := repo.GetUserByID(parts[1].UserID)
	if err != nil {
		return err
	}

	deckA, err := repo.GetOwnedCards(userA.ID)
	if err != nil {
		return err
	}
	deckB, err := repo.GetOwnedCards(userB.ID)
	if err != nil {
		return err
	}

	a := &engine.Combatant{Username: userA.Username, Elo: userA.Elo, Deck: deckA}
	b := &engine.Combatant{Username: userB.Username, Elo: userB.Elo, Deck: deckB}

	if err := repo.AppendBattleLog(battleID, "User A is "+userA.Username); err != nil {
		return err
	}
	if err := repo.AppendBattleLog(battleID, "User B is "+userB.Username); err != nil {
		return err
	}
	if err := repo.SetBattleStart(battleID, time.Now()); err != nil {
		return err
	}

	round := 0
	for round < engine.MaxRounds && len(a.Deck) > 0 && len(b.Deck) > 0 {
		round++
		if err := repo.AppendBattleLog(battleID, fmt.Sprintf("Starting round %d", round)); err != nil {
			return err
		}
		res := engine.PlayRound(rng, round, a, b)
		for _, line := range res.Lines {
			if err := repo.AppendBattleLog(battleID, line); err != nil {
				return err
			}
		}
	}

	outcome := engine.OutcomeDraw
	switch {
	case len(a.Deck) == 0:
		outcome = engine.OutcomeBWins
	case len(b.Deck) == 0:
		outcome = engine.OutcomeAWins
	}

	return finalizeOutcome(repo, battleID, round, outcome, userA, userB)
}
