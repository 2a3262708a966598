package service

import (
	"time"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/engine"
	"github.com/fabio-anzola/MCTG/internal/game"
	"github.com/fabio-anzola/MCTG/internal/logging"
	"github.com/fabio-anzola/MCTG/internal/storage"
)

// Rating policy, applied once per user at finalization.
const (
	eloWinDelta  = 3
	eloLossDelta = -5
)

// finalizeOutcome maps the terminal battle outcome to per-user results and
// rating deltas and persists them, together with end time, round count and
// the closing log lines, in a single unit of work. Round log entries already
// committed are unaffected by a finalization failure; the rounds-complete
// marker is part of the finalization transaction, so it never appears
// without the results.
func finalizeOutcome(repo BattleRepo, battleID uint, rounds int, outcome engine.Outcome, userA, userB *game.User) error {
	var closing string
	var outcomes []storage.ParticipantOutcome
	switch outcome {
	case engine.OutcomeAWins:
		closing = userA.Username + " wins!"
		outcomes = []storage.ParticipantOutcome{
			{UserID: userA.ID, Result: game.ResultWin, EloDelta: eloWinDelta},
			{UserID: userB.ID, Result: game.ResultLoss, EloDelta: eloLossDelta},
		}
	case engine.OutcomeBWins:
		closing = userB.Username + " wins!"
		outcomes = []storage.ParticipantOutcome{
			{UserID: userA.ID, Result: game.ResultLoss, EloDelta: eloLossDelta},
			{UserID: userB.ID, Result: game.ResultWin, EloDelta: eloWinDelta},
		}
	default:
		closing = "Battle is a draw!"
		outcomes = []storage.ParticipantOutcome{
			{UserID: userA.ID, Result: game.ResultTie},
			{UserID: userB.ID, Result: game.ResultTie},
		}
	}

	if err := repo.FinalizeBattle(battleID, time.Now(), rounds, []string{"### Rounds complete ###", closing}, outcomes); err != nil {
		return err
	}

	logging.Info("battle finished", logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldRounds:   rounds,
		constants.LogFieldOutcome:  closing,
	})
	return nil
}
