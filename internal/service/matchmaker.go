package service

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand"
	"time"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/game"
	"github.com/fabio-anzola/MCTG/internal/logging"
	"github.com/fabio-anzola/MCTG/internal/storage"
)

// BattleRepo is the slice of the storage layer the battle subsystem needs.
type BattleRepo interface {
	CreateBattle(creatorID uint) (*game.Battle, error)
	ClaimPendingBattle(userID uint) (*game.Battle, error)
	GetParticipants(battleID uint) ([]game.Participation, error)
	GetUserByID(id uint) (*game.User, error)
	GetOwnedCards(userID uint) ([]game.Card, error)
	IsBattleComplete(battleID uint) (bool, error)
	AppendBattleLog(battleID uint, text string) error
	SetBattleStart(battleID uint, startedAt time.Time) error
	FinalizeBattle(battleID uint, endedAt time.Time, rounds int, closingLines []string, outcomes []storage.ParticipantOutcome) error
}

// Matchmaker pairs battle requests and hands matched battles to the runner
// pool. The request that completes a pair owns spawning the runner; both
// requests then block on AwaitCompletion.
type Matchmaker struct {
	repo         BattleRepo
	pool         *RunnerPool
	waiters      *waiterBoard
	pollInterval time.Duration

	// seedFn produces runner RNG seeds; tests substitute a fixed seed.
	seedFn func() int64
}

func NewMatchmaker(repo BattleRepo, maxConcurrent int, pollInterval time.Duration) *Matchmaker {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Matchmaker{
		repo:         repo,
		pool:         NewRunnerPool(maxConcurrent),
		waiters:      newWaiterBoard(),
		pollInterval: pollInterval,
		seedFn:       newSeed,
	}
}

// RequestBattle joins the caller to the earliest pending battle, spawning the
// battle runner, or creates a new pending battle with the caller as its sole
// participant. matched reports whether this request completed a pairing.
func (m *Matchmaker) RequestBattle(userID uint) (battleID uint, matched bool, err error) {
	b, err := m.repo.ClaimPendingBattle(userID)
	if err == nil {
		m.spawnRunner(b.ID)
		return b.ID, true, nil
	}
	if !errors.Is(err, storage.ErrNoPendingBattle) {
		return 0, false, err
	}

	b, err = m.repo.CreateBattle(userID)
	if err != nil {
		return 0, false, err
	}
	return b.ID, false, nil
}

// AwaitCompletion blocks until every participation of the battle has a
// result. Waiters wake on the runner's completion signal or on the fallback
// poll tick; cancelling the context abandons the wait but never the battle.
func (m *Matchmaker) AwaitCompletion(ctx context.Context, battleID uint) error {
	ch := m.waiters.subscribe(battleID)
	defer m.waiters.unsubscribe(battleID)
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		done, err := m.repo.IsBattleComplete(battleID)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			// Signal fired; re-check completion, then fall back to polling
			// in case finalization did not land.
			ch = nil
		case <-ticker.C:
		}
	}
}

func (m *Matchmaker) spawnRunner(battleID uint) {
	m.pool.Go(func() {
		rng := rand.New(rand.NewSource(m.seedFn()))
		if err := RunBattle(m.repo, rng, battleID); err != nil {
			logging.Error("battle runner failed", err, logging.Fields{constants.LogFieldBattleID: battleID})
		}
		m.waiters.signal(battleID)
	})
}

// newSeed draws a high-entropy RNG seed, falling back to the wall clock if
// the system entropy source is unavailable.
func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
