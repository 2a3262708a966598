package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fabio-anzola/MCTG/internal/game"
)

func fixedSeed(m *Matchmaker) {
	m.seedFn = func() int64 { return 1 }
}

func addFighters(repo *mockBattleRepo, n int) {
	for i := 1; i <= n; i++ {
		name := string(rune('a' + i - 1))
		repo.addUser(uint(i), name, 100, []game.Card{
			{ID: name + "1", Name: "Dragon", Damage: 50, Type: game.TypeMonster, Element: game.ElementFire},
			{ID: name + "2", Name: "Goblin", Damage: 10, Type: game.TypeMonster, Element: game.ElementNormal},
		})
	}
}

func TestRequestBattle_FirstCreatesSecondMatches(t *testing.T) {
	repo := newMockBattleRepo()
	addFighters(repo, 2)
	m := NewMatchmaker(repo, 4, 10*time.Millisecond)
	fixedSeed(m)

	id1, matched, err := m.RequestBattle(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched {
		t.Fatalf("first request must create a pending battle, not match")
	}

	id2, matched, err := m.RequestBattle(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatalf("second request must join the pending battle")
	}
	if id1 != id2 {
		t.Fatalf("both requests must share a battle, got %d and %d", id1, id2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.AwaitCompletion(ctx, id1); err != nil {
		t.Fatalf("waiting for the battle failed: %v", err)
	}
	if done, _ := repo.IsBattleComplete(id1); !done {
		t.Fatalf("battle must be complete after AwaitCompletion returns")
	}
}

func TestRequestBattle_NeverMatchesUserAgainstThemself(t *testing.T) {
	repo := newMockBattleRepo()
	addFighters(repo, 1)
	m := NewMatchmaker(repo, 4, 10*time.Millisecond)
	fixedSeed(m)

	if _, matched, _ := m.RequestBattle(1); matched {
		t.Fatalf("first request must not match")
	}
	if _, matched, _ := m.RequestBattle(1); matched {
		t.Fatalf("a user must never be matched against their own pending battle")
	}
}

func TestRequestBattle_ConcurrentRequestsPairUp(t *testing.T) {
	const n = 10
	repo := newMockBattleRepo()
	addFighters(repo, n)
	m := NewMatchmaker(repo, 4, 10*time.Millisecond)
	fixedSeed(m)

	var wg sync.WaitGroup
	var mu sync.Mutex
	matchedCount := 0
	battleIDs := make([]uint, 0, n)

	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			id, matched, err := m.RequestBattle(userID)
			if err != nil {
				t.Errorf("request for user %d failed: %v", userID, err)
				return
			}
			mu.Lock()
			if matched {
				matchedCount++
			}
			battleIDs = append(battleIDs, id)
			mu.Unlock()
		}(uint(i))
	}
	wg.Wait()

	// Every matching request completes exactly one pairing.
	if matchedCount != n/2 {
		t.Fatalf("expected %d pairings from %d requests, got %d", n/2, n, matchedCount)
	}
	seen := make(map[uint]int)
	for _, id := range battleIDs {
		seen[id]++
	}
	for id, c := range seen {
		if c != 2 {
			t.Fatalf("battle %d has %d requests attached, expected 2", id, c)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for id := range seen {
		if err := m.AwaitCompletion(ctx, id); err != nil {
			t.Fatalf("battle %d never completed: %v", id, err)
		}
	}
}

func TestAwaitCompletion_CancelAbandonsWaitNotBattle(t *testing.T) {
	repo := newMockBattleRepo()
	addFighters(repo, 1)
	m := NewMatchmaker(repo, 4, time.Hour)
	fixedSeed(m)

	id, _, err := m.RequestBattle(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.AwaitCompletion(ctx, id); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The pending battle survives the abandoned wait.
	parts, _ := repo.GetParticipants(id)
	if len(parts) != 1 {
		t.Fatalf("pending battle must remain open, got %d participants", len(parts))
	}
}

func TestAwaitCompletion_AbandonedWaitLeavesNoWaiterEntry(t *testing.T) {
	repo := newMockBattleRepo()
	addFighters(repo, 1)
	m := NewMatchmaker(repo, 4, time.Hour)
	fixedSeed(m)

	id, _, err := m.RequestBattle(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := m.AwaitCompletion(ctx, id); err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	}

	m.waiters.mu.Lock()
	entries := len(m.waiters.entries)
	m.waiters.mu.Unlock()
	if entries != 0 {
		t.Fatalf("abandoned waits must not leave waiter entries, got %d", entries)
	}
}

func TestAwaitCompletion_WakesOnRunnerSignal(t *testing.T) {
	repo := newMockBattleRepo()
	addFighters(repo, 2)
	// Hour-long poll interval: only the runner's completion signal can wake
	// the waiter in time.
	m := NewMatchmaker(repo, 4, time.Hour)
	fixedSeed(m)

	id, _, err := m.RequestBattle(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- m.AwaitCompletion(ctx, id)
	}()

	// Give the waiter a moment to subscribe, then complete the pairing.
	time.Sleep(20 * time.Millisecond)
	if _, matched, err := m.RequestBattle(2); err != nil || !matched {
		t.Fatalf("pairing failed: matched=%v err=%v", matched, err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("waiter failed: %v", err)
		}
	case <-time.After(4 * time.Second):
		t.Fatalf("waiter did not wake on the completion signal")
	}
}
