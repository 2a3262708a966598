package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/game"
)

// newTestRepo opens a fresh named in-memory database per test so tests do
// not see each other's state.
func newTestRepo(t *testing.T, name string) Repository {
	t.Helper()
	db, err := OpenAndMigrate(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return NewSQLiteRepository(db)
}

func newTestUser(t *testing.T, repo Repository, username string) *game.User {
	t.Helper()
	u := &game.User{Username: username, Coins: constants.StarterCoins, Elo: constants.StartingElo}
	if err := repo.CreateUser(u); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return u
}

func TestClaimPendingBattle_JoinsEarliestFirst(t *testing.T) {
	repo := newTestRepo(t, "claim_order")
	alice := newTestUser(t, repo, "alice")
	bob := newTestUser(t, repo, "bob")
	carol := newTestUser(t, repo, "carol")

	first, err := repo.CreateBattle(alice.ID)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := repo.CreateBattle(bob.ID)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}

	claimed, err := repo.ClaimPendingBattle(carol.ID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed.ID != first.ID {
		t.Fatalf("expected the earliest pending battle %d, got %d", first.ID, claimed.ID)
	}

	parts, err := repo.GetParticipants(claimed.ID)
	if err != nil {
		t.Fatalf("get participants: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 participants after claim, got %d", len(parts))
	}

	// The second pending battle is untouched.
	parts, _ = repo.GetParticipants(second.ID)
	if len(parts) != 1 {
		t.Fatalf("second pending battle must stay open, got %d participants", len(parts))
	}
}

func TestClaimPendingBattle_NeverJoinsOwnBattle(t *testing.T) {
	repo := newTestRepo(t, "claim_self")
	alice := newTestUser(t, repo, "alice")

	if _, err := repo.CreateBattle(alice.ID); err != nil {
		t.Fatalf("create battle: %v", err)
	}
	if _, err := repo.ClaimPendingBattle(alice.ID); err != ErrNoPendingBattle {
		t.Fatalf("expected ErrNoPendingBattle for own battle, got %v", err)
	}
}

func TestClaimPendingBattle_RunningBattleDoesNotShadowPending(t *testing.T) {
	repo := newTestRepo(t, "claim_shadow")
	alice := newTestUser(t, repo, "alice")
	bob := newTestUser(t, repo, "bob")
	carol := newTestUser(t, repo, "carol")

	// alice and bob sit in a matched but unfinalized battle.
	running, err := repo.CreateBattle(alice.ID)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}
	if _, err := repo.ClaimPendingBattle(bob.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	pending, err := repo.CreateBattle(carol.ID)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}

	// A retry by a participant of the running battle must still find carol's
	// later pending battle.
	claimed, err := repo.ClaimPendingBattle(alice.ID)
	if err != nil {
		t.Fatalf("expected to claim the pending battle, got %v", err)
	}
	if claimed.ID != pending.ID {
		t.Fatalf("expected battle %d, got %d", pending.ID, claimed.ID)
	}

	parts, _ := repo.GetParticipants(running.ID)
	if len(parts) != 2 {
		t.Fatalf("running battle must be untouched, got %d participants", len(parts))
	}
}

func TestClaimPendingBattle_FullBattleIsNotPending(t *testing.T) {
	repo := newTestRepo(t, "claim_full")
	alice := newTestUser(t, repo, "alice")
	bob := newTestUser(t, repo, "bob")
	carol := newTestUser(t, repo, "carol")

	if _, err := repo.CreateBattle(alice.ID); err != nil {
		t.Fatalf("create battle: %v", err)
	}
	if _, err := repo.ClaimPendingBattle(bob.ID); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if _, err := repo.ClaimPendingBattle(carol.ID); err != ErrNoPendingBattle {
		t.Fatalf("expected ErrNoPendingBattle once the battle is full, got %v", err)
	}
}

func TestAppendBattleLog_RowNumbersAreGapless(t *testing.T) {
	repo := newTestRepo(t, "log_rows")
	alice := newTestUser(t, repo, "alice")

	b, err := repo.CreateBattle(alice.ID)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := repo.AppendBattleLog(b.ID, fmt.Sprintf("line %d", i)); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	entries, err := repo.GetBattleLog(b.ID)
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	// Row 1 is the creation line written by CreateBattle.
	if len(entries) != 6 {
		t.Fatalf("expected 6 log rows, got %d", len(entries))
	}
	for i, e := range entries {
		if e.RowNr != i+1 {
			t.Fatalf("row %d has number %d, rows must be gapless from 1", i, e.RowNr)
		}
	}
	if entries[0].Text != "Battle initialized by alice" {
		t.Fatalf("unexpected first row %q", entries[0].Text)
	}
}

func TestFinalizeBattle_WritesResultsAndRatings(t *testing.T) {
	repo := newTestRepo(t, "finalize")
	alice := newTestUser(t, repo, "alice")
	bob := newTestUser(t, repo, "bob")

	b, err := repo.CreateBattle(alice.ID)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}
	if _, err := repo.ClaimPendingBattle(bob.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if done, _ := repo.IsBattleComplete(b.ID); done {
		t.Fatalf("battle must not be complete before finalization")
	}

	err = repo.FinalizeBattle(b.ID, time.Now(), 7, []string{"### Rounds complete ###", "alice wins!"}, []ParticipantOutcome{
		{UserID: alice.ID, Result: game.ResultWin, EloDelta: 3},
		{UserID: bob.ID, Result: game.ResultLoss, EloDelta: -5},
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	// Both closing lines land inside the finalization transaction.
	entries, err := repo.GetBattleLog(b.ID)
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	if len(entries) < 3 {
		t.Fatalf("expected creation line plus two closing lines, got %d rows", len(entries))
	}
	if entries[len(entries)-2].Text != "### Rounds complete ###" || entries[len(entries)-1].Text != "alice wins!" {
		t.Fatalf("closing lines missing or out of order: %q, %q", entries[len(entries)-2].Text, entries[len(entries)-1].Text)
	}

	done, err := repo.IsBattleComplete(b.ID)
	if err != nil || !done {
		t.Fatalf("expected complete battle, done=%v err=%v", done, err)
	}

	gotAlice, _ := repo.GetUserByID(alice.ID)
	gotBob, _ := repo.GetUserByID(bob.ID)
	if gotAlice.Elo != constants.StartingElo+3 {
		t.Fatalf("winner rating: expected %d, got %d", constants.StartingElo+3, gotAlice.Elo)
	}
	if gotBob.Elo != constants.StartingElo-5 {
		t.Fatalf("loser rating: expected %d, got %d", constants.StartingElo-5, gotBob.Elo)
	}

	wins, losses, ties, err := repo.GetUserRecord(alice.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if wins != 1 || losses != 0 || ties != 0 {
		t.Fatalf("unexpected record %d/%d/%d", wins, losses, ties)
	}

	updated, _ := repo.GetBattleByID(b.ID)
	if updated.EndedAt == nil || updated.Rounds != 7 {
		t.Fatalf("battle end state not persisted: %+v", updated)
	}
}

func TestBuyPackage_TransfersCardsAndCoins(t *testing.T) {
	repo := newTestRepo(t, "buy_package")
	alice := newTestUser(t, repo, "alice")

	cards := make([]game.Card, 0, constants.PackageSize)
	for i := 0; i < constants.PackageSize; i++ {
		cards = append(cards, game.Card{
			ID:      fmt.Sprintf("pkg-card-%d", i),
			Name:    "WaterGoblin",
			Damage:  10 + i,
			Type:    game.TypeMonster,
			Element: game.ElementWater,
		})
	}
	if _, err := repo.CreatePackage(cards); err != nil {
		t.Fatalf("create package: %v", err)
	}

	bought, err := repo.BuyPackage(alice.ID)
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if len(bought) != constants.PackageSize {
		t.Fatalf("expected %d cards, got %d", constants.PackageSize, len(bought))
	}

	owned, _ := repo.GetOwnedCards(alice.ID)
	if len(owned) != constants.PackageSize {
		t.Fatalf("expected ownership transfer, got %d owned cards", len(owned))
	}
	u, _ := repo.GetUserByID(alice.ID)
	if u.Coins != constants.StarterCoins-constants.PackagePrice {
		t.Fatalf("expected %d coins left, got %d", constants.StarterCoins-constants.PackagePrice, u.Coins)
	}

	// Sold packages do not come back.
	if _, err := repo.BuyPackage(alice.ID); err != ErrNoPackageAvailable {
		t.Fatalf("expected ErrNoPackageAvailable, got %v", err)
	}
}

func TestBuyPackage_InsufficientCoins(t *testing.T) {
	repo := newTestRepo(t, "buy_broke")
	alice := newTestUser(t, repo, "alice")
	alice.Coins = constants.PackagePrice - 1
	if err := repo.UpdateUser(alice); err != nil {
		t.Fatalf("update user: %v", err)
	}

	if _, err := repo.CreatePackage([]game.Card{{ID: "c1", Name: "Dragon", Damage: 50, Type: game.TypeMonster, Element: game.ElementFire}}); err != nil {
		t.Fatalf("create package: %v", err)
	}
	if _, err := repo.BuyPackage(alice.ID); err != ErrNotEnoughCoins {
		t.Fatalf("expected ErrNotEnoughCoins, got %v", err)
	}
}

func TestExecuteTrade_SwapsOwnership(t *testing.T) {
	repo := newTestRepo(t, "trade_swap")
	alice := newTestUser(t, repo, "alice")
	bob := newTestUser(t, repo, "bob")

	seedCard := func(id, name string, damage int) {
		_, err := repo.CreatePackage([]game.Card{{ID: id, Name: name, Damage: damage, Type: game.TypeFromName(name), Element: game.ElementFromName(name)}})
		if err != nil {
			t.Fatalf("seed card %s: %v", id, err)
		}
	}
	// Seed each card in its own package and buy it into the right account.
	seedCard("offered", "WaterGoblin", 30)
	if _, err := repo.BuyPackage(alice.ID); err != nil {
		t.Fatalf("alice buy: %v", err)
	}
	seedCard("wanted", "Dragon", 50)
	if _, err := repo.BuyPackage(bob.ID); err != nil {
		t.Fatalf("bob buy: %v", err)
	}

	trade := &game.Trade{ID: "t1", CardID: "offered", OfferedByID: alice.ID, WantedType: game.TypeMonster, MinimumDamage: 40}
	if err := repo.CreateTrade(trade); err != nil {
		t.Fatalf("create trade: %v", err)
	}

	if err := repo.ExecuteTrade("t1", alice.ID, "wanted"); err != ErrSelfTrade {
		t.Fatalf("expected ErrSelfTrade, got %v", err)
	}
	if err := repo.ExecuteTrade("t1", bob.ID, "wanted"); err != nil {
		t.Fatalf("trade failed: %v", err)
	}

	offered, _ := repo.GetCardByID("offered")
	wanted, _ := repo.GetCardByID("wanted")
	if offered.UserID == nil || *offered.UserID != bob.ID {
		t.Fatalf("traded card must belong to the buyer")
	}
	if wanted.UserID == nil || *wanted.UserID != alice.ID {
		t.Fatalf("offered card must belong to the trade creator")
	}
	if _, err := repo.GetTradeByID("t1"); err == nil {
		t.Fatalf("executed trade must be removed")
	}
}

func TestExecuteTrade_EnforcesRequirements(t *testing.T) {
	repo := newTestRepo(t, "trade_reqs")
	alice := newTestUser(t, repo, "alice")
	bob := newTestUser(t, repo, "bob")

	if _, err := repo.CreatePackage([]game.Card{{ID: "offered", Name: "WaterGoblin", Damage: 30, Type: game.TypeMonster, Element: game.ElementWater}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.BuyPackage(alice.ID); err != nil {
		t.Fatalf("alice buy: %v", err)
	}
	if _, err := repo.CreatePackage([]game.Card{{ID: "weak", Name: "Goblin", Damage: 5, Type: game.TypeMonster, Element: game.ElementNormal}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.BuyPackage(bob.ID); err != nil {
		t.Fatalf("bob buy: %v", err)
	}

	trade := &game.Trade{ID: "t1", CardID: "offered", OfferedByID: alice.ID, WantedType: game.TypeMonster, MinimumDamage: 40}
	if err := repo.CreateTrade(trade); err != nil {
		t.Fatalf("create trade: %v", err)
	}

	if err := repo.ExecuteTrade("t1", bob.ID, "weak"); err != ErrTradeRequirement {
		t.Fatalf("expected ErrTradeRequirement, got %v", err)
	}
}

func TestSetDeck_RejectsForeignCards(t *testing.T) {
	repo := newTestRepo(t, "deck_foreign")
	alice := newTestUser(t, repo, "alice")
	bob := newTestUser(t, repo, "bob")

	mkPackage := func(prefix string) []game.Card {
		cards := make([]game.Card, 0, constants.PackageSize)
		for i := 0; i < constants.PackageSize; i++ {
			cards = append(cards, game.Card{
				ID:      fmt.Sprintf("%s-%d", prefix, i),
				Name:    "Knight",
				Damage:  20,
				Type:    game.TypeMonster,
				Element: game.ElementNormal,
			})
		}
		return cards
	}
	if _, err := repo.CreatePackage(mkPackage("alice")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	aliceCards, err := repo.BuyPackage(alice.ID)
	if err != nil {
		t.Fatalf("alice buy: %v", err)
	}
	if _, err := repo.CreatePackage(mkPackage("bob")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	bobCards, err := repo.BuyPackage(bob.ID)
	if err != nil {
		t.Fatalf("bob buy: %v", err)
	}

	ids := []string{aliceCards[0].ID, aliceCards[1].ID, aliceCards[2].ID, bobCards[0].ID}
	if err := repo.SetDeck(alice.ID, ids); err != ErrCardNotOwned {
		t.Fatalf("expected ErrCardNotOwned, got %v", err)
	}

	ids = []string{aliceCards[0].ID, aliceCards[1].ID, aliceCards[2].ID, aliceCards[3].ID}
	if err := repo.SetDeck(alice.ID, ids); err != nil {
		t.Fatalf("set deck failed: %v", err)
	}
	deck, _ := repo.GetDeckCards(alice.ID)
	if len(deck) != constants.DeckSize {
		t.Fatalf("expected %d deck cards, got %d", constants.DeckSize, len(deck))
	}
}
