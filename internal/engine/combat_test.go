package engine

import (
	"math/rand"
	"testing"

	"github.com/fabio-anzola/MCTG/internal/game"
)

func TestPlayRound_WinnerTakesLosersCard(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := &Combatant{Username: "alice", Elo: 100, Deck: []game.Card{{ID: "c1", Name: "Dragon", Damage: 50, Type: game.TypeMonster, Element: game.ElementFire}}}
	b := &Combatant{Username: "bob", Elo: 100, Deck: []game.Card{{ID: "c2", Name: "Troll", Damage: 20, Type: game.TypeMonster, Element: game.ElementNormal}}}

	res := PlayRound(rng, 1, a, b)

	if res.Winner != SideA {
		t.Fatalf("expected side A to win, got %v", res.Winner)
	}
	if len(a.Deck) != 2 || len(b.Deck) != 0 {
		t.Fatalf("expected loser's card to transfer, got %d vs %d cards", len(a.Deck), len(b.Deck))
	}
	if a.Deck[1].ID != "c2" {
		t.Fatalf("expected transferred card at the end of the winner's deck, got %s", a.Deck[1].ID)
	}
}

func TestPlayRound_TieLeavesDecksUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := &Combatant{Username: "alice", Elo: 100, Deck: []game.Card{{ID: "c1", Name: "Troll", Damage: 20, Type: game.TypeMonster, Element: game.ElementNormal}}}
	b := &Combatant{Username: "bob", Elo: 100, Deck: []game.Card{{ID: "c2", Name: "Ork", Damage: 20, Type: game.TypeMonster, Element: game.ElementNormal}}}

	res := PlayRound(rng, 1, a, b)

	if res.Winner != SideNone {
		t.Fatalf("expected a tie, got %v", res.Winner)
	}
	if len(a.Deck) != 1 || len(b.Deck) != 1 {
		t.Fatalf("a tie must not move cards, got %d vs %d", len(a.Deck), len(b.Deck))
	}
}

func TestPlayRound_LogLines(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := &Combatant{Username: "alice", Elo: 100, Deck: []game.Card{{Name: "Dragon", Damage: 50, Type: game.TypeMonster, Element: game.ElementFire}}}
	b := &Combatant{Username: "bob", Elo: 100, Deck: []game.Card{{Name: "Troll", Damage: 20, Type: game.TypeMonster, Element: game.ElementNormal}}}

	res := PlayRound(rng, 1, a, b)

	want := []string{
		"Card of alice: Dragon with damage 50",
		"Card of bob: Troll with damage 20",
		"Damage is 50 (alice) vs 20 (bob)",
		"alice wins round 1",
	}
	if len(res.Lines) != len(want) {
		t.Fatalf("expected %d log lines, got %v", len(want), res.Lines)
	}
	for i, line := range want {
		if res.Lines[i] != line {
			t.Fatalf("line %d: expected %q, got %q", i, line, res.Lines[i])
		}
	}
}

func TestPlayRound_SpellRoundAppliesElements(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := &Combatant{Username: "alice", Elo: 100, Deck: []game.Card{{Name: "WaterSpell", Damage: 15, Type: game.TypeSpell, Element: game.ElementWater}}}
	b := &Combatant{Username: "bob", Elo: 100, Deck: []game.Card{{Name: "FireTroll", Damage: 25, Type: game.TypeMonster, Element: game.ElementFire}}}

	res := PlayRound(rng, 1, a, b)

	// 15 doubled to 30 beats 25.
	if res.DamageA != 30 || res.DamageB != 25 {
		t.Fatalf("expected 30 vs 25 after the elemental doubling, got %d vs %d", res.DamageA, res.DamageB)
	}
	if res.Winner != SideA {
		t.Fatalf("expected the doubled spell to win, got %v", res.Winner)
	}
}

func TestPlayRound_CardCountIsConserved(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := &Combatant{Username: "alice", Elo: 90, Deck: []game.Card{
		{ID: "a1", Name: "Dragon", Damage: 50, Type: game.TypeMonster, Element: game.ElementFire},
		{ID: "a2", Name: "WaterSpell", Damage: 20, Type: game.TypeSpell, Element: game.ElementWater},
		{ID: "a3", Name: "Goblin", Damage: 15, Type: game.TypeMonster, Element: game.ElementNormal},
	}}
	b := &Combatant{Username: "bob", Elo: 110, Deck: []game.Card{
		{ID: "b1", Name: "Kraken", Damage: 40, Type: game.TypeMonster, Element: game.ElementWater},
		{ID: "b2", Name: "FireSpell", Damage: 25, Type: game.TypeSpell, Element: game.ElementFire},
		{ID: "b3", Name: "Ork", Damage: 30, Type: game.TypeMonster, Element: game.ElementNormal},
	}}

	total := len(a.Deck) + len(b.Deck)
	round := 0
	for round < MaxRounds && len(a.Deck) > 0 && len(b.Deck) > 0 {
		round++
		PlayRound(rng, round, a, b)
		if len(a.Deck)+len(b.Deck) != total {
			t.Fatalf("round %d: card count changed to %d, expected %d", round, len(a.Deck)+len(b.Deck), total)
		}
	}
}
