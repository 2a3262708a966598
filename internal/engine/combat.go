package engine

// Pure combat rules for two-player card battles. The engine never touches
// storage: it operates on in-memory deck snapshots and reports what happened
// as log lines for the caller to persist.

import (
	"fmt"
	"math/rand"

	"github.com/fabio-anzola/MCTG/internal/game"
)

// MaxRounds caps the round loop; reaching it with both decks non-empty is a
// draw.
const MaxRounds = 100

// Side identifies the winner of a round or battle.
type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

// Combatant is one side's battle state: owner identity, rating and the deck
// snapshot cards are drawn from. The deck starts as the owner's full
// collection; round resolutions move cards between the two decks.
type Combatant struct {
	Username string
	Elo      int
	Deck     []game.Card
}

// RoundResult describes a single resolved round.
type RoundResult struct {
	Winner  Side // SideNone on a tie
	CardA   game.Card
	CardB   game.Card
	DamageA int
	DamageB int
	Lines   []string
}

// Outcome is the terminal state of a battle.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeAWins
	OutcomeBWins
)

// PlayRound draws one card per side, applies all damage rules and resolves
// the round. On a decisive round the loser's drawn card moves into the
// winner's deck; drawing itself never removes a card. The round parameter is
// 1-based.
func PlayRound(rng *rand.Rand, round int, a, b *Combatant) RoundResult {
	idxA := rng.Intn(len(a.Deck))
	idxB := rng.Intn(len(b.Deck))
	cardA := &a.Deck[idxA]
	cardB := &b.Deck[idxB]

	res := RoundResult{
		Lines: []string{
			fmt.Sprintf("Card of %s: %s with damage %d", a.Username, cardA.Name, cardA.Damage),
			fmt.Sprintf("Card of %s: %s with damage %d", b.Username, cardB.Name, cardB.Damage),
		},
	}

	applyUnderdogBonus(round, a, b, cardA, cardB, &res.Lines)

	dA := cardA.Damage
	dB := cardB.Damage
	applyNamedOverrides(cardA, cardB, &dA, &dB, &res.Lines)
	applyElementalModifier(cardA, cardB, &dA, &dB, &res.Lines)

	res.CardA = *cardA
	res.CardB = *cardB
	res.DamageA = dA
	res.DamageB = dB
	res.Lines = append(res.Lines, fmt.Sprintf("Damage is %d (%s) vs %d (%s)", dA, a.Username, dB, b.Username))

	switch {
	case dA > dB:
		res.Winner = SideA
		res.Lines = append(res.Lines, fmt.Sprintf("%s wins round %d", a.Username, round))
		transferCard(b, a, idxB)
	case dB > dA:
		res.Winner = SideB
		res.Lines = append(res.Lines, fmt.Sprintf("%s wins round %d", b.Username, round))
		transferCard(a, b, idxA)
	default:
		res.Winner = SideNone
		res.Lines = append(res.Lines, fmt.Sprintf("Round %d is a tie", round))
	}

	return res
}

// transferCard moves the card at index i from the loser's deck to the end of
// the winner's deck. Total card count across both decks is unchanged.
func transferCard(loser, winner *Combatant, i int) {
	card := loser.Deck[i]
	loser.Deck = append(loser.Deck[:i], loser.Deck[i+1:]...)
	winner.Deck = append(winner.Deck, card)
}
