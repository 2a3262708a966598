package engine

import (
	"fmt"

	"github.com/fabio-anzola/MCTG/internal/game"
)

// applyUnderdogBonus doubles the damage of the lower-rated owner's drawn card
// when the round number is even and either deck is down to its last card. The
// doubling is written back to the snapshot card, so it persists for the rest
// of the battle; a rating tie has no effect.
func applyUnderdogBonus(round int, a, b *Combatant, cardA, cardB *game.Card, lines *[]string) {
	if round%2 != 0 {
		return
	}
	if len(a.Deck) != 1 && len(b.Deck) != 1 {
		return
	}
	switch {
	case a.Elo < b.Elo:
		cardA.Damage *= 2
		*lines = append(*lines, fmt.Sprintf("Underdog rule active! %s's %s deals double damage", a.Username, cardA.Name))
	case b.Elo < a.Elo:
		cardB.Damage *= 2
		*lines = append(*lines, fmt.Sprintf("Underdog rule active! %s's %s deals double damage", b.Username, cardB.Name))
	}
}

// applyNamedOverrides forces one side's damage to zero for the well-known
// card matchups. Each rule is checked in both directions and is independent
// of any damage modification applied before it.
func applyNamedOverrides(cardA, cardB *game.Card, dA, dB *int, lines *[]string) {
	goblinDragon := func(goblin, dragon *game.Card, goblinDamage *int) {
		if goblin.Name == "Goblin" && dragon.Name == "Dragon" {
			*goblinDamage = 0
			*lines = append(*lines, "-> Goblin is too afraid to attack!")
		}
	}
	goblinDragon(cardA, cardB, dA)
	goblinDragon(cardB, cardA, dB)

	wizardOrk := func(wizard, ork *game.Card, orkDamage *int) {
		if wizard.Name == "Wizard" && ork.Name == "Ork" {
			*orkDamage = 0
			*lines = append(*lines, "-> Wizard controls Ork. No damage!")
		}
	}
	wizardOrk(cardA, cardB, dB)
	wizardOrk(cardB, cardA, dA)

	knightWaterSpell := func(knight, other *game.Card, knightDamage *int) {
		if knight.Name == "Knight" && other.Type == game.TypeSpell && other.Element == game.ElementWater {
			*knightDamage = 0
			*lines = append(*lines, "-> Knight drowns due to WaterSpell!")
		}
	}
	knightWaterSpell(cardA, cardB, dA)
	knightWaterSpell(cardB, cardA, dB)

	krakenSpell := func(kraken, spell *game.Card, spellDamage *int) {
		if kraken.Name == "Kraken" && spell.Type == game.TypeSpell {
			*spellDamage = 0
			*lines = append(*lines, "-> Kraken is immune to spells!")
		}
	}
	krakenSpell(cardA, cardB, dB)
	krakenSpell(cardB, cardA, dA)

	fireElfDragon := func(elf, dragon *game.Card, dragonDamage *int) {
		if elf.Name == "FireElf" && dragon.Name == "Dragon" {
			*dragonDamage = 0
			*lines = append(*lines, "-> FireElf evades Dragon's attack!")
		}
	}
	fireElfDragon(cardA, cardB, dB)
	fireElfDragon(cardB, cardA, dA)
}

// elementBeats reports whether x dominates y under the cyclic ordering
// WATER > FIRE > NORMAL > WATER.
func elementBeats(x, y game.Element) bool {
	switch x {
	case game.ElementWater:
		return y == game.ElementFire
	case game.ElementFire:
		return y == game.ElementNormal
	case game.ElementNormal:
		return y == game.ElementWater
	}
	return false
}

// applyElementalModifier doubles the dominant side's damage when at least one
// drawn card is a spell. Equal elements, or pairs with no dominance, are
// unaffected.
func applyElementalModifier(cardA, cardB *game.Card, dA, dB *int, lines *[]string) {
	if cardA.Type != game.TypeSpell && cardB.Type != game.TypeSpell {
		return
	}
	*lines = append(*lines, "Spell affects the damage calculation!")

	switch {
	case elementBeats(cardA.Element, cardB.Element):
		*dA *= 2
		*lines = append(*lines, fmt.Sprintf("-> %s > %s", cardA.Element, cardB.Element))
	case elementBeats(cardB.Element, cardA.Element):
		*dB *= 2
		*lines = append(*lines, fmt.Sprintf("-> %s > %s", cardB.Element, cardA.Element))
	}
}
