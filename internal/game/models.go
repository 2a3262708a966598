package game

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// CardType distinguishes creatures from one-shot spells. Using a dedicated
// string type instead of plain string makes code safer and self-documenting.
type CardType string

const (
	TypeMonster CardType = "MONSTER"
	TypeSpell   CardType = "SPELL"
)

// Element is the elemental affinity of a card.
type Element string

const (
	ElementFire   Element = "FIRE"
	ElementWater  Element = "WATER"
	ElementNormal Element = "NORMAL"
)

// BattleResult is the per-participant outcome of a finished battle. The empty
// value means the battle has not been decided for that participant yet; a
// battle with exactly one undecided participation is open for matchmaking.
type BattleResult string

const (
	ResultPending BattleResult = ""
	ResultWin     BattleResult = "WIN"
	ResultLoss    BattleResult = "LOSS"
	ResultTie     BattleResult = "TIE"
)

// User stores account identity, currency and the battle rating.
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"uniqueIndex;size:64"`
	PasswordHash string `json:"-"`
	// Profile fields editable by the user.
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Image string `json:"image"`
	// Coins buy card packages. New accounts start with 20.
	Coins int `json:"coins"`
	// Elo is adjusted after every battle: +3 win, -5 loss, unchanged on tie.
	Elo int `json:"elo"`
}

func (User) TableName() string { return "users" }

// Card is a tradable, battle-capable card. Card IDs are UUID strings supplied
// by the package creator, so the primary key is not an auto-increment.
type Card struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name    string   `json:"name"`
	Damage  int      `json:"damage"`
	Type    CardType `json:"card_type"`
	Element Element  `json:"element_type"`

	// UserID is nil while the card sits in an unsold package.
	UserID    *uint `json:"-" gorm:"index"`
	PackageID *uint `json:"-"`

	// InDeck marks the card as part of the owner's configured 4-card deck.
	// Battle simulation draws from the full owned collection regardless.
	InDeck bool `json:"in_deck"`
}

func (Card) TableName() string { return "cards" }

// TypeFromName derives a card's type from its name: anything containing
// "Spell" is a spell, everything else is a monster.
func TypeFromName(name string) CardType {
	if strings.Contains(name, "Spell") {
		return TypeSpell
	}
	return TypeMonster
}

// ElementFromName derives a card's element from name prefixes
// ("WaterGoblin", "FireSpell"); unprefixed cards are NORMAL.
func ElementFromName(name string) Element {
	switch {
	case strings.HasPrefix(name, "Water"):
		return ElementWater
	case strings.HasPrefix(name, "Fire"):
		return ElementFire
	default:
		return ElementNormal
	}
}

// CardPackage is a sealed set of five cards purchasable for a fixed price.
type CardPackage struct {
	gorm.Model
	Price int    `json:"price"`
	Sold  bool   `json:"sold"`
	Cards []Card `json:"cards" gorm:"foreignKey:PackageID"`
}

func (CardPackage) TableName() string { return "card_packages" }

// Battle is one matched two-player combat session. StartedAt is set when the
// runner begins, EndedAt and Rounds when the outcome is finalized. Battles
// are never deleted.
type Battle struct {
	gorm.Model
	StartedAt      *time.Time       `json:"started_at"`
	EndedAt        *time.Time       `json:"ended_at"`
	Rounds         int              `json:"rounds"`
	Participations []Participation  `json:"participations"`
	LogEntries     []BattleLogEntry `json:"-"`
}

func (Battle) TableName() string { return "battles" }

// Participation records one user's membership and outcome within a battle.
// Exactly one row per participant; the result is written exactly once, at
// finalization.
type Participation struct {
	gorm.Model
	BattleID uint         `json:"-" gorm:"index"`
	UserID   uint         `json:"user_id" gorm:"index"`
	Result   BattleResult `json:"result"`
}

func (Participation) TableName() string { return "user_battles" }

// BattleLogEntry is one append-only log line of a battle. Row numbers are
// strictly increasing per battle with no gaps and are assigned by the
// repository at insert time.
type BattleLogEntry struct {
	gorm.Model
	BattleID uint   `json:"-" gorm:"index;uniqueIndex:idx_battle_log_row"`
	RowNr    int    `json:"row_nr" gorm:"uniqueIndex:idx_battle_log_row"`
	Text     string `json:"text"`
}

func (BattleLogEntry) TableName() string { return "battle_log" }

// Trade is an open offer to exchange a card for one meeting the stated
// requirements. Accepted or deleted trades are removed.
type Trade struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	CardID        string   `json:"card_to_trade"`
	OfferedByID   uint     `json:"-" gorm:"index"`
	WantedType    CardType `json:"type"`
	MinimumDamage int      `json:"minimum_damage"`
}

func (Trade) TableName() string { return "trades" }
