package storage

import (
	"errors"
	"time"

	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/game"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateUser(u *game.User) error {
	return r.db.Create(u).Error
}

func (r *sqliteRepository) GetUserByUsername(username string) (*game.User, error) {
	var u game.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) GetUserByID(id uint) (*game.User, error) {
	var u game.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepository) UpdateUser(u *game.User) error {
	return r.db.Save(u).Error
}

func (r *sqliteRepository) GetOwnedCards(userID uint) ([]game.Card, error) {
	var cards []game.Card
	if err := r.db.Where("user_id = ?", userID).Order("created_at, id").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *sqliteRepository) GetDeckCards(userID uint) ([]game.Card, error) {
	var cards []game.Card
	if err := r.db.Where("user_id = ? AND in_deck = ?", userID, true).Order("created_at, id").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *sqliteRepository) SetDeck(userID uint, cardIDs []string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var owned int64
	if err := tx.Model(&game.Card{}).Where("user_id = ? AND id IN ?", userID, cardIDs).Count(&owned).Error; err != nil {
		tx.Rollback()
		return err
	}
	if int(owned) != len(cardIDs) {
		tx.Rollback()
		return ErrCardNotOwned
	}

	if err := tx.Model(&game.Card{}).Where("user_id = ?", userID).Update("in_deck", false).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&game.Card{}).Where("id IN ?", cardIDs).Update("in_deck", true).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (r *sqliteRepository) GetCardByID(id string) (*game.Card, error) {
	var c game.Card
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepository) CreatePackage(cards []game.Card) (*game.CardPackage, error) {
	pkg := game.CardPackage{Price: constants.PackagePrice, Cards: cards}
	if err := r.db.Create(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *sqliteRepository) BuyPackage(userID uint) ([]game.Card, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var u game.User
	if err := tx.First(&u, userID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var pkg game.CardPackage
	if err := tx.Preload("Cards").Where("sold = ?", false).Order("created_at, id").First(&pkg).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPackageAvailable
		}
		return nil, err
	}
	if u.Coins < pkg.Price {
		tx.Rollback()
		return nil, ErrNotEnoughCoins
	}

	if err := tx.Model(&game.Card{}).Where("package_id = ?", pkg.ID).Update("user_id", userID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&pkg).Update("sold", true).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	u.Coins -= pkg.Price
	if err := tx.Save(&u).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	for i := range pkg.Cards {
		uid := userID
		pkg.Cards[i].UserID = &uid
	}
	return pkg.Cards, nil
}

func (r *sqliteRepository) ListTrades() ([]game.Trade, error) {
	var trades []game.Trade
	if err := r.db.Order("created_at, id").Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *sqliteRepository) GetTradeByID(id string) (*game.Trade, error) {
	var t game.Trade
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *sqliteRepository) CreateTrade(t *game.Trade) error {
	return r.db.Create(t).Error
}

func (r *sqliteRepository) DeleteTrade(id string) error {
	return r.db.Delete(&game.Trade{}, "id = ?", id).Error
}

func (r *sqliteRepository) ExecuteTrade(tradeID string, buyerID uint, offeredCardID string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var t game.Trade
	if err := tx.First(&t, "id = ?", tradeID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if t.OfferedByID == buyerID {
		tx.Rollback()
		return ErrSelfTrade
	}

	var offered game.Card
	if err := tx.First(&offered, "id = ?", offeredCardID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if offered.UserID == nil || *offered.UserID != buyerID {
		tx.Rollback()
		return ErrCardNotOwned
	}
	if offered.Type != t.WantedType || offered.Damage < t.MinimumDamage {
		tx.Rollback()
		return ErrTradeRequirement
	}

	// Swap ownership and close the trade.
	if err := tx.Model(&game.Card{}).Where("id = ?", t.CardID).Updates(map[string]interface{}{"user_id": buyerID, "in_deck": false}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&game.Card{}).Where("id = ?", offered.ID).Updates(map[string]interface{}{"user_id": t.OfferedByID, "in_deck": false}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&game.Trade{}, "id = ?", t.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// GetScoreboard returns users ordered by rating descending, username as the
// tie breaker so the ordering is stable.
func (r *sqliteRepository) GetScoreboard(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []game.User
	if err := r.db.Model(&game.User{}).
		Order("elo DESC").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) GetUserRecord(userID uint) (wins, losses, ties int, err error) {
	count := func(result game.BattleResult) (int, error) {
		var n int64
		e := r.db.Model(&game.Participation{}).Where("user_id = ? AND result = ?", userID, result).Count(&n).Error
		return int(n), e
	}
	if wins, err = count(game.ResultWin); err != nil {
		return 0, 0, 0, err
	}
	if losses, err = count(game.ResultLoss); err != nil {
		return 0, 0, 0, err
	}
	if ties, err = count(game.ResultTie); err != nil {
		return 0, 0, 0, err
	}
	return wins, losses, ties, nil
}

func (r *sqliteRepository) CreateBattle(creatorID uint) (*game.Battle, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var creator game.User
	if err := tx.First(&creator, creatorID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	b := game.Battle{
		Participations: []game.Participation{{UserID: creatorID}},
	}
	if err := tx.Create(&b).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	entry := game.BattleLogEntry{BattleID: b.ID, RowNr: 1, Text: "Battle initialized by " + creator.Username}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ClaimPendingBattle selects the earliest-created battle that still has
// exactly one undecided participation and joins userID to it, all in one
// transaction. The undecided count is taken over ALL participations of a
// battle, so a running battle the caller sits in (two undecided rows) never
// shadows a later pending battle; the caller's own pending battle is
// excluded afterwards. The participation count is re-checked inside the
// transaction so two concurrent claims cannot both attach to the same
// battle.
func (r *sqliteRepository) ClaimPendingBattle(userID uint) (*game.Battle, error) {
	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var b game.Battle
	err := tx.
		Joins("JOIN user_battles ub ON ub.battle_id = battles.id AND ub.deleted_at IS NULL").
		Where("ub.result = ?", string(game.ResultPending)).
		Group("battles.id").
		Having("COUNT(ub.id) = 1").
		Having("SUM(CASE WHEN ub.user_id = ? THEN 1 ELSE 0 END) = 0", userID).
		Order("battles.created_at, battles.id").
		First(&b).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingBattle
		}
		return nil, err
	}

	var participants int64
	if err := tx.Model(&game.Participation{}).Where("battle_id = ?", b.ID).Count(&participants).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if participants != 1 {
		// Raced with another claim; treat as no pending battle.
		tx.Rollback()
		return nil, ErrNoPendingBattle
	}

	p := game.Participation{BattleID: b.ID, UserID: userID}
	if err := tx.Create(&p).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *sqliteRepository) GetBattleByID(id uint) (*game.Battle, error) {
	var b game.Battle
	if err := r.db.Preload("Participations").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *sqliteRepository) GetParticipants(battleID uint) ([]game.Participation, error) {
	var parts []game.Participation
	if err := r.db.Where("battle_id = ?", battleID).Order("created_at, id").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// IsBattleComplete reports whether every participation has a result.
func (r *sqliteRepository) IsBattleComplete(battleID uint) (bool, error) {
	var total, undecided int64
	if err := r.db.Model(&game.Participation{}).Where("battle_id = ?", battleID).Count(&total).Error; err != nil {
		return false, err
	}
	if total == 0 {
		return false, gorm.ErrRecordNotFound
	}
	if err := r.db.Model(&game.Participation{}).Where("battle_id = ? AND result = ?", battleID, string(game.ResultPending)).Count(&undecided).Error; err != nil {
		return false, err
	}
	return undecided == 0, nil
}

func (r *sqliteRepository) AppendBattleLog(battleID uint, text string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := appendLogLine(tx, battleID, text); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// appendLogLine assigns the next row number within the caller's transaction
// so row numbers stay gapless under the UNIQUE (battle_id, row_nr) index.
func appendLogLine(tx *gorm.DB, battleID uint, text string) error {
	var maxRow int
	if err := tx.Model(&game.BattleLogEntry{}).Where("battle_id = ?", battleID).
		Select("COALESCE(MAX(row_nr), 0)").Scan(&maxRow).Error; err != nil {
		return err
	}
	entry := game.BattleLogEntry{BattleID: battleID, RowNr: maxRow + 1, Text: text}
	return tx.Create(&entry).Error
}

func (r *sqliteRepository) GetBattleLog(battleID uint) ([]game.BattleLogEntry, error) {
	var entries []game.BattleLogEntry
	if err := r.db.Where("battle_id = ?", battleID).Order("row_nr").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *sqliteRepository) SetBattleStart(battleID uint, startedAt time.Time) error {
	return r.db.Model(&game.Battle{}).Where("id = ?", battleID).Update("started_at", startedAt).Error
}

func (r *sqliteRepository) FinalizeBattle(battleID uint, endedAt time.Time, rounds int, closingLines []string, outcomes []ParticipantOutcome) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Model(&game.Battle{}).Where("id = ?", battleID).
		Updates(map[string]interface{}{"ended_at": endedAt, "rounds": rounds}).Error; err != nil {
		tx.Rollback()
		return err
	}

	for _, o := range outcomes {
		if err := tx.Model(&game.Participation{}).
			Where("battle_id = ? AND user_id = ?", battleID, o.UserID).
			Update("result", string(o.Result)).Error; err != nil {
			tx.Rollback()
			return err
		}
		if o.EloDelta != 0 {
			if err := tx.Model(&game.User{}).Where("id = ?", o.UserID).
				Update("elo", gorm.Expr("elo + ?", o.EloDelta)).Error; err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	for _, line := range closingLines {
		if err := appendLogLine(tx, battleID, line); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

func (r *sqliteRepository) FindStalePendingBattles(createdBefore time.Time) ([]game.Battle, error) {
	var battles []game.Battle
	err := r.db.
		Joins("JOIN user_battles ub ON ub.battle_id = battles.id AND ub.deleted_at IS NULL").
		Where("ub.result = ?", string(game.ResultPending)).
		Where("battles.created_at < ?", createdBefore).
		Group("battles.id").
		Having("COUNT(ub.id) = 1").
		Order("battles.created_at, battles.id").
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	return battles, nil
}
