package storage

import (
	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/game"
	"github.com/fabio-anzola/MCTG/internal/logging"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func OpenAndMigrate(dataSourceName string, starterPackages [][]game.Card) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&game.User{},
		&game.Card{},
		&game.CardPackage{},
		&game.Battle{},
		&game.Participation{},
		&game.BattleLogEntry{},
		&game.Trade{},
	)
	if err != nil {
		return nil, err
	}

	// Enforce gapless, duplicate-free log rows per battle with an explicit
	// UNIQUE index; AutoMigrate alone does not guarantee it across SQLite
	// schema upgrades.
	if execErr := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_battle_log_row ON battle_log(battle_id, row_nr);").Error; execErr != nil {
		return nil, execErr
	}

	seedStarterPackages(db, starterPackages)
	return db, nil
}

// seedStarterPackages fills the shop with the configured packages the first
// time the server starts with an empty package table. Card IDs are minted
// here; a failure is logged but does not abort startup.
func seedStarterPackages(db *gorm.DB, starterPackages [][]game.Card) {
	var count int64
	db.Model(&game.CardPackage{}).Count(&count)
	if count > 0 {
		return
	}
	for _, cards := range starterPackages {
		pkg := game.CardPackage{Price: constants.PackagePrice}
		for _, c := range cards {
			c.ID = uuid.NewString()
			pkg.Cards = append(pkg.Cards, c)
		}
		if err := db.Create(&pkg).Error; err != nil {
			logging.Error("failed to seed starter package", err, nil)
			return
		}
	}
	logging.Info("seeded starter packages", logging.Fields{"packages": len(starterPackages)})
}
