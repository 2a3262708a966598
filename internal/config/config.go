package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fabio-anzola/MCTG/internal/game"
)

type cardEntry struct {
	Name   string `json:"name"`
	Damage int    `json:"damage"`
}

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Battle *struct {
		// Interval, in seconds, between completion re-polls while a caller
		// waits for a battle to finish.
		WaitPollSeconds int `json:"wait_poll_seconds"`
		// Upper bound on concurrently simulated battles.
		MaxConcurrent int `json:"max_concurrent"`
	} `json:"battle"`
	// StarterPackages seeds the shop on first start: each entry is a list of
	// five card definitions. Types and elements are derived from the names.
	StarterPackages [][]cardEntry `json:"starter_packages"`
}

// LoadedConfig contains the server address, battle tuning and the starter
// package catalog to seed.
type LoadedConfig struct {
	ServerAddress    string
	WaitPollInterval time.Duration
	MaxConcurrent    int
	StarterPackages  [][]game.Card
}

// LoadConfig reads the configuration file at path. The `starter_packages`
// key is required; each package must hold exactly five named cards.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.StarterPackages) == 0 {
		return nil, fmt.Errorf("config file %s: starter_packages is empty (provide 'starter_packages' arrays of five cards)", path)
	}

	packs := make([][]game.Card, 0, len(rc.StarterPackages))
	for i, entries := range rc.StarterPackages {
		if len(entries) != 5 {
			return nil, fmt.Errorf("config file %s: starter package %d must contain exactly five cards, has %d", path, i, len(entries))
		}
		cards := make([]game.Card, 0, len(entries))
		for _, e := range entries {
			name := strings.TrimSpace(e.Name)
			if name == "" {
				return nil, fmt.Errorf("config file %s: starter package %d has a card without 'name'", path, i)
			}
			if e.Damage < 0 {
				return nil, fmt.Errorf("config file %s: card '%s' has negative damage", path, name)
			}
			cards = append(cards, game.Card{
				Name:    name,
				Damage:  e.Damage,
				Type:    game.TypeFromName(name),
				Element: game.ElementFromName(name),
			})
		}
		packs = append(packs, cards)
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	poll := 1 * time.Second
	maxConcurrent := 16
	if rc.Battle != nil {
		if rc.Battle.WaitPollSeconds > 0 {
			poll = time.Duration(rc.Battle.WaitPollSeconds) * time.Second
		}
		if rc.Battle.MaxConcurrent > 0 {
			maxConcurrent = rc.Battle.MaxConcurrent
		}
	}

	return &LoadedConfig{
		ServerAddress:    addr,
		WaitPollInterval: poll,
		MaxConcurrent:    maxConcurrent,
		StarterPackages:  packs,
	}, nil
}
