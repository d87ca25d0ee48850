// Package seed loads a league fixture (players, games, teams, quotas and
// starting rosters) from YAML and writes it to a store.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/roster"
	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Players []Player `yaml:"players"`
	Games   []Game   `yaml:"games"`
}

type Player struct {
	ID       uuid.UUID     `yaml:"id"`
	Nickname string        `yaml:"nickname"`
	Region   models.Region `yaml:"region"`
	Rank     int           `yaml:"rank"`
	Locked   bool          `yaml:"locked"`
	Season   int           `yaml:"season"`
}

type Game struct {
	ID               uuid.UUID             `yaml:"id"`
	Name             string                `yaml:"name"`
	Season           int                   `yaml:"season"`
	CreatorID        uuid.UUID             `yaml:"creator_id"`
	TradingEnabled   bool                  `yaml:"trading_enabled"`
	TradeDeadline    *time.Time            `yaml:"trade_deadline"`
	MaxTradesPerTeam int                   `yaml:"max_trades_per_team"`
	Quotas           map[models.Region]int `yaml:"quotas"`
	Teams            []Team                `yaml:"teams"`
}

type Team struct {
	ID      uuid.UUID `yaml:"id"`
	OwnerID uuid.UUID `yaml:"owner_id"`
	Name    string    `yaml:"name"`
	// Roster lists player nicknames already on the team, in position order.
	Roster []string `yaml:"roster"`
}

// LoadFixture reads and checks a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and checks a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks references and enumerations. Player and team ids are
// deterministic so a fixture can be reapplied.
func (fx *Fixture) Validate() error {
	byNick := make(map[string]Player, len(fx.Players))
	for _, p := range fx.Players {
		if p.ID == uuid.Nil || p.Nickname == "" {
			return fmt.Errorf("player %q needs an id and a nickname", p.Nickname)
		}
		if !p.Region.Valid() {
			return fmt.Errorf("player %s has unknown region %q", p.Nickname, p.Region)
		}
		if _, dup := byNick[p.Nickname]; dup {
			return fmt.Errorf("duplicate player nickname %s", p.Nickname)
		}
		byNick[p.Nickname] = p
	}

	for _, g := range fx.Games {
		if g.ID == uuid.Nil || g.CreatorID == uuid.Nil {
			return fmt.Errorf("game %q needs an id and a creator_id", g.Name)
		}
		for region, max := range g.Quotas {
			if !region.Valid() {
				return fmt.Errorf("game %s has a quota for unknown region %q", g.Name, region)
			}
			if max < 0 {
				return fmt.Errorf("game %s has a negative %s quota", g.Name, region)
			}
		}
		rostered := make(map[string]string)
		for _, t := range g.Teams {
			if t.ID == uuid.Nil || t.OwnerID == uuid.Nil {
				return fmt.Errorf("team %q needs an id and an owner_id", t.Name)
			}
			for _, nick := range t.Roster {
				if _, ok := byNick[nick]; !ok {
					return fmt.Errorf("team %s lists unknown player %s", t.Name, nick)
				}
				if other, taken := rostered[nick]; taken {
					return fmt.Errorf("player %s is on both %s and %s", nick, other, t.Name)
				}
				rostered[nick] = t.Name
			}
			if err := checkQuota(g, t, byNick); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkQuota rejects a starting roster the game's quotas would not allow.
func checkQuota(g Game, t Team, byNick map[string]Player) error {
	players := make([]models.Player, 0, len(t.Roster))
	for _, nick := range t.Roster {
		p := byNick[nick]
		players = append(players, models.Player{ID: p.ID, Nickname: p.Nickname, Region: p.Region})
	}
	res := roster.ValidateQuota(players, roster.QuotaTable(g.Quotas))
	if res.Valid {
		return nil
	}
	v := res.Violation
	return fmt.Errorf("team %s exceeds the %s quota of game %s (%d > %d)", t.Name, v.Region, g.Name, v.Count, v.Max)
}

// PlayerByNickname returns the fixture player with the given nickname.
func (fx *Fixture) PlayerByNickname(nick string) (Player, bool) {
	for _, p := range fx.Players {
		if p.Nickname == nick {
			return p, true
		}
	}
	return Player{}, false
}
