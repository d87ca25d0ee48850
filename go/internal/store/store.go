// Package store defines the persistence port shared by the draft and trade
// engines. Adapters live in the memory and postgres subpackages.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/models"
)

// CatalogStore reads and seeds games, teams and players.
type CatalogStore interface {
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	CreateGame(ctx context.Context, game models.Game) error
	GetTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
	// ListTeamsByGame returns the game's teams in join order.
	ListTeamsByGame(ctx context.Context, gameID uuid.UUID) ([]models.FantasyTeam, error)
	CreateTeam(ctx context.Context, team models.FantasyTeam) error
	IncrementTradeCount(ctx context.Context, teamID uuid.UUID) error
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	// GetPlayers returns players in the order of ids and fails if any is unknown.
	GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
	ListPlayersBySeason(ctx context.Context, season int) ([]models.Player, error)
	CreatePlayer(ctx context.Context, player models.Player) error
}

// QuotaStore looks up region quotas per game.
type QuotaStore interface {
	ListRegionQuotas(ctx context.Context, gameID uuid.UUID) ([]models.RegionQuota, error)
	UpsertRegionQuota(ctx context.Context, quota models.RegionQuota) error
}

// RosterStore reads and writes roster slots.
type RosterStore interface {
	ListActiveSlots(ctx context.Context, teamID uuid.UUID) ([]models.RosterSlot, error)
	// GetActiveSlotForPlayer returns the player's active slot within a game or a NotFound error.
	GetActiveSlotForPlayer(ctx context.Context, gameID, playerID uuid.UUID) (*models.RosterSlot, error)
	// AddRosterSlot fails with a Conflict when the player already has an active slot in the team's game.
	AddRosterSlot(ctx context.Context, slot models.RosterSlot) error
	RemoveRosterSlot(ctx context.Context, slotID uuid.UUID, removedAt time.Time) error
}

// DraftStore persists drafts, participants and picks.
type DraftStore interface {
	// CreateDraft fails with a Conflict when the game already has a draft.
	CreateDraft(ctx context.Context, draft models.Draft, participants []models.DraftParticipant) error
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	GetDraftByGame(ctx context.Context, gameID uuid.UUID) (*models.Draft, error)
	ListDraftsByStatus(ctx context.Context, status models.DraftStatus) ([]models.Draft, error)
	UpdateDraft(ctx context.Context, draft models.Draft) error
	// ListParticipants returns participants ordered by draft order.
	ListParticipants(ctx context.Context, draftID uuid.UUID) ([]models.DraftParticipant, error)
	// ListPicks returns picks ordered by pick number.
	ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	IsPlayerDrafted(ctx context.Context, draftID, playerID uuid.UUID) (bool, error)
	// InsertPick fails with a Conflict when the player or pick number is already taken.
	InsertPick(ctx context.Context, pick models.DraftPick) error
}

// TradeStore persists trades.
type TradeStore interface {
	CreateTrade(ctx context.Context, trade models.Trade) error
	GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	UpdateTrade(ctx context.Context, trade models.Trade) error
	// ListTradesByTeam returns trades where the team is either side, newest first.
	ListTradesByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Trade, error)
}

// Queries is the full set of reads and writes available inside a unit of work.
type Queries interface {
	CatalogStore
	QuotaStore
	RosterStore
	DraftStore
	TradeStore
}

// DB runs units of work against the store.
type DB interface {
	// InTx runs fn atomically. Nothing fn wrote is visible if it returns an error.
	InTx(ctx context.Context, fn func(q Queries) error) error
	// View runs read-only fn. Writes through q inside View are not allowed.
	View(ctx context.Context, fn func(q Queries) error) error
}
