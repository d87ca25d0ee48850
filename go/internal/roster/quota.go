package roster

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/models"
)

// QuotaTable maps a region to the maximum active players a team may hold from it.
// Regions missing from the table are unconstrained.
type QuotaTable map[models.Region]int

// NewQuotaTable builds a QuotaTable from a game's quota rows.
func NewQuotaTable(quotas []models.RegionQuota) QuotaTable {
	table := make(QuotaTable, len(quotas))
	for _, q := range quotas {
		table[q.Region] = q.MaxPlayers
	}
	return table
}

// QuotaViolation describes the first region found over its quota.
type QuotaViolation struct {
	Region models.Region `json:"region"`
	Count  int           `json:"count"`
	Max    int           `json:"max"`
	Excess int           `json:"excess"`
}

// Err reports the violation for a team as a validation error.
func (v *QuotaViolation) Err(teamID uuid.UUID) *apperr.Error {
	return apperr.Validation(apperr.CodeQuotaExceeded, "region %s quota exceeded", v.Region).
		With("team_id", teamID.String()).
		With("region", string(v.Region)).
		With("count", strconv.Itoa(v.Count)).
		With("max", strconv.Itoa(v.Max)).
		With("excess", strconv.Itoa(v.Excess))
}

// QuotaResult is the outcome of ValidateQuota.
type QuotaResult struct {
	Valid     bool            `json:"valid"`
	Violation *QuotaViolation `json:"violation,omitempty"`
}

// CountByRegion returns how many players of each region are in players.
func CountByRegion(players []models.Player) map[models.Region]int {
	counts := make(map[models.Region]int)
	for _, p := range players {
		counts[p.Region]++
	}
	return counts
}

// ValidateQuota checks a candidate roster against the quota table. Regions are
// checked in canonical order so the reported violation is stable.
func ValidateQuota(players []models.Player, quotas QuotaTable) QuotaResult {
	counts := CountByRegion(players)
	known := 0
	for _, region := range models.Regions {
		count, ok := counts[region]
		if !ok {
			continue
		}
		known++
		if v := checkRegion(region, count, quotas); v != nil {
			return QuotaResult{Valid: false, Violation: v}
		}
	}
	if known == len(counts) {
		return QuotaResult{Valid: true}
	}

	// Unknown regions come last, lowest name first.
	var worst *QuotaViolation
	for region, count := range counts {
		if region.Valid() {
			continue
		}
		if v := checkRegion(region, count, quotas); v != nil && (worst == nil || v.Region < worst.Region) {
			worst = v
		}
	}
	if worst != nil {
		return QuotaResult{Valid: false, Violation: worst}
	}
	return QuotaResult{Valid: true}
}

// CanAddToRegion reports whether adding player keeps its own region within
// quota. Other regions of the roster are not rechecked, so a team already over
// quota elsewhere may still add players from a region with room.
func CanAddToRegion(roster []models.Player, player models.Player, quotas QuotaTable) QuotaResult {
	count := 1
	for _, p := range roster {
		if p.Region == player.Region {
			count++
		}
	}
	if v := checkRegion(player.Region, count, quotas); v != nil {
		return QuotaResult{Valid: false, Violation: v}
	}
	return QuotaResult{Valid: true}
}

func checkRegion(region models.Region, count int, quotas QuotaTable) *QuotaViolation {
	max, ok := quotas[region]
	if !ok || count <= max {
		return nil
	}
	return &QuotaViolation{Region: region, Count: count, Max: max, Excess: count - max}
}
