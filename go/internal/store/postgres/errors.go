package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mcdev12/pronos/go/internal/apperr"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// uniqueCodes maps unique constraints to the conflict they represent.
var uniqueCodes = map[string]apperr.Code{
	"roster_slots_active_player_idx": apperr.CodePlayerRostered,
	"draft_picks_player_key":         apperr.CodePlayerAlreadyDrafted,
	"drafts_game_id_key":             apperr.CodeDraftExists,
}

// translate converts driver errors into domain errors. what names the
// operation for wrapped infrastructure errors.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			code, ok := uniqueCodes[pqErr.Constraint]
			if !ok {
				code = apperr.CodeUniqueViolation
			}
			return apperr.Conflict(code, "%s: duplicate row", what).
				With("constraint", pqErr.Constraint).
				Wrap(err)
		case pqForeignKeyViolation:
			return apperr.NotFound(referencedCode(pqErr.Constraint), "%s: referenced row does not exist", what).
				With("constraint", pqErr.Constraint).
				Wrap(err)
		}
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}

// referencedCode guesses the missing entity from a foreign key name such as
// fantasy_teams_game_id_fkey.
func referencedCode(constraint string) apperr.Code {
	switch {
	case strings.Contains(constraint, "_game_id_"):
		return apperr.CodeGameNotFound
	case strings.Contains(constraint, "team_id_"):
		return apperr.CodeTeamNotFound
	case strings.Contains(constraint, "_player_id_"):
		return apperr.CodePlayerNotFound
	case strings.Contains(constraint, "_draft_id_"):
		return apperr.CodeDraftNotFound
	case strings.Contains(constraint, "trade_id_"):
		return apperr.CodeTradeNotFound
	default:
		return apperr.CodeInternal
	}
}

// notFound maps sql.ErrNoRows to a NotFound error and translates anything else.
func notFound(err error, code apperr.Code, key string, id fmt.Stringer, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(code, "%s not found", strings.TrimSuffix(key, "_id")).With(key, id.String())
	}
	return translate(err, what)
}
