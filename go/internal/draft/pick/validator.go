package pick

import (
	"strconv"

	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/draft/turn"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/roster"
)

// Context is everything needed to decide whether a pick is legal.
// It is a snapshot; the validator performs no reads of its own.
type Context struct {
	Draft models.Draft
	// Participants of the draft, any order.
	Participants []models.DraftParticipant
	// Participant attempting the pick.
	Participant models.DraftParticipant
	Player      models.Player
	// Drafted is true when Player already has a pick in this draft.
	Drafted bool
	// Roster holds the players currently active on the participant's team.
	Roster []models.Player
	Quotas roster.QuotaTable
}

// Validator checks a proposed pick against the draft rules.
type Validator struct{}

// NewValidator creates a pick Validator
func NewValidator() Validator {
	return Validator{}
}

// Validate returns nil when the pick is legal, otherwise the first violated
// rule as an *apperr.Error.
func (Validator) Validate(pc Context) error {
	if pc.Draft.Status != models.DraftStatusInProgress {
		return apperr.Conflict(apperr.CodeDraftNotInProgress, "draft is %s", pc.Draft.Status).
			With("draft_id", pc.Draft.ID.String())
	}

	onClock, ok := turn.ParticipantFor(pc.Participants, pc.Draft.CurrentPick)
	if !ok || onClock.ID != pc.Participant.ID {
		err := apperr.Conflict(apperr.CodeNotYourTurn, "not your turn").
			With("pick", strconv.Itoa(pc.Draft.CurrentPick))
		if ok {
			err.With("on_clock_team_id", onClock.TeamID.String())
		}
		return err
	}

	if pc.Drafted {
		return apperr.Validation(apperr.CodePlayerAlreadyDrafted, "player already drafted").
			With("player_id", pc.Player.ID.String())
	}

	if pc.Player.Locked {
		return apperr.Validation(apperr.CodePlayerLocked, "player is locked").
			With("player_id", pc.Player.ID.String())
	}

	if res := roster.CanAddToRegion(pc.Roster, pc.Player, pc.Quotas); !res.Valid {
		return res.Violation.Err(pc.Participant.TeamID)
	}

	return nil
}
