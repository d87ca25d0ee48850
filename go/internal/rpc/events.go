package rpc

import (
	"github.com/google/uuid"
	commonv1 "github.com/mcdev12/pronos/go/internal/api/common/v1"
	"github.com/mcdev12/pronos/go/internal/events"
)

// EventsToProto converts domain events to their wire form.
func EventsToProto(evs []events.Event) []*commonv1.Event {
	out := make([]*commonv1.Event, 0, len(evs))
	for _, ev := range evs {
		msg := &commonv1.Event{
			Id:         ev.ID.String(),
			Type:       string(ev.Type),
			GameId:     ev.GameID.String(),
			TeamIds:    IDStrings(ev.TeamIDs),
			PlayerIds:  IDStrings(ev.PlayerIDs),
			Status:     ev.Status,
			OccurredAt: ev.OccurredAt,
		}
		if ev.DraftID != nil {
			msg.DraftId = ev.DraftID.String()
		}
		if ev.TradeID != nil {
			msg.TradeId = ev.TradeID.String()
		}
		out = append(out, msg)
	}
	return out
}

// IDStrings formats ids for the wire.
func IDStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
