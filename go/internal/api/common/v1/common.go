// Package commonv1 holds wire messages shared by the v1 services.
package commonv1

import "time"

// Event is a domain event returned alongside the mutation that produced it.
type Event struct {
	Id         string    `json:"id"`
	Type       string    `json:"type"`
	GameId     string    `json:"gameId"`
	DraftId    string    `json:"draftId,omitempty"`
	TradeId    string    `json:"tradeId,omitempty"`
	TeamIds    []string  `json:"teamIds"`
	PlayerIds  []string  `json:"playerIds"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}
