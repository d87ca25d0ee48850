package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildMessage(t *testing.T) {
	rec := Record{
		ID:        uuid.New(),
		EventType: "TRADE_PROPOSED",
		GameID:    uuid.New(),
		Payload:   json.RawMessage(`{"type":"TRADE_PROPOSED"}`),
		CreatedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := buildMessage("league.events", rec)
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	if msg.Subject != "league.events.TRADE_PROPOSED" {
		t.Fatalf("subject = %s", msg.Subject)
	}
	if msg.Header.Get("Event-ID") != rec.ID.String() || msg.Header.Get("Game-ID") != rec.GameID.String() {
		t.Fatalf("headers = %v", msg.Header)
	}

	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.EventID != rec.ID.String() || env.EventType != rec.EventType || !env.Timestamp.Equal(rec.CreatedAt) {
		t.Fatalf("envelope = %+v", env)
	}
	if string(env.Payload) != `{"type":"TRADE_PROPOSED"}` {
		t.Fatalf("payload = %s", env.Payload)
	}
}
