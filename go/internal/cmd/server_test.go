package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	rosterv1 "github.com/mcdev12/pronos/go/internal/api/roster/v1"
	"github.com/mcdev12/pronos/go/internal/config"
	"github.com/mcdev12/pronos/go/internal/rpc"
	"github.com/mcdev12/pronos/go/internal/seed"
)

func newTestServer(t *testing.T) (*httptest.Server, *Infra) {
	t.Helper()
	cfg := config.Config{
		Port:         "0",
		StoreDriver:  config.DriverMemory,
		LockDriver:   config.DriverMemory,
		Lock:         config.LockConfig{Wait: time.Second},
		Orchestrator: config.OrchestratorConfig{Workers: 1},
	}
	infra, err := setupInfra(context.Background(), cfg)
	if err != nil {
		t.Fatalf("setupInfra: %v", err)
	}
	t.Cleanup(infra.Close)

	services := setupServices(cfg, infra, clockwork.NewFakeClock())
	srv := httptest.NewServer(setupServer(cfg, services).Handler)
	t.Cleanup(srv.Close)
	return srv, infra
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Fatalf("health = %d %q, want 200 OK", res.StatusCode, body)
	}
}

func TestRosterServiceMounted(t *testing.T) {
	srv, infra := newTestServer(t)
	ctx := context.Background()

	fx, err := seed.LoadFixture("../assets/league.yaml")
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if _, err := seed.Apply(ctx, infra.DB, fx, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	client := rosterv1.NewRosterServiceClient(srv.Client(), srv.URL, connect.WithCodec(rpc.Codec{}))
	res, err := client.ListFreeAgents(ctx, connect.NewRequest(&rosterv1.ListFreeAgentsRequest{GameId: fx.Games[0].ID.String()}))
	if err != nil {
		t.Fatalf("ListFreeAgents: %v", err)
	}
	rostered := 0
	for _, team := range fx.Games[0].Teams {
		rostered += len(team.Roster)
	}
	if got, want := len(res.Msg.Players), len(fx.Players)-rostered; got != want {
		t.Fatalf("free agents = %d, want %d", got, want)
	}

	_, err = client.ListFreeAgents(ctx, connect.NewRequest(&rosterv1.ListFreeAgentsRequest{GameId: uuid.NewString()}))
	if code := connect.CodeOf(err); code != connect.CodeNotFound {
		t.Fatalf("code = %v, want %v", code, connect.CodeNotFound)
	}
}
