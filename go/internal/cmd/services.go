package main

import (
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/pronos/go/internal/config"
	"github.com/mcdev12/pronos/go/internal/draft"
	"github.com/mcdev12/pronos/go/internal/draft/orchestrator"
	"github.com/mcdev12/pronos/go/internal/draft/pick"
	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/mcdev12/pronos/go/internal/outbox"
	"github.com/mcdev12/pronos/go/internal/roster"
	"github.com/mcdev12/pronos/go/internal/trade"
)

type Services struct {
	Draft        *draft.Service
	Trade        *trade.Service
	Roster       *roster.Service
	Orchestrator *orchestrator.Orchestrator
}

func setupServices(cfg config.Config, infra *Infra, clock clockwork.Clock) *Services {
	// Wire up dependency injection chain
	// Store → App layer → Service layer, events fan out after commit

	notifier := events.NewFanout(events.LogNotifier{}, outbox.NewApp(infra.Outbox))

	// Draft
	settings := draft.DefaultSettings()
	if cfg.Draft.DefaultRounds > 0 {
		settings.TotalRounds = cfg.Draft.DefaultRounds
	}
	if cfg.Draft.TimePerPickSec > 0 {
		settings.TimePerPickSec = cfg.Draft.TimePerPickSec
	}
	draftApp := draft.NewApp(
		infra.DB,
		infra.Locker,
		pick.NewValidator(),
		draft.NewBestRankStrategy(),
		notifier,
		clock,
		settings,
	)
	draftService := draft.NewService(draftApp)

	// The orchestrator learns about turns through the same notifier it
	// drives, so it is registered once the engine exists.
	orch := orchestrator.New(draftApp, clock, cfg.Orchestrator.Workers)
	notifier.Add(orch)

	// Trade
	tradeApp := trade.NewApp(infra.DB, infra.Locker, notifier, clock)
	tradeService := trade.NewService(tradeApp)

	// Roster
	rosterApp := roster.NewApp(infra.DB)
	rosterService := roster.NewService(rosterApp)

	return &Services{
		Draft:        draftService,
		Trade:        tradeService,
		Roster:       rosterService,
		Orchestrator: orch,
	}
}
