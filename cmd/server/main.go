package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/google/uuid"

	httpadapter "towerverse/internal/adapter/http"
	metricsinmem "towerverse/internal/adapter/metrics/inmemory"
	"towerverse/internal/adapter/payment"
	gormrepo "towerverse/internal/adapter/repo/gorm"
	"towerverse/internal/adapter/repo/memory"
	"towerverse/internal/adapter/stream"
	"towerverse/internal/app/archive"
	"towerverse/internal/app/dispatch"
	"towerverse/internal/app/observe"
	"towerverse/internal/app/register"
	"towerverse/internal/app/replay"
	"towerverse/internal/app/status"
	"towerverse/internal/app/tick"
	"towerverse/internal/catalog"
	"towerverse/internal/domain/tower"
)

type config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ObserverAddr    string        `env:"OBSERVER_ADDR" envDefault:":8081"`
	TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"30s"`
	ArchiveInterval time.Duration `env:"ARCHIVE_INTERVAL" envDefault:"10s"`
	DBDSN           string        `env:"WORLD_DB_DSN"`
	MigrationsDir   string        `env:"MIGRATIONS_DIR" envDefault:"./migrations"`
	RandSeed        int64         `env:"RAND_SEED"`
	PaymentRequired bool          `env:"PAYMENT_REQUIRED"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Error("parse config", "err", err)
		os.Exit(1)
	}

	store := memory.NewStore()
	if err := seedWorld(store); err != nil {
		logger.Error("seed world", "err", err)
		os.Exit(1)
	}

	seed := cfg.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	hub := stream.NewHub(logger)
	kpi := metricsinmem.NewRecorder()
	txManager := memory.NewTxManager(store)

	registerUC := register.UseCase{
		Credentials: memory.NewCredentialRepo(store),
		Residents:   memory.NewResidentRepo(store),
		Clock:       memory.NewClockRepo(store),
		Events:      memory.NewEventLog(store),
		Broadcast:   hub,
		TxManager:   txManager,
	}
	if cfg.PaymentRequired {
		registerUC.Payment = payment.AcceptAll{}
	}

	dispatchUC := dispatch.UseCase{
		TxManager: txManager,
		Residents: memory.NewResidentRepo(store),
		Locations: memory.NewLocationRepo(store),
		Gossip:    memory.NewGossipRepo(store),
		Parties:   memory.NewPartyRepo(store),
		Market:    memory.NewMarketRepo(store),
		Duels:     memory.NewDuelRepo(store),
		Proposals: memory.NewProposalRepo(store),
		Quests:    memory.NewQuestRepo(store),
		Artifacts: memory.NewArtifactRepo(store),
		Board:     memory.NewBoardRepo(store),
		Events:    memory.NewEventLog(store),
		Clock:     memory.NewClockRepo(store),
		Broadcast: hub,
		Metrics:   kpi,
		RNG:       rng,
	}

	tickUC := tick.UseCase{
		TxManager: txManager,
		Residents: memory.NewResidentRepo(store),
		Locations: memory.NewLocationRepo(store),
		Gossip:    memory.NewGossipRepo(store),
		Parties:   memory.NewPartyRepo(store),
		Market:    memory.NewMarketRepo(store),
		Proposals: memory.NewProposalRepo(store),
		Clock:     memory.NewClockRepo(store),
		Events:    memory.NewEventLog(store),
		Broadcast: hub,
		Metrics:   kpi,
		Logger:    logger,
		RNG:       rng,
	}

	h := httpadapter.Handler{
		RegisterUC: registerUC,
		AuthUC:     register.VerifyUseCase{TxManager: txManager, Credentials: memory.NewCredentialRepo(store)},
		DispatchUC: dispatchUC,
		ObserveUC: observe.UseCase{
			TxManager: txManager,
			Residents: memory.NewResidentRepo(store),
			Locations: memory.NewLocationRepo(store),
			Gossip:    memory.NewGossipRepo(store),
			Parties:   memory.NewPartyRepo(store),
			Market:    memory.NewMarketRepo(store),
			Proposals: memory.NewProposalRepo(store),
			Quests:    memory.NewQuestRepo(store),
			Board:     memory.NewBoardRepo(store),
			Events:    memory.NewEventLog(store),
			Clock:     memory.NewClockRepo(store),
		},
		StatusUC: status.UseCase{
			TxManager: txManager,
			Residents: memory.NewResidentRepo(store),
			Locations: memory.NewLocationRepo(store),
			Gossip:    memory.NewGossipRepo(store),
			Parties:   memory.NewPartyRepo(store),
			Market:    memory.NewMarketRepo(store),
			Proposals: memory.NewProposalRepo(store),
			Quests:    memory.NewQuestRepo(store),
			Events:    memory.NewEventLog(store),
			Clock:     memory.NewClockRepo(store),
		},
		ReplayUC: replay.UseCase{
			TxManager: txManager,
			Events:    memory.NewEventLog(store),
		},
		KPI: kpi,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runTickLoop(ctx, logger, tickUC, cfg.TickInterval)
	go runObserverServer(logger, hub, cfg.ObserverAddr)

	if cfg.DBDSN != "" {
		archiveUC, err := buildArchive(ctx, cfg, store, txManager)
		if err != nil {
			logger.Error("set up event archive", "err", err)
			os.Exit(1)
		}
		go runArchiveLoop(ctx, logger, archiveUC, cfg.ArchiveInterval)
	} else {
		logger.Info("WORLD_DB_DSN not set, event history will not survive restarts")
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	logger.Info("towerverse listening", "addr", cfg.Addr, "observer_addr", cfg.ObserverAddr, "tick_interval", cfg.TickInterval.String(), "seed", seed)
	s.Spin()
}

func seedWorld(store *memory.Store) error {
	locations, err := catalog.Locations()
	if err != nil {
		return err
	}
	items, err := catalog.Items()
	if err != nil {
		return err
	}
	store.SeedLocations(locations)
	store.SeedListings(catalog.Listings(items))
	store.SeedQuests(tower.SeedQuests(func() string { return "quest_" + uuid.NewString() }))
	return nil
}

func runTickLoop(ctx context.Context, logger *slog.Logger, u tick.UseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := u.Execute(ctx)
			if err != nil {
				logger.Error("tick failed", "err", err)
				continue
			}
			logger.Info("tick", "tick", n)
		}
	}
}

func runObserverServer(logger *slog.Logger, hub *stream.Hub, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/live", hub)
	logger.Info("observer stream listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("observer server stopped", "err", err)
	}
}

func buildArchive(ctx context.Context, cfg config, store *memory.Store, txManager memory.TxManager) (*archive.UseCase, error) {
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := gormrepo.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		return nil, err
	}
	return &archive.UseCase{
		TxManager: txManager,
		Events:    memory.NewEventLog(store),
		Archive:   gormrepo.NewEventArchive(db),
	}, nil
}

func runArchiveLoop(ctx context.Context, logger *slog.Logger, u *archive.UseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				n, err := u.Flush(ctx)
				if err != nil {
					logger.Warn("archive flush failed", "err", err)
					break
				}
				if n == 0 {
					break
				}
			}
		}
	}
}
