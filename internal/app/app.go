// Package app wires configuration into stores, services and the HTTP router.
// The server and the operator CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bestronggym/gym-desk/internal/api"
	"bestronggym/gym-desk/internal/config"
	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/repository"
	"bestronggym/gym-desk/internal/repository/memory"
	mongorepo "bestronggym/gym-desk/internal/repository/mongo"
	"bestronggym/gym-desk/internal/repository/sqlite"
	"bestronggym/gym-desk/internal/service"
	"bestronggym/gym-desk/internal/storage"
	"bestronggym/gym-desk/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

const seedFetchTimeout = 10 * time.Second

// App holds everything built from one configuration.
type App struct {
	Config config.Config
	Log    *slog.Logger

	Clients     *store.ClientStore
	Memberships *store.MembershipStore

	AuthService       service.AuthService
	ClientService     service.ClientService
	MembershipService service.MembershipService

	closers []func(context.Context) error
}

// Build connects the configured slot backend and seed source and creates the
// stores and services on top of them. Call Close when done.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	slots, err := a.openSlots(ctx)
	if err != nil {
		return nil, err
	}

	seed, err := a.openSeed(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	rule, err := domain.RuleByName(cfg.Billing.ExpirationRule)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Clients = store.NewClientStore(slots, seed, log, cfg.Slots.ClientsKey, cfg.Seed.ClientsObject, time.Now)
	a.Memberships = store.NewMembershipStore(slots, seed, log, cfg.Slots.MembershipsKey, cfg.Seed.MembershipsObject)

	a.AuthService, err = service.NewAuthService(cfg.Staff.Username, cfg.Staff.Password, cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.MembershipService = service.NewMembershipService(a.Memberships, cfg.Billing.Plans, log)
	a.ClientService = service.NewClientService(a.Clients, a.MembershipService, rule, log)

	log.Info("application built",
		slog.String("slots", cfg.Slots.Driver),
		slog.String("seed", cfg.Seed.Driver),
		slog.String("expiration_rule", rule.Name()),
	)
	return a, nil
}

// Router returns the gin engine serving the HTTP API.
func (a *App) Router() *gin.Engine {
	if a.Config.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(a.Log))
	api.SetupRoutes(router, a.AuthService, a.ClientService, a.MembershipService)
	return router
}

// Close releases the slot backend.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openSlots(ctx context.Context) (repository.SlotRepository, error) {
	cfg := a.Config
	switch cfg.Slots.Driver {
	case config.SlotsMemory:
		a.Log.Warn("using in-memory slots, records are lost on exit")
		return memory.NewSlotRepository(), nil

	case config.SlotsSQLite:
		db, err := sqlite.Open(ctx, cfg.Slots.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		a.Log.Debug("sqlite slots opened", slog.String("path", cfg.Slots.SQLitePath))
		return sqlite.NewSlotRepository(db), nil

	case config.SlotsMongo:
		client, err := mongorepo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return mongorepo.DisconnectDB(client) })

		db := client.Database(cfg.Database.Name)
		if err := mongorepo.EnsureSlotIndexes(ctx, mongorepo.SlotCollection(db)); err != nil {
			a.Log.Warn("failed to ensure slot indexes", slog.String("error", err.Error()))
		}
		return mongorepo.NewMongoSlotRepository(db), nil

	default:
		return nil, fmt.Errorf("unknown slots driver %q", cfg.Slots.Driver)
	}
}

// openSeed returns nil for the none driver; the stores then start empty.
func (a *App) openSeed(ctx context.Context) (storage.SeedSource, error) {
	cfg := a.Config
	switch cfg.Seed.Driver {
	case config.SeedNone:
		return nil, nil
	case config.SeedFile:
		return storage.NewDirSource(cfg.Seed.Dir), nil
	case config.SeedHTTP:
		return storage.NewHTTPSource(cfg.Seed.BaseURL, &http.Client{Timeout: seedFetchTimeout}), nil
	case config.SeedS3:
		return storage.NewS3Source(ctx, cfg.S3, a.Log)
	default:
		return nil, fmt.Errorf("unknown seed driver %q", cfg.Seed.Driver)
	}
}
