package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/gomoku-backend/internal/ai"
	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/hub"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
	"github.com/rocketscienceinc/gomoku-backend/internal/skill"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
	"github.com/rocketscienceinc/gomoku-backend/transport/rest"
	"github.com/rocketscienceinc/gomoku-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	records, closeRecords, err := initRecords(ctx, log, conf.Postgres)
	if err != nil {
		return err
	}
	defer closeRecords()

	catalog, err := skill.LoadCatalog(conf.Skills.CatalogPath)
	if err != nil {
		return fmt.Errorf("could not load skill catalog: %w", err)
	}

	registry := skill.NewRegistry()
	if err = catalog.Verify(registry); err != nil {
		return fmt.Errorf("invalid skill catalog: %w", err)
	}

	identity := service.NewIdentityService(logger, repository.NewProfileRepository(redisStorage))
	bot := service.NewBotService(logger, ai.New(nil), conf.AI.DefaultTier)

	matches := hub.New(
		logger,
		repository.NewMatchRepository(redisStorage, conf.Redis.MatchTTL),
		records,
		identity,
		bot,
		registry,
		catalog,
		hub.Options{
			ThinkMin:    conf.AI.ThinkMin,
			ThinkMax:    conf.AI.ThinkMax,
			DefaultTier: conf.AI.DefaultTier,
			IdleTTL:     conf.Redis.MatchTTL,
		},
	)
	defer matches.Close()

	manager := usecase.NewMatchManager(logger, identity, matches, records, catalog)

	group, groupCtx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, manager).Start(groupCtx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, manager).Start(groupCtx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// initRecords - archive of finished matches, nil when postgres is disabled.
func initRecords(ctx context.Context, log *slog.Logger, conf config.Postgres) (repository.RecordRepository, func(), error) {
	if !conf.Enabled {
		log.Info("Postgres disabled, finished matches are not archived")
		return nil, func() {}, nil
	}

	db, err := storage.NewPostgres(ctx, storage.PostgresOptions{
		DSN:             conf.DSN,
		MaxOpenConns:    conf.MaxOpenConns,
		MaxIdleConns:    conf.MaxIdleConns,
		ConnMaxLifetime: conf.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to postgres: %w", err)
	}

	records := repository.NewRecordRepository(db)
	if err = records.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("could not prepare match records: %w", err)
	}

	return records, func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("could not close postgres storage", "error", closeErr)
		}
	}, nil
}
