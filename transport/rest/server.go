package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/hub"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type matchManager interface {
	RegisterPlayer(ctx context.Context, profile entity.Profile) (*entity.Profile, error)
	CreateMatch(ctx context.Context, creatorID string, withAI bool, tier int) (hub.Snapshot, error)
	JoinMatch(ctx context.Context, matchID, participantID string, role hub.Role) (hub.Snapshot, error)
	MakeMove(ctx context.Context, matchID, participantID string, cell int) (hub.Snapshot, error)
	UseSkill(ctx context.Context, matchID, skillID string, req entity.SkillRequest) (hub.Snapshot, error)
	LeaveMatch(ctx context.Context, matchID, participantID string) (hub.Snapshot, error)
	GetMatch(ctx context.Context, matchID string) (hub.Snapshot, error)
	Cooldowns(ctx context.Context, matchID, participantID string) ([]hub.CooldownStatus, error)
	OpenMatches(ctx context.Context) []hub.Snapshot
	GetRecord(ctx context.Context, matchID string) (*entity.MatchRecord, error)
	History(ctx context.Context, participantID string, limit int) ([]entity.MatchRecord, error)
	Skills() []usecase.SkillView
}

type Server struct {
	logger  *slog.Logger
	manager matchManager
}

func New(logger *slog.Logger, manager matchManager) *Server {
	return &Server{
		logger:  logger,
		manager: manager,
	}
}

// Router - every REST route of the service.
func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", that.handlePing)

	r.Route("/api", func(r chi.Router) {
		r.Get("/skills", that.handleListSkills)
		r.Post("/players", that.handleRegisterPlayer)
		r.Get("/players/{participantID}/records", that.handleHistory)
		r.Get("/records/{matchID}", that.handleGetRecord)

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", that.handleOpenMatches)
			r.Post("/", that.handleCreateMatch)

			r.Route("/{matchID}", func(r chi.Router) {
				r.Get("/", that.handleGetMatch)
				r.Post("/join", that.handleJoinMatch)
				r.Post("/moves", that.handleMove)
				r.Post("/skills", that.handleSkill)
				r.Post("/leave", that.handleLeave)
				r.Get("/cooldowns", that.handleCooldowns)
			})
		})
	})

	return r
}

// Start - serves until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
