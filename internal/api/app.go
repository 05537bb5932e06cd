package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jhananishri-B/practice-hub/internal/api/handlers"
	"github.com/Jhananishri-B/practice-hub/internal/auth"
	"github.com/Jhananishri-B/practice-hub/internal/config"
	"github.com/Jhananishri-B/practice-hub/internal/grading"
	"github.com/Jhananishri-B/practice-hub/internal/leaderboard"
	"github.com/Jhananishri-B/practice-hub/internal/progress"
	"github.com/Jhananishri-B/practice-hub/internal/queue"
	"github.com/Jhananishri-B/practice-hub/internal/repository"
	"github.com/Jhananishri-B/practice-hub/internal/runner"
	"github.com/Jhananishri-B/practice-hub/internal/session"
	"github.com/Jhananishri-B/practice-hub/internal/storage/sqlite"
	"github.com/Jhananishri-B/practice-hub/internal/tutor"
)

// Store is the full persistence surface the application needs. The SQLite
// and Postgres composite stores both satisfy it; shared methods have
// identical signatures across the consumer interfaces.
type Store interface {
	session.Store
	grading.Store
	progress.Store
	leaderboard.Store
	handlers.CourseStore
}

// App holds all application dependencies
type App struct {
	Config      *config.Config
	Rules       *config.Rules
	Store       Store
	Auth        *auth.Service
	Sessions    *session.Service
	Grading     *grading.Verifier
	Progress    *progress.Engine
	Leaderboard *leaderboard.Service
	Tutor       *tutor.Service
	Queue       *queue.Connection

	ping    func(ctx context.Context) error
	closers []func() error
}

// NewApp creates a new application instance with all dependencies wired
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	app.Rules = rules

	if err := app.initStore(ctx, cfg); err != nil {
		return nil, err
	}

	app.Auth = auth.NewService(cfg.JWTSecret, 24*time.Hour)
	app.Progress = progress.NewEngine(app.Store, rules.ProgressRules())

	// Event publishing is optional; without a broker URL sessions and
	// grades simply do not emit events.
	var sessionPub session.Publisher
	var gradingPub grading.Publisher
	if cfg.RabbitMQURL != "" {
		conn, err := queue.NewConnection(cfg.RabbitMQURL)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		app.Queue = conn
		app.closers = append(app.closers, conn.Close)

		pub := queue.NewPublisher(conn)
		sessionPub = pub
		gradingPub = pub
	}

	policy := session.NewDefaultTypePolicy(rules.TypeExceptions())
	app.Sessions = session.NewService(app.Store, app.Progress, policy, sessionPub)
	if cfg.CodingSampleSize > 0 {
		app.Sessions.SetSampleSize(cfg.CodingSampleSize)
	}

	evaluator, err := newEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	app.Grading = grading.NewVerifier(app.Store, evaluator, rules)
	if gradingPub != nil {
		app.Grading.SetPublisher(gradingPub)
	}

	if err := app.initLeaderboard(cfg); err != nil {
		return nil, err
	}
	app.initTutor(cfg)

	return app, nil
}

// initStore selects the storage backend by DSN scheme. Anything that does
// not look like a Postgres DSN is treated as a SQLite file path.
func (a *App) initStore(ctx context.Context, cfg *config.Config) error {
	if strings.HasPrefix(cfg.DatabaseURL, "postgres://") || strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.Store = repository.NewStore(pool)
		a.ping = pool.Ping
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		return nil
	}

	db, err := sqlite.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	a.Store = sqlite.NewStore(db)
	a.ping = db.PingContext
	a.closers = append(a.closers, db.Close)
	return nil
}

func newEvaluator(cfg *config.Config) (*runner.Evaluator, error) {
	timeout := time.Duration(cfg.RunnerTimeout) * time.Second

	switch cfg.RunnerBackend {
	case "docker":
		backend, err := runner.NewDockerBackend(runner.DockerConfig{
			MemoryMB:   int64(cfg.RunnerMemoryMB),
			CPULimit:   cfg.RunnerCPULimit,
			NetworkOff: true,
			Timeout:    timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create docker backend: %w", err)
		}
		return runner.NewEvaluator(backend), nil
	case "", "local":
		return runner.NewEvaluator(runner.NewLocalBackend(timeout)), nil
	default:
		return nil, fmt.Errorf("unknown runner backend %q", cfg.RunnerBackend)
	}
}

// initLeaderboard builds the data source chain: Redis cache when configured,
// then SQL, then the static fallback.
func (a *App) initLeaderboard(cfg *config.Config) error {
	sqlSource := leaderboard.NewSQLSource(a.Store)

	sources := []leaderboard.DataSource{}
	if cfg.RedisURL != "" {
		cached, err := leaderboard.NewRedisSource(cfg.RedisURL, sqlSource, time.Minute)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, cached.Close)
		sources = append(sources, cached)
	} else {
		sources = append(sources, sqlSource)
	}
	sources = append(sources, leaderboard.NewStaticSource(nil))

	a.Leaderboard = leaderboard.NewService(sources...)
	return nil
}

func (a *App) initTutor(cfg *config.Config) {
	if cfg.TutorAPIKey == "" && cfg.TutorBaseURL == "" {
		slog.Info("tutor disabled, no API key or base URL configured")
		return
	}

	provider := tutor.NewHTTPProvider(tutor.HTTPConfig{
		APIKey:  cfg.TutorAPIKey,
		BaseURL: cfg.TutorBaseURL,
		Model:   cfg.TutorModel,
	})
	resilient := tutor.NewResilientProvider(provider, tutor.DefaultResilientConfig())
	a.closers = append(a.closers, resilient.Close)
	a.Tutor = tutor.NewService(resilient)
}

// Ping reports storage connectivity for readiness checks.
func (a *App) Ping(ctx context.Context) error {
	return a.ping(ctx)
}

// Close releases all held resources in reverse acquisition order.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
