package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/selim"
	"github.com/aretw0/selim/internal/config"
	"github.com/aretw0/selim/pkg/adapters/memory"
	"github.com/aretw0/selim/pkg/adapters/redis"
	"github.com/aretw0/selim/pkg/arith"
	"github.com/aretw0/selim/pkg/chat"
	"github.com/aretw0/selim/pkg/dispatch"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/intent"
	"github.com/aretw0/selim/pkg/observability"
	"github.com/aretw0/selim/pkg/persistence/middleware"
	"github.com/aretw0/selim/pkg/ports"
	"github.com/aretw0/selim/pkg/session"
)

// App is the wired process: one companion, one transcript store and the metrics they report to.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Companion *selim.Companion
	Store     ports.TranscriptStore

	closers []func() error
}

// NewApp builds the companion and the transcript store described by cfg.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	metrics := observability.NewMetrics()
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))

	opts, err := companionOptions(cfg, logger, hooks)
	if err != nil {
		return nil, err
	}
	companion, err := selim.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing selim: %w", err)
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics,
		Companion: companion,
	}
	if err := app.openStore(ctx); err != nil {
		return nil, err
	}

	logger.Info("selim ready", "version", selim.Version, "remote", companion.Remote(), "store", cfg.Store.Backend)
	return app, nil
}

// NewConversation opens the conversation, resuming the stored transcript if there is one.
func (a *App) NewConversation(ctx context.Context) (*chat.Conversation, error) {
	return chat.New(ctx, a.Companion,
		chat.WithStore(a.Store),
		chat.WithLogger(a.Logger),
	)
}

// Close releases the store connection.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) openStore(ctx context.Context) error {
	if err := a.openBackend(ctx); err != nil {
		return err
	}

	sc := a.Config.Store
	var mws []middleware.Middleware
	if sc.Redact {
		patterns := sc.RedactPatterns
		if len(patterns) == 0 {
			patterns = middleware.DefaultRedactPatterns
		}
		redact, err := middleware.NewPIIMiddleware(patterns)
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		mws = append(mws, redact)
	}
	active, fallback, err := sc.Keys()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}
	a.Store = middleware.Chain(a.Store, mws...)
	return nil
}

func (a *App) openBackend(ctx context.Context) error {
	switch a.Config.Store.Backend {
	case config.BackendRedis:
		sc := a.Config.Store
		store := redis.New(sc.RedisAddr, sc.RedisPassword, sc.RedisDB,
			redis.WithKey(sc.RedisKey),
			redis.WithTTL(sc.TTL),
		)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return fmt.Errorf("redis store unreachable at %s: %w", sc.RedisAddr, err)
		}
		a.Store = store
		a.closers = append(a.closers, store.Close)
	default:
		a.Store = memory.NewStore()
	}
	return nil
}

// companionOptions translates the configuration into companion options.
func companionOptions(cfg *config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) ([]selim.Option, error) {
	mode, err := dispatch.ParseDegradeMode(cfg.DegradeMode)
	if err != nil {
		return nil, err
	}

	sc := session.DefaultConfig()
	if cfg.Model != "" {
		sc.Model = cfg.Model
	}
	if cfg.SystemInstruction != "" {
		sc.SystemInstruction = cfg.SystemInstruction
	}
	sc.Temperature = cfg.Temperature
	sc.Timeout = cfg.Timeout

	opts := []selim.Option{
		selim.WithLogger(logger),
		selim.WithLifecycleHooks(hooks),
		selim.WithSessionConfig(sc),
		selim.WithDegradeMode(mode),
		selim.WithLocale(cfg.LocaleTag()),
		selim.WithLocalDelay(cfg.LocalDelayMin, cfg.LocalDelayMax),
	}

	if cfg.KeywordsFile != "" {
		kw, err := intent.LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return nil, fmt.Errorf("error loading keywords: %w", err)
		}
		opts = append(opts, selim.WithKeywords(kw))
	}

	if cfg.ExtendedOperators {
		opts = append(opts, selim.WithOperatorWords(arith.ExtendedWords))
	}

	if cfg.CredentialPresent() {
		opts = append(opts, selim.WithCredential(cfg.APIKey))
		if cfg.BaseURL != "" {
			opts = append(opts, selim.WithRemoteBaseURL(cfg.BaseURL))
		}
	}
	return opts, nil
}
