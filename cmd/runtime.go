package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/triagez/internal/config"
	"github.com/abhisek/triagez/internal/explain"
	"github.com/abhisek/triagez/internal/interview"
	"github.com/abhisek/triagez/internal/llm"
	"github.com/abhisek/triagez/internal/logging"
	"github.com/abhisek/triagez/internal/metrics"
	"github.com/abhisek/triagez/internal/ranker"
	"github.com/abhisek/triagez/internal/store"
)

// runtime holds everything an interview needs, built once per command.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	metrics  *metrics.Metrics
	ranker   ranker.Ranker
	resolver explain.Resolver

	closers []func() error
}

// loadConfig reads configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// openStore opens the event store named by flags and config.
func openStore(cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// setup builds the runtime. In TUI mode logs go to log.file or nowhere, so
// the terminal stays clean.
func setup(cmd *cobra.Command, tui bool) (*runtime, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &runtime{cfg: cfg}

	if tui && cfg.Log.File == "" {
		rt.logger = logging.Nop()
	} else {
		rt.logger, err = logging.New(cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		rt.closers = append(rt.closers, func() error {
			_ = rt.logger.Sync()
			return nil
		})
	}
	if cfg.File != "" {
		rt.logger.Debug("loaded config", zap.String("file", cfg.File))
	}
	if cfg.Explain.Fallback != "" {
		rt.logger.Warn("explanations disabled", zap.String("reason", cfg.Explain.Fallback))
	}

	rt.store, err = openStore(cmd, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, rt.store.Close)

	rt.metrics = metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := rt.metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				rt.logger.Warn("metrics listener stopped", zap.String("addr", cfg.Metrics.Addr), zap.Error(err))
			}
		}()
	}

	if err := rt.buildRanker(); err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.buildResolver(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) buildRanker() error {
	var r ranker.Ranker = ranker.NewHTTPRanker(rt.cfg.Ranker.BaseURL, rt.cfg.Ranker.Timeout, rt.logger)
	r = ranker.WithObserver(r, rt.metrics)

	if url := rt.cfg.Cache.RedisURL; url != "" {
		rdb, err := ranker.NewRedisClient(url)
		if err != nil {
			return err
		}
		rt.closers = append(rt.closers, rdb.Close)
		r = ranker.WithCache(r, rdb, rt.cfg.Cache.TTL, rt.logger)
	}

	rt.ranker = r
	return nil
}

func (rt *runtime) buildResolver(ctx context.Context) error {
	switch rt.cfg.Explain.Source {
	case config.ExplainNone:
		return nil
	case config.ExplainService:
		rt.resolver = explain.NewServiceResolver(rt.cfg.Ranker.BaseURL, rt.cfg.Ranker.Timeout)
		return nil
	}

	provider, err := llm.NewProvider(ctx, rt.cfg.LLM, rt.store.EventRepo(), rt.logger)
	if err != nil {
		return fmt.Errorf("init LLM provider: %w", err)
	}
	rt.resolver = explain.NewLLMResolver(provider, explain.DefaultLLMConfig())
	return nil
}

// newController builds a Controller for one interview.
func (rt *runtime) newController() *interview.Controller {
	return interview.New(rt.ranker, rt.resolver, interview.Config{
		Thresholds: rt.cfg.Policy,
		Logger:     rt.logger,
		Recorder:   rt.store.EventRepo(),
		Observer:   rt.metrics,
	})
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
