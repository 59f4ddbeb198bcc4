package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tobyward/pace/internal/auth"
	"github.com/tobyward/pace/internal/cache"
	"github.com/tobyward/pace/internal/catalog"
	"github.com/tobyward/pace/internal/config"
	"github.com/tobyward/pace/internal/remote"
	"github.com/tobyward/pace/internal/syncer"
)

// session bundles everything a command needs: config, catalog, the stores,
// the identity provider, and the coordinator that owns the state.
type session struct {
	cfg      *config.Config
	cat      *catalog.Catalog
	cache    cache.Cache
	remote   remote.Store
	provider *auth.Static
	coord    *syncer.Coordinator
}

// openSession wires a full session from configuration and bootstraps the
// coordinator from the local cache. The remote store is opened but not
// touched until a remote operation needs it.
func openSession(opts *RootOptions) (*session, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
			return nil, err
		}
	}

	localCache, err := cache.Open(cfg.CachePath())
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}

	remoteStore, err := remote.Open(cfg.Remote.Driver, cfg.Remote.DSN)
	if err != nil {
		localCache.Close()
		return nil, fmt.Errorf("open remote store: %w", err)
	}

	coord := syncer.New(localCache, remoteStore, cat,
		syncer.WithDebounce(cfg.Debounce()),
		syncer.WithDailyGoal(cfg.DailyGoal),
	)
	coord.Bootstrap()

	// The coordinator subscribes to identity changes: login triggers the
	// one-time migration and remote load, logout tears the session down.
	provider := auth.NewStatic(coord.LearnerID())
	provider.OnChange(func(id string, ok bool) {
		if !ok {
			coord.Logout()
			return
		}
		if err := coord.SetIdentity(context.Background(), id); err != nil {
			slog.Warn("identity change handling failed", "learner", id, "error", err)
		}
	})

	return &session{
		cfg:      cfg,
		cat:      cat,
		cache:    localCache,
		remote:   remoteStore,
		provider: provider,
		coord:    coord,
	}, nil
}

// Close flushes pending remote writes and releases resources. CLI commands
// are short-lived sessions: without the flush the debounced gamification
// sync would never fire before process exit.
func (s *session) Close() {
	s.coord.Flush()
	s.coord.Close()
	if err := s.remote.Close(); err != nil {
		slog.Warn("close remote store", "error", err)
	}
	if err := s.cache.Close(); err != nil {
		slog.Warn("close local cache", "error", err)
	}
}

// requireLesson validates a module/lesson pair against the catalog.
func (s *session) requireLesson(moduleID, lessonID string) error {
	if _, ok := s.cat.Module(moduleID); !ok {
		return fmt.Errorf("unknown module %q", moduleID)
	}
	if !s.cat.HasLesson(moduleID, lessonID) {
		return fmt.Errorf("unknown lesson %q in module %q", lessonID, moduleID)
	}
	return nil
}

// requireModule validates a module id against the catalog.
func (s *session) requireModule(moduleID string) error {
	if _, ok := s.cat.Module(moduleID); !ok {
		return fmt.Errorf("unknown module %q", moduleID)
	}
	return nil
}
