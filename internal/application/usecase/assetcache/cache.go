// Package assetcache implements the offline asset cache lifecycle. A cache
// instance moves through Uninstalled, Installing, Installed and Active; only
// an Active cache serves requests from its bucket, everything before that
// passes requests straight through to the origin.
package assetcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/smart-expense/backend/internal/application/adapter"
	"github.com/smart-expense/backend/internal/domain/entity"
	domainerror "github.com/smart-expense/backend/internal/domain/error"
)

// State is the cache lifecycle state.
type State string

const (
	StateUninstalled State = "uninstalled"
	StateInstalling  State = "installing"
	StateInstalled   State = "installed"
	StateActive      State = "active"
)

// Cache is the generation-tagged offline asset cache.
type Cache struct {
	generation string
	manifest   []string
	store      adapter.AssetStore
	fetcher    adapter.AssetFetcher

	mu    sync.Mutex
	state State
}

// NewCache creates a new Cache for the given generation and manifest.
func NewCache(generation string, manifest []string, store adapter.AssetStore, fetcher adapter.AssetFetcher) *Cache {
	return &Cache{
		generation: generation,
		manifest:   manifest,
		store:      store,
		fetcher:    fetcher,
		state:      StateUninstalled,
	}
}

// State returns the current lifecycle state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Generation returns the cache's generation tag.
func (c *Cache) Generation() string {
	return c.generation
}

// Install fetches every manifest asset from the origin and stores it in this
// generation's bucket. The fetches run concurrently; one failure aborts the
// whole install and the partial bucket is deleted, so a generation is either
// fully populated or absent.
func (c *Cache) Install(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateUninstalled {
		c.mu.Unlock()
		return domainerror.NewCacheError(
			domainerror.ErrCodeCacheAlreadyInstalled,
			fmt.Sprintf("install requires an uninstalled cache, state is %s", c.state),
			domainerror.ErrCacheAlreadyInstalled,
		)
	}
	c.state = StateInstalling
	c.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, path := range c.manifest {
		path := path
		g.Go(func() error {
			asset, err := c.fetcher.Fetch(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", path, err)
			}
			if err := c.store.PutAsset(gctx, c.generation, asset); err != nil {
				return fmt.Errorf("failed to store %s: %w", path, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if delErr := c.store.DeleteBucket(ctx, c.generation); delErr != nil {
			slog.Warn("Failed to delete partial asset bucket",
				"generation", c.generation,
				"error", delErr,
			)
		}
		c.mu.Lock()
		c.state = StateUninstalled
		c.mu.Unlock()
		return domainerror.NewCacheError(
			domainerror.ErrCodeCacheInstallFailed,
			"install aborted",
			err,
		)
	}

	c.mu.Lock()
	c.state = StateInstalled
	c.mu.Unlock()
	return nil
}

// Activate deletes every bucket whose generation differs from this cache's
// and starts intercepting fetches. The current generation's bucket is never
// touched, so activation is safe to retry.
func (c *Cache) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateInstalled {
		c.mu.Unlock()
		return domainerror.NewCacheError(
			domainerror.ErrCodeCacheNotInstalled,
			fmt.Sprintf("activate requires an installed cache, state is %s", c.state),
			domainerror.ErrCacheNotInstalled,
		)
	}
	c.mu.Unlock()

	generations, err := c.store.ListGenerations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list generations: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, generation := range generations {
		if generation == c.generation {
			continue
		}
		generation := generation
		g.Go(func() error {
			return c.store.DeleteBucket(gctx, generation)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to delete stale generations: %w", err)
	}

	c.mu.Lock()
	c.state = StateActive
	c.mu.Unlock()
	return nil
}

// Fetch serves the asset at path. An Active cache answers hits from its
// bucket without touching the origin; misses are forwarded to the origin and
// the response is returned as-is, never stored. Before activation every
// request goes to the origin.
func (c *Cache) Fetch(ctx context.Context, path string) (*entity.Asset, error) {
	if c.State() != StateActive {
		return c.fetcher.Fetch(ctx, path)
	}

	asset, err := c.store.GetAsset(ctx, c.generation, path)
	if err == nil {
		return asset, nil
	}

	return c.fetcher.Fetch(ctx, path)
}
