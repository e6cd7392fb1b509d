// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/smart-expense/backend/internal/domain/entity"
)

// AssetStore defines the interface for generation-tagged asset bucket storage.
// A bucket holds every asset of one cache generation; buckets are independent,
// so installing a new generation never disturbs the one still serving traffic.
type AssetStore interface {
	// PutAsset stores an asset in the bucket for the given generation.
	PutAsset(ctx context.Context, generation string, asset *entity.Asset) error

	// GetAsset retrieves an asset by path from the given generation's bucket.
	// Returns domain ErrAssetNotCached when the path is not in the bucket.
	GetAsset(ctx context.Context, generation string, path string) (*entity.Asset, error)

	// DeleteBucket removes a generation's bucket and all assets in it.
	DeleteBucket(ctx context.Context, generation string) error

	// ListGenerations returns the generation tags of all known buckets.
	ListGenerations(ctx context.Context) ([]string, error)
}

// AssetFetcher defines the interface for retrieving assets from the SPA origin.
type AssetFetcher interface {
	// Fetch retrieves the asset at the given root-relative path from the origin.
	Fetch(ctx context.Context, path string) (*entity.Asset, error)
}
