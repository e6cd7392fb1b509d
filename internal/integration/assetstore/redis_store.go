// Package assetstore provides the Redis-backed asset bucket store and the
// HTTP origin fetcher used by the offline asset cache.
package assetstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smart-expense/backend/internal/application/adapter"
	"github.com/smart-expense/backend/internal/domain/entity"
	domainerror "github.com/smart-expense/backend/internal/domain/error"
)

const (
	// bucketKeyPrefix namespaces one hash per generation.
	bucketKeyPrefix = "assetcache:bucket:"
	// generationsKey is the set of known generation tags.
	generationsKey = "assetcache:generations"
)

// storedAsset is the wire form of an asset inside a bucket hash.
type storedAsset struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	FetchedAt   int64  `json:"fetched_at"`
}

// redisStore implements the adapter.AssetStore interface on Redis. Each
// generation is one hash keyed by asset path, so deleting a generation is a
// single key removal.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed asset store.
func NewRedisStore(client *redis.Client) adapter.AssetStore {
	return &redisStore{client: client}
}

// PutAsset stores an asset in the bucket for the given generation.
func (s *redisStore) PutAsset(ctx context.Context, generation string, asset *entity.Asset) error {
	payload, err := json.Marshal(storedAsset{
		Path:        asset.Path,
		ContentType: asset.ContentType,
		Body:        asset.Body,
		FetchedAt:   asset.FetchedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode asset %s: %w", asset.Path, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, bucketKey(generation), asset.Path, payload)
	pipe.SAdd(ctx, generationsKey, generation)
	if _, err := pipe.Exec(ctx); err != nil {
		return domainerror.NewCacheError(
			domainerror.ErrCodeCacheStorage,
			fmt.Sprintf("failed to store asset %s", asset.Path),
			err,
		)
	}
	return nil
}

// GetAsset retrieves an asset by path from the given generation's bucket.
func (s *redisStore) GetAsset(ctx context.Context, generation string, path string) (*entity.Asset, error) {
	payload, err := s.client.HGet(ctx, bucketKey(generation), path).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domainerror.NewCacheError(
				domainerror.ErrCodeAssetNotCached,
				fmt.Sprintf("asset %s not in generation %s", path, generation),
				domainerror.ErrAssetNotCached,
			)
		}
		return nil, domainerror.NewCacheError(
			domainerror.ErrCodeCacheStorage,
			fmt.Sprintf("failed to read asset %s", path),
			err,
		)
	}

	var stored storedAsset
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", path, err)
	}

	return &entity.Asset{
		Path:        stored.Path,
		ContentType: stored.ContentType,
		Body:        stored.Body,
		FetchedAt:   time.Unix(stored.FetchedAt, 0).UTC(),
	}, nil
}

// DeleteBucket removes a generation's bucket and all assets in it.
func (s *redisStore) DeleteBucket(ctx context.Context, generation string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, bucketKey(generation))
	pipe.SRem(ctx, generationsKey, generation)
	if _, err := pipe.Exec(ctx); err != nil {
		return domainerror.NewCacheError(
			domainerror.ErrCodeCacheStorage,
			fmt.Sprintf("failed to delete generation %s", generation),
			err,
		)
	}
	return nil
}

// ListGenerations returns the generation tags of all known buckets.
func (s *redisStore) ListGenerations(ctx context.Context) ([]string, error) {
	generations, err := s.client.SMembers(ctx, generationsKey).Result()
	if err != nil {
		return nil, domainerror.NewCacheError(
			domainerror.ErrCodeCacheStorage,
			"failed to list generations",
			err,
		)
	}
	return generations, nil
}

func bucketKey(generation string) string {
	return bucketKeyPrefix + generation
}
