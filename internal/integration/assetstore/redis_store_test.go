// Package assetstore provides the Redis-backed asset bucket store and the
// HTTP origin fetcher used by the offline asset cache.
package assetstore

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/smart-expense/backend/internal/domain/entity"
	domainerror "github.com/smart-expense/backend/internal/domain/error"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, &redisStore{client: client}
}

func testAsset(path string) *entity.Asset {
	return &entity.Asset{
		Path:        path,
		ContentType: "text/html",
		Body:        []byte("<html>" + path + "</html>"),
		FetchedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestRedisStore_PutGet(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips an asset through a generation bucket", func(t *testing.T) {
		_, store := newTestStore(t)
		asset := testAsset("/index.html")

		if err := store.PutAsset(ctx, "v1", asset); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := store.GetAsset(ctx, "v1", "/index.html")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Path != asset.Path {
			t.Errorf("expected path %s, got %s", asset.Path, got.Path)
		}
		if got.ContentType != asset.ContentType {
			t.Errorf("expected content type %s, got %s", asset.ContentType, got.ContentType)
		}
		if string(got.Body) != string(asset.Body) {
			t.Errorf("expected body %q, got %q", asset.Body, got.Body)
		}
		if !got.FetchedAt.Equal(asset.FetchedAt) {
			t.Errorf("expected fetched at %v, got %v", asset.FetchedAt, got.FetchedAt)
		}
	})

	t.Run("missing path returns not cached", func(t *testing.T) {
		_, store := newTestStore(t)
		_ = store.PutAsset(ctx, "v1", testAsset("/index.html"))

		_, err := store.GetAsset(ctx, "v1", "/missing.css")
		if !errors.Is(err, domainerror.ErrAssetNotCached) {
			t.Fatalf("expected not cached error, got %v", err)
		}
	})

	t.Run("generations do not see each other's assets", func(t *testing.T) {
		_, store := newTestStore(t)
		_ = store.PutAsset(ctx, "v1", testAsset("/index.html"))

		_, err := store.GetAsset(ctx, "v2", "/index.html")
		if !errors.Is(err, domainerror.ErrAssetNotCached) {
			t.Fatalf("expected not cached error for other generation, got %v", err)
		}
	})
}

func TestRedisStore_Generations(t *testing.T) {
	ctx := context.Background()

	t.Run("tracks every populated generation", func(t *testing.T) {
		_, store := newTestStore(t)
		_ = store.PutAsset(ctx, "v1", testAsset("/index.html"))
		_ = store.PutAsset(ctx, "v2", testAsset("/index.html"))

		generations, err := store.ListGenerations(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sort.Strings(generations)
		if len(generations) != 2 || generations[0] != "v1" || generations[1] != "v2" {
			t.Errorf("expected [v1 v2], got %v", generations)
		}
	})

	t.Run("delete removes the bucket and its tag", func(t *testing.T) {
		mr, store := newTestStore(t)
		_ = store.PutAsset(ctx, "v1", testAsset("/index.html"))
		_ = store.PutAsset(ctx, "v2", testAsset("/index.html"))

		if err := store.DeleteBucket(ctx, "v1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		generations, _ := store.ListGenerations(ctx)
		if len(generations) != 1 || generations[0] != "v2" {
			t.Errorf("expected [v2], got %v", generations)
		}
		if mr.Exists(bucketKey("v1")) {
			t.Error("expected v1 bucket key to be removed")
		}

		_, err := store.GetAsset(ctx, "v1", "/index.html")
		if !errors.Is(err, domainerror.ErrAssetNotCached) {
			t.Fatalf("expected not cached error after delete, got %v", err)
		}
	})

	t.Run("empty store lists no generations", func(t *testing.T) {
		_, store := newTestStore(t)
		generations, err := store.ListGenerations(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(generations) != 0 {
			t.Errorf("expected no generations, got %v", generations)
		}
	})
}
