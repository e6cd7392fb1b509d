// Package assetstore provides the Redis-backed asset bucket store and the
// HTTP origin fetcher used by the offline asset cache.
package assetstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainerror "github.com/smart-expense/backend/internal/domain/error"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/index.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>home</html>"))
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer origin.Close()

	fetcher := NewHTTPFetcher(origin.URL, 5*time.Second)

	t.Run("returns body and content type for an existing asset", func(t *testing.T) {
		asset, err := fetcher.Fetch(ctx, "/index.html")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if asset.Path != "/index.html" {
			t.Errorf("expected path /index.html, got %s", asset.Path)
		}
		if asset.ContentType != "text/html" {
			t.Errorf("expected content type text/html, got %s", asset.ContentType)
		}
		if string(asset.Body) != "<html>home</html>" {
			t.Errorf("unexpected body %q", asset.Body)
		}
		if asset.FetchedAt.IsZero() {
			t.Error("expected fetched at to be set")
		}
	})

	t.Run("non-200 status is an origin fetch error", func(t *testing.T) {
		for _, path := range []string{"/missing.css", "/boom"} {
			_, err := fetcher.Fetch(ctx, path)
			var cacheErr *domainerror.CacheError
			if !errors.As(err, &cacheErr) || cacheErr.Code != domainerror.ErrCodeOriginFetch {
				t.Errorf("%s: expected origin fetch error, got %v", path, err)
			}
		}
	})

	t.Run("unreachable origin is an origin fetch error", func(t *testing.T) {
		dead := NewHTTPFetcher("http://127.0.0.1:1", time.Second)
		_, err := dead.Fetch(ctx, "/index.html")
		var cacheErr *domainerror.CacheError
		if !errors.As(err, &cacheErr) || cacheErr.Code != domainerror.ErrCodeOriginFetch {
			t.Fatalf("expected origin fetch error, got %v", err)
		}
	})
}
