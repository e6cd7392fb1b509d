// Package assetstore provides the Redis-backed asset bucket store and the
// HTTP origin fetcher used by the offline asset cache.
package assetstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/smart-expense/backend/internal/application/adapter"
	"github.com/smart-expense/backend/internal/domain/entity"
	domainerror "github.com/smart-expense/backend/internal/domain/error"
)

// httpFetcher implements the adapter.AssetFetcher interface against the SPA
// origin server.
type httpFetcher struct {
	originURL string
	client    *http.Client
}

// NewHTTPFetcher creates an asset fetcher for the given origin base URL.
func NewHTTPFetcher(originURL string, timeout time.Duration) adapter.AssetFetcher {
	return &httpFetcher{
		originURL: originURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the asset at the given root-relative path from the origin.
func (f *httpFetcher) Fetch(ctx context.Context, path string) (*entity.Asset, error) {
	assetURL, err := url.JoinPath(f.originURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset URL for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domainerror.NewCacheError(
			domainerror.ErrCodeOriginFetch,
			fmt.Sprintf("failed to fetch %s from origin", path),
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerror.NewCacheError(
			domainerror.ErrCodeOriginFetch,
			fmt.Sprintf("origin returned %d for %s", resp.StatusCode, path),
			nil,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body for %s: %w", path, err)
	}

	return &entity.Asset{
		Path:        path,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now().UTC(),
	}, nil
}
