package mock

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// originAsset is a canned response for one path.
type originAsset struct {
	body        string
	contentType string
}

// Origin is a fake SPA dev server. It serves configured assets, records
// every request it receives, and can be told to fail specific paths.
type Origin struct {
	mu        sync.Mutex
	server    *httptest.Server
	assets    map[string]originAsset
	failPaths map[string]bool
	hits      map[string]int
}

// NewOrigin creates and starts a fake origin server.
func NewOrigin() *Origin {
	o := &Origin{
		assets:    map[string]originAsset{},
		failPaths: map[string]bool{},
		hits:      map[string]int{},
	}

	o.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o.mu.Lock()
		defer o.mu.Unlock()

		path := r.URL.Path
		o.hits[path]++

		if o.failPaths[path] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		asset, ok := o.assets[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if asset.contentType != "" {
			w.Header().Set("Content-Type", asset.contentType)
		}
		_, _ = w.Write([]byte(asset.body))
	}))

	return o
}

// URL returns the base URL of the fake origin.
func (o *Origin) URL() string {
	return o.server.URL
}

// SetAsset configures the response body and content type for a path.
func (o *Origin) SetAsset(path, body, contentType string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.assets[path] = originAsset{body: body, contentType: contentType}
	delete(o.failPaths, path)
}

// FailPath makes the origin return a 500 for the given path.
func (o *Origin) FailPath(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failPaths[path] = true
}

// Hits returns how many requests the origin received for a path.
func (o *Origin) Hits(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hits[path]
}

// Close shuts down the fake origin server.
func (o *Origin) Close() {
	o.server.Close()
}
