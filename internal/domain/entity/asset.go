// Package entity defines the core business entities for the domain layer.
package entity

import "time"

// Asset is a cached copy of a static file served by the SPA origin.
type Asset struct {
	Path        string // Root-relative, e.g. "/index.html"
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}
