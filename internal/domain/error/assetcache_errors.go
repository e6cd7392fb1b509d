package error

import "errors"

// Asset cache domain errors.
var (
	// ErrCacheNotActive is returned when the cache is asked to intercept
	// requests before activation completed.
	ErrCacheNotActive = errors.New("asset cache is not active")

	// ErrCacheAlreadyInstalled is returned when Install is called twice.
	ErrCacheAlreadyInstalled = errors.New("asset cache is already installed")

	// ErrCacheNotInstalled is returned when Activate is called before Install.
	ErrCacheNotInstalled = errors.New("asset cache is not installed")

	// ErrAssetNotCached is returned on a cache miss.
	ErrAssetNotCached = errors.New("asset not cached")
)

// CacheErrorCode defines error codes for asset cache errors.
// Format: CACHE-XXYYYY where XX is category and YYYY is specific error.
type CacheErrorCode string

const (
	// Lifecycle errors (01XXXX)
	ErrCodeCacheAlreadyInstalled CacheErrorCode = "CACHE-010001"
	ErrCodeCacheNotInstalled     CacheErrorCode = "CACHE-010002"
	ErrCodeCacheInstallFailed    CacheErrorCode = "CACHE-010003"

	// Fetch errors (02XXXX)
	ErrCodeAssetNotCached CacheErrorCode = "CACHE-020001"
	ErrCodeOriginFetch    CacheErrorCode = "CACHE-020002"

	// Store errors (03XXXX)
	ErrCodeCacheStorage CacheErrorCode = "CACHE-030001"
)

// CacheError represents an asset cache error with code and message.
type CacheError struct {
	Code    CacheErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CacheError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CacheError) Unwrap() error {
	return e.Err
}

// NewCacheError creates a new CacheError with the given code and message.
func NewCacheError(code CacheErrorCode, message string, err error) *CacheError {
	return &CacheError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
