// Package cache stores solved covers and rendered artifacts between runs.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTLs. Keys are produced by a [Keyer] so that every backend and
// every caller agrees on the layout:
//
//	cover:<sha256(version, projects hash, options)>
//	artifact:<sha256(version, cover hash, options)>
//
// Backends:
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [MemoryCache]: bounded LRU held in process (backend = "memory")
//   - [RedisCache]: shared cache for several server replicas
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the data stored under key. A miss is reported as
	// (nil, false, nil); err is reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// evicted or deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLCover    = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// keyVersion is bumped whenever the cached encoding changes.
const keyVersion = 1

// Keyer derives cache keys.
type Keyer interface {
	// CoverKey identifies the solution for a project set.
	CoverKey(projectsHash string, opts CoverKeyOpts) string

	// ArtifactKey identifies a rendered view of a solution.
	ArtifactKey(coverHash string, opts ArtifactKeyOpts) string
}

// CoverKeyOpts are the options that change which cover is selected.
// Budgets are not part of the key: they decide whether a search finishes,
// not what it returns.
type CoverKeyOpts struct {
	Friend int `json:"friend"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Friend int    `json:"friend"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CoverKey implements Keyer.
func (DefaultKeyer) CoverKey(projectsHash string, opts CoverKeyOpts) string {
	return hashKey("cover", keyVersion, projectsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(coverHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, coverHash, opts)
}
