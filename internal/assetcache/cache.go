// Package assetcache keeps a versioned local copy of remote assets so they
// can still be served when the network is gone.
//
// Assets live under <root>/<version>/. Installing a version downloads every
// manifest entry into it; activating it removes all other versions.
package assetcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const filePerm = 0o644

// ErrEmptyKey is returned for an empty asset key
var ErrEmptyKey = errors.New("asset key cannot be empty")

// Fetcher retrieves an asset from its origin
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Cache is a versioned store of fetched assets
type Cache struct {
	fs       afero.Fs
	root     string
	version  string
	manifest []string
	fetcher  Fetcher
	logger   logrus.FieldLogger
}

// New creates a cache for version under root
func New(fs afero.Fs, root, version string, manifest []string, fetcher Fetcher, logger logrus.FieldLogger) (*Cache, error) {
	if version == "" {
		return nil, fmt.Errorf("cache version cannot be empty")
	}
	if filepath.Base(version) != version {
		return nil, fmt.Errorf("invalid cache version: %q", version)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{
		fs:       fs,
		root:     root,
		version:  version,
		manifest: manifest,
		fetcher:  fetcher,
		logger:   logger,
	}, nil
}

// Version returns the active cache version
func (c *Cache) Version() string {
	return c.version
}

func (c *Cache) dir() string {
	return filepath.Join(c.root, c.version)
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir(), hex.EncodeToString(sum[:]))
}

// Install fetches every manifest entry into the current version. It stops
// at the first entry that cannot be fetched.
func (c *Cache) Install(ctx context.Context) error {
	if err := c.fs.MkdirAll(c.dir(), os.ModePerm); err != nil {
		return fmt.Errorf("cannot create cache directory: %w", err)
	}
	for _, key := range c.manifest {
		data, err := c.fetcher.Fetch(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to install %s: %w", key, err)
		}
		if err := c.store(key, data); err != nil {
			return err
		}
	}
	c.logger.WithFields(logrus.Fields{
		"version": c.version,
		"assets":  len(c.manifest),
	}).Info("asset cache installed")
	return nil
}

// Activate deletes every version other than the current one and returns
// the names of the removed versions.
func (c *Cache) Activate() ([]string, error) {
	entries, err := afero.ReadDir(c.fs, c.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot list cache versions: %w", err)
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == c.version {
			continue
		}
		if err := c.fs.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return removed, fmt.Errorf("cannot remove cache version %s: %w", e.Name(), err)
		}
		removed = append(removed, e.Name())
	}
	if len(removed) > 0 {
		c.logger.WithField("removed", removed).Info("stale asset cache versions evicted")
	}
	return removed, nil
}

// Has reports whether key is cached
func (c *Cache) Has(key string) bool {
	ok, err := afero.Exists(c.fs, c.path(key))
	return err == nil && ok
}

// Fetch returns the cached copy of key when present and otherwise fetches
// it from the origin, caching the result. cached reports a cache hit.
func (c *Cache) Fetch(ctx context.Context, key string) (data []byte, cached bool, err error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	data, err = afero.ReadFile(c.fs, c.path(key))
	if err == nil {
		return data, true, nil
	}
	if !os.IsNotExist(err) {
		c.logger.WithField("key", key).WithError(err).Warn("unreadable cache entry, refetching")
	}

	data, err = c.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	if err := c.store(key, data); err != nil {
		c.logger.WithField("key", key).WithError(err).Warn("could not cache asset")
	}
	return data, false, nil
}

func (c *Cache) store(key string, data []byte) error {
	if err := c.fs.MkdirAll(c.dir(), os.ModePerm); err != nil {
		return fmt.Errorf("cannot create cache directory: %w", err)
	}
	if err := afero.WriteFile(c.fs, c.path(key), data, filePerm); err != nil {
		return fmt.Errorf("cannot cache %s: %w", key, err)
	}
	return nil
}
