package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/a3tai/mcp-well-inspection/internal/assetcache"
	"github.com/a3tai/mcp-well-inspection/internal/form"
)

var (
	// ErrPhotoTooLarge is returned for files above the configured size limit
	ErrPhotoTooLarge = errors.New("photo exceeds maximum size")
	// ErrRemoteDisabled is returned for URLs when no asset cache is configured
	ErrRemoteDisabled = errors.New("remote photos are not enabled")
)

// PhotoLoader reads picked photos from local paths or URLs. URLs go through
// the asset cache so a photo fetched once stays available offline.
type PhotoLoader struct {
	fs      afero.Fs
	baseDir string
	maxSize int64
	cache   *assetcache.Cache
}

// NewPhotoLoader creates a loader resolving relative paths against baseDir.
// cache may be nil, in which case URLs are rejected.
func NewPhotoLoader(fs afero.Fs, baseDir string, maxSize int64, cache *assetcache.Cache) *PhotoLoader {
	return &PhotoLoader{fs: fs, baseDir: baseDir, maxSize: maxSize, cache: cache}
}

// Load reads a single photo. The MIME type is left empty so the form sniffs
// it from the content.
func (l *PhotoLoader) Load(ctx context.Context, ref string) (form.PhotoFile, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return form.PhotoFile{}, fmt.Errorf("photo reference cannot be empty")
	}
	if isRemote(ref) {
		return l.loadRemote(ctx, ref)
	}
	return l.loadLocal(ref)
}

// LoadAll reads refs in order and stops at the first failure
func (l *PhotoLoader) LoadAll(ctx context.Context, refs []string) ([]form.PhotoFile, error) {
	files := make([]form.PhotoFile, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, err := l.Load(ctx, ref)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (l *PhotoLoader) loadLocal(ref string) (form.PhotoFile, error) {
	p := ref
	if !filepath.IsAbs(p) && l.baseDir != "" {
		p = filepath.Join(l.baseDir, p)
	}

	info, err := l.fs.Stat(p)
	if err != nil {
		return form.PhotoFile{}, fmt.Errorf("cannot access photo %s: %w", ref, err)
	}
	if info.IsDir() {
		return form.PhotoFile{}, fmt.Errorf("photo %s is a directory", ref)
	}
	if l.maxSize > 0 && info.Size() > l.maxSize {
		return form.PhotoFile{}, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrPhotoTooLarge, ref, info.Size(), l.maxSize)
	}

	data, err := afero.ReadFile(l.fs, p)
	if err != nil {
		return form.PhotoFile{}, fmt.Errorf("failed to read photo %s: %w", ref, err)
	}
	return form.PhotoFile{Name: filepath.Base(p), Data: data}, nil
}

func (l *PhotoLoader) loadRemote(ctx context.Context, ref string) (form.PhotoFile, error) {
	if l.cache == nil {
		return form.PhotoFile{}, fmt.Errorf("%w: %s", ErrRemoteDisabled, ref)
	}
	data, _, err := l.cache.Fetch(ctx, ref)
	if err != nil {
		return form.PhotoFile{}, err
	}
	if l.maxSize > 0 && int64(len(data)) > l.maxSize {
		return form.PhotoFile{}, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrPhotoTooLarge, ref, len(data), l.maxSize)
	}
	return form.PhotoFile{Name: remoteName(ref), Data: data}, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func remoteName(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ref
	}
	return path.Base(u.Path)
}
