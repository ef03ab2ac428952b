// Package file implements the file provider (spec §4.C "File provider"),
// grounded directly in the original implementation's file_provider
// (original_source/source/app/resource_provider/file.cpp): it is configured
// with one or more root directories, maps `file:` URLs to regular files
// under those roots, rejects symlinks, and enumerates every regular file it
// finds as a canonical `file://<host>/<path>` URL.
package file

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
)

// Provider maps `file:`-scheme (and bare path) locators to regular files
// under one or more configured root directories.
type Provider struct {
	roots []string
}

// New creates a Provider rooted at the given directories. Non-existent or
// non-directory roots are skipped, mirroring the original's
// `is_directory` guard plus warning log (logged here via the caller's
// Context, not inline, to keep this package free of a logging dependency).
func New(roots ...string) *Provider {
	p := &Provider{}
	for _, root := range roots {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			p.roots = append(p.roots, filepath.Clean(root))
		}
	}
	return p
}

// Roots returns the configured search roots that passed validation.
func (p *Provider) Roots() []string { return p.roots }

func (p *Provider) Name() string { return "file" }

// resolve finds the first root under which loc's path exists as a regular,
// non-symlink file, returning the absolute path.
func (p *Provider) resolve(loc locator.Locator) (string, bool) {
	rel := strings.TrimPrefix(loc.Path(), "/")
	if rel == "" {
		return "", false
	}
	for _, root := range p.roots {
		full := filepath.Join(root, rel)
		// Reject paths that escape the root via ".." components.
		if !strings.HasPrefix(full, root) {
			continue
		}
		info, err := os.Lstat(full)
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		return full, true
	}
	return "", false
}

func (p *Provider) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("file") || loc.Scheme() == "") {
		return false
	}
	_, ok := p.resolve(loc)
	return ok
}

func (p *Provider) GetResourceIO(id resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	full, ok := p.resolve(loc)
	if !ok {
		return nil, false, nil
	}
	io, err := blobio.NewFileIO(full)
	if err != nil {
		return nil, false, err
	}
	return io, true, nil
}

func (p *Provider) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return 10 * time.Second
}

func (p *Provider) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

// ForEachLocator walks every root and reports a canonical `file:///<rel>`
// URL for each regular, non-symlink file found, matching the original's
// recursive directory_iterator walk.
func (p *Provider) ForEachLocator(fn func(url string)) {
	for _, root := range p.roots {
		_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			info, infoErr := d.Info()
			if infoErr != nil {
				return nil
			}
			if info.Mode()&os.ModeSymlink != 0 {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			fn("file:///" + filepath.ToSlash(rel))
			return nil
		})
	}
}
