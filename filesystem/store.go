// Package filesystem provides the static asset root for testbed.
// All access goes through an os.Root, so paths that resolve outside the root,
// including through symlinks, are refused by the operating system layer.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"

	"github.com/sagarc03/testbed"
)

// Store serves read-only assets from a sandboxed directory.
type Store struct {
	root *os.Root
}

// NewAssetStore creates a new Store backed by root.
func NewAssetStore(root *os.Root) *Store {
	return &Store{root: root}
}

// Open opens the asset at name for reading. name is cleaned first, so
// "img/../hello.txt" opens "hello.txt". Invalid paths, directories, missing
// files and paths escaping the root all return testbed.ErrNotFound.
func (s *Store) Open(ctx context.Context, name string) (testbed.Asset, io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return testbed.Asset{}, nil, err
	}

	clean, ok := testbed.CleanAssetPath(name)
	if !ok {
		return testbed.Asset{}, nil, fmt.Errorf("asset path %q: %w", name, testbed.ErrNotFound)
	}
	name = clean

	f, err := s.root.Open(name)
	if err != nil {
		if isMissing(err) {
			return testbed.Asset{}, nil, fmt.Errorf("asset %q: %w", name, testbed.ErrNotFound)
		}
		return testbed.Asset{}, nil, fmt.Errorf("open asset: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		closeFile(f, name)
		return testbed.Asset{}, nil, fmt.Errorf("stat asset: %w", err)
	}

	if info.IsDir() {
		closeFile(f, name)
		return testbed.Asset{}, nil, fmt.Errorf("asset %q is a directory: %w", name, testbed.ErrNotFound)
	}

	return testbed.Asset{
		Path:        name,
		ContentType: detectContentType(name),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, f, nil
}

// List walks the root and returns every regular file it contains.
func (s *Store) List(ctx context.Context) ([]testbed.Asset, error) {
	var assets []testbed.Asset

	err := fs.WalkDir(s.root.FS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		assets = append(assets, testbed.Asset{
			Path:        p,
			ContentType: detectContentType(p),
			Size:        info.Size(),
			ModTime:     info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	return assets, nil
}

// isMissing reports whether an open error means there is nothing to serve:
// missing files, paths through non-directories, and paths os.Root refuses
// because they resolve outside the root.
func isMissing(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) && !errors.Is(err, fs.ErrPermission)
}

// detectContentType returns the content type for the extension of name, or ""
// when unknown so that the HTTP layer can sniff the content instead.
func detectContentType(name string) string {
	return mime.TypeByExtension(path.Ext(name))
}

func closeFile(f *os.File, name string) {
	if err := f.Close(); err != nil {
		slog.Warn("failed to close asset", "path", name, "err", err)
	}
}
