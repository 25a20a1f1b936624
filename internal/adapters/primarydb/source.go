package primarydb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Source implements ports.MetadataSource for repositories whose base URLs are
// local directories or file:// URLs.
type Source struct {
	logger ports.Logger
	cache  *Cache
}

var _ ports.MetadataSource = (*Source)(nil)

// NewSource creates a source sharing cache between loads.
func NewSource(logger ports.Logger, cache *Cache) *Source {
	if cache == nil {
		cache = NewCache()
	}
	return &Source{logger: logger, cache: cache}
}

// Load reads the metadata of repo from the first base URL that serves it.
// When cachedir is set a copy is kept there and used if every base URL fails.
// Optional metadata is always read; the sack drops what flags do not select.
func (s *Source) Load(
	ctx context.Context,
	repo *domain.Repo,
	cachedir string,
	_ domain.LoadFlags,
) (*ports.RepoMetadata, error) {
	bases := repo.BaseURLs()
	errs := make([]error, 0, len(bases))
	for _, base := range bases {
		dir, err := localDir(base)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path := filepath.Join(dir, domain.PrimaryDBRelPath)
		md, err := s.read(ctx, repo.ID, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		if cachedir != "" {
			if err := s.store(path, cachePath(cachedir, repo.ID)); err != nil {
				s.logger.Warn(fmt.Sprintf("repository %s: cannot update metadata cache: %v", repo.ID, err))
			}
		}
		return md, nil
	}

	if cachedir != "" {
		cached := cachePath(cachedir, repo.ID)
		if _, err := os.Stat(cached); err == nil {
			s.logger.Warn(fmt.Sprintf("repository %s: using cached metadata", repo.ID))
			return s.read(ctx, repo.ID, cached)
		}
	}

	if len(bases) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrMetadataReadFailed, "repository has no baseurl"), "repo", repo.ID)
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrMetadataReadFailed, errors.Join(errs...).Error()), "repo", repo.ID)
}

func (s *Source) read(ctx context.Context, repoID, path string) (*ports.RepoMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, readErr(err, path)
	}
	if e, ok := s.cache.get(path, info); ok {
		return &ports.RepoMetadata{RepoID: repoID, Revision: e.revision, Packages: slices.Clone(e.metas)}, nil
	}

	revision, metas, err := Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if revision == "" {
		if revision, err = FileFingerprint(path); err != nil {
			return nil, readErr(err, path)
		}
	}
	s.cache.put(path, info, revision, metas)
	return &ports.RepoMetadata{RepoID: repoID, Revision: revision, Packages: slices.Clone(metas)}, nil
}

// store copies src to dst unless dst already has the same content.
func (s *Source) store(src, dst string) error {
	want, err := FileFingerprint(src)
	if err != nil {
		return err
	}
	if have, err := FileFingerprint(dst); err == nil && have == want {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return err
	}

	// #nosec G304 -- src was just read as repository metadata
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func cachePath(cachedir, repoID string) string {
	return filepath.Join(cachedir, repoID, filepath.Base(domain.PrimaryDBRelPath))
}

// localDir turns a base URL into a local directory.
func localDir(base string) (string, error) {
	if filepath.IsAbs(base) {
		return base, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "invalid baseurl"), "baseurl", base)
	}
	if u.Scheme != "file" {
		return "", zerr.With(zerr.New("unsupported baseurl scheme"), "baseurl", base)
	}
	if u.Path == "" {
		return "", zerr.With(zerr.New("baseurl has no path"), "baseurl", base)
	}
	return u.Path, nil
}
