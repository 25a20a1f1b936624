package primarydb

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// DriverName is the database/sql driver used for every database of the module.
const DriverName = "sqlite"

// WriteRepo writes metas as the primary database of the repository rooted at
// dir and returns its revision.
func WriteRepo(ctx context.Context, dir string, metas []domain.PackageMetadata) (string, error) {
	return Write(ctx, filepath.Join(dir, domain.PrimaryDBRelPath), metas)
}

// Write creates a primary database at path holding metas in order and returns
// its revision. Any existing file is replaced.
func Write(ctx context.Context, path string, metas []domain.PackageMetadata) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return "", writeErr(err, path)
	}
	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", writeErr(err, path)
	}

	revision := Revision(metas)
	if err := create(ctx, tmp, revision, metas); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", writeErr(err, path)
	}
	return revision, nil
}

func create(ctx context.Context, path, revision string, metas []domain.PackageMetadata) (err error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return writeErr(err, path)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = writeErr(cerr, path)
		}
	}()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return writeErr(err, path)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return writeErr(err, path)
	}
	if err := insertAll(ctx, tx, revision, metas); err != nil {
		_ = tx.Rollback()
		return writeErr(err, path)
	}
	if err := tx.Commit(); err != nil {
		return writeErr(err, path)
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, revision string, metas []domain.PackageMetadata) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO db_info (dbversion, checksum) VALUES (?, ?)`, DBVersion, revision); err != nil {
		return err
	}

	pkgStmt, err := tx.PrepareContext(ctx, `INSERT INTO packages
		(pkgKey, pkgId, name, arch, version, epoch, release, summary, description, url,
		 time_build, size_package, size_installed, location_href, checksum_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = pkgStmt.Close() }()

	fileStmt, err := tx.PrepareContext(ctx, `INSERT INTO files (name, type, pkgKey) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = fileStmt.Close() }()

	depStmts := make(map[string]*sql.Stmt, len(DepKinds))
	for _, t := range DepKinds {
		// #nosec G202 -- table names come from a fixed list
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+t.Name+
			` (name, flags, epoch, version, release, pkgKey) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()
		depStmts[t.Name] = stmt
	}

	for i := range metas {
		m := &metas[i]
		key := int64(i + 1)
		checksum := m.Checksum
		if checksum == "" {
			checksum = packageChecksum(m)
		}
		if _, err := pkgStmt.ExecContext(ctx, key, checksum, m.Name, m.Arch, m.Version,
			strconv.Itoa(m.Epoch), m.Release, m.Summary, m.Description, m.URL,
			m.BuildTime, m.PackageSize, m.InstallSize, m.Location, checksumType); err != nil {
			return err
		}
		for _, f := range m.Files {
			if _, err := fileStmt.ExecContext(ctx, f, "file", key); err != nil {
				return err
			}
		}
		for _, t := range DepKinds {
			for _, d := range *t.Field(m) {
				name, flags, epoch, version, release := DependencyColumns(d)
				if _, err := depStmts[t.Name].ExecContext(ctx, name, flags, epoch, version, release, key); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeErr(err error, path string) error {
	return zerr.With(zerr.Wrap(domain.ErrMetadataWriteFailed, err.Error()), "path", path)
}
