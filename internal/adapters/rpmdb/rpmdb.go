// Package rpmdb stores the installed packages of an install root in SQLite.
package rpmdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/rpmd/internal/adapters/primarydb"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
)

const schema = `
CREATE TABLE IF NOT EXISTS packages (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    name           TEXT NOT NULL,
    epoch          INTEGER NOT NULL DEFAULT 0,
    version        TEXT NOT NULL,
    release        TEXT NOT NULL DEFAULT '',
    arch           TEXT NOT NULL,
    from_repo      TEXT NOT NULL DEFAULT '',
    summary        TEXT NOT NULL DEFAULT '',
    description    TEXT NOT NULL DEFAULT '',
    url            TEXT NOT NULL DEFAULT '',
    size_installed INTEGER NOT NULL DEFAULT 0,
    size_package   INTEGER NOT NULL DEFAULT 0,
    install_time   INTEGER NOT NULL DEFAULT 0,
    UNIQUE(name, epoch, version, release, arch)
);

CREATE TABLE IF NOT EXISTS deps (
    pkg_id  INTEGER NOT NULL,
    kind    TEXT NOT NULL,
    name    TEXT NOT NULL,
    flags   TEXT NOT NULL DEFAULT '',
    epoch   TEXT NOT NULL DEFAULT '',
    version TEXT NOT NULL DEFAULT '',
    release TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS files (
    pkg_id INTEGER NOT NULL,
    name   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS pkgdeps ON deps (pkg_id);
CREATE INDEX IF NOT EXISTS pkgfiles ON files (pkg_id);

CREATE TRIGGER IF NOT EXISTS removals AFTER DELETE ON packages
BEGIN
	DELETE FROM deps WHERE pkg_id = old.id;
	DELETE FROM files WHERE pkg_id = old.id;
END;
`

// Opener implements ports.RPMDatabaseOpener.
type Opener struct {
	now func() time.Time
}

var _ ports.RPMDatabaseOpener = (*Opener)(nil)

// NewOpener creates an opener stamping installs with the current time.
func NewOpener() *Opener {
	return &Opener{now: time.Now}
}

// Open opens, creating if needed, the database of installroot.
func (o *Opener) Open(ctx context.Context, installroot string) (ports.RPMDatabase, error) {
	if installroot == "" {
		installroot = "/"
	}
	return OpenPath(ctx, domain.RPMDBPath(installroot), o.now)
}

// DB is the installed-package database of one install root.
type DB struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ ports.RPMDatabase = (*DB)(nil)

// OpenPath opens, creating if needed, the database file at path.
func OpenPath(ctx context.Context, path string, now func() time.Time) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, dbErr(err, "create database directory", path)
	}
	db, err := sql.Open(primarydb.DriverName, path)
	if err != nil {
		return nil, dbErr(err, "open database", path)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, dbErr(err, "prepare database", path)
		}
	}
	if now == nil {
		now = time.Now
	}
	return &DB{db: db, path: path, now: now}, nil
}

// Path returns the database file.
func (d *DB) Path() string {
	return d.path
}

// Installed returns the installed packages in installation order.
func (d *DB) Installed(ctx context.Context) ([]domain.PackageMetadata, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows, err := d.db.QueryContext(ctx, `SELECT id, name, epoch, version, release, arch, summary,
		description, url, size_installed, size_package FROM packages ORDER BY id`)
	if err != nil {
		return nil, dbErr(err, "list installed packages", d.path)
	}
	defer func() { _ = rows.Close() }()

	var metas []domain.PackageMetadata
	index := make(map[int64]int)
	for rows.Next() {
		var m domain.PackageMetadata
		if err := rows.Scan(&m.SourceKey, &m.Name, &m.Epoch, &m.Version, &m.Release, &m.Arch,
			&m.Summary, &m.Description, &m.URL, &m.InstallSize, &m.PackageSize); err != nil {
			return nil, dbErr(err, "scan installed package", d.path)
		}
		index[m.SourceKey] = len(metas)
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list installed packages", d.path)
	}
	if err := d.readDeps(ctx, metas, index); err != nil {
		return nil, err
	}
	if err := d.readFiles(ctx, metas, index); err != nil {
		return nil, err
	}
	return metas, nil
}

func (d *DB) readDeps(ctx context.Context, metas []domain.PackageMetadata, index map[int64]int) error {
	fields := make(map[string]primarydb.DepKind, len(primarydb.DepKinds))
	for _, k := range primarydb.DepKinds {
		fields[k.Name] = k
	}

	rows, err := d.db.QueryContext(ctx, `SELECT pkg_id, kind, name, flags, epoch, version, release FROM deps ORDER BY rowid`)
	if err != nil {
		return dbErr(err, "list dependencies", d.path)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		var kind, name, flags, epoch, version, release string
		if err := rows.Scan(&id, &kind, &name, &flags, &epoch, &version, &release); err != nil {
			return dbErr(err, "scan dependency", d.path)
		}
		i, ok := index[id]
		k, known := fields[kind]
		if !ok || !known {
			continue
		}
		dep, err := primarydb.ParseDependencyColumns(name, flags, epoch, version, release)
		if err != nil {
			return zerr.With(err, "path", d.path)
		}
		field := k.Field(&metas[i])
		*field = append(*field, dep)
	}
	if err := rows.Err(); err != nil {
		return dbErr(err, "list dependencies", d.path)
	}
	return nil
}

func (d *DB) readFiles(ctx context.Context, metas []domain.PackageMetadata, index map[int64]int) error {
	rows, err := d.db.QueryContext(ctx, `SELECT pkg_id, name FROM files ORDER BY rowid`)
	if err != nil {
		return dbErr(err, "list files", d.path)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return dbErr(err, "scan file", d.path)
		}
		if i, ok := index[id]; ok {
			metas[i].Files = append(metas[i].Files, name)
		}
	}
	if err := rows.Err(); err != nil {
		return dbErr(err, "list files", d.path)
	}
	return nil
}

// Apply performs one transaction entry. Forward actions record the package,
// backward actions erase it. A reinstall replaces the recorded copy, so the
// paired reinstalled entry has nothing left to do.
func (d *DB) Apply(ctx context.Context, item domain.TransactionItem) error {
	if item.Package == nil {
		return zerr.With(zerr.Wrap(domain.ErrRPMDBFailed, "entry has no package"), "action", item.Action.String())
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	meta := item.Package.Metadata()
	switch {
	case item.Action == domain.ActionReinstall:
		if err := d.erase(ctx, meta, true); err != nil {
			return err
		}
		return d.record(ctx, meta, item.Package.RepoID())
	case item.Action == domain.ActionReinstalled:
		return nil
	case item.Action.IsForward():
		return d.record(ctx, meta, item.Package.RepoID())
	case item.Action.IsBackward():
		return d.erase(ctx, meta, false)
	default:
		return zerr.With(zerr.Wrap(domain.ErrRPMDBFailed, "unknown action"), "action", item.Action.String())
	}
}

// Record adds meta as installed from repoID.
func (d *DB) Record(ctx context.Context, meta domain.PackageMetadata, repoID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record(ctx, meta, repoID)
}

func (d *DB) record(ctx context.Context, meta domain.PackageMetadata, repoID string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return dbErr(err, "begin", d.path)
	}
	if err := insert(ctx, tx, meta, repoID, d.now()); err != nil {
		_ = tx.Rollback()
		return zerr.With(err, "package", meta.NEVRA().String())
	}
	if err := tx.Commit(); err != nil {
		return dbErr(err, "commit", d.path)
	}
	return nil
}

func insert(ctx context.Context, tx *sql.Tx, m domain.PackageMetadata, repoID string, now time.Time) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO packages
		(name, epoch, version, release, arch, from_repo, summary, description, url,
		 size_installed, size_package, install_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Epoch, m.Version, m.Release, m.Arch, repoID, m.Summary, m.Description, m.URL,
		m.InstallSize, m.PackageSize, now.Unix())
	if err != nil {
		return zerr.Wrap(domain.ErrRPMDBFailed, "cannot record package: "+err.Error())
	}
	id, err := res.LastInsertId()
	if err != nil {
		return zerr.Wrap(domain.ErrRPMDBFailed, err.Error())
	}
	for _, k := range primarydb.DepKinds {
		for _, dep := range *k.Field(&m) {
			name, flags, epoch, version, release := primarydb.DependencyColumns(dep)
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO deps (pkg_id, kind, name, flags, epoch, version, release) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, k.Name, name, flags, epoch, version, release); err != nil {
				return zerr.Wrap(domain.ErrRPMDBFailed, err.Error())
			}
		}
	}
	for _, f := range m.Files {
		if _, err := tx.ExecContext(ctx, `INSERT INTO files (pkg_id, name) VALUES (?, ?)`, id, f); err != nil {
			return zerr.Wrap(domain.ErrRPMDBFailed, err.Error())
		}
	}
	return nil
}

func (d *DB) erase(ctx context.Context, m domain.PackageMetadata, missingOK bool) error {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM packages WHERE name = ? AND epoch = ? AND version = ? AND release = ? AND arch = ?`,
		m.Name, m.Epoch, m.Version, m.Release, m.Arch)
	if err != nil {
		return dbErr(err, "erase package", d.path)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbErr(err, "erase package", d.path)
	}
	if n == 0 && !missingOK {
		return zerr.With(zerr.Wrap(domain.ErrRPMDBFailed, "package is not installed"), "package", m.NEVRA().String())
	}
	return nil
}

// Close releases the database.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return dbErr(err, "close", d.path)
	}
	return nil
}

func dbErr(err error, op, path string) error {
	return zerr.With(zerr.Wrap(domain.ErrRPMDBFailed, op+": "+err.Error()), "path", path)
}
