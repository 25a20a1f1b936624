package primarydb

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
)

const selectPackages = `SELECT
 pkgKey
 , name
 , arch
 , epoch
 , version
 , release
 , summary
 , description
 , url
 , time_build
 , size_package
 , size_installed
 , location_href
 , pkgId
FROM packages ORDER BY pkgKey`

// Read parses the primary database at path. It returns the packages in
// pkgKey order and the revision recorded in db_info.
func Read(ctx context.Context, path string) (string, []domain.PackageMetadata, error) {
	db, err := sql.Open(DriverName, "file:"+path+"?mode=ro")
	if err != nil {
		return "", nil, readErr(err, path)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	revision, err := readRevision(ctx, db)
	if err != nil {
		return "", nil, readErr(err, path)
	}
	metas, index, err := readPackages(ctx, db)
	if err != nil {
		return "", nil, readErr(err, path)
	}
	for _, t := range DepKinds {
		if err := readDeps(ctx, db, t, metas, index); err != nil {
			return "", nil, readErr(err, path)
		}
	}
	if err := readFiles(ctx, db, metas, index); err != nil {
		return "", nil, readErr(err, path)
	}
	return revision, metas, nil
}

func readRevision(ctx context.Context, db *sql.DB) (string, error) {
	var version int
	var checksum sql.NullString
	err := db.QueryRowContext(ctx, `SELECT dbversion, checksum FROM db_info`).Scan(&version, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return checksum.String, nil
}

func readPackages(ctx context.Context, db *sql.DB) ([]domain.PackageMetadata, map[int64]int, error) {
	rows, err := db.QueryContext(ctx, selectPackages)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	var metas []domain.PackageMetadata
	index := make(map[int64]int)
	for rows.Next() {
		var (
			key                                   int64
			name, arch, version                   string
			epoch, release, summary, description  sql.NullString
			url, location, checksum               sql.NullString
			buildTime, packageSize, installedSize sql.NullInt64
		)
		if err := rows.Scan(&key, &name, &arch, &epoch, &version, &release, &summary, &description,
			&url, &buildTime, &packageSize, &installedSize, &location, &checksum); err != nil {
			return nil, nil, err
		}
		e, err := parseEpoch(epoch.String)
		if err != nil {
			return nil, nil, zerr.With(err, "package", name)
		}
		index[key] = len(metas)
		metas = append(metas, domain.PackageMetadata{
			Name:        name,
			Epoch:       e,
			Version:     version,
			Release:     release.String,
			Arch:        arch,
			Summary:     summary.String,
			Description: description.String,
			URL:         url.String,
			Location:    location.String,
			Checksum:    checksum.String,
			BuildTime:   buildTime.Int64,
			PackageSize: packageSize.Int64,
			InstallSize: installedSize.Int64,
			SourceKey:   key,
		})
	}
	return metas, index, rows.Err()
}

func readDeps(ctx context.Context, db *sql.DB, t DepKind, metas []domain.PackageMetadata, index map[int64]int) error {
	// #nosec G202 -- table names come from a fixed list
	rows, err := db.QueryContext(ctx, `SELECT pkgKey, name, flags, epoch, version, release FROM `+t.Name+` ORDER BY rowid`)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return nil
		}
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key int64
		var name string
		var flags, epoch, version, release sql.NullString
		if err := rows.Scan(&key, &name, &flags, &epoch, &version, &release); err != nil {
			return err
		}
		i, ok := index[key]
		if !ok {
			continue
		}
		dep, err := ParseDependencyColumns(name, flags.String, epoch.String, version.String, release.String)
		if err != nil {
			return zerr.With(err, "package", metas[i].Name)
		}
		field := t.Field(&metas[i])
		*field = append(*field, dep)
	}
	return rows.Err()
}

func readFiles(ctx context.Context, db *sql.DB, metas []domain.PackageMetadata, index map[int64]int) error {
	rows, err := db.QueryContext(ctx, `SELECT pkgKey, name FROM files ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key int64
		var name string
		if err := rows.Scan(&key, &name); err != nil {
			return err
		}
		if i, ok := index[key]; ok {
			metas[i].Files = append(metas[i].Files, name)
		}
	}
	return rows.Err()
}

// ParseDependencyColumns is the inverse of DependencyColumns.
func ParseDependencyColumns(name, flags, epoch, version, release string) (domain.Dependency, error) {
	if strings.HasPrefix(name, "(") {
		return domain.ParseDependency(name)
	}
	cmp, ok := flagCmp(flags)
	if !ok {
		return domain.Dependency{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrInvalidReldep, "unknown dependency flags"), "flags", flags), "name", name)
	}
	if cmp == domain.CmpNone {
		return domain.NewDependency(name, domain.CmpNone, ""), nil
	}
	e, err := parseEpoch(epoch)
	if err != nil {
		return domain.Dependency{}, zerr.With(err, "name", name)
	}
	return domain.NewDependency(name, cmp, domain.NewEVR(e, version, release).String()), nil
}

func parseEpoch(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrMetadataReadFailed, "invalid epoch"), "epoch", s)
	}
	return n, nil
}

func readErr(err error, path string) error {
	if errors.Is(err, domain.ErrMetadataReadFailed) || errors.Is(err, domain.ErrInvalidReldep) {
		return zerr.With(err, "path", path)
	}
	return zerr.With(zerr.Wrap(domain.ErrMetadataReadFailed, err.Error()), "path", path)
}
