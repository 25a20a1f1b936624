// Package primarydb reads and writes repository metadata stored as a
// primary_db SQLite database.
package primarydb

import (
	"strconv"

	"go.trai.ch/rpmd/internal/core/domain"
)

// DBVersion is the schema version written to db_info.
const DBVersion = 10

const schema = `
CREATE TABLE db_info (dbversion INTEGER, checksum TEXT);
CREATE TABLE packages (
	pkgKey INTEGER PRIMARY KEY
	, pkgId TEXT
	, name TEXT
	, arch TEXT
	, version TEXT
	, epoch TEXT
	, release TEXT
	, summary TEXT
	, description TEXT
	, url TEXT
	, time_build INTEGER
	, size_package INTEGER
	, size_installed INTEGER
	, location_href TEXT
	, checksum_type TEXT
);
CREATE TABLE files (name TEXT, type TEXT, pkgKey INTEGER);
CREATE TABLE requires (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER, pre BOOLEAN DEFAULT FALSE);
CREATE TABLE provides (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER);
CREATE TABLE conflicts (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER);
CREATE TABLE obsoletes (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER);
CREATE TABLE recommends (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER);
CREATE TABLE suggests (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER);
CREATE TABLE supplements (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER);
CREATE TABLE enhances (name TEXT, flags TEXT, epoch TEXT, version TEXT, release TEXT, pkgKey INTEGER);

CREATE INDEX packagename ON packages (name);
CREATE INDEX packageId ON packages (pkgId);
CREATE INDEX filenames ON files (name);
CREATE INDEX pkgfiles ON files (pkgKey);
CREATE INDEX pkgrequires ON requires (pkgKey);
CREATE INDEX requiresname ON requires (name);
CREATE INDEX pkgprovides ON provides (pkgKey);
CREATE INDEX providesname ON provides (name);
CREATE INDEX pkgconflicts ON conflicts (pkgKey);
CREATE INDEX pkgobsoletes ON obsoletes (pkgKey);

CREATE TRIGGER removals AFTER DELETE ON packages
BEGIN
	DELETE FROM files WHERE pkgKey = old.pkgKey;
	DELETE FROM requires WHERE pkgKey = old.pkgKey;
	DELETE FROM provides WHERE pkgKey = old.pkgKey;
	DELETE FROM conflicts WHERE pkgKey = old.pkgKey;
	DELETE FROM obsoletes WHERE pkgKey = old.pkgKey;
	DELETE FROM recommends WHERE pkgKey = old.pkgKey;
	DELETE FROM suggests WHERE pkgKey = old.pkgKey;
	DELETE FROM supplements WHERE pkgKey = old.pkgKey;
	DELETE FROM enhances WHERE pkgKey = old.pkgKey;
END;`

// DepKind binds a dependency kind, which is also its table name, to the
// metadata field it fills.
type DepKind struct {
	Name  string
	Field func(*domain.PackageMetadata) *[]domain.Dependency
}

// DepKinds lists every dependency kind in storage order.
var DepKinds = []DepKind{
	{"provides", func(m *domain.PackageMetadata) *[]domain.Dependency { return &m.Provides }},
	{"requires", func(m *domain.PackageMetadata) *[]domain.Dependency { return &m.Requires }},
	{"conflicts", func(m *domain.PackageMetadata) *[]domain.Dependency { return &m.Conflicts }},
	{"obsoletes", func(m *domain.PackageMetadata) *[]domain.Dependency { return &m.Obsoletes }},
	{"recommends", func(m *domain.PackageMetadata) *[]domain.Dependency { return &m.Recommends }},
	{"suggests", func(m *domain.PackageMetadata) *[]domain.Dependency { return &m.Suggests }},
	{"supplements", func(m *domain.PackageMetadata) *[]domain.Dependency { return &m.Supplements }},
	{"enhances", func(m *domain.PackageMetadata) *[]domain.Dependency { return &m.Enhances }},
}

var flagNames = map[domain.Cmp]string{
	domain.CmpEQ:  "EQ",
	domain.CmpLT:  "LT",
	domain.CmpLTE: "LE",
	domain.CmpGT:  "GT",
	domain.CmpGTE: "GE",
}

func flagCmp(flag string) (domain.Cmp, bool) {
	for cmp, name := range flagNames {
		if name == flag {
			return cmp, true
		}
	}
	return domain.CmpNone, flag == ""
}

// DependencyColumns splits d into the name, flags, epoch, version and release columns.
// Rich dependencies keep their whole expression in the name column.
func DependencyColumns(d domain.Dependency) (name, flags, epoch, version, release string) {
	if d.IsRich() || d.Cmp == domain.CmpNone {
		return d.String(), "", "", "", ""
	}
	evr := domain.ParseEVR(d.EVR)
	return d.Name, flagNames[d.Cmp], strconv.Itoa(evr.Epoch()), evr.Version(), evr.Release()
}
