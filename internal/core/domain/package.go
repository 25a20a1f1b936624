package domain

import (
	"slices"
	"strconv"
)

// SystemRepoID is the origin of packages installed on the system.
const SystemRepoID = "@System"

// PackageID is the position of a package inside its sack. Ids are dense,
// start at zero and never change once assigned.
type PackageID int

// LoadFlags select which optional metadata is loaded with a repository.
type LoadFlags uint8

const (
	// LoadNone loads only the primary metadata.
	LoadNone LoadFlags = 0
	// LoadFilelists loads the complete file lists.
	LoadFilelists LoadFlags = 1 << (iota - 1)
	// LoadPresto loads delta rpm information.
	LoadPresto
	// LoadUpdateinfo loads advisory information.
	LoadUpdateinfo
	// LoadOther loads descriptive text such as descriptions and URLs.
	LoadOther
)

// LoadAll enables every optional metadata kind.
const LoadAll = LoadFilelists | LoadPresto | LoadUpdateinfo | LoadOther

// Has reports whether all bits of f are set.
func (l LoadFlags) Has(f LoadFlags) bool {
	return l&f == f
}

// PackageMetadata is the raw description of a package as read from a
// repository or the installed database, before it is placed in a sack.
type PackageMetadata struct {
	Name        string
	Epoch       int
	Version     string
	Release     string
	Arch        string
	Summary     string
	Description string
	URL         string
	Location    string
	Checksum    string
	InstallSize int64
	PackageSize int64
	BuildTime   int64

	Provides    []Dependency
	Requires    []Dependency
	Conflicts   []Dependency
	Obsoletes   []Dependency
	Recommends  []Dependency
	Suggests    []Dependency
	Supplements []Dependency
	Enhances    []Dependency
	Files       []string

	// SourceKey is the row key of the package in the store it came from.
	SourceKey int64
}

// NEVRA returns the identity of the described package.
func (m *PackageMetadata) NEVRA() NEVRA {
	return NEVRA{Name: m.Name, Epoch: m.Epoch, Version: m.Version, Release: m.Release, Arch: m.Arch}
}

// Package is an immutable package record owned by a sack.
type Package struct {
	id     PackageID
	name   InternedString
	arch   InternedString
	repoID InternedString
	evr    EVR
	meta   PackageMetadata
}

// NewPackage builds the sack record for meta. Attributes not selected by
// flags are dropped. Every package provides its own name at its own EVR.
func NewPackage(id PackageID, repoID string, meta PackageMetadata, flags LoadFlags) *Package {
	if !flags.Has(LoadFilelists) {
		meta.Files = primaryFiles(meta.Files)
	}
	if !flags.Has(LoadOther) {
		meta.Description = ""
		meta.URL = ""
	}

	evr := NewEVR(meta.Epoch, meta.Version, meta.Release)
	self := NewDependency(meta.Name, CmpEQ, evr.String())
	if !slices.ContainsFunc(meta.Provides, func(d Dependency) bool {
		return d.Name == self.Name && d.Cmp == CmpEQ && CompareEVR(ParseEVR(d.EVR), evr) == 0
	}) {
		meta.Provides = append([]Dependency{self}, meta.Provides...)
	}

	return &Package{
		id:     id,
		name:   NewInternedString(meta.Name),
		arch:   NewInternedString(meta.Arch),
		repoID: NewInternedString(repoID),
		evr:    evr,
		meta:   meta,
	}
}

// primaryFiles keeps the file paths that primary metadata carries without
// the complete file lists: executables and configuration.
func primaryFiles(files []string) []string {
	var kept []string
	for _, f := range files {
		if isPrimaryFile(f) {
			kept = append(kept, f)
		}
	}
	return kept
}

func isPrimaryFile(path string) bool {
	for _, prefix := range []string{"/etc/", "/usr/bin/", "/usr/sbin/", "/bin/", "/sbin/"} {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix {
			return true
		}
	}
	return path == "/usr/lib/sendmail"
}

// ID returns the package id within its sack.
func (p *Package) ID() PackageID { return p.id }

// Name returns the package name.
func (p *Package) Name() string { return p.name.String() }

// Epoch returns the package epoch.
func (p *Package) Epoch() int { return p.evr.Epoch() }

// Version returns the package version.
func (p *Package) Version() string { return p.evr.Version() }

// Release returns the package release.
func (p *Package) Release() string { return p.evr.Release() }

// Arch returns the package architecture.
func (p *Package) Arch() string { return p.arch.String() }

// RepoID returns the id of the repository the package was loaded from.
func (p *Package) RepoID() string { return p.repoID.String() }

// IsInstalled reports whether the package belongs to the installed system.
func (p *Package) IsInstalled() bool { return p.RepoID() == SystemRepoID }

// EVR returns the package EVR.
func (p *Package) EVR() EVR { return p.evr }

// NEVRA renders name-[epoch:]version-release.arch.
func (p *Package) NEVRA() string {
	return p.Name() + "-" + p.evr.String() + "." + p.Arch()
}

// FullNEVRA renders name-epoch:version-release.arch with the epoch always present.
func (p *Package) FullNEVRA() string {
	return p.Name() + "-" + strconv.Itoa(p.Epoch()) + ":" + p.Version() + "-" + p.Release() + "." + p.Arch()
}

// NA renders name.arch.
func (p *Package) NA() string { return p.Name() + "." + p.Arch() }

// InstallSize returns the installed size in bytes.
func (p *Package) InstallSize() int64 { return p.meta.InstallSize }

// PackageSize returns the download size in bytes.
func (p *Package) PackageSize() int64 { return p.meta.PackageSize }

// Summary returns the one-line summary.
func (p *Package) Summary() string { return p.meta.Summary }

// Description returns the long description, if loaded.
func (p *Package) Description() string { return p.meta.Description }

// URL returns the upstream URL, if loaded.
func (p *Package) URL() string { return p.meta.URL }

// Location returns the package location relative to the repository root.
func (p *Package) Location() string { return p.meta.Location }

// Checksum returns the package checksum.
func (p *Package) Checksum() string { return p.meta.Checksum }

// SourceKey returns the row key in the originating store.
func (p *Package) SourceKey() int64 { return p.meta.SourceKey }

// Provides returns the provided capabilities.
func (p *Package) Provides() []Dependency { return p.meta.Provides }

// Requires returns the required capabilities.
func (p *Package) Requires() []Dependency { return p.meta.Requires }

// Conflicts returns the conflicting capabilities.
func (p *Package) Conflicts() []Dependency { return p.meta.Conflicts }

// Obsoletes returns the obsoleted capabilities.
func (p *Package) Obsoletes() []Dependency { return p.meta.Obsoletes }

// Recommends returns the weak forward dependencies.
func (p *Package) Recommends() []Dependency { return p.meta.Recommends }

// Suggests returns the weakest forward dependencies.
func (p *Package) Suggests() []Dependency { return p.meta.Suggests }

// Supplements returns the weak reverse dependencies.
func (p *Package) Supplements() []Dependency { return p.meta.Supplements }

// Enhances returns the weakest reverse dependencies.
func (p *Package) Enhances() []Dependency { return p.meta.Enhances }

// Files returns the loaded file paths.
func (p *Package) Files() []string { return p.meta.Files }

// Metadata returns a copy of the raw metadata the record was built from.
func (p *Package) Metadata() PackageMetadata { return p.meta }

// ComparePackages orders packages by name, then arch, then EVR, then id.
func ComparePackages(a, b *Package) int {
	if a.Name() != b.Name() {
		if a.Name() < b.Name() {
			return -1
		}
		return 1
	}
	if a.Arch() != b.Arch() {
		if a.Arch() < b.Arch() {
			return -1
		}
		return 1
	}
	if c := CompareEVR(a.evr, b.evr); c != 0 {
		return c
	}
	return int(a.id) - int(b.id)
}
