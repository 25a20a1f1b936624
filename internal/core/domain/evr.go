package domain

import (
	"strconv"
	"strings"

	"github.com/cavaliercoder/go-rpm/version"
)

// EVR is an epoch, version and release triple.
type EVR struct {
	epoch   int
	version string
	release string
}

var _ version.Interface = EVR{}

// NewEVR builds an EVR from its parts.
func NewEVR(epoch int, ver, release string) EVR {
	return EVR{epoch: epoch, version: ver, release: release}
}

// ParseEVR parses "[epoch:]version[-release]".
func ParseEVR(s string) EVR {
	var e EVR
	if i := strings.IndexByte(s, ':'); i >= 0 {
		if n, err := strconv.Atoi(s[:i]); err == nil {
			e.epoch = n
		}
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		e.release = s[i+1:]
		s = s[:i]
	}
	e.version = s
	return e
}

// Name implements version.Interface. An EVR carries no package name.
func (e EVR) Name() string { return "" }

// Epoch implements version.Interface.
func (e EVR) Epoch() int { return e.epoch }

// Version implements version.Interface.
func (e EVR) Version() string { return e.version }

// Release implements version.Interface.
func (e EVR) Release() string { return e.release }

// String renders the EVR with the epoch omitted when it is zero.
func (e EVR) String() string {
	var b strings.Builder
	if e.epoch != 0 {
		b.WriteString(strconv.Itoa(e.epoch))
		b.WriteByte(':')
	}
	b.WriteString(e.version)
	if e.release != "" {
		b.WriteByte('-')
		b.WriteString(e.release)
	}
	return b.String()
}

// CompareEVR orders two EVRs using RPM version comparison.
func CompareEVR(a, b EVR) int {
	return version.Compare(a, b)
}

// CompareEVRLoose compares like CompareEVR but ignores the release when
// either side leaves it out.
func CompareEVRLoose(a, b EVR) int {
	if a.release == "" || b.release == "" {
		a.release, b.release = "", ""
	}
	return version.Compare(a, b)
}

// NEVRA identifies a package build: name, epoch, version, release and arch.
type NEVRA struct {
	Name    string
	Epoch   int
	Version string
	Release string
	Arch    string
	// HasEpoch records whether the epoch was written explicitly.
	HasEpoch bool
}

// EVR returns the version part of the NEVRA.
func (n NEVRA) EVR() EVR {
	return NewEVR(n.Epoch, n.Version, n.Release)
}

// String renders name-[epoch:]version-release.arch.
func (n NEVRA) String() string {
	return n.Name + "-" + n.EVR().String() + "." + n.Arch
}

// ParseNEVRA splits a package spec of the form name-[epoch:]version-release.arch.
// It returns false if the text does not have that shape.
func ParseNEVRA(s string) (NEVRA, bool) {
	dot := strings.LastIndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return NEVRA{}, false
	}
	n := NEVRA{Arch: s[dot+1:]}
	rest := s[:dot]

	dash := strings.LastIndexByte(rest, '-')
	if dash <= 0 {
		return NEVRA{}, false
	}
	n.Release = rest[dash+1:]
	rest = rest[:dash]

	dash = strings.LastIndexByte(rest, '-')
	if dash <= 0 {
		return NEVRA{}, false
	}
	n.Name = rest[:dash]
	ev := rest[dash+1:]
	if colon := strings.IndexByte(ev, ':'); colon >= 0 {
		epoch, err := strconv.Atoi(ev[:colon])
		if err != nil {
			return NEVRA{}, false
		}
		n.Epoch = epoch
		n.HasEpoch = true
		ev = ev[colon+1:]
	}
	if ev == "" || n.Release == "" {
		return NEVRA{}, false
	}
	n.Version = ev
	return n, true
}
