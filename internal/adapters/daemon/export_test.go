package daemon

import (
	"go.trai.ch/rpmd/internal/core/ports"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStatus exposes toStatus for tests.
func ToStatus(err error) error { return toStatus(err) }

// FromStatus exposes fromStatus for tests.
func FromStatus(err error) error { return fromStatus(err) }

// PackageListOptions exposes packageListOptions for tests.
func PackageListOptions(st *structpb.Struct) (ports.PackageListOptions, error) {
	return packageListOptions(st)
}
