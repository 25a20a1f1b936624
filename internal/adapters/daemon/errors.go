package daemon

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.trai.ch/rpmd/api/daemon/v1"
	"go.trai.ch/rpmd/internal/core/domain"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fault names a domain error on the wire.
type fault struct {
	err    error
	reason string
	code   codes.Code
}

var faults = []fault{
	{domain.ErrInvalidSession, "InvalidSession", codes.NotFound},
	{domain.ErrSessionClosed, "InvalidSession", codes.NotFound},
	{domain.ErrSessionBusy, "SessionBusy", codes.Aborted},
	{domain.ErrRepoNotFound, "RepoNotFound", codes.NotFound},
	{domain.ErrRepoAlreadyLoaded, "RepoAlreadyLoaded", codes.AlreadyExists},
	{domain.ErrUnknownOption, "UnknownOption", codes.InvalidArgument},
	{domain.ErrInvalidOptionValue, "InvalidOptionValue", codes.InvalidArgument},
	{domain.ErrUnknownAttribute, "UnknownAttribute", codes.InvalidArgument},
	{domain.ErrInvalidReldep, "InvalidReldep", codes.InvalidArgument},
	{domain.ErrInvalidReference, "InvalidReference", codes.FailedPrecondition},
	{domain.ErrUnsatisfiedRequest, "UnsatisfiedRequest", codes.FailedPrecondition},
	{domain.ErrGoalNotResolved, "GoalNotResolved", codes.FailedPrecondition},
	{domain.ErrTransactionFailed, "TransactionFailed", codes.Aborted},
	{domain.ErrConfigReadFailed, "ConfigReadFailed", codes.Internal},
	{domain.ErrConfigParseFailed, "ConfigParseFailed", codes.InvalidArgument},
	{domain.ErrMetadataReadFailed, "MetadataReadFailed", codes.Unavailable},
	{domain.ErrRPMDBFailed, "RPMDBFailed", codes.Internal},
}

// metadataer matches the Metadata() method provided by zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// toStatus converts err into a gRPC status error. Domain errors carry an
// ErrorInfo detail whose reason names the fault.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	for _, f := range faults {
		if !errors.Is(err, f.err) {
			continue
		}
		st := status.New(f.code, err.Error())
		detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
			Reason:   f.reason,
			Domain:   daemonv1.ErrorDomain,
			Metadata: errorMetadata(err),
		})
		if detailErr != nil {
			return st.Err()
		}
		return detailed.Err()
	}
	return status.Error(codes.Unknown, err.Error())
}

// errorMetadata flattens the metadata of every error in the chain. Outer
// errors win over the errors they wrap.
func errorMetadata(err error) map[string]string {
	out := make(map[string]string)
	for e := err; e != nil; e = errors.Unwrap(e) {
		m, ok := e.(metadataer)
		if !ok {
			continue
		}
		for k, v := range m.Metadata() {
			if _, seen := out[k]; !seen {
				out[k] = fmt.Sprint(v)
			}
		}
	}
	return out
}

// RemoteError is a domain error reported by the daemon.
type RemoteError struct {
	msg      string
	reason   string
	sentinel error
	meta     map[string]string
}

func (e *RemoteError) Error() string { return e.msg }

// Unwrap returns the domain sentinel, so errors.Is works across the wire.
func (e *RemoteError) Unwrap() error { return e.sentinel }

// Reason returns the fault name.
func (e *RemoteError) Reason() string { return e.reason }

// Metadata returns the context the daemon attached to the error.
func (e *RemoteError) Metadata() map[string]any {
	out := make(map[string]any, len(e.meta))
	for k, v := range e.meta {
		out[k] = v
	}
	return out
}

// fromStatus converts a gRPC status error back into a domain error.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != daemonv1.ErrorDomain {
			continue
		}
		for _, f := range faults {
			if f.reason == info.GetReason() {
				return &RemoteError{
					msg:      st.Message(),
					reason:   f.reason,
					sentinel: f.err,
					meta:     maps.Clone(info.GetMetadata()),
				}
			}
		}
	}
	switch st.Code() {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	case codes.Unavailable:
		return &RemoteError{msg: st.Message(), reason: "Unavailable", sentinel: domain.ErrDaemonUnavailable}
	}
	return err
}
