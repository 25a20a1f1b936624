package daemon_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/adapters/daemon"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   codes.Code
		reason string
	}{
		{"invalid session", domain.ErrInvalidSession, codes.NotFound, "InvalidSession"},
		{"closed session", domain.ErrSessionClosed, codes.NotFound, "InvalidSession"},
		{"busy", zerr.Wrap(domain.ErrSessionBusy, "resolve in flight"), codes.Aborted, "SessionBusy"},
		{"unknown attribute", domain.ErrUnknownAttribute, codes.InvalidArgument, "UnknownAttribute"},
		{"unsatisfied", domain.ErrUnsatisfiedRequest, codes.FailedPrecondition, "UnsatisfiedRequest"},
		{"transaction", domain.ErrTransactionFailed, codes.Aborted, "TransactionFailed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(daemon.ToStatus(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			require.Len(t, st.Details(), 1)
			info, ok := st.Details()[0].(*errdetails.ErrorInfo)
			require.True(t, ok)
			assert.Equal(t, tt.reason, info.GetReason())
			assert.Equal(t, "rpmd", info.GetDomain())
		})
	}
}

func TestToStatus_Metadata(t *testing.T) {
	err := zerr.With(zerr.Wrap(domain.ErrRepoNotFound, "cannot enable"), "repoid", "rpm-repo9")

	st, _ := status.FromError(daemon.ToStatus(err))
	info := st.Details()[0].(*errdetails.ErrorInfo)
	assert.Equal(t, "rpm-repo9", info.GetMetadata()["repoid"])
}

func TestToStatus_PlainErrors(t *testing.T) {
	assert.NoError(t, daemon.ToStatus(nil))
	assert.Equal(t, codes.Canceled, status.Code(daemon.ToStatus(context.Canceled)))
	assert.Equal(t, codes.Unknown, status.Code(daemon.ToStatus(errors.New("boom"))))

	already := status.Error(codes.PermissionDenied, "no")
	assert.Equal(t, already, daemon.ToStatus(already))
}

func TestFromStatus_RoundTrip(t *testing.T) {
	err := zerr.With(zerr.Wrap(domain.ErrUnknownOption, "cannot open session"), "option", "colour")

	back := daemon.FromStatus(daemon.ToStatus(err))
	require.ErrorIs(t, back, domain.ErrUnknownOption)
	assert.Equal(t, err.Error(), back.Error())

	var remote *daemon.RemoteError
	require.ErrorAs(t, back, &remote)
	assert.Equal(t, "UnknownOption", remote.Reason())
	assert.Equal(t, "colour", remote.Metadata()["option"])
}

func TestFromStatus_Transport(t *testing.T) {
	assert.NoError(t, daemon.FromStatus(nil))
	require.ErrorIs(t, daemon.FromStatus(status.Error(codes.Unavailable, "connection refused")), domain.ErrDaemonUnavailable)
	require.ErrorIs(t, daemon.FromStatus(status.Error(codes.Canceled, "canceled")), context.Canceled)

	plain := errors.New("not a status")
	assert.Equal(t, plain, daemon.FromStatus(plain))
}
