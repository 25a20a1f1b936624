package daemon

import (
	"context"
	"strconv"
	"sync/atomic"

	"google.golang.org/grpc/stats"
)

type ownerKey struct{}

// ownerFromContext returns the connection that carries the current call.
func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// connTracker names every client connection and reports when one goes away.
// Sessions are owned by the connection that opened them.
type connTracker struct {
	next    atomic.Uint64
	onClose func(owner string)
}

var _ stats.Handler = (*connTracker)(nil)

func (t *connTracker) TagConn(ctx context.Context, _ *stats.ConnTagInfo) context.Context {
	return context.WithValue(ctx, ownerKey{}, ":1."+strconv.FormatUint(t.next.Add(1), 10))
}

func (t *connTracker) HandleConn(ctx context.Context, s stats.ConnStats) {
	if _, ok := s.(*stats.ConnEnd); !ok {
		return
	}
	if owner := ownerFromContext(ctx); owner != "" && t.onClose != nil {
		t.onClose(owner)
	}
}

func (t *connTracker) TagRPC(ctx context.Context, _ *stats.RPCTagInfo) context.Context {
	return ctx
}

func (t *connTracker) HandleRPC(context.Context, stats.RPCStats) {}
