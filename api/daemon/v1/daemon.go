// Package daemonv1 defines the gRPC services of the rpmd daemon.
//
// Every message is a protobuf well-known type: option and attribute maps
// travel as structpb.Struct, lists as structpb.ListValue and scalars as
// wrapperspb values. The service descriptors are therefore declared here
// directly instead of being generated from a .proto file.
package daemonv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
)

const (
	// Package is the protobuf package of every service.
	Package = "rpmd.v0"

	// SessionPathKey is the metadata key carrying the session path of
	// session-scoped calls.
	SessionPathKey = "session-path"

	// ErrorDomain is the domain of google.rpc.ErrorInfo details returned by the daemon.
	ErrorDomain = "rpmd"
)

// WithSessionPath returns a context whose outgoing calls target the session at path.
func WithSessionPath(ctx context.Context, path string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, SessionPathKey, path)
}

// SessionPathFromContext returns the session path of an incoming call.
func SessionPathFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	values := md.Get(SessionPathKey)
	if len(values) == 0 || values[0] == "" {
		return "", false
	}
	return values[0], true
}

func fullMethod(service, method string) string {
	return "/" + Package + "." + service + "/" + method
}

// unary builds the method descriptor of a unary call on a server of type S.
func unary[S any, Req proto.Message](
	service, method string,
	newReq func() Req,
	call func(srv S, ctx context.Context, in Req) (proto.Message, error),
) grpc.MethodDesc {
	full := fullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(Req))
			})
		},
	}
}

// invoke performs a unary call and returns the decoded reply.
func invoke[Resp proto.Message](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	service, method string,
	in proto.Message,
	out Resp,
	opts []grpc.CallOption,
) (Resp, error) {
	if err := cc.Invoke(ctx, fullMethod(service, method), in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}
