package daemonv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// SessionManagerServiceName is the full name of the SessionManager service.
const SessionManagerServiceName = Package + ".SessionManager"

// SessionManagerClient is the client API for the SessionManager service.
// SessionManager opens and closes sessions.
type SessionManagerClient interface {
	// OpenSession opens a session from an option map and returns its path.
	OpenSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	// CloseSession closes the session at the given path if the caller opened it.
	CloseSession(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type sessionManagerClient struct {
	cc grpc.ClientConnInterface
}

// NewSessionManagerClient returns a SessionManager client on cc.
func NewSessionManagerClient(cc grpc.ClientConnInterface) SessionManagerClient {
	return &sessionManagerClient{cc: cc}
}

func (c *sessionManagerClient) OpenSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke(ctx, c.cc, "SessionManager", "OpenSession", in, new(wrapperspb.StringValue), opts)
}

func (c *sessionManagerClient) CloseSession(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke(ctx, c.cc, "SessionManager", "CloseSession", in, new(wrapperspb.BoolValue), opts)
}

// SessionManagerServer is the server API for the SessionManager service.
type SessionManagerServer interface {
	OpenSession(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error)
	CloseSession(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

// UnimplementedSessionManagerServer answers every SessionManager call with codes.Unimplemented.
type UnimplementedSessionManagerServer struct{}

func (UnimplementedSessionManagerServer) OpenSession(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method OpenSession not implemented")
}

func (UnimplementedSessionManagerServer) CloseSession(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseSession not implemented")
}

// RegisterSessionManagerServer registers srv on s.
func RegisterSessionManagerServer(s grpc.ServiceRegistrar, srv SessionManagerServer) {
	s.RegisterService(&SessionManager_ServiceDesc, srv)
}

// SessionManager_ServiceDesc is the grpc.ServiceDesc of the SessionManager service.
//
//nolint:revive,staticcheck // Named like generated descriptors.
var SessionManager_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionManagerServiceName,
	HandlerType: (*SessionManagerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SessionManager", "OpenSession", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv SessionManagerServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.OpenSession(ctx, in)
			}),
		unary("SessionManager", "CloseSession", func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) },
			func(srv SessionManagerServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
				return srv.CloseSession(ctx, in)
			}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: Package,
}

// RepoConfServiceName is the full name of the RepoConf service.
const RepoConfServiceName = Package + ".RepoConf"

// RepoConfClient is the client API for the RepoConf service.
// RepoConf reads and edits the repository configuration of a session.
type RepoConfClient interface {
	// List returns the configuration of the repositories named in "ids", or of all.
	List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// Get returns the configuration of one repository.
	Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	// Enable enables repositories and returns the ids that changed.
	Enable(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// Disable disables repositories and returns the ids that changed.
	Disable(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type repoConfClient struct {
	cc grpc.ClientConnInterface
}

// NewRepoConfClient returns a RepoConf client on cc.
func NewRepoConfClient(cc grpc.ClientConnInterface) RepoConfClient {
	return &repoConfClient{cc: cc}
}

func (c *repoConfClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, "RepoConf", "List", in, new(structpb.ListValue), opts)
}

func (c *repoConfClient) Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, "RepoConf", "Get", in, new(structpb.Struct), opts)
}

func (c *repoConfClient) Enable(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, "RepoConf", "Enable", in, new(structpb.ListValue), opts)
}

func (c *repoConfClient) Disable(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, "RepoConf", "Disable", in, new(structpb.ListValue), opts)
}

// RepoConfServer is the server API for the RepoConf service.
type RepoConfServer interface {
	List(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error)
	Get(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
	Enable(ctx context.Context, in *structpb.ListValue) (*structpb.ListValue, error)
	Disable(ctx context.Context, in *structpb.ListValue) (*structpb.ListValue, error)
}

// UnimplementedRepoConfServer answers every RepoConf call with codes.Unimplemented.
type UnimplementedRepoConfServer struct{}

func (UnimplementedRepoConfServer) List(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}

func (UnimplementedRepoConfServer) Get(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}

func (UnimplementedRepoConfServer) Enable(context.Context, *structpb.ListValue) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Enable not implemented")
}

func (UnimplementedRepoConfServer) Disable(context.Context, *structpb.ListValue) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Disable not implemented")
}

// RegisterRepoConfServer registers srv on s.
func RegisterRepoConfServer(s grpc.ServiceRegistrar, srv RepoConfServer) {
	s.RegisterService(&RepoConf_ServiceDesc, srv)
}

// RepoConf_ServiceDesc is the grpc.ServiceDesc of the RepoConf service.
//
//nolint:revive,staticcheck // Named like generated descriptors.
var RepoConf_ServiceDesc = grpc.ServiceDesc{
	ServiceName: RepoConfServiceName,
	HandlerType: (*RepoConfServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("RepoConf", "List", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv RepoConfServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.List(ctx, in)
			}),
		unary("RepoConf", "Get", func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) },
			func(srv RepoConfServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
				return srv.Get(ctx, in)
			}),
		unary("RepoConf", "Enable", func() *structpb.ListValue { return new(structpb.ListValue) },
			func(srv RepoConfServer, ctx context.Context, in *structpb.ListValue) (proto.Message, error) {
				return srv.Enable(ctx, in)
			}),
		unary("RepoConf", "Disable", func() *structpb.ListValue { return new(structpb.ListValue) },
			func(srv RepoConfServer, ctx context.Context, in *structpb.ListValue) (proto.Message, error) {
				return srv.Disable(ctx, in)
			}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: Package,
}

// RepoServiceName is the full name of the Repo service.
const RepoServiceName = Package + ".Repo"

// RepoClient is the client API for the Repo service.
// Repo lists the repositories loaded into a session.
type RepoClient interface {
	// List returns repositories with the attributes named in "repo_attrs".
	List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type repoClient struct {
	cc grpc.ClientConnInterface
}

// NewRepoClient returns a Repo client on cc.
func NewRepoClient(cc grpc.ClientConnInterface) RepoClient {
	return &repoClient{cc: cc}
}

func (c *repoClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, "Repo", "List", in, new(structpb.ListValue), opts)
}

// RepoServer is the server API for the Repo service.
type RepoServer interface {
	List(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error)
}

// UnimplementedRepoServer answers every Repo call with codes.Unimplemented.
type UnimplementedRepoServer struct{}

func (UnimplementedRepoServer) List(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}

// RegisterRepoServer registers srv on s.
func RegisterRepoServer(s grpc.ServiceRegistrar, srv RepoServer) {
	s.RegisterService(&Repo_ServiceDesc, srv)
}

// Repo_ServiceDesc is the grpc.ServiceDesc of the Repo service.
//
//nolint:revive,staticcheck // Named like generated descriptors.
var Repo_ServiceDesc = grpc.ServiceDesc{
	ServiceName: RepoServiceName,
	HandlerType: (*RepoServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Repo", "List", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv RepoServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.List(ctx, in)
			}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: Package,
}

// RpmServiceName is the full name of the Rpm service.
const RpmServiceName = Package + ".Rpm"

// RpmClient is the client API for the Rpm service.
// Rpm queries packages and queues goal jobs.
type RpmClient interface {
	// List returns matching packages in ascending id order.
	List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// Install queues install jobs for "specs".
	Install(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Remove queues remove jobs for "specs".
	Remove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Reinstall queues reinstall jobs for "specs".
	Reinstall(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Upgrade queues upgrade jobs for "specs".
	Upgrade(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	// Downgrade queues downgrade jobs for "specs".
	Downgrade(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type rpmClient struct {
	cc grpc.ClientConnInterface
}

// NewRpmClient returns a Rpm client on cc.
func NewRpmClient(cc grpc.ClientConnInterface) RpmClient {
	return &rpmClient{cc: cc}
}

func (c *rpmClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, "Rpm", "List", in, new(structpb.ListValue), opts)
}

func (c *rpmClient) Install(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, "Rpm", "Install", in, new(emptypb.Empty), opts)
}

func (c *rpmClient) Remove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, "Rpm", "Remove", in, new(emptypb.Empty), opts)
}

func (c *rpmClient) Reinstall(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, "Rpm", "Reinstall", in, new(emptypb.Empty), opts)
}

func (c *rpmClient) Upgrade(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, "Rpm", "Upgrade", in, new(emptypb.Empty), opts)
}

func (c *rpmClient) Downgrade(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, "Rpm", "Downgrade", in, new(emptypb.Empty), opts)
}

// RpmServer is the server API for the Rpm service.
type RpmServer interface {
	List(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error)
	Install(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
	Remove(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
	Reinstall(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
	Upgrade(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
	Downgrade(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
}

// UnimplementedRpmServer answers every Rpm call with codes.Unimplemented.
type UnimplementedRpmServer struct{}

func (UnimplementedRpmServer) List(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}

func (UnimplementedRpmServer) Install(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Install not implemented")
}

func (UnimplementedRpmServer) Remove(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Remove not implemented")
}

func (UnimplementedRpmServer) Reinstall(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Reinstall not implemented")
}

func (UnimplementedRpmServer) Upgrade(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Upgrade not implemented")
}

func (UnimplementedRpmServer) Downgrade(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Downgrade not implemented")
}

// RegisterRpmServer registers srv on s.
func RegisterRpmServer(s grpc.ServiceRegistrar, srv RpmServer) {
	s.RegisterService(&Rpm_ServiceDesc, srv)
}

// Rpm_ServiceDesc is the grpc.ServiceDesc of the Rpm service.
//
//nolint:revive,staticcheck // Named like generated descriptors.
var Rpm_ServiceDesc = grpc.ServiceDesc{
	ServiceName: RpmServiceName,
	HandlerType: (*RpmServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Rpm", "List", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv RpmServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.List(ctx, in)
			}),
		unary("Rpm", "Install", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv RpmServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.Install(ctx, in)
			}),
		unary("Rpm", "Remove", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv RpmServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.Remove(ctx, in)
			}),
		unary("Rpm", "Reinstall", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv RpmServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.Reinstall(ctx, in)
			}),
		unary("Rpm", "Upgrade", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv RpmServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.Upgrade(ctx, in)
			}),
		unary("Rpm", "Downgrade", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv RpmServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.Downgrade(ctx, in)
			}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: Package,
}

// GoalServiceName is the full name of the Goal service.
const GoalServiceName = Package + ".Goal"

// GoalClient is the client API for the Goal service.
// Goal resolves queued jobs and runs the resulting transaction.
type GoalClient interface {
	// Resolve returns the plan as [action, package] pairs.
	Resolve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// DoTransaction applies the resolved plan and reports each entry.
	DoTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type goalClient struct {
	cc grpc.ClientConnInterface
}

// NewGoalClient returns a Goal client on cc.
func NewGoalClient(cc grpc.ClientConnInterface) GoalClient {
	return &goalClient{cc: cc}
}

func (c *goalClient) Resolve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, "Goal", "Resolve", in, new(structpb.ListValue), opts)
}

func (c *goalClient) DoTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, "Goal", "DoTransaction", in, new(structpb.ListValue), opts)
}

// GoalServer is the server API for the Goal service.
type GoalServer interface {
	Resolve(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error)
	DoTransaction(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error)
}

// UnimplementedGoalServer answers every Goal call with codes.Unimplemented.
type UnimplementedGoalServer struct{}

func (UnimplementedGoalServer) Resolve(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Resolve not implemented")
}

func (UnimplementedGoalServer) DoTransaction(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method DoTransaction not implemented")
}

// RegisterGoalServer registers srv on s.
func RegisterGoalServer(s grpc.ServiceRegistrar, srv GoalServer) {
	s.RegisterService(&Goal_ServiceDesc, srv)
}

// Goal_ServiceDesc is the grpc.ServiceDesc of the Goal service.
//
//nolint:revive,staticcheck // Named like generated descriptors.
var Goal_ServiceDesc = grpc.ServiceDesc{
	ServiceName: GoalServiceName,
	HandlerType: (*GoalServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Goal", "Resolve", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv GoalServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.Resolve(ctx, in)
			}),
		unary("Goal", "DoTransaction", func() *structpb.Struct { return new(structpb.Struct) },
			func(srv GoalServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return srv.DoTransaction(ctx, in)
			}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: Package,
}

// BaseServiceName is the full name of the Base service.
const BaseServiceName = Package + ".Base"

// BaseClient is the client API for the Base service.
// Base controls the package sack of a session.
type BaseClient interface {
	// ReadAllRepos loads the system and enabled repositories.
	ReadAllRepos(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type baseClient struct {
	cc grpc.ClientConnInterface
}

// NewBaseClient returns a Base client on cc.
func NewBaseClient(cc grpc.ClientConnInterface) BaseClient {
	return &baseClient{cc: cc}
}

func (c *baseClient) ReadAllRepos(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke(ctx, c.cc, "Base", "ReadAllRepos", in, new(wrapperspb.BoolValue), opts)
}

// BaseServer is the server API for the Base service.
type BaseServer interface {
	ReadAllRepos(ctx context.Context, in *emptypb.Empty) (*wrapperspb.BoolValue, error)
}

// UnimplementedBaseServer answers every Base call with codes.Unimplemented.
type UnimplementedBaseServer struct{}

func (UnimplementedBaseServer) ReadAllRepos(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ReadAllRepos not implemented")
}

// RegisterBaseServer registers srv on s.
func RegisterBaseServer(s grpc.ServiceRegistrar, srv BaseServer) {
	s.RegisterService(&Base_ServiceDesc, srv)
}

// Base_ServiceDesc is the grpc.ServiceDesc of the Base service.
//
//nolint:revive,staticcheck // Named like generated descriptors.
var Base_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BaseServiceName,
	HandlerType: (*BaseServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Base", "ReadAllRepos", func() *emptypb.Empty { return new(emptypb.Empty) },
			func(srv BaseServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
				return srv.ReadAllRepos(ctx, in)
			}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: Package,
}

// DaemonServiceName is the full name of the Daemon service.
const DaemonServiceName = Package + ".Daemon"

// DaemonClient is the client API for the Daemon service.
// Daemon reports on and stops the daemon process.
type DaemonClient interface {
	// Ping resets the idle timer.
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	// Status returns process statistics.
	Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	// Shutdown stops the daemon gracefully.
	Shutdown(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type daemonClient struct {
	cc grpc.ClientConnInterface
}

// NewDaemonClient returns a Daemon client on cc.
func NewDaemonClient(cc grpc.ClientConnInterface) DaemonClient {
	return &daemonClient{cc: cc}
}

func (c *daemonClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, "Daemon", "Ping", in, new(structpb.Struct), opts)
}

func (c *daemonClient) Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, "Daemon", "Status", in, new(structpb.Struct), opts)
}

func (c *daemonClient) Shutdown(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, "Daemon", "Shutdown", in, new(emptypb.Empty), opts)
}

// DaemonServer is the server API for the Daemon service.
type DaemonServer interface {
	Ping(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Status(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Shutdown(ctx context.Context, in *emptypb.Empty) (*emptypb.Empty, error)
}

// UnimplementedDaemonServer answers every Daemon call with codes.Unimplemented.
type UnimplementedDaemonServer struct{}

func (UnimplementedDaemonServer) Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedDaemonServer) Status(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Status not implemented")
}

func (UnimplementedDaemonServer) Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Shutdown not implemented")
}

// RegisterDaemonServer registers srv on s.
func RegisterDaemonServer(s grpc.ServiceRegistrar, srv DaemonServer) {
	s.RegisterService(&Daemon_ServiceDesc, srv)
}

// Daemon_ServiceDesc is the grpc.ServiceDesc of the Daemon service.
//
//nolint:revive,staticcheck // Named like generated descriptors.
var Daemon_ServiceDesc = grpc.ServiceDesc{
	ServiceName: DaemonServiceName,
	HandlerType: (*DaemonServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Daemon", "Ping", func() *emptypb.Empty { return new(emptypb.Empty) },
			func(srv DaemonServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
				return srv.Ping(ctx, in)
			}),
		unary("Daemon", "Status", func() *emptypb.Empty { return new(emptypb.Empty) },
			func(srv DaemonServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
				return srv.Status(ctx, in)
			}),
		unary("Daemon", "Shutdown", func() *emptypb.Empty { return new(emptypb.Empty) },
			func(srv DaemonServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
				return srv.Shutdown(ctx, in)
			}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: Package,
}
