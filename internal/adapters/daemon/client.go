package daemon

import (
	"context"
	"time"

	"go.trai.ch/rpmd/api/daemon/v1"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ ports.DaemonClient = (*Client)(nil)

// Client implements ports.DaemonClient.
type Client struct {
	conn           *grpc.ClientConn
	sessionManager daemonv1.SessionManagerClient
	repoConf       daemonv1.RepoConfClient
	repo           daemonv1.RepoClient
	rpm            daemonv1.RpmClient
	goal           daemonv1.GoalClient
	base           daemonv1.BaseClient
	daemon         daemonv1.DaemonClient
}

// Dial connects to the daemon over the Unix socket at socketPath.
// grpc.NewClient returns immediately; the connection is made on the first call.
func Dial(socketPath string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(convertErrors),
	}, opts...)
	conn, err := grpc.NewClient("unix://"+socketPath, opts...)
	if err != nil {
		return nil, zerr.Wrap(err, "daemon client creation failed")
	}
	return NewClient(conn), nil
}

// NewClient wraps an existing connection. The connection should carry the
// interceptor returned by ErrorInterceptor so that errors map to domain errors.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{
		conn:           conn,
		sessionManager: daemonv1.NewSessionManagerClient(conn),
		repoConf:       daemonv1.NewRepoConfClient(conn),
		repo:           daemonv1.NewRepoClient(conn),
		rpm:            daemonv1.NewRpmClient(conn),
		goal:           daemonv1.NewGoalClient(conn),
		base:           daemonv1.NewBaseClient(conn),
		daemon:         daemonv1.NewDaemonClient(conn),
	}
}

// ErrorInterceptor returns the client interceptor that maps daemon faults
// back to domain errors.
func ErrorInterceptor() grpc.UnaryClientInterceptor {
	return convertErrors
}

func convertErrors(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return fromStatus(invoker(ctx, method, req, reply, cc, opts...))
}

// Ping implements ports.DaemonClient.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.daemon.Ping(ctx, &emptypb.Empty{})
	return err
}

// Status implements ports.DaemonClient.
func (c *Client) Status(ctx context.Context) (*ports.DaemonStatus, error) {
	resp, err := c.daemon.Status(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	f := resp.GetFields()
	return &ports.DaemonStatus{
		Running:       f["running"].GetBoolValue(),
		PID:           int(f["pid"].GetNumberValue()),
		Uptime:        seconds(f["uptime_seconds"].GetNumberValue()),
		LastActivity:  time.Unix(int64(f["last_activity_unix"].GetNumberValue()), 0),
		IdleRemaining: seconds(f["idle_remaining_seconds"].GetNumberValue()),
		Sessions:      int(f["sessions"].GetNumberValue()),
	}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Truncate(time.Second)
}

// Shutdown implements ports.DaemonClient.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.daemon.Shutdown(ctx, &emptypb.Empty{})
	return err
}

// OpenSession implements ports.DaemonClient.
func (c *Client) OpenSession(ctx context.Context, options map[string]any) (string, error) {
	in, err := structpb.NewStruct(options)
	if err != nil {
		return "", zerr.Wrap(domain.ErrInvalidOptionValue, err.Error())
	}
	resp, err := c.sessionManager.OpenSession(ctx, in)
	if err != nil {
		return "", err
	}
	return resp.GetValue(), nil
}

// CloseSession implements ports.DaemonClient.
func (c *Client) CloseSession(ctx context.Context, path string) (bool, error) {
	resp, err := c.sessionManager.CloseSession(ctx, wrapperspb.String(path))
	if err != nil {
		return false, err
	}
	return resp.GetValue(), nil
}

// ListRepoConf implements ports.DaemonClient.
func (c *Client) ListRepoConf(ctx context.Context, path string, ids []string) ([]map[string]string, error) {
	req := map[string]any{}
	if ids != nil {
		req[fieldIDs] = anyList(ids)
	}
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, zerr.Wrap(err, "cannot encode request")
	}
	resp, err := c.repoConf.List(daemonv1.WithSessionPath(ctx, path), in)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]string, 0, len(resp.GetValues()))
	for _, v := range resp.GetValues() {
		out = append(out, toStringMap(v.GetStructValue()))
	}
	return out, nil
}

// GetRepoConf implements ports.DaemonClient.
func (c *Client) GetRepoConf(ctx context.Context, path, id string) (map[string]string, error) {
	resp, err := c.repoConf.Get(daemonv1.WithSessionPath(ctx, path), wrapperspb.String(id))
	if err != nil {
		return nil, err
	}
	return toStringMap(resp), nil
}

// EnableRepos implements ports.DaemonClient.
func (c *Client) EnableRepos(ctx context.Context, path string, ids []string) ([]string, error) {
	resp, err := c.repoConf.Enable(daemonv1.WithSessionPath(ctx, path), stringList(ids))
	if err != nil {
		return nil, err
	}
	return stringsValue(resp, fieldIDs)
}

// DisableRepos implements ports.DaemonClient.
func (c *Client) DisableRepos(ctx context.Context, path string, ids []string) ([]string, error) {
	resp, err := c.repoConf.Disable(daemonv1.WithSessionPath(ctx, path), stringList(ids))
	if err != nil {
		return nil, err
	}
	return stringsValue(resp, fieldIDs)
}

// ReadAllRepos implements ports.DaemonClient.
func (c *Client) ReadAllRepos(ctx context.Context, path string) (bool, error) {
	resp, err := c.base.ReadAllRepos(daemonv1.WithSessionPath(ctx, path), &emptypb.Empty{})
	if err != nil {
		return false, err
	}
	return resp.GetValue(), nil
}

// ListRepos implements ports.DaemonClient.
func (c *Client) ListRepos(ctx context.Context, path string, attrs, patterns []string) ([]map[string]any, error) {
	req := map[string]any{fieldRepoAttrs: anyList(attrs)}
	if patterns != nil {
		req[fieldPatterns] = anyList(patterns)
	}
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, zerr.Wrap(err, "cannot encode request")
	}
	resp, err := c.repo.List(daemonv1.WithSessionPath(ctx, path), in)
	if err != nil {
		return nil, err
	}
	return toMaps(resp), nil
}

// ListPackages implements ports.DaemonClient.
func (c *Client) ListPackages(ctx context.Context, path string, opts ports.PackageListOptions) ([]map[string]any, error) {
	in, err := structpb.NewStruct(encodePackageListOptions(opts))
	if err != nil {
		return nil, zerr.Wrap(err, "cannot encode request")
	}
	resp, err := c.rpm.List(daemonv1.WithSessionPath(ctx, path), in)
	if err != nil {
		return nil, err
	}
	return toMaps(resp), nil
}

// AddJobs implements ports.DaemonClient.
func (c *Client) AddJobs(
	ctx context.Context,
	path string,
	action domain.GoalAction,
	specs []string,
	settings domain.GoalJobSettings,
) error {
	in, err := structpb.NewStruct(map[string]any{
		fieldSpecs:   anyList(specs),
		fieldOptions: encodeJobSettings(settings),
	})
	if err != nil {
		return zerr.Wrap(err, "cannot encode request")
	}
	ctx = daemonv1.WithSessionPath(ctx, path)
	switch action {
	case domain.GoalInstall:
		_, err = c.rpm.Install(ctx, in)
	case domain.GoalRemove:
		_, err = c.rpm.Remove(ctx, in)
	case domain.GoalReinstall:
		_, err = c.rpm.Reinstall(ctx, in)
	case domain.GoalUpgrade:
		_, err = c.rpm.Upgrade(ctx, in)
	case domain.GoalDowngrade:
		_, err = c.rpm.Downgrade(ctx, in)
	default:
		return zerr.With(zerr.New("unknown goal action"), "action", action.String())
	}
	return err
}

// Resolve implements ports.DaemonClient.
func (c *Client) Resolve(ctx context.Context, path string) ([]ports.PlanEntry, error) {
	resp, err := c.goal.Resolve(daemonv1.WithSessionPath(ctx, path), &structpb.Struct{})
	if err != nil {
		return nil, err
	}
	out := make([]ports.PlanEntry, 0, len(resp.GetValues()))
	for _, v := range resp.GetValues() {
		pair := v.GetListValue().GetValues()
		if len(pair) != 2 {
			return nil, zerr.New("malformed plan entry")
		}
		out = append(out, ports.PlanEntry{
			Action:  domain.TransactionAction(pair[0].GetNumberValue()),
			Package: pair[1].GetStructValue().AsMap(),
		})
	}
	return out, nil
}

// DoTransaction implements ports.DaemonClient.
func (c *Client) DoTransaction(ctx context.Context, path string, opts ports.TransactionOptions) ([]ports.TransactionEntry, error) {
	in, err := structpb.NewStruct(map[string]any{
		fieldTest:            opts.Test,
		fieldContinueOnError: opts.ContinueOnError,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "cannot encode request")
	}
	resp, err := c.goal.DoTransaction(daemonv1.WithSessionPath(ctx, path), in)
	if err != nil {
		return nil, err
	}
	out := make([]ports.TransactionEntry, 0, len(resp.GetValues()))
	for _, v := range resp.GetValues() {
		f := v.GetStructValue().GetFields()
		out = append(out, ports.TransactionEntry{
			Index:   int(f[fieldIndex].GetNumberValue()),
			Action:  domain.TransactionAction(f[fieldAction].GetNumberValue()),
			Outcome: f[fieldOutcome].GetStringValue(),
			Package: f[fieldPackage].GetStructValue().AsMap(),
			Error:   f[fieldError].GetStringValue(),
		})
	}
	return out, nil
}

// Close implements ports.DaemonClient.
func (c *Client) Close() error {
	return c.conn.Close()
}

func toMaps(list *structpb.ListValue) []map[string]any {
	out := make([]map[string]any, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		out = append(out, v.GetStructValue().AsMap())
	}
	return out
}

func toStringMap(st *structpb.Struct) map[string]string {
	out := make(map[string]string, len(st.GetFields()))
	for k, v := range st.GetFields() {
		out[k] = v.GetStringValue()
	}
	return out
}
