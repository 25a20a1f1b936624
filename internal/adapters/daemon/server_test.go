package daemon_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/adapters/daemon"
	"go.trai.ch/rpmd/internal/adapters/primarydb"
	"go.trai.ch/rpmd/internal/adapters/repoconf"
	"go.trai.ch/rpmd/internal/adapters/rpmdb"
	"go.trai.ch/rpmd/internal/adapters/telemetry"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/core/ports/mocks"
	"go.trai.ch/rpmd/internal/engine/session"
	"go.trai.ch/rpmd/internal/engine/solver"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

type harness struct {
	manager *session.Manager
	lis     *bufconn.Listener
	done    chan error
	options map[string]any
}

func meta(name, version, arch string, requires ...string) domain.PackageMetadata {
	m := domain.PackageMetadata{Name: name, Version: version, Release: "1", Arch: arch}
	for _, r := range requires {
		d, err := domain.ParseDependency(r)
		if err != nil {
			panic(err)
		}
		m.Requires = append(m.Requires, d)
	}
	return m
}

// newHarness serves a daemon over an in-memory listener. The daemon sees one
// repository on disk and an empty installroot.
func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()

	repoDir := filepath.Join(root, "srv", "repo1")
	_, err := primarydb.WriteRepo(t.Context(), repoDir, []domain.PackageMetadata{
		meta("one", "1", "noarch"),
		meta("one", "2", "noarch"),
		meta("app", "1", "x86_64", "libfoo >= 2"),
		meta("libfoo", "2", "x86_64"),
	})
	require.NoError(t, err)

	reposdir := filepath.Join(root, "etc", "repos.d")
	require.NoError(t, os.MkdirAll(reposdir, 0o750))
	repoFile := "[rpm-repo1]\nname=Repo 1\nbaseurl=file://" + repoDir + "\nenabled=1\n\n" +
		"[rpm-repo2]\nname=Repo 2\nbaseurl=file://" + filepath.Join(root, "srv", "missing") + "\nenabled=0\n"
	require.NoError(t, os.WriteFile(filepath.Join(reposdir, "test.repo"), []byte(repoFile), 0o600))

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	manager := session.NewManager(session.Deps{
		Metadata: primarydb.NewSource(logger, nil),
		RPMDB:    rpmdb.NewOpener(),
		RepoConf: repoconf.NewReader(),
		Solver:   solver.New(),
		Tracer:   telemetry.NewNoOpTracer(),
		Logger:   logger,
	}, nil)

	lis := bufconn.Listen(1 << 20)
	srv := daemon.NewServer(daemon.NewLifecycle(time.Hour), manager, logger, filepath.Join(root, "rpmd.sock"))
	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		manager: manager,
		lis:     lis,
		done:    make(chan error, 1),
		options: map[string]any{
			domain.SessionOptInstallroot:    filepath.Join(root, "installroot"),
			domain.SessionOptConfigFilePath: filepath.Join(root, "etc", "rpmd.conf"),
			domain.SessionOptReposdir:       []any{reposdir},
			domain.SessionOptCachedir:       filepath.Join(root, "cache"),
		},
	}
	go func() { h.done <- srv.ServeListener(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *harness) dial(t *testing.T) *daemon.Client {
	t.Helper()
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return h.lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(daemon.ErrorInterceptor()),
	)
	require.NoError(t, err)
	client := daemon.NewClient(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func (h *harness) open(t *testing.T, client *daemon.Client) string {
	t.Helper()
	path, err := client.OpenSession(t.Context(), h.options)
	require.NoError(t, err)
	require.True(t, session.IsSessionPath(path))
	return path
}

func names(items []map[string]any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i], _ = item["nevra"].(string)
	}
	return out
}

func TestServer_InstallFlow(t *testing.T) {
	h := newHarness(t)
	client := h.dial(t)
	ctx := t.Context()
	path := h.open(t, client)

	ok, err := client.ReadAllRepos(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	repos, err := client.ListRepos(ctx, path, []string{"enabled", "size"}, nil)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "rpm-repo1", repos[0]["id"])
	assert.Equal(t, true, repos[0]["enabled"])
	assert.InDelta(t, 4, repos[0]["size"], 0)

	listOpts := ports.DefaultPackageListOptions()
	listOpts.Attrs = []string{"nevra", "repo"}
	listOpts.Patterns = []string{"one"}
	pkgs, err := client.ListPackages(ctx, path, listOpts)
	require.NoError(t, err)
	assert.Equal(t, []string{"one-1-1.noarch", "one-2-1.noarch"}, names(pkgs))
	assert.Less(t, pkgs[0]["id"].(float64), pkgs[1]["id"].(float64))

	require.NoError(t, client.AddJobs(ctx, path, domain.GoalInstall, []string{"app"}, domain.GoalJobSettings{}))
	plan, err := client.Resolve(ctx, path)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, domain.ActionInstall, plan[0].Action)
	assert.Equal(t, "app-1-1.x86_64", plan[0].Package["nevra"])
	assert.Equal(t, "libfoo-2-1.x86_64", plan[1].Package["nevra"])

	entries, err := client.DoTransaction(ctx, path, ports.TransactionOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "applied", e.Outcome)
	}

	listOpts.Attrs = []string{"nevra", "is_installed"}
	listOpts.Patterns = []string{"app"}
	installed, err := client.ListPackages(ctx, path, listOpts)
	require.NoError(t, err)
	var sawInstalled bool
	for _, p := range installed {
		if p["is_installed"] == true {
			sawInstalled = true
		}
	}
	assert.True(t, sawInstalled)
}

func TestServer_RepoConf(t *testing.T) {
	h := newHarness(t)
	client := h.dial(t)
	ctx := t.Context()
	path := h.open(t, client)

	confs, err := client.ListRepoConf(ctx, path, nil)
	require.NoError(t, err)
	require.Len(t, confs, 2)

	conf, err := client.GetRepoConf(ctx, path, "rpm-repo2")
	require.NoError(t, err)
	assert.Equal(t, "Repo 2", conf["name"])

	changed, err := client.EnableRepos(ctx, path, []string{"rpm-repo2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rpm-repo2"}, changed)

	changed, err = client.EnableRepos(ctx, path, []string{"rpm-repo2"})
	require.NoError(t, err)
	assert.Empty(t, changed)

	_, err = client.GetRepoConf(ctx, path, "rpm-repo9")
	require.ErrorIs(t, err, domain.ErrRepoNotFound)
}

func TestServer_Faults(t *testing.T) {
	h := newHarness(t)
	client := h.dial(t)
	ctx := t.Context()

	_, err := client.ListPackages(ctx, domain.SessionManagerPath+"/00000000000000000000000000000000", ports.PackageListOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = client.OpenSession(ctx, map[string]any{"no_such_option": "1"})
	require.ErrorIs(t, err, domain.ErrUnknownOption)

	path := h.open(t, client)
	_, err = client.ListPackages(ctx, path, ports.PackageListOptions{Attrs: []string{"colour"}})
	require.ErrorIs(t, err, domain.ErrUnknownAttribute)

	_, err = client.DoTransaction(ctx, path, ports.TransactionOptions{})
	require.ErrorIs(t, err, domain.ErrGoalNotResolved)

	require.NoError(t, client.AddJobs(ctx, path, domain.GoalInstall, []string{"ghost"}, domain.GoalJobSettings{}))
	_, err = client.Resolve(ctx, path)
	require.ErrorIs(t, err, domain.ErrUnsatisfiedRequest)
}

func TestServer_CloseSessionIsOwnerScoped(t *testing.T) {
	h := newHarness(t)
	a := h.dial(t)
	b := h.dial(t)
	ctx := t.Context()
	path := h.open(t, a)

	closed, err := b.CloseSession(ctx, path)
	require.NoError(t, err)
	assert.False(t, closed)

	closed, err = a.CloseSession(ctx, path)
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = a.CloseSession(ctx, path)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestServer_DisconnectClosesSessions(t *testing.T) {
	h := newHarness(t)
	a := h.dial(t)
	b := h.dial(t)
	h.open(t, a)
	h.open(t, a)
	kept := h.open(t, b)
	require.Equal(t, 3, h.manager.Len())

	require.NoError(t, a.Close())

	require.Eventually(t, func() bool { return h.manager.Len() == 1 }, 5*time.Second, 10*time.Millisecond)
	_, err := h.manager.Get(kept)
	require.NoError(t, err)
}

func TestServer_StatusAndShutdown(t *testing.T) {
	h := newHarness(t)
	client := h.dial(t)
	ctx := t.Context()
	h.open(t, client)

	require.NoError(t, client.Ping(ctx))
	st, err := client.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, os.Getpid(), st.PID)
	assert.Equal(t, 1, st.Sessions)

	require.NoError(t, client.Shutdown(ctx))
	select {
	case err := <-h.done:
		require.NoError(t, err)
		h.done <- nil
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, 0, h.manager.Len())
}
