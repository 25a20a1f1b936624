// Package daemon implements the background daemon adapter for rpmd.
// It provides the gRPC server and client that talk over a Unix domain socket.
package daemon

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.trai.ch/rpmd/api/daemon/v1"
	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/engine/session"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
)

// drainTimeout bounds how long closing sessions may wait for in-flight work.
const drainTimeout = 10 * time.Second

// Server exposes the session manager over gRPC.
type Server struct {
	lifecycle  *Lifecycle
	manager    *session.Manager
	logger     ports.Logger
	socketPath string
	grpcServer *grpc.Server
}

// NewServer creates a daemon server for manager listening on socketPath.
func NewServer(lifecycle *Lifecycle, manager *session.Manager, logger ports.Logger, socketPath string) *Server {
	s := &Server{
		lifecycle:  lifecycle,
		manager:    manager,
		logger:     logger,
		socketPath: socketPath,
	}
	tracker := &connTracker{onClose: s.ownerGone}
	s.grpcServer = grpc.NewServer(
		grpc.StatsHandler(tracker),
		grpc.ChainUnaryInterceptor(s.intercept),
	)
	daemonv1.RegisterSessionManagerServer(s.grpcServer, &sessionManagerService{s})
	daemonv1.RegisterRepoConfServer(s.grpcServer, &repoConfService{s})
	daemonv1.RegisterRepoServer(s.grpcServer, &repoService{s})
	daemonv1.RegisterRpmServer(s.grpcServer, &rpmService{s})
	daemonv1.RegisterGoalServer(s.grpcServer, &goalService{s})
	daemonv1.RegisterBaseServer(s.grpcServer, &baseService{s})
	daemonv1.RegisterDaemonServer(s.grpcServer, &daemonService{s})
	lifecycle.HoldWhile(func() bool { return manager.Len() > 0 })
	return s
}

// Serve starts the gRPC server on the Unix socket and blocks until ctx ends
// or shutdown is requested.
func (s *Server) Serve(ctx context.Context) error {
	dir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create daemon directory")
	}

	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove stale socket")
	}

	lis, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen on UDS"), "socket", s.socketPath)
	}

	if err := os.Chmod(s.socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	if err := s.writePIDFile(); err != nil {
		_ = lis.Close()
		return err
	}
	defer s.cleanup()

	s.logger.Info("listening on " + s.socketPath)
	return s.ServeListener(ctx, lis)
}

// ServeListener serves on lis until ctx ends or shutdown is requested.
// Every open session is closed before it returns.
func (s *Server) ServeListener(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-s.lifecycle.ShutdownChan():
	case err = <-errCh:
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()
	s.manager.CloseAll(drainCtx)
	s.grpcServer.GracefulStop()
	return err
}

func (s *Server) cleanup() {
	_ = os.Remove(s.socketPath)
	_ = os.Remove(domain.DaemonPIDPath(s.socketPath))
}

func (s *Server) writePIDFile() error {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(domain.DaemonPIDPath(s.socketPath), []byte(pid), domain.PrivateFilePerm); err != nil {
		return zerr.Wrap(err, "failed to write PID file")
	}
	return nil
}

// intercept resets the idle timer on every call and turns domain errors
// into statuses.
func (s *Server) intercept(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	s.lifecycle.ResetTimer()
	resp, err := handler(ctx, req)
	if err != nil {
		s.logger.Debug(info.FullMethod + " failed: " + err.Error())
		return nil, toStatus(err)
	}
	return resp, nil
}

// ownerGone closes the sessions of a client that disconnected.
func (s *Server) ownerGone(owner string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if n := s.manager.CloseOwner(ctx, owner); n > 0 {
			s.logger.Debug("client " + owner + " disconnected, closed " + strconv.Itoa(n) + " sessions")
		}
	}()
}

// session returns the session a call targets.
func (s *Server) session(ctx context.Context) (*session.Session, error) {
	path, ok := daemonv1.SessionPathFromContext(ctx)
	if !ok {
		return nil, zerr.Wrap(domain.ErrInvalidSession, "call carries no session path")
	}
	return s.manager.Get(path)
}
