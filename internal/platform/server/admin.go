package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	// AdminServiceName はヘルスチェックで公開するサービス名です。
	AdminServiceName = "karyawan.web"

	defaultCheckInterval = 15 * time.Second
)

// Pinger は依存先の疎通を確認します。
type Pinger interface {
	Ping(ctx context.Context) error
}

// AdminServer は gRPC ヘルスチェックとリフレクションを提供する管理用サーバーです。
type AdminServer struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	pinger     Pinger
	interval   time.Duration
	logger     zerolog.Logger
}

// AdminOption は AdminServer の設定を変更します。
type AdminOption func(*AdminServer)

// WithCheckInterval はデータベース疎通確認の間隔を変更します。
func WithCheckInterval(d time.Duration) AdminOption {
	return func(s *AdminServer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewAdminServer は管理用 gRPC サーバーを構築します。
func NewAdminServer(listenAddr string, pinger Pinger, log zerolog.Logger, opts ...AdminOption) *AdminServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &AdminServer{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
		pinger:     pinger,
		interval:   defaultCheckInterval,
		logger:     log.With().Str("component", "admin").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Run は listenAddr で待ち受け、コンテキストがキャンセルされると GracefulStop します。
func (s *AdminServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は lis で gRPC を処理し、定期的にデータベースの疎通を確認します。
func (s *AdminServer) Serve(ctx context.Context, lis net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.watchDatabase(ctx)
	}()
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	}()

	err := s.grpcServer.Serve(lis)
	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve admin gRPC: %w", err)
	}
	return nil
}

func (s *AdminServer) watchDatabase(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.checkDatabase(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkDatabase(ctx)
		}
	}
}

func (s *AdminServer) checkDatabase(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if err := s.pinger.Ping(pingCtx); err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("database ping failed")
		}
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

func (s *AdminServer) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(AdminServiceName, status)
}
