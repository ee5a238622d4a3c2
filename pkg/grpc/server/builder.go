package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const defaultPort = 50051

type Option func(*options)

type options struct {
	port         int
	listener     net.Listener
	logger       *zap.Logger
	reflection   bool
	logRequests  bool
	interceptors []grpc.UnaryServerInterceptor
}

func WithPort(port int) Option {
	return func(o *options) { o.port = port }
}

// WithListener serves on lis instead of opening a TCP port. The port
// option is ignored.
func WithListener(lis net.Listener) Option {
	return func(o *options) { o.listener = lis }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithReflection(enabled bool) Option {
	return func(o *options) { o.reflection = enabled }
}

// WithLogging adds LoggingInterceptor after the request ID is assigned.
func WithLogging(enabled bool) Option {
	return func(o *options) { o.logRequests = enabled }
}

// WithUnaryInterceptors appends interceptors after the built-in chain.
func WithUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) Option {
	return func(o *options) { o.interceptors = append(o.interceptors, interceptors...) }
}

// Server is a gRPC server whose health status follows the services
// registered on it.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	lis    net.Listener
	logger *zap.Logger

	mu       sync.Mutex
	services []string
}

// New builds a server from opts. Every server recovers from handler panics
// and tags requests with an ID.
func New(opts ...Option) (*Server, error) {
	o := &options{port: defaultPort}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	lis, err := o.listen()
	if err != nil {
		return nil, err
	}

	chain := []grpc.UnaryServerInterceptor{RecoveryInterceptor(o.logger), RequestIDInterceptor()}
	if o.logRequests {
		chain = append(chain, LoggingInterceptor(o.logger))
	}
	chain = append(chain, o.interceptors...)

	s := &Server{
		grpc:   grpc.NewServer(grpc.ChainUnaryInterceptor(chain...)),
		health: health.NewServer(),
		lis:    lis,
		logger: o.logger.Named("grpc-server"),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	if o.reflection {
		reflection.Register(s.grpc)
	}
	return s, nil
}

func (o *options) listen() (net.Listener, error) {
	if o.listener != nil {
		return o.listener, nil
	}
	if o.port < 1 || o.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", o.port)
	}
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", o.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", o.port, err)
	}
	return lis, nil
}

// Register adds a service implementation and reports it as serving under
// desc.ServiceName.
func (s *Server) Register(desc *grpc.ServiceDesc, impl any) {
	s.grpc.RegisterService(desc, impl)
	s.health.SetServingStatus(desc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	s.mu.Lock()
	s.services = append(s.services, desc.ServiceName)
	s.mu.Unlock()

	s.logger.Info("registered service", zap.String("service", desc.ServiceName))
}

// Services lists the registered service names in registration order.
func (s *Server) Services() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.services...)
}

// Start serves in the background.
func (s *Server) Start() {
	s.logger.Info("gRPC server starting",
		zap.String("addr", s.lis.Addr().String()),
		zap.Strings("services", s.Services()))

	go func() {
		if err := s.grpc.Serve(s.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error("gRPC server failed", zap.Error(err))
		}
	}()
}

// Drain reports the server and every registered service as not serving,
// so load balancers stop routing new calls before the listener closes.
func (s *Server) Drain() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for _, name := range s.Services() {
		s.health.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
}

// Shutdown drains, then stops gracefully. When ctx expires first the
// remaining calls are cut off.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("gRPC server shutting down")
	s.Drain()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("forced shutdown due to timeout")
		s.grpc.Stop()
		return ctx.Err()
	}
}

// Addr returns the server's listening address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}
