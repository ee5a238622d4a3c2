package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/test.Service/TestMethod"}

func TestLoggingInterceptor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	interceptor := LoggingInterceptor(zap.New(core))

	t.Run("successful request", func(t *testing.T) {
		resp, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
			return "success", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "success", resp)

		completed := logs.FilterMessage("gRPC request completed").All()
		require.Len(t, completed, 1)
		assert.Equal(t, "OK", completed[0].ContextMap()["status_code"])
		assert.Equal(t, "unknown", completed[0].ContextMap()["client_addr"])
	})

	t.Run("error request", func(t *testing.T) {
		_, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
			return nil, status.Error(codes.InvalidArgument, "test error")
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))

		failed := logs.FilterMessage("gRPC request failed").All()
		require.Len(t, failed, 1)
		assert.Equal(t, "InvalidArgument", failed[0].ContextMap()["status_code"])
	})

	t.Run("request id is logged", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), requestIDKey{}, "abc")
		_, _ = interceptor(ctx, "req", testInfo, func(ctx context.Context, req any) (any, error) {
			return nil, nil
		})
		started := logs.FilterMessage("gRPC request started").All()
		assert.Equal(t, "abc", started[len(started)-1].ContextMap()["request_id"])
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zaptest.NewLogger(t))

	resp, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
		panic("nil map write")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))

	resp, err = interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()

	t.Run("reuses the caller's id", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "from-client"))
		_, err := interceptor(ctx, "req", testInfo, func(ctx context.Context, req any) (any, error) {
			assert.Equal(t, "from-client", RequestID(ctx))
			return nil, nil
		})
		require.NoError(t, err)
	})

	t.Run("assigns a new id", func(t *testing.T) {
		_, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
			assert.Len(t, RequestID(ctx), 36)
			return nil, nil
		})
		require.NoError(t, err)
	})

	assert.Empty(t, RequestID(context.Background()))
}

func TestNew_InvalidPort(t *testing.T) {
	_, err := New(WithPort(0))
	assert.ErrorContains(t, err, "invalid port 0")

	_, err = New(WithPort(70000))
	assert.ErrorContains(t, err, "invalid port 70000")
}

var testServiceDesc = grpc.ServiceDesc{
	ServiceName: "test.Service",
	HandlerType: (*any)(nil),
}

func TestServer_HealthFollowsRegisteredServices(t *testing.T) {
	lis := bufconn.Listen(1 << 20)

	server, err := New(
		WithListener(lis),
		WithLogger(zap.NewNop()),
		WithLogging(true),
		WithReflection(true),
	)
	require.NoError(t, err)
	assert.Equal(t, "bufconn", server.Addr().String())

	server.Register(&testServiceDesc, struct{}{})
	assert.Equal(t, []string{"test.Service"}, server.Services())

	server.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, server.Shutdown(ctx))
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	health := healthpb.NewHealthClient(conn)
	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		resp, err := health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		return resp.Status
	}

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check("test.Service"))

	_, err = health.Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown.Service"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	server.Drain()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check("test.Service"))
}
