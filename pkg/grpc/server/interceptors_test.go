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
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestLoggingInterceptor(t *testing.T) {
	interceptor := LoggingInterceptor(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/TestMethod"}

	t.Run("successful request", func(t *testing.T) {
		resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
			return "success", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	})

	t.Run("error request keeps status", func(t *testing.T) {
		for _, code := range []codes.Code{codes.InvalidArgument, codes.Internal} {
			_, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(code, "test error")
			})
			assert.Equal(t, code, status.Code(err))
		}
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zaptest.NewLogger(t))
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Panics"}

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		panic("nil map")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))

	resp, err = interceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
		return 1, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp)
}

func TestNewRejectsInvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		_, err := New(WithPort(port))
		assert.Error(t, err, "port %d", port)
	}
}

func TestServerHealthOverBufconn(t *testing.T) {
	lis := bufconn.Listen(1 << 20)

	server, err := New(
		WithListener(lis),
		WithPort(-1),
		WithLogger(zap.NewNop()),
		WithLogging(true),
		WithRecovery(true),
	)
	require.NoError(t, err)
	require.NotNil(t, server.grpcServer)
	require.NotNil(t, server.healthServer)

	server.RegisterServiceWithHealth("test.Service", func(s *grpc.Server) {})
	server.Start()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthClient := healthpb.NewHealthClient(conn)
	resp, err := healthClient.Check(ctx, &healthpb.HealthCheckRequest{Service: "test.Service"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelShutdown()
	require.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-server.Errors():
		t.Fatalf("unexpected serve error: %v", err)
	default:
	}
}
