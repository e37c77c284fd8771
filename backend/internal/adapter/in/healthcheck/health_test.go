package healthcheck

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func startHealthServer(t *testing.T) (*HealthServer, healthpb.HealthClient) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Ошибка listen: %v", err)
	}

	server := NewHealthServer(zap.NewNop())
	go func() { _ = server.Serve(lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(ctx)
	})
	return server, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Ошибка Check: %v", err)
	}
	return resp.GetStatus()
}

func TestHealthServer_Serving(t *testing.T) {
	_, client := startHealthServer(t)

	for _, service := range []string{"", ServiceName} {
		if got := check(t, client, service); got != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("%q: ожидали SERVING, получили %v", service, got)
		}
	}
}

func TestHealthServer_NotServing(t *testing.T) {
	server, client := startHealthServer(t)
	server.SetServing(false)

	if got := check(t, client, ServiceName); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("Ожидали NOT_SERVING, получили %v", got)
	}

	server.SetServing(true)
	if got := check(t, client, ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Ожидали SERVING, получили %v", got)
	}
}
