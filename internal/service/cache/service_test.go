package cache

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

type testPayload struct {
	Name string `json:"name"`
}

func newTestCacheService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mini := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mini.Addr())
	if err != nil {
		t.Fatalf("failed to split address: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{net.JoinHostPort(host, portStr)},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("failed to create valkey client: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		t.Fatalf("failed to ping miniredis: %v", err)
	}
	svc := &Service{client: client, logger: logger}

	t.Cleanup(func() {
		_ = svc.Close()
		mini.Close()
	})

	return svc, mini
}

func TestCacheServiceSetGetAndExists(t *testing.T) {
	svc, mini := newTestCacheService(t)
	ctx := context.Background()

	value := testPayload{Name: "value"}
	if err := svc.Set(ctx, "key", value, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got testPayload
	hit, err := svc.Get(ctx, "key", &got)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !hit {
		t.Fatalf("expected cache hit")
	}
	if got.Name != "value" {
		t.Fatalf("unexpected value: %+v", got)
	}

	exists, err := svc.Exists(ctx, "key")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected key to exist")
	}

	mini.FastForward(2 * time.Minute)

	hit, err = svc.Get(ctx, "key", &got)
	if err != nil {
		t.Fatalf("get after expire failed: %v", err)
	}
	if hit {
		t.Fatalf("expected key to expire")
	}
}

func TestCacheServiceMissIsNotAnError(t *testing.T) {
	svc, _ := newTestCacheService(t)
	ctx := context.Background()

	var got testPayload
	hit, err := svc.Get(ctx, "missing", &got)
	if err != nil {
		t.Fatalf("miss should not error: %v", err)
	}
	if hit {
		t.Fatalf("expected miss for absent key")
	}
}

func TestCacheServiceDel(t *testing.T) {
	svc, _ := newTestCacheService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "key", testPayload{Name: "v"}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := svc.Del(ctx, "key"); err != nil {
		t.Fatalf("del failed: %v", err)
	}

	exists, err := svc.Exists(ctx, "key")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatalf("expected key to be deleted")
	}
}
