//go:build integration

package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/edu-api-proxy/internal/testutil"
	"github.com/Sternrassler/edu-api-proxy/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer creates a Redis container for integration testing.
func setupRedisContainer(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func newRedisBackedClient(t *testing.T, redisClient *redis.Client) *Client {
	t.Helper()

	cfg := DefaultConfig("IntegrationTest/1.0.0")
	cfg.Redis = redisClient

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func TestIntegration_SharedCacheAcrossClients(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)
	defer cleanup()

	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetResponse(testPath, testutil.NewBrotliResponse(testutil.JSON(samplePayload())))

	ctx := context.Background()
	params := Params{"eiinNo": "108070", "page": 1, "size": 50}

	first := newRedisBackedClient(t, redisClient)
	if _, ok := first.Fetch(ctx, mock.URL()+testPath, params); !ok {
		t.Fatal("first client: Fetch returned no data")
	}

	// A second process with an empty memory layer
	second := newRedisBackedClient(t, redisClient)
	payload, ok := second.Fetch(ctx, mock.URL()+testPath, params)
	if !ok {
		t.Fatal("second client: Fetch returned no data")
	}

	if mock.GetRequestCount() != 1 {
		t.Errorf("upstream requests = %d, want 1", mock.GetRequestCount())
	}
	if len(payload.Records()) != 1 {
		t.Errorf("Records() = %d, want 1", len(payload.Records()))
	}
	if second.CacheLen() != 1 {
		t.Errorf("shared hit was not promoted to memory: CacheLen() = %d", second.CacheLen())
	}
}

func TestIntegration_RedisEntryTTL(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)
	defer cleanup()

	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetResponse(testPath, testutil.NewJSONResponse(testutil.JSON(samplePayload())))

	ctx := context.Background()
	c := newRedisBackedClient(t, redisClient)
	url := mock.URL() + testPath

	if _, ok := c.Fetch(ctx, url, nil); !ok {
		t.Fatal("Fetch returned no data")
	}

	key := cache.RedisKeyPrefix + cache.Key{URL: url}.String()
	ttl, err := redisClient.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > DefaultCacheTTL {
		t.Errorf("redis TTL = %s, want within (0, %s]", ttl, DefaultCacheTTL)
	}
}

func TestIntegration_FailuresNotShared(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)
	defer cleanup()

	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetResponse(testPath, testutil.NewStatusResponse(http.StatusServiceUnavailable))

	ctx := context.Background()
	c := newRedisBackedClient(t, redisClient)

	if _, ok := c.Fetch(ctx, mock.URL()+testPath, nil); ok {
		t.Fatal("Fetch should produce no data on 503")
	}

	size, err := redisClient.DBSize(ctx).Result()
	if err != nil {
		t.Fatalf("DBSize failed: %v", err)
	}
	if size != 0 {
		t.Errorf("redis holds %d keys after a failed fetch, want 0", size)
	}
}

func TestIntegration_Ping(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)

	c := newRedisBackedClient(t, redisClient)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping() = %v, want nil", err)
	}

	cleanup()

	if err := c.Ping(ctx); err == nil {
		t.Error("Ping() should fail once Redis is gone")
	}
}

func TestIntegration_MemoryServesWhenRedisDown(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)

	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetResponse(testPath, testutil.NewJSONResponse(testutil.JSON(samplePayload())))

	ctx := context.Background()
	c := newRedisBackedClient(t, redisClient)

	if _, ok := c.Fetch(ctx, mock.URL()+testPath, nil); !ok {
		t.Fatal("Fetch returned no data")
	}

	cleanup()

	if _, ok := c.Fetch(ctx, mock.URL()+testPath, nil); !ok {
		t.Fatal("memory layer should serve the cached payload without Redis")
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("upstream requests = %d, want 1", mock.GetRequestCount())
	}
}
