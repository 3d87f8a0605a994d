package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

func TestCooldownPublisher_RedisCaidoPublicaIgual(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	pub := &fakePublisher{}
	p := notify.NewCooldownPublisher(pub, rdb, time.Minute, logger.Nop())

	require.NoError(t, p.Publish(context.Background(), alert("a")))
	require.NoError(t, p.Publish(context.Background(), alert("a")))
	assert.Len(t, pub.published(), 2)
	_ = p.Close()
}

func TestCooldownPublisher_SuprimeRepetidas(t *testing.T) {
	if testing.Short() {
		t.Skip("integración con Redis omitida en modo -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })
	require.NoError(t, err)

	endpoint, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)
	rdb, err := notify.NewRedisClient(ctx, endpoint, "", 0)
	require.NoError(t, err)

	pub := &fakePublisher{}
	p := notify.NewCooldownPublisher(pub, rdb, time.Minute, logger.Nop())
	t.Cleanup(func() { _ = p.Close() })

	low := alert("a")
	over := alert("a")
	over.Type = entity.StockAlertOverstock

	require.NoError(t, p.Publish(ctx, low))
	require.NoError(t, p.Publish(ctx, low))
	require.NoError(t, p.Publish(ctx, over))
	require.NoError(t, p.Publish(ctx, alert("b")))

	got := pub.published()
	require.Len(t, got, 3)
	assert.Equal(t, entity.StockAlertLowStock, got[0].Type)
	assert.Equal(t, entity.StockAlertOverstock, got[1].Type)
	assert.Equal(t, "b", got[2].ProductID)
}
