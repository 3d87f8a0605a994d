package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

type fakePublisher struct {
	mu     sync.Mutex
	got    []entity.StockAlert
	block  chan struct{}
	err    error
	closed bool
}

func (p *fakePublisher) Publish(_ context.Context, a entity.StockAlert) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, a)
	return p.err
}

func (p *fakePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePublisher) published() []entity.StockAlert {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.StockAlert(nil), p.got...)
}

func alert(product string) entity.StockAlert {
	return entity.StockAlert{
		Type:        entity.StockAlertLowStock,
		ProductID:   product,
		WarehouseID: "wh-1",
		Quantity:    3,
		Threshold:   10,
		OccurredAt:  time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_PublicaEnOrden(t *testing.T) {
	pub := &fakePublisher{}
	d := notify.NewDispatcher(pub, 8, logger.Nop())

	d.Notify(alert("a"), alert("b"))
	d.Notify(alert("c"))

	require.NoError(t, d.Close(context.Background()))
	got := pub.published()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ProductID)
	assert.Equal(t, "b", got[1].ProductID)
	assert.Equal(t, "c", got[2].ProductID)
	assert.True(t, pub.closed)
}

func TestDispatcher_DescartaConColaLlena(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	d := notify.NewDispatcher(pub, 1, logger.Nop())

	// Con el publisher bloqueado caben a lo sumo dos: una en el worker y otra en el buffer.
	d.Notify(alert("a"))
	for i := 0; i < 10; i++ {
		d.Notify(alert("x"))
	}

	close(pub.block)
	require.NoError(t, d.Close(context.Background()))
	got := pub.published()
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 2)
	assert.Equal(t, "a", got[0].ProductID)
}

func TestDispatcher_ErrorDePublicacionNoDetieneElWorker(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker caído")}
	d := notify.NewDispatcher(pub, 4, logger.Nop())

	d.Notify(alert("a"), alert("b"))
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, pub.published(), 2)
}

func TestDispatcher_NotifyTrasCloseNoEntrega(t *testing.T) {
	pub := &fakePublisher{}
	d := notify.NewDispatcher(pub, 4, logger.Nop())
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() { d.Notify(alert("tarde")) })
	assert.Empty(t, pub.published())
	// Cerrar dos veces no falla.
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_CloseRespetaElContexto(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	defer close(pub.block)
	d := notify.NewDispatcher(pub, 4, logger.Nop())
	d.Notify(alert("a"), alert("b"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	require.NoError(t, d.Close(ctx))
	assert.Less(t, time.Since(start), time.Second)
}
