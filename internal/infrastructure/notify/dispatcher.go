package notify

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

var _ inventory.AlertNotifier = (*Dispatcher)(nil)

// Publisher destino concreto de una alerta (log, Kafka, RabbitMQ...).
type Publisher interface {
	Publish(ctx context.Context, alert entity.StockAlert) error
	Close() error
}

const publishTimeout = 5 * time.Second

// Dispatcher entrega alertas de forma asíncrona: Notify nunca bloquea la operación de stock.
// Si la cola está llena la alerta se descarta con un warning.
type Dispatcher struct {
	pub   Publisher
	queue chan entity.StockAlert
	log   *logger.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher inicia el worker que publica las alertas encoladas.
func NewDispatcher(pub Publisher, buffer int, log *logger.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	d := &Dispatcher{
		pub:   pub,
		queue: make(chan entity.StockAlert, buffer),
		log:   log.Component("alerts"),
		done:  make(chan struct{}),
	}
	go d.loop()
	return d
}

// Notify encola las alertas sin bloquear.
func (d *Dispatcher) Notify(alerts ...entity.StockAlert) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, a := range alerts {
		if d.closed {
			d.log.Warn().Str("type", string(a.Type)).Str("product_id", a.ProductID).Msg("dispatcher cerrado, alerta descartada")
			continue
		}
		select {
		case d.queue <- a:
		default:
			d.log.Warn().
				Str("type", string(a.Type)).
				Str("product_id", a.ProductID).
				Str("warehouse_id", a.WarehouseID).
				Msg("cola de alertas llena, alerta descartada")
		}
	}
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for a := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := d.pub.Publish(ctx, a); err != nil {
			d.log.Error().Err(err).
				Str("type", string(a.Type)).
				Str("product_id", a.ProductID).
				Str("warehouse_id", a.WarehouseID).
				Msg("no se pudo publicar la alerta")
		}
		cancel()
	}
}

// Close deja de aceptar alertas, publica las pendientes y cierra el publisher.
// Si ctx vence antes de vaciar la cola, las restantes se pierden.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-ctx.Done():
		d.log.Warn().Int("pending", len(d.queue)).Msg("cierre con alertas pendientes")
	}
	return d.pub.Close()
}
