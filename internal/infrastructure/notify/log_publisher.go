package notify

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// LogPublisher escribe las alertas en el log estructurado. Driver por defecto.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &LogPublisher{log: log.Component("stock_alert")}
}

func (p *LogPublisher) Publish(_ context.Context, a entity.StockAlert) error {
	p.log.Warn().
		Str("type", string(a.Type)).
		Str("product_id", a.ProductID).
		Str("sku", a.SKU).
		Str("warehouse_id", a.WarehouseID).
		Int64("quantity", a.Quantity).
		Int64("threshold", a.Threshold).
		Time("occurred_at", a.OccurredAt).
		Msg("alerta de stock")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
