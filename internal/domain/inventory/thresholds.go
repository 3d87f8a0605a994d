package inventory

import (
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// CrossedThresholds devuelve las alertas que dispara el paso del total de un producto en una bodega
// de before a after. Solo cuenta el cruce: un total que ya estaba bajo el punto de reorden no vuelve a alertar.
//   - LOW_STOCK: before > ReorderPoint >= after (ReorderPoint > 0)
//   - OVERSTOCK: before <= MaxStockLevel < after (MaxStockLevel > 0)
func CrossedThresholds(product *entity.Product, warehouseID string, before, after int64, now time.Time) []entity.StockAlert {
	if product == nil || before == after {
		return nil
	}
	var alerts []entity.StockAlert
	if rp := product.ReorderPoint; rp > 0 && before > rp && after <= rp {
		alerts = append(alerts, entity.StockAlert{
			Type:        entity.StockAlertLowStock,
			ProductID:   product.ID,
			SKU:         product.SKU,
			WarehouseID: warehouseID,
			Quantity:    after,
			Threshold:   rp,
			OccurredAt:  now,
		})
	}
	if maxLevel := product.MaxStockLevel; maxLevel > 0 && before <= maxLevel && after > maxLevel {
		alerts = append(alerts, entity.StockAlert{
			Type:        entity.StockAlertOverstock,
			ProductID:   product.ID,
			SKU:         product.SKU,
			WarehouseID: warehouseID,
			Quantity:    after,
			Threshold:   maxLevel,
			OccurredAt:  now,
		})
	}
	return alerts
}
