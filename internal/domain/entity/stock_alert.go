package entity

import "time"

// StockAlertType tipo de señal emitida hacia el sistema de alertas.
type StockAlertType string

const (
	StockAlertLowStock  StockAlertType = "LOW_STOCK"
	StockAlertOverstock StockAlertType = "OVERSTOCK"
)

// StockAlert evento fire-and-forget: el total de un producto en una bodega cruzó un umbral.
type StockAlert struct {
	Type        StockAlertType `json:"type"`
	ProductID   string         `json:"product_id"`
	SKU         string         `json:"sku,omitempty"`
	WarehouseID string         `json:"warehouse_id"`
	Quantity    int64          `json:"quantity"`
	Threshold   int64          `json:"threshold"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
