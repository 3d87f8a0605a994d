package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

func TestCrossedThresholds(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	product := &entity.Product{ID: "prod-a", SKU: "SKU-A", ReorderPoint: 10, MaxStockLevel: 100}

	tests := []struct {
		name          string
		before, after int64
		want          []entity.StockAlertType
	}{
		{"cae al punto de reorden", 15, 10, []entity.StockAlertType{entity.StockAlertLowStock}},
		{"cae por debajo", 11, 0, []entity.StockAlertType{entity.StockAlertLowStock}},
		{"ya estaba bajo", 8, 5, nil},
		{"sube por encima del máximo", 90, 101, []entity.StockAlertType{entity.StockAlertOverstock}},
		{"ya estaba sobre el máximo", 120, 130, nil},
		{"en el máximo exacto", 90, 100, nil},
		{"sin cambio", 50, 50, nil},
		{"recupera desde bajo", 5, 50, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := inventory.CrossedThresholds(product, "wh-1", tt.before, tt.after, now)
			var got []entity.StockAlertType
			for _, a := range alerts {
				got = append(got, a.Type)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCrossedThresholds_CamposDeLaAlerta(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	product := &entity.Product{ID: "prod-a", SKU: "SKU-A", ReorderPoint: 10}

	alerts := inventory.CrossedThresholds(product, "wh-1", 12, 4, now)

	require.Len(t, alerts, 1)
	assert.Equal(t, entity.StockAlert{
		Type:        entity.StockAlertLowStock,
		ProductID:   "prod-a",
		SKU:         "SKU-A",
		WarehouseID: "wh-1",
		Quantity:    4,
		Threshold:   10,
		OccurredAt:  now,
	}, alerts[0])
}

func TestCrossedThresholds_SobreStockUsaNivelMaximo(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	product := &entity.Product{ID: "prod-a", SKU: "SKU-A", MaxStockLevel: 500}

	alerts := inventory.CrossedThresholds(product, "wh-1", 500, 501, now)

	require.Len(t, alerts, 1)
	assert.Equal(t, entity.StockAlertOverstock, alerts[0].Type)
	assert.Equal(t, int64(500), alerts[0].Threshold)
	assert.Equal(t, int64(501), alerts[0].Quantity)
}

func TestCrossedThresholds_SinUmbrales(t *testing.T) {
	product := &entity.Product{ID: "prod-a"}
	assert.Empty(t, inventory.CrossedThresholds(product, "wh-1", 1000, 0, time.Now()))
	assert.Empty(t, inventory.CrossedThresholds(nil, "wh-1", 10, 0, time.Now()))
}
