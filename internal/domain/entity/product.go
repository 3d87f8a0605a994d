package entity

import "time"

// Product producto del catálogo (registro externo al libro de stock; aquí solo se lee).
// Los umbrales alimentan las alertas de stock bajo y sobre-stock.
type Product struct {
	ID            string
	CompanyID     string
	SKU           string
	Name          string
	ReorderPoint  int64 // punto de reorden: alerta cuando el total cae a este valor o menos
	MinStockLevel int64
	MaxStockLevel int64 // 0 = sin límite
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
