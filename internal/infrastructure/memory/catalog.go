package memory

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// catalogFile formato del archivo de catálogo (YAML, JSON o TOML; lo resuelve viper por extensión).
type catalogFile struct {
	Products []struct {
		ID            string `mapstructure:"id"`
		CompanyID     string `mapstructure:"company_id"`
		SKU           string `mapstructure:"sku"`
		Name          string `mapstructure:"name"`
		ReorderPoint  int64  `mapstructure:"reorder_point"`
		MinStockLevel int64  `mapstructure:"min_stock_level"`
		MaxStockLevel int64  `mapstructure:"max_stock_level"`
		Inactive      bool   `mapstructure:"inactive"`
	} `mapstructure:"products"`
	Warehouses []struct {
		ID        string `mapstructure:"id"`
		CompanyID string `mapstructure:"company_id"`
		Name      string `mapstructure:"name"`
		Address   string `mapstructure:"address"`
		Inactive  bool   `mapstructure:"inactive"`
	} `mapstructure:"warehouses"`
}

// LoadCatalog carga productos y bodegas desde path en el store. Devuelve cuántos de cada uno cargó.
func LoadCatalog(store *Store, path string) (products, warehouses int, err error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return 0, 0, fmt.Errorf("leer catálogo %s: %w", path, err)
	}
	var cat catalogFile
	if err := v.Unmarshal(&cat); err != nil {
		return 0, 0, fmt.Errorf("decodificar catálogo %s: %w", path, err)
	}

	now := time.Now()
	for i, p := range cat.Products {
		if p.ID == "" {
			return 0, 0, fmt.Errorf("catálogo: producto #%d sin id", i+1)
		}
		store.AddProduct(&entity.Product{
			ID:            p.ID,
			CompanyID:     p.CompanyID,
			SKU:           p.SKU,
			Name:          p.Name,
			ReorderPoint:  p.ReorderPoint,
			MinStockLevel: p.MinStockLevel,
			MaxStockLevel: p.MaxStockLevel,
			IsActive:      !p.Inactive,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	for i, w := range cat.Warehouses {
		if w.ID == "" {
			return 0, 0, fmt.Errorf("catálogo: bodega #%d sin id", i+1)
		}
		store.AddWarehouse(&entity.Warehouse{
			ID:        w.ID,
			CompanyID: w.CompanyID,
			Name:      w.Name,
			Address:   w.Address,
			IsActive:  !w.Inactive,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return len(cat.Products), len(cat.Warehouses), nil
}
