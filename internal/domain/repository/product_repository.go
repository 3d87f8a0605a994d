package repository

import (
	"context"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de productos (propiedad de otro servicio).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
