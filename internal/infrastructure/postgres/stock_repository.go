package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `
	id, product_id, warehouse_id, batch_number, current_quantity, reserved_quantity, unit_cost,
	manufacture_date, expiry_date, supplier_batch, received_date, status, notes, is_active, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// batch_number NULL representa stock sin lote; la unicidad de registros activos la garantiza
// el índice único parcial sobre (product_id, warehouse_id, COALESCE(batch_number, '')).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStock(row rowScanner) (*entity.StockRecord, error) {
	var s entity.StockRecord
	var batch *string
	var status string
	err := row.Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &batch, &s.CurrentQuantity, &s.ReservedQuantity, &s.UnitCost,
		&s.ManufactureDate, &s.ExpiryDate, &s.SupplierBatch, &s.ReceivedDate, &status, &s.Notes, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.BatchNumber = derefString(batch)
	s.Status = entity.StockStatus(status)
	return &s, nil
}

func (r *StockRepo) queryOne(ctx context.Context, op, query string, args ...any) (*entity.StockRecord, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return s, nil
}

func (r *StockRepo) queryMany(ctx context.Context, op, query string, args ...any) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, wrapErr("scan stock", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return list, nil
}

// Get obtiene el registro activo de (producto, bodega, lote).
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + `
		FROM stock_records
		WHERE product_id = $1 AND warehouse_id = $2 AND COALESCE(batch_number, '') = $3 AND is_active`
	return r.queryOne(ctx, "get stock", query, key.ProductID, key.WarehouseID, key.BatchNumber)
}

// GetByID obtiene un registro por ID (activo o no).
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE id = $1`
	return r.queryOne(ctx, "get stock by id", query, id)
}

// GetByIDForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE id = $1 FOR UPDATE`
	return r.queryOne(ctx, "get stock for update", query, id)
}

// GetOrCreate inserta el registro si no existe uno activo con la misma clave (ON CONFLICT DO NOTHING)
// y luego lo lee bloqueado. created indica si la fila la insertó esta llamada.
func (r *StockRepo) GetOrCreate(ctx context.Context, seed *entity.StockRecord) (*entity.StockRecord, bool, error) {
	id := seed.ID
	if id == "" {
		id = uuid.New().String()
	}
	status := seed.Status
	if status == "" {
		status = entity.StockStatusGood
	}
	insert := `
		INSERT INTO stock_records (
			id, product_id, warehouse_id, batch_number, current_quantity, reserved_quantity, unit_cost,
			manufacture_date, expiry_date, supplier_batch, received_date, status, notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5, $6, $7, $8, $9, $10, $11, TRUE, $12, $13)
		ON CONFLICT (product_id, warehouse_id, (COALESCE(batch_number, ''))) WHERE is_active DO NOTHING
		RETURNING id`
	var insertedID string
	err := r.q.QueryRow(ctx, insert,
		id, seed.ProductID, seed.WarehouseID, nullString(seed.BatchNumber), seed.UnitCost,
		seed.ManufactureDate, seed.ExpiryDate, seed.SupplierBatch, seed.ReceivedDate, string(status), seed.Notes,
		seed.CreatedAt, seed.UpdatedAt,
	).Scan(&insertedID)
	created := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, wrapErr("insert stock", err)
	}

	query := `SELECT ` + stockColumns + `
		FROM stock_records
		WHERE product_id = $1 AND warehouse_id = $2 AND COALESCE(batch_number, '') = $3 AND is_active
		FOR UPDATE`
	s, err := r.queryOne(ctx, "get or create stock", query, seed.ProductID, seed.WarehouseID, seed.BatchNumber)
	if err != nil {
		return nil, false, err
	}
	if s == nil {
		// El registro en conflicto se desactivó entre el INSERT y el SELECT.
		return nil, false, fmt.Errorf("%w: stock %s cambió durante la creación", domain.ErrConflict, seed.Key())
	}
	return s, created, nil
}

// LockForAllocation bloquea los registros activos del producto en las bodegas dadas, en orden de ID.
func (r *StockRepo) LockForAllocation(ctx context.Context, productID string, warehouseIDs ...string) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + `
		FROM stock_records
		WHERE product_id = $1 AND warehouse_id = ANY($2) AND is_active
		ORDER BY id
		FOR UPDATE`
	return r.queryMany(ctx, "lock stock for allocation", query, productID, warehouseIDs)
}

// LockByBatch bloquea los registros activos de un lote, en orden de ID.
func (r *StockRepo) LockByBatch(ctx context.Context, batchNumber string) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + `
		FROM stock_records
		WHERE batch_number = $1 AND is_active
		ORDER BY id
		FOR UPDATE`
	return r.queryMany(ctx, "lock stock by batch", query, batchNumber)
}

// Save actualiza cantidades, metadata y estado de un registro existente.
func (r *StockRepo) Save(ctx context.Context, s *entity.StockRecord) error {
	query := `
		UPDATE stock_records SET
			current_quantity = $2, reserved_quantity = $3, unit_cost = $4, manufacture_date = $5, expiry_date = $6,
			supplier_batch = $7, received_date = $8, status = $9, notes = $10, is_active = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.CurrentQuantity, s.ReservedQuantity, s.UnitCost, s.ManufactureDate, s.ExpiryDate,
		s.SupplierBatch, s.ReceivedDate, string(s.Status), s.Notes, s.IsActive, s.UpdatedAt,
	)
	if err != nil {
		return wrapErr("save stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

// ListActive lista registros activos según filtro, ordenados por creación.
func (r *StockRepo) ListActive(ctx context.Context, f repository.StockFilter) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE is_active`
	args := []any{}
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.BatchNumber != "" {
		add("batch_number = $%d", f.BatchNumber)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.ExpiringBefore != nil {
		add("expiry_date <= $%d", *f.ExpiringBefore)
	}
	if f.OnlyAvailable {
		query += " AND status = 'GOOD' AND current_quantity - reserved_quantity > 0"
	}
	if f.OnlyPositive {
		query += " AND current_quantity > 0"
	}
	query += " ORDER BY created_at, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}
	return r.queryMany(ctx, "list stock", query, args...)
}

// ListLowStock registros activos con 0 < current_quantity <= reorder_point del producto.
func (r *StockRepo) ListLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `SELECT ` + prefixed("s", stockColumns) + `
		FROM stock_records s
		JOIN products p ON p.id = s.product_id
		WHERE s.is_active AND s.current_quantity > 0 AND s.current_quantity <= p.reorder_point
		ORDER BY s.created_at, s.id`
	return r.queryMany(ctx, "list low stock", query)
}

// SumQuantity total de current_quantity activo de un producto en una bodega.
func (r *StockRepo) SumQuantity(ctx context.Context, productID, warehouseID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(current_quantity), 0)::BIGINT
		FROM stock_records
		WHERE product_id = $1 AND warehouse_id = $2 AND is_active`
	var total int64
	if err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(&total); err != nil {
		return 0, wrapErr("sum stock", err)
	}
	return total, nil
}

// DistinctBatches números de lote activos de un producto, ordenados.
func (r *StockRepo) DistinctBatches(ctx context.Context, productID string) ([]string, error) {
	query := `
		SELECT DISTINCT batch_number
		FROM stock_records
		WHERE product_id = $1 AND is_active AND batch_number IS NOT NULL
		ORDER BY batch_number`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, wrapErr("distinct batches", err)
	}
	batches, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapErr("distinct batches", err)
	}
	return batches, nil
}
