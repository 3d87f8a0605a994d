package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `
	id, stock_id, product_id, warehouse_id, batch_number, type, quantity, reserved_change,
	previous_quantity, new_quantity, unit_cost, reference_number, reason, notes,
	source_warehouse_id, destination_warehouse_id, created_by, created_at`

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// La tabla rechaza UPDATE/DELETE con un trigger; seq conserva el orden de inserción.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append persiste un movimiento.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.StockID, m.ProductID, m.WarehouseID, nullString(m.BatchNumber), string(m.Type),
		m.Quantity, m.ReservedChange, m.PreviousQuantity, m.NewQuantity, m.UnitCost,
		nullString(m.ReferenceNumber), m.Reason, m.Notes,
		nullString(m.SourceWarehouseID), nullString(m.DestinationWarehouseID), nullString(m.CreatedBy),
		m.CreatedAt,
	)
	return wrapErr("insert stock movement", err)
}

func scanMovement(row rowScanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var batch, reference, source, destination, createdBy *string
	var typ string
	err := row.Scan(
		&m.ID, &m.StockID, &m.ProductID, &m.WarehouseID, &batch, &typ, &m.Quantity, &m.ReservedChange,
		&m.PreviousQuantity, &m.NewQuantity, &m.UnitCost, &reference, &m.Reason, &m.Notes,
		&source, &destination, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.BatchNumber = derefString(batch)
	m.ReferenceNumber = derefString(reference)
	m.SourceWarehouseID = derefString(source)
	m.DestinationWarehouseID = derefString(destination)
	m.CreatedBy = derefString(createdBy)
	return &m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get movement", err)
	}
	return m, nil
}

// List lista movimientos según filtro en orden de inserción.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE TRUE`
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
	if f.StockID != "" {
		add("stock_id = $%d", f.StockID)
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.ReferenceNumber != "" {
		add("reference_number = $%d", f.ReferenceNumber)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query += " ORDER BY seq"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, wrapErr("scan movement", err)
		}
		list = append(list, m)
	}
	return list, wrapErr("list movements", rows.Err())
}
