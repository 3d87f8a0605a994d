package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// DateLayout formato de fechas de lote (fabricación / vencimiento).
const DateLayout = "2006-01-02"

// ReceiveRequest body para POST /api/stock/receipts.
type ReceiveRequest struct {
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	Quantity        int64           `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	ManufactureDate string          `json:"manufacture_date,omitempty"` // YYYY-MM-DD
	ExpiryDate      string          `json:"expiry_date,omitempty"`      // YYYY-MM-DD
	SupplierBatch   string          `json:"supplier_batch,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// AdjustRequest body para POST /api/stock/{id}/adjustments.
type AdjustRequest struct {
	NewQuantity int64   `json:"new_quantity"`
	Status      *string `json:"status,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// SellRequest body para POST /api/stock/sales.
type SellRequest struct {
	ProductID       string `json:"product_id"`
	WarehouseID     string `json:"warehouse_id"`
	Quantity        int64  `json:"quantity"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// ReservationRequest body para reservar o liberar sobre un registro.
type ReservationRequest struct {
	Quantity        int64  `json:"quantity"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// ReturnRequest body para POST /api/stock/{id}/returns.
type ReturnRequest struct {
	Quantity        int64  `json:"quantity"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Reason          string `json:"reason,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// BatchWriteOffRequest body para dar de baja un lote completo.
type BatchWriteOffRequest struct {
	Reason string `json:"reason,omitempty"`
}

// StockResponse salida de un registro de stock.
type StockResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	BatchNumber       string          `json:"batch_number,omitempty"`
	CurrentQuantity   int64           `json:"current_quantity"`
	ReservedQuantity  int64           `json:"reserved_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Value             decimal.Decimal `json:"value"`
	ManufactureDate   string          `json:"manufacture_date,omitempty"`
	ExpiryDate        string          `json:"expiry_date,omitempty"`
	SupplierBatch     string          `json:"supplier_batch,omitempty"`
	ReceivedDate      time.Time       `json:"received_date"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockListResponse lista paginada de registros.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID                     string          `json:"id"`
	StockID                string          `json:"stock_id"`
	ProductID              string          `json:"product_id"`
	WarehouseID            string          `json:"warehouse_id"`
	BatchNumber            string          `json:"batch_number,omitempty"`
	Type                   string          `json:"type"`
	Quantity               int64           `json:"quantity"`
	ReservedChange         int64           `json:"reserved_change"`
	PreviousQuantity       int64           `json:"previous_quantity"`
	NewQuantity            int64           `json:"new_quantity"`
	UnitCost               decimal.Decimal `json:"unit_cost"`
	ReferenceNumber        string          `json:"reference_number,omitempty"`
	Reason                 string          `json:"reason,omitempty"`
	Notes                  string          `json:"notes,omitempty"`
	SourceWarehouseID      string          `json:"source_warehouse_id,omitempty"`
	DestinationWarehouseID string          `json:"destination_warehouse_id,omitempty"`
	CreatedBy              string          `json:"created_by,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AlertResponse señal de umbral cruzada por la operación.
type AlertResponse struct {
	Type        string `json:"type"`
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Threshold   int64  `json:"threshold"`
}

// OperationResponse resultado de una operación del libro.
type OperationResponse struct {
	Stock     *StockResponse     `json:"stock,omitempty"`
	Records   []StockResponse    `json:"records"`
	Movements []MovementResponse `json:"movements"`
	Alerts    []AlertResponse    `json:"alerts,omitempty"`
}

// AvailabilityResponse respuesta de disponibilidad.
type AvailabilityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	Quantity    int64  `json:"quantity"`
	Available   bool   `json:"available"`
}

// ProductTotalsResponse totales de un producto en todas las bodegas.
type ProductTotalsResponse struct {
	ProductID string   `json:"product_id"`
	Quantity  int64    `json:"quantity"`
	Reserved  int64    `json:"reserved"`
	Available int64    `json:"available"`
	Batches   []string `json:"batches"`
}

// ValuationResponse valorización del stock activo.
type ValuationResponse struct {
	Total       decimal.Decimal            `json:"total"`
	ByWarehouse map[string]decimal.Decimal `json:"by_warehouse"`
	ByProduct   map[string]decimal.Decimal `json:"by_product"`
}

// ReconciliationResponse compara un registro con su historial.
type ReconciliationResponse struct {
	StockID          string `json:"stock_id"`
	CurrentQuantity  int64  `json:"current_quantity"`
	ReservedQuantity int64  `json:"reserved_quantity"`
	ReplayedQuantity int64  `json:"replayed_quantity"`
	ReplayedReserved int64  `json:"replayed_reserved"`
	Balanced         bool   `json:"balanced"`
}

// ParseDate convierte YYYY-MM-DD en *time.Time (UTC). Vacío = nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// StockFromEntity arma la respuesta de un registro.
func StockFromEntity(s *entity.StockRecord) StockResponse {
	return StockResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		WarehouseID:       s.WarehouseID,
		BatchNumber:       s.BatchNumber,
		CurrentQuantity:   s.CurrentQuantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.AvailableQuantity(),
		UnitCost:          s.UnitCost,
		Value:             s.Value(),
		ManufactureDate:   formatDate(s.ManufactureDate),
		ExpiryDate:        formatDate(s.ExpiryDate),
		SupplierBatch:     s.SupplierBatch,
		ReceivedDate:      s.ReceivedDate,
		Status:            string(s.Status),
		Notes:             s.Notes,
		IsActive:          s.IsActive,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// StocksFromEntities mapea una lista (nunca nil, para serializar []).
func StocksFromEntities(list []*entity.StockRecord) []StockResponse {
	out := make([]StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, StockFromEntity(s))
	}
	return out
}

// MovementFromEntity arma la respuesta de un movimiento.
func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                     m.ID,
		StockID:                m.StockID,
		ProductID:              m.ProductID,
		WarehouseID:            m.WarehouseID,
		BatchNumber:            m.BatchNumber,
		Type:                   string(m.Type),
		Quantity:               m.Quantity,
		ReservedChange:         m.ReservedChange,
		PreviousQuantity:       m.PreviousQuantity,
		NewQuantity:            m.NewQuantity,
		UnitCost:               m.UnitCost,
		ReferenceNumber:        m.ReferenceNumber,
		Reason:                 m.Reason,
		Notes:                  m.Notes,
		SourceWarehouseID:      m.SourceWarehouseID,
		DestinationWarehouseID: m.DestinationWarehouseID,
		CreatedBy:              m.CreatedBy,
		CreatedAt:              m.CreatedAt,
	}
}

// MovementsFromEntities mapea una lista (nunca nil).
func MovementsFromEntities(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementFromEntity(m))
	}
	return out
}

// AlertsFromEntities mapea las alertas generadas.
func AlertsFromEntities(list []entity.StockAlert) []AlertResponse {
	if len(list) == 0 {
		return nil
	}
	out := make([]AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, AlertResponse{
			Type:        string(a.Type),
			ProductID:   a.ProductID,
			WarehouseID: a.WarehouseID,
			Quantity:    a.Quantity,
			Threshold:   a.Threshold,
		})
	}
	return out
}
