package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// StockStatus estado grueso de un lote. No se deriva: lo fijan explícitamente las bajas y ajustes.
type StockStatus string

const (
	StockStatusGood       StockStatus = "GOOD"
	StockStatusDamaged    StockStatus = "DAMAGED"
	StockStatusExpired    StockStatus = "EXPIRED"
	StockStatusQuarantine StockStatus = "QUARANTINE"
	StockStatusReserved   StockStatus = "RESERVED"
	StockStatusSold       StockStatus = "SOLD"
)

// Valid indica si el estado es uno de los conocidos.
func (s StockStatus) Valid() bool {
	switch s {
	case StockStatusGood, StockStatusDamaged, StockStatusExpired,
		StockStatusQuarantine, StockStatusReserved, StockStatusSold:
		return true
	}
	return false
}

// StockKey identifica un lote físico: producto + bodega + lote (BatchNumber vacío = sin lote).
type StockKey struct {
	ProductID   string
	WarehouseID string
	BatchNumber string
}

func (k StockKey) String() string {
	if k.BatchNumber == "" {
		return k.ProductID + "@" + k.WarehouseID
	}
	return k.ProductID + "@" + k.WarehouseID + "#" + k.BatchNumber
}

// StockRecord representa un lote de un producto en una bodega (fila del libro de stock).
// AvailableQuantity no se almacena: se calcula en cada lectura.
type StockRecord struct {
	ID               string
	ProductID        string
	WarehouseID      string
	BatchNumber      string // vacío = stock sin lote
	CurrentQuantity  int64  // físicamente en bodega
	ReservedQuantity int64  // comprometido para despachos futuros
	UnitCost         decimal.Decimal
	ManufactureDate  *time.Time
	ExpiryDate       *time.Time
	SupplierBatch    string
	ReceivedDate     time.Time
	Status           StockStatus
	Notes            string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Key devuelve la identidad lógica (producto, bodega, lote) del registro.
func (s *StockRecord) Key() StockKey {
	return StockKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID, BatchNumber: s.BatchNumber}
}

// AvailableQuantity = max(0, current - reserved).
func (s *StockRecord) AvailableQuantity() int64 {
	available := s.CurrentQuantity - s.ReservedQuantity
	if available < 0 {
		return 0
	}
	return available
}

// Allocatable indica si el registro puede participar en una asignación FIFO (venta o traslado).
func (s *StockRecord) Allocatable() bool {
	return s.IsActive && s.Status == StockStatusGood && s.AvailableQuantity() > 0
}

// CheckInvariants verifica 0 <= reserved <= current. Se invoca después de cada mutación
// y antes de persistir.
func (s *StockRecord) CheckInvariants() error {
	if s.CurrentQuantity < 0 {
		return fmt.Errorf("%w: stock %s con cantidad negativa (%d)", domain.ErrInvariantViolation, s.ID, s.CurrentQuantity)
	}
	if s.ReservedQuantity < 0 {
		return fmt.Errorf("%w: stock %s con reserva negativa (%d)", domain.ErrInvariantViolation, s.ID, s.ReservedQuantity)
	}
	if s.ReservedQuantity > s.CurrentQuantity {
		return fmt.Errorf("%w: stock %s reservado %d supera la cantidad actual %d",
			domain.ErrInvariantViolation, s.ID, s.ReservedQuantity, s.CurrentQuantity)
	}
	return nil
}

// IsExpired indica si la fecha de vencimiento es anterior a now.
func (s *StockRecord) IsExpired(now time.Time) bool {
	return s.ExpiryDate != nil && s.ExpiryDate.Before(truncateDay(now))
}

// IsExpiringWithin indica si vence en los próximos days días (incluye los ya vencidos).
func (s *StockRecord) IsExpiringWithin(days int, now time.Time) bool {
	if s.ExpiryDate == nil {
		return false
	}
	threshold := truncateDay(now).AddDate(0, 0, days)
	return !s.ExpiryDate.After(threshold)
}

// Value = CurrentQuantity * UnitCost.
func (s *StockRecord) Value() decimal.Decimal {
	return s.UnitCost.Mul(decimal.NewFromInt(s.CurrentQuantity))
}

// Clone devuelve una copia independiente del registro.
func (s *StockRecord) Clone() *StockRecord {
	c := *s
	return &c
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
