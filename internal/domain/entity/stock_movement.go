package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de stock.
type MovementType string

const (
	MovementTypePurchaseIn    MovementType = "PURCHASE_IN"    // recepción de compra
	MovementTypeSaleOut       MovementType = "SALE_OUT"       // venta
	MovementTypeAdjustmentIn  MovementType = "ADJUSTMENT_IN"  // ajuste positivo
	MovementTypeAdjustmentOut MovementType = "ADJUSTMENT_OUT" // ajuste negativo
	MovementTypeTransferIn    MovementType = "TRANSFER_IN"    // traslado, bodega destino
	MovementTypeTransferOut   MovementType = "TRANSFER_OUT"   // traslado, bodega origen
	MovementTypeReturnIn      MovementType = "RETURN_IN"      // devolución de cliente
	MovementTypeReturnOut     MovementType = "RETURN_OUT"     // devolución a proveedor
	MovementTypeExpiredOut    MovementType = "EXPIRED_OUT"    // baja por vencimiento
	MovementTypeDamagedOut    MovementType = "DAMAGED_OUT"    // baja por daño
	MovementTypeReservation   MovementType = "RESERVATION"
	MovementTypeRelease       MovementType = "RELEASE"
)

var movementDescriptions = map[MovementType]string{
	MovementTypePurchaseIn:    "Recepción de compra",
	MovementTypeSaleOut:       "Venta",
	MovementTypeAdjustmentIn:  "Ajuste de stock - aumento",
	MovementTypeAdjustmentOut: "Ajuste de stock - disminución",
	MovementTypeTransferIn:    "Traslado - entrada",
	MovementTypeTransferOut:   "Traslado - salida",
	MovementTypeReturnIn:      "Devolución a inventario",
	MovementTypeReturnOut:     "Devolución a proveedor",
	MovementTypeExpiredOut:    "Baja por vencimiento",
	MovementTypeDamagedOut:    "Baja por daño",
	MovementTypeReservation:   "Reserva",
	MovementTypeRelease:       "Liberación de reserva",
}

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	_, ok := movementDescriptions[t]
	return ok
}

// Description texto legible del tipo.
func (t MovementType) Description() string {
	return movementDescriptions[t]
}

// StockMovement registro inmutable de un cambio en un StockRecord.
// Quantity es el delta firmado sobre CurrentQuantity (NewQuantity - PreviousQuantity);
// ReservedChange es el delta firmado sobre ReservedQuantity (reservas y liberaciones).
type StockMovement struct {
	ID                     string
	StockID                string
	ProductID              string
	WarehouseID            string
	BatchNumber            string
	Type                   MovementType
	Quantity               int64
	ReservedChange         int64
	PreviousQuantity       int64
	NewQuantity            int64
	UnitCost               decimal.Decimal
	ReferenceNumber        string // factura, orden, traslado...
	Reason                 string
	Notes                  string
	SourceWarehouseID      string
	DestinationWarehouseID string
	CreatedBy              string // UserID
	CreatedAt              time.Time
}

// Consistent verifica NewQuantity - PreviousQuantity == Quantity.
func (m *StockMovement) Consistent() bool {
	return m.NewQuantity-m.PreviousQuantity == m.Quantity
}
