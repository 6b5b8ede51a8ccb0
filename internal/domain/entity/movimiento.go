package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento (tipo_movimiento_id).
const (
	MovimientoAlta               = 1
	MovimientoBajaDefinitiva     = 2
	MovimientoSuspension         = 3
	MovimientoTerminoSuspension  = 4
	MovimientoModificacionSueldo = 5
	MovimientoBajaPorTerminoSusp = 6 // término de suspensión combinado con baja definitiva
)

// TipoMovimientoValido verifica que el tipo esté dentro del catálogo 1..6.
func TipoMovimientoValido(t int) bool {
	return t >= MovimientoAlta && t <= MovimientoBajaPorTerminoSusp
}

// Movimiento es un evento del historial de afiliación (alta, baja,
// suspensión, modificación de sueldo). La bitácora es append-only.
type Movimiento struct {
	ID               int64
	AfiliadoID       int64
	TipoMovimientoID int
	QuincenaID       string // "AAAA-QQ", p. ej. "2024-05"
	Sueldo           *decimal.Decimal
	Porcentaje       *decimal.Decimal
	Monto            *decimal.Decimal
	FechaMovimiento  *time.Time
	Observaciones    string
	Activo           bool
	FechaRegistro    time.Time
}
