package entity

import "time"

// HistorialEstatus es el renglón de auditoría de una transición de estatus.
// Append-only: una transición, un renglón, incluidas las transiciones
// masivas. Invariante: NumValidacion del afiliado siempre es igual al
// EstatusNuevo de su renglón más reciente (o al valor inicial si no hay).
type HistorialEstatus struct {
	ID              string // uuid
	AfiliadoID      int64
	EstatusAnterior int
	EstatusNuevo    int
	Usuario         string // actor de la transición
	Motivo          string
	Observaciones   string
	IP              string
	UserAgent       string
	FechaRegistro   time.Time
}
