package entity

import (
	"fmt"
	"time"
)

// Acciones del libro de control de quincenas.
const (
	AccionAplicar   = "Aplicar"   // quincena abierta, en captura
	AccionCompleta  = "Completa"  // quincena cerrada, la siguiente resolución avanza
	AccionAplicada  = "APLICAR"   // aplicación a nómina ejecutada
	AccionTerminado = "TERMINADO" // ciclo cerrado por el colaborador de nómina
)

// Límite de quincenas por año calendario.
const QuincenasPorAnio = 24

// ControlQuincena es el libro append-only de quincenas por ámbito orgánico.
// El renglón más reciente por ámbito (anio desc, quincena desc, fecha de
// registro desc) es el autoritativo para "en qué quincena estamos".
type ControlQuincena struct {
	ID                 int64
	Org0               string
	Org1               string
	Org2               *string
	Org3               *string
	Quincena           int // 1..24
	Anio               int
	Accion             string
	AfiliadosCompletos bool
	FechaRegistro      time.Time
}

// Scope devuelve el ámbito orgánico del renglón.
func (c *ControlQuincena) Scope() OrgScope {
	return OrgScope{Org0: c.Org0, Org1: c.Org1, Org2: c.Org2, Org3: c.Org3}
}

// QuincenaID arma el identificador "AAAA-QQ" que llevan los movimientos.
func QuincenaID(quincena, anio int) string {
	return fmt.Sprintf("%d-%02d", anio, quincena)
}

// SiguienteQuincena avanza (quincena, anio): la 24 rueda a la 1 del año
// siguiente, cualquier otra incrementa dentro del mismo año.
func SiguienteQuincena(quincena, anio int) (int, int) {
	if quincena >= QuincenasPorAnio {
		return 1, anio + 1
	}
	return quincena + 1, anio
}
