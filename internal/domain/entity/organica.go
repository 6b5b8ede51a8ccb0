package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrgScope identifica el ámbito orgánico (subdivisión del empleador).
// Org0 y Org1 son obligatorios; Org2 y Org3 refinan el ámbito cuando existen.
type OrgScope struct {
	Org0 string
	Org1 string
	Org2 *string
	Org3 *string
}

// AfiliadoOrganica es la adscripción orgánica de un afiliado: ámbito,
// sueldos y bandera de vigencia. Se crea junto con su Afiliado dentro de
// la misma transacción de alta.
type AfiliadoOrganica struct {
	ID                  int64
	AfiliadoID          int64
	Org0                string
	Org1                string
	Org2                *string
	Org3                *string
	SueldoBase          decimal.Decimal
	SueldoCotizable     decimal.Decimal
	PorcentajeDescuento decimal.Decimal
	Activo              bool
	FechaRegistro       time.Time
}

// Scope devuelve el ámbito orgánico de la adscripción.
func (o *AfiliadoOrganica) Scope() OrgScope {
	return OrgScope{Org0: o.Org0, Org1: o.Org1, Org2: o.Org2, Org3: o.Org3}
}
