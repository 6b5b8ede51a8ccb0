package dto

import (
	"time"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AltaAfiliadoRequest datos demográficos del alta.
type AltaAfiliadoRequest struct {
	Folio           int64   `json:"folio"`
	CURP            *string `json:"curp"`
	RFC             *string `json:"rfc"`
	NSS             *string `json:"nss"`
	Nombre          string  `json:"nombre"`
	ApellidoPaterno string  `json:"apellidoPaterno"`
	ApellidoMaterno string  `json:"apellidoMaterno"`
	FechaNacimiento *string `json:"fechaNacimiento"` // "2006-01-02"
	Sexo            string  `json:"sexo"`
	Email           string  `json:"email"`
	Telefono        string  `json:"telefono"`
	Quincena        int     `json:"quincenaAplicacion"`
	Anio            int     `json:"anioAplicacion"`
}

// OrganicaRequest adscripción orgánica del alta. El ámbito del token manda
// cuando estos campos vienen vacíos.
type OrganicaRequest struct {
	Org0                string          `json:"org0"`
	Org1                string          `json:"org1"`
	Org2                *string         `json:"org2"`
	Org3                *string         `json:"org3"`
	SueldoBase          decimal.Decimal `json:"sueldoBase"`
	SueldoCotizable     decimal.Decimal `json:"sueldoCotizable"`
	PorcentajeDescuento decimal.Decimal `json:"porcentajeDescuento"`
}

// MovimientoRequest datos del movimiento.
type MovimientoRequest struct {
	TipoMovimientoID int              `json:"tipoMovimientoId"`
	QuincenaID       string           `json:"quincenaId"`
	Sueldo           *decimal.Decimal `json:"sueldo"`
	Porcentaje       *decimal.Decimal `json:"porcentaje"`
	Monto            *decimal.Decimal `json:"monto"`
	FechaMovimiento  *string          `json:"fechaMovimiento"` // "2006-01-02"
	Observaciones    string           `json:"observaciones"`
}

// AltaCompletaRequest alta atómica: afiliado + orgánica + movimiento.
type AltaCompletaRequest struct {
	Afiliado   AltaAfiliadoRequest `json:"afiliado"`
	Organica   OrganicaRequest     `json:"organica"`
	Movimiento MovimientoRequest   `json:"movimiento"`
}

// AfiliadoResponse proyección del afiliado en respuestas.
type AfiliadoResponse struct {
	ID                 int64   `json:"id"`
	Folio              int64   `json:"folio"`
	CURP               *string `json:"curp"`
	RFC                *string `json:"rfc"`
	NSS                *string `json:"nss"`
	Nombre             string  `json:"nombre"`
	ApellidoPaterno    string  `json:"apellidoPaterno"`
	ApellidoMaterno    string  `json:"apellidoMaterno"`
	NumValidacion      int     `json:"numValidacion"`
	QuincenaAplicacion int     `json:"quincenaAplicacion"`
	AnioAplicacion     int     `json:"anioAplicacion"`
	EmpleadoNominaID   *int64  `json:"empleadoNominaId"`
	FechaRegistro      string  `json:"fechaRegistro"`
}

// MovimientoResponse proyección del movimiento en respuestas.
type MovimientoResponse struct {
	ID               int64            `json:"id"`
	AfiliadoID       int64            `json:"afiliadoId"`
	TipoMovimientoID int              `json:"tipoMovimientoId"`
	QuincenaID       string           `json:"quincenaId"`
	Sueldo           *decimal.Decimal `json:"sueldo"`
	Porcentaje       *decimal.Decimal `json:"porcentaje"`
	Monto            *decimal.Decimal `json:"monto"`
	FechaMovimiento  *string          `json:"fechaMovimiento"`
	Observaciones    string           `json:"observaciones"`
}

// TransicionRequest metadatos de una transición de estatus.
type TransicionRequest struct {
	Motivo        string `json:"motivo"`
	Observaciones string `json:"observaciones"`
}

// TransicionMasivaRequest transición en bloque.
type TransicionMasivaRequest struct {
	IDs           []int64 `json:"ids"`
	Accion        string  `json:"accion"`
	Motivo        string  `json:"motivo"`
	Observaciones string  `json:"observaciones"`
}

// ResultadoTransicionDTO resultado por afiliado de una transición masiva.
type ResultadoTransicionDTO struct {
	AfiliadoID int64  `json:"afiliadoId"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// HistorialResponse renglón del historial de estatus.
type HistorialResponse struct {
	ID              string `json:"id"`
	AfiliadoID      int64  `json:"afiliadoId"`
	EstatusAnterior int    `json:"estatusAnterior"`
	EstatusNuevo    int    `json:"estatusNuevo"`
	Usuario         string `json:"usuario"`
	Motivo          string `json:"motivo,omitempty"`
	FechaRegistro   string `json:"fechaRegistro"`
}

// DesdeAfiliado proyecta la entidad al response.
func DesdeAfiliado(a *entity.Afiliado) AfiliadoResponse {
	return AfiliadoResponse{
		ID:                 a.ID,
		Folio:              a.Folio,
		CURP:               a.CURP,
		RFC:                a.RFC,
		NSS:                a.NSS,
		Nombre:             a.Nombre,
		ApellidoPaterno:    a.ApellidoPaterno,
		ApellidoMaterno:    a.ApellidoMaterno,
		NumValidacion:      a.NumValidacion,
		QuincenaAplicacion: a.QuincenaAplicacion,
		AnioAplicacion:     a.AnioAplicacion,
		EmpleadoNominaID:   a.EmpleadoNominaID,
		FechaRegistro:      a.FechaRegistro.Format(time.RFC3339),
	}
}

// DesdeMovimiento proyecta la entidad al response.
func DesdeMovimiento(m *entity.Movimiento) MovimientoResponse {
	var fecha *string
	if m.FechaMovimiento != nil {
		f := m.FechaMovimiento.Format("2006-01-02")
		fecha = &f
	}
	return MovimientoResponse{
		ID:               m.ID,
		AfiliadoID:       m.AfiliadoID,
		TipoMovimientoID: m.TipoMovimientoID,
		QuincenaID:       m.QuincenaID,
		Sueldo:           m.Sueldo,
		Porcentaje:       m.Porcentaje,
		Monto:            m.Monto,
		FechaMovimiento:  fecha,
		Observaciones:    m.Observaciones,
	}
}

// DesdeHistorial proyecta la entidad al response.
func DesdeHistorial(h *entity.HistorialEstatus) HistorialResponse {
	return HistorialResponse{
		ID:              h.ID,
		AfiliadoID:      h.AfiliadoID,
		EstatusAnterior: h.EstatusAnterior,
		EstatusNuevo:    h.EstatusNuevo,
		Usuario:         h.Usuario,
		Motivo:          h.Motivo,
		FechaRegistro:   h.FechaRegistro.Format(time.RFC3339),
	}
}
