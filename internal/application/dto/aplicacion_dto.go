package dto

import (
	"github.com/jhoicas/afiliados-api/internal/application/aplicacion"
	"github.com/jhoicas/afiliados-api/internal/domain/nomina"
)

// ValidacionDTO resultado de una regla del catálogo de validaciones.
type ValidacionDTO struct {
	Nombre  string `json:"nombre"`
	OK      bool   `json:"ok"`
	Detalle string `json:"detalle,omitempty"`
}

// ComandoPreviewDTO vista previa de un llamado al motor de nómina.
type ComandoPreviewDTO struct {
	SQL               string          `json:"sql"`
	Parametros        []string        `json:"parametros"`
	Validaciones      []ValidacionDTO `json:"validaciones"`
	ListoParaEjecutar bool            `json:"listoParaEjecutar"`
	Errores           []string        `json:"errores"`
}

// MovimientoAplicacionDTO vista previa de un movimiento dentro de la corrida.
type MovimientoAplicacionDTO struct {
	MovimientoID     int64              `json:"movimientoId"`
	TipoMovimientoID int                `json:"tipoMovimientoId"`
	Comando          *ComandoPreviewDTO `json:"comando"`
}

// AfiliadoAplicacionDTO renglón por afiliado de la corrida.
type AfiliadoAplicacionDTO struct {
	AfiliadoID        int64                     `json:"afiliadoId"`
	Folio             int64                     `json:"folio"`
	ComandoAlta       *ComandoPreviewDTO        `json:"comandoAlta,omitempty"`
	Movimientos       []MovimientoAplicacionDTO `json:"movimientos"`
	ListoParaEjecutar bool                      `json:"listoParaEjecutar"`
	Errores           []string                  `json:"errores"`
}

// ResumenAplicacionDTO contadores de la corrida.
type ResumenAplicacionDTO struct {
	Total      int `json:"total"`
	Listos     int `json:"listos"`
	Bloqueados int `json:"bloqueados"`
	Fallidos   int `json:"fallidos"`
	Aplicados  int `json:"aplicados"`
}

// AplicacionResponse resultado completo de una corrida previa/aplicar.
type AplicacionResponse struct {
	Modo      string                  `json:"modo"`
	Quincena  int                     `json:"quincena"`
	Anio      int                     `json:"anio"`
	Afiliados []AfiliadoAplicacionDTO `json:"afiliados"`
	Resumen   ResumenAplicacionDTO    `json:"resumen"`
}

// QuincenaActualResponse renglón vigente del libro para el ámbito del token.
type QuincenaActualResponse struct {
	Quincena           int    `json:"quincena"`
	Anio               int    `json:"anio"`
	Accion             string `json:"accion"`
	AfiliadosCompletos bool   `json:"afiliadosCompletos"`
	QuincenaID         string `json:"quincenaId"`
}

// DesdeResultadoAplicacion proyecta el resultado del procesador al response.
func DesdeResultadoAplicacion(r *aplicacion.ResultadoAplicacion) AplicacionResponse {
	resp := AplicacionResponse{
		Modo:     string(r.Modo),
		Quincena: r.Quincena,
		Anio:     r.Anio,
		Resumen: ResumenAplicacionDTO{
			Total:      r.Resumen.Total,
			Listos:     r.Resumen.Listos,
			Bloqueados: r.Resumen.Bloqueados,
			Fallidos:   r.Resumen.Fallidos,
			Aplicados:  r.Aplicados,
		},
		Afiliados: make([]AfiliadoAplicacionDTO, 0, len(r.Afiliados)),
	}
	for _, ra := range r.Afiliados {
		item := AfiliadoAplicacionDTO{
			AfiliadoID:        ra.AfiliadoID,
			Folio:             ra.Folio,
			ComandoAlta:       desdeComando(ra.ComandoAlta),
			ListoParaEjecutar: ra.ListoParaEjecutar,
			Errores:           ra.Errores,
			Movimientos:       make([]MovimientoAplicacionDTO, 0, len(ra.Movimientos)),
		}
		if item.Errores == nil {
			item.Errores = []string{}
		}
		for _, rm := range ra.Movimientos {
			item.Movimientos = append(item.Movimientos, MovimientoAplicacionDTO{
				MovimientoID:     rm.MovimientoID,
				TipoMovimientoID: rm.TipoMovimientoID,
				Comando:          desdeComando(rm.Comando),
			})
		}
		resp.Afiliados = append(resp.Afiliados, item)
	}
	return resp
}

func desdeComando(c *nomina.ComandoPreview) *ComandoPreviewDTO {
	if c == nil {
		return nil
	}
	out := &ComandoPreviewDTO{
		SQL:               c.SQL,
		Parametros:        c.Parametros,
		ListoParaEjecutar: c.ListoParaEjecutar,
		Errores:           c.Errores,
		Validaciones:      make([]ValidacionDTO, 0, len(c.Validaciones)),
	}
	if out.Errores == nil {
		out.Errores = []string{}
	}
	for _, v := range c.Validaciones {
		out.Validaciones = append(out.Validaciones, ValidacionDTO{Nombre: v.Nombre, OK: v.OK, Detalle: v.Detalle})
	}
	return out
}
