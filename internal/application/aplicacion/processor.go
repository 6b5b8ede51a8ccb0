// Package aplicacion procesa la aplicación de quincena: genera la vista
// previa de los comandos de nómina por afiliado y, en modo aplicar, mueve a
// los listos a estatus AplicadoNomina y cierra el renglón del libro.
package aplicacion

import (
	"context"
	"fmt"

	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/nomina"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
	"github.com/jhoicas/afiliados-api/pkg/logger"
)

// Modo de corrida del procesador.
type Modo string

const (
	ModoPrevia  Modo = "previa"  // solo genera comandos y banderas; no muta nada
	ModoAplicar Modo = "aplicar" // además transiciona a los listos y cierra la quincena
)

// BuscadorEmpleados consulta el motor de nómina por el id interno de un
// empleado. Opcional: sin él, todo afiliado sin id genera comando de alta.
type BuscadorEmpleados interface {
	BuscarEmpleado(ctx context.Context, curp, rfc string) (*int64, error)
}

// ResultadoMovimiento es la vista previa de un movimiento del afiliado.
type ResultadoMovimiento struct {
	MovimientoID     int64
	TipoMovimientoID int
	Comando          *nomina.ComandoPreview
}

// ResultadoAfiliado acumula los comandos y la preparación de un afiliado.
type ResultadoAfiliado struct {
	AfiliadoID        int64
	Folio             int64
	ComandoAlta       *nomina.ComandoPreview // nil si ya tiene empleado en nómina
	Movimientos       []ResultadoMovimiento
	ListoParaEjecutar bool
	Errores           []string
}

// Resumen son los contadores de la corrida.
type Resumen struct {
	Total      int
	Listos     int
	Bloqueados int
	Fallidos   int
}

// ResultadoAplicacion es el resultado completo de una corrida.
type ResultadoAplicacion struct {
	Modo      Modo
	Quincena  int
	Anio      int
	Afiliados []ResultadoAfiliado
	Resumen   Resumen
	Aplicados int // afiliados movidos a AplicadoNomina (solo modo aplicar)
}

// Processor es el procesador de aplicación masiva. Recorre a los afiliados
// del ámbito secuencialmente: una falla por afiliado se anota en su renglón
// y no detiene la corrida. No hay cancelación a media corrida: iniciada, la
// corrida llega al final con éxito o falla registrada por renglón.
type Processor struct {
	afiliadoRepo   repository.AfiliadoRepository
	organicaRepo   repository.OrganicaRepository
	movimientoRepo repository.MovimientoRepository
	quincenaRepo   repository.ControlQuincenaRepository
	txRunner       afiliado.TxRunner
	buscador       BuscadorEmpleados // puede ser nil
	log            *logger.Logger
}

// NewProcessor construye el procesador. buscador puede ser nil cuando el
// motor de nómina no está configurado para búsquedas.
func NewProcessor(
	afiliadoRepo repository.AfiliadoRepository,
	organicaRepo repository.OrganicaRepository,
	movimientoRepo repository.MovimientoRepository,
	quincenaRepo repository.ControlQuincenaRepository,
	txRunner afiliado.TxRunner,
	buscador BuscadorEmpleados,
	log *logger.Logger,
) *Processor {
	return &Processor{
		afiliadoRepo:   afiliadoRepo,
		organicaRepo:   organicaRepo,
		movimientoRepo: movimientoRepo,
		quincenaRepo:   quincenaRepo,
		txRunner:       txRunner,
		buscador:       buscador,
		log:            log,
	}
}

// Run ejecuta la corrida sobre el ámbito. En modo previa nada se muta; en
// modo aplicar, tras recorrer TODOS los renglones, una sola transacción
// mueve a los listos a AplicadoNomina y cierra el renglón del libro
// ("Aplicar" → "APLICAR" con afiliados_completos).
func (p *Processor) Run(ctx context.Context, scope entity.OrgScope, modo Modo, actor string) (*ResultadoAplicacion, error) {
	afiliados, err := p.afiliadoRepo.ListAplicables(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listar afiliados aplicables: %w", err)
	}

	res := &ResultadoAplicacion{Modo: modo}
	if ultima, err := p.quincenaRepo.GetUltima(ctx, scope); err == nil && ultima != nil {
		res.Quincena = ultima.Quincena
		res.Anio = ultima.Anio
	}

	for _, a := range afiliados {
		ra := p.procesarAfiliado(ctx, a)
		res.Afiliados = append(res.Afiliados, ra)
		res.Resumen.Total++
		switch {
		case ra.ListoParaEjecutar:
			res.Resumen.Listos++
		case len(ra.Errores) > 0 && ra.ComandoAlta == nil && len(ra.Movimientos) == 0:
			res.Resumen.Fallidos++
		default:
			res.Resumen.Bloqueados++
		}
	}

	if modo == ModoAplicar {
		aplicados, err := p.aplicar(ctx, scope, res.Afiliados, actor)
		if err != nil {
			return nil, err
		}
		res.Aplicados = aplicados
	}
	return res, nil
}

// procesarAfiliado genera y valida los comandos de un afiliado. Nunca
// devuelve error: las fallas quedan en el renglón del resultado.
func (p *Processor) procesarAfiliado(ctx context.Context, a *entity.Afiliado) ResultadoAfiliado {
	ra := ResultadoAfiliado{AfiliadoID: a.ID, Folio: a.Folio}

	org, err := p.organicaRepo.GetActivaByAfiliado(ctx, a.ID)
	if err != nil {
		ra.Errores = append(ra.Errores, fmt.Sprintf("consultar orgánica: %v", err))
		return ra
	}
	if org == nil {
		ra.Errores = append(ra.Errores, "el afiliado no tiene adscripción orgánica vigente")
		return ra
	}

	// Afiliado sin id en nómina: intentar rescatarlo del motor antes de
	// proponer el alta. Una falla de la búsqueda degrada a "no encontrado".
	if a.EmpleadoNominaID == nil && p.buscador != nil {
		if id, err := p.buscador.BuscarEmpleado(ctx, deref(a.CURP), deref(a.RFC)); err != nil {
			p.log.Warn().Err(err).Int64("afiliado_id", a.ID).Msg("búsqueda en nómina falló; se propone alta de empleado")
		} else if id != nil {
			a.EmpleadoNominaID = id
		}
	}

	listo := true
	if a.EmpleadoNominaID == nil {
		ra.ComandoAlta = nomina.GenerarComandoAltaEmpleado(a, org)
		if !ra.ComandoAlta.ListoParaEjecutar {
			listo = false
			ra.Errores = append(ra.Errores, ra.ComandoAlta.Errores...)
		}
	}

	movs, err := p.movimientoRepo.ListActivosByAfiliado(ctx, a.ID)
	if err != nil {
		ra.Errores = append(ra.Errores, fmt.Sprintf("consultar movimientos: %v", err))
		ra.ListoParaEjecutar = false
		return ra
	}
	for _, m := range movs {
		cmd := nomina.GenerarComandoMovimiento(m, a, org)
		// La preparación del movimiento depende del alta del empleado: si el
		// alta quedó bloqueada, el movimiento tampoco puede ejecutarse.
		if ra.ComandoAlta != nil && !ra.ComandoAlta.ListoParaEjecutar {
			cmd.Bloquear("alta de empleado en nómina pendiente: el movimiento depende de ella")
		}
		if !cmd.ListoParaEjecutar {
			listo = false
		}
		ra.Movimientos = append(ra.Movimientos, ResultadoMovimiento{
			MovimientoID:     m.ID,
			TipoMovimientoID: m.TipoMovimientoID,
			Comando:          cmd,
		})
	}

	ra.ListoParaEjecutar = listo
	return ra
}

// aplicar corre estrictamente después de resolver todos los renglones:
// transiciona a los listos (y solo a ellos) a AplicadoNomina con su renglón
// de historial, y finaliza el renglón "Aplicar" del libro.
func (p *Processor) aplicar(ctx context.Context, scope entity.OrgScope, resultados []ResultadoAfiliado, actor string) (int, error) {
	var listos []int64
	for _, ra := range resultados {
		if ra.ListoParaEjecutar {
			listos = append(listos, ra.AfiliadoID)
		}
	}

	aplicados := 0
	err := p.txRunner.Run(ctx, func(
		afiliadoRepo repository.AfiliadoRepository,
		_ repository.OrganicaRepository,
		_ repository.MovimientoRepository,
		historialRepo repository.HistorialRepository,
		quincenaRepo repository.ControlQuincenaRepository,
	) error {
		for _, id := range listos {
			if err := afiliado.TransicionarAplicado(ctx, afiliadoRepo, historialRepo, id, actor); err != nil {
				return fmt.Errorf("aplicar afiliado %d: %w", id, err)
			}
			aplicados++
		}
		abierta, err := quincenaRepo.FindAplicar(ctx, scope)
		if err != nil {
			return fmt.Errorf("buscar quincena abierta: %w", err)
		}
		if abierta == nil {
			p.log.Warn().Msg("no hay renglón 'Aplicar' que finalizar para el ámbito")
			return nil
		}
		return quincenaRepo.Finalizar(ctx, abierta.ID, entity.AccionAplicada, true)
	})
	if err != nil {
		return 0, err
	}
	return aplicados, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
