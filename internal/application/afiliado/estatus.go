package afiliado

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
	"github.com/jhoicas/afiliados-api/pkg/logger"
)

// TransicionInput son los metadatos de auditoría de una transición.
type TransicionInput struct {
	Actor         string
	Motivo        string
	Observaciones string
	IP            string
	UserAgent     string
}

// ResultadoTransicion es el resultado por afiliado de una transición masiva.
type ResultadoTransicion struct {
	AfiliadoID int64
	OK         bool
	Error      string
}

// EstatusUseCase es la máquina de estados del afiliado. Cada transición
// escribe el nuevo estatus y agrega exactamente un renglón de historial
// dentro de la misma transacción. Ningún estado es terminal: la acción
// "volver a inicial" regresa cualquier estado a Registrado.
type EstatusUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewEstatusUseCase construye el caso de uso.
func NewEstatusUseCase(txRunner TxRunner, log *logger.Logger) *EstatusUseCase {
	return &EstatusUseCase{txRunner: txRunner, log: log}
}

// Transition mueve al afiliado al estatus indicado. Falla con
// ErrNoEncontrado si el afiliado no existe y con ErrEstatusInvalido si el
// estatus está fuera del catálogo 1..7.
func (uc *EstatusUseCase) Transition(ctx context.Context, afiliadoID int64, nuevoEstatus int, in TransicionInput) (*entity.HistorialEstatus, error) {
	if !entity.EstatusValido(nuevoEstatus) {
		return nil, domain.ErrEstatusInvalido
	}
	var historial *entity.HistorialEstatus
	err := uc.txRunner.Run(ctx, func(
		afiliadoRepo repository.AfiliadoRepository,
		_ repository.OrganicaRepository,
		_ repository.MovimientoRepository,
		historialRepo repository.HistorialRepository,
		_ repository.ControlQuincenaRepository,
	) error {
		h, err := transicionar(ctx, afiliadoRepo, historialRepo, afiliadoID, nuevoEstatus, in)
		if err != nil {
			return err
		}
		historial = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return historial, nil
}

// TransitionBatch aplica la misma transición a cada id de forma
// independiente: la falla de un afiliado se registra y no detiene a los
// demás. Devuelve un resultado por id en el mismo orden.
func (uc *EstatusUseCase) TransitionBatch(ctx context.Context, ids []int64, nuevoEstatus int, in TransicionInput) []ResultadoTransicion {
	resultados := make([]ResultadoTransicion, 0, len(ids))
	for _, id := range ids {
		_, err := uc.Transition(ctx, id, nuevoEstatus, in)
		r := ResultadoTransicion{AfiliadoID: id, OK: err == nil}
		if err != nil {
			r.Error = err.Error()
			uc.log.Warn().Err(err).Int64("afiliado_id", id).Msg("transición masiva: afiliado omitido")
		}
		resultados = append(resultados, r)
	}
	return resultados
}

// TransicionarAplicado mueve un afiliado a AplicadoNomina con repos atados
// a la transacción del llamador. Lo usa la aplicación masiva de quincena
// para que las transiciones y el cierre del libro viajen en una sola tx.
func TransicionarAplicado(
	ctx context.Context,
	afiliadoRepo repository.AfiliadoRepository,
	historialRepo repository.HistorialRepository,
	afiliadoID int64,
	actor string,
) error {
	_, err := transicionar(ctx, afiliadoRepo, historialRepo, afiliadoID, entity.EstatusAplicadoNomina, TransicionInput{
		Actor:  actor,
		Motivo: "aplicación de quincena",
	})
	return err
}

// transicionar ejecuta la transición con repos ya atados a una tx.
func transicionar(
	ctx context.Context,
	afiliadoRepo repository.AfiliadoRepository,
	historialRepo repository.HistorialRepository,
	afiliadoID int64,
	nuevoEstatus int,
	in TransicionInput,
) (*entity.HistorialEstatus, error) {
	a, err := afiliadoRepo.GetByID(ctx, afiliadoID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNoEncontrado
	}
	if err := afiliadoRepo.UpdateEstatus(ctx, afiliadoID, nuevoEstatus); err != nil {
		return nil, err
	}
	h := &entity.HistorialEstatus{
		ID:              uuid.New().String(),
		AfiliadoID:      afiliadoID,
		EstatusAnterior: a.NumValidacion,
		EstatusNuevo:    nuevoEstatus,
		Usuario:         in.Actor,
		Motivo:          in.Motivo,
		Observaciones:   in.Observaciones,
		IP:              in.IP,
		UserAgent:       in.UserAgent,
		FechaRegistro:   time.Now(),
	}
	if err := historialRepo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}
