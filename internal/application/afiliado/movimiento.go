package afiliado

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// MovimientoInput son los datos de un movimiento manual (baja, suspensión,
// modificación de sueldo). QuincenaID es opcional: se resuelve contra el
// libro del ámbito cuando viene vacío.
type MovimientoInput struct {
	TipoMovimientoID int
	Sueldo           *decimal.Decimal
	Porcentaje       *decimal.Decimal
	Monto            *decimal.Decimal
	FechaMovimiento  *time.Time
	Observaciones    string
	QuincenaID       string
}

// MovimientoUseCase registra movimientos sobre afiliados existentes.
type MovimientoUseCase struct {
	afiliadoRepo   repository.AfiliadoRepository
	movimientoRepo repository.MovimientoRepository
	resolver       PeriodResolver
}

// NewMovimientoUseCase construye el caso de uso.
func NewMovimientoUseCase(afiliadoRepo repository.AfiliadoRepository, movimientoRepo repository.MovimientoRepository, resolver PeriodResolver) *MovimientoUseCase {
	return &MovimientoUseCase{afiliadoRepo: afiliadoRepo, movimientoRepo: movimientoRepo, resolver: resolver}
}

// Registrar agrega un movimiento a la bitácora del afiliado. Valida el tipo
// contra el catálogo y los datos mínimos que cada tipo exige.
func (uc *MovimientoUseCase) Registrar(ctx context.Context, afiliadoID int64, scope entity.OrgScope, in MovimientoInput) (*entity.Movimiento, error) {
	if !entity.TipoMovimientoValido(in.TipoMovimientoID) {
		return nil, domain.ErrEntradaInvalida
	}
	if err := validarDatosPorTipo(in); err != nil {
		return nil, err
	}
	a, err := uc.afiliadoRepo.GetByID(ctx, afiliadoID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNoEncontrado
	}

	quincenaID := in.QuincenaID
	if quincenaID == "" {
		quincena, anio, err := uc.resolver.Resolve(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("resolver quincena del movimiento: %w", err)
		}
		quincenaID = entity.QuincenaID(quincena, anio)
	}

	m := &entity.Movimiento{
		AfiliadoID:       afiliadoID,
		TipoMovimientoID: in.TipoMovimientoID,
		QuincenaID:       quincenaID,
		Sueldo:           in.Sueldo,
		Porcentaje:       in.Porcentaje,
		Monto:            in.Monto,
		FechaMovimiento:  in.FechaMovimiento,
		Observaciones:    in.Observaciones,
		Activo:           true,
		FechaRegistro:    time.Now(),
	}
	if err := uc.movimientoRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// validarDatosPorTipo refleja las exigencias mínimas del motor de nómina:
// los movimientos de sueldo requieren sueldo positivo y los de baja o
// suspensión una fecha efectiva.
func validarDatosPorTipo(in MovimientoInput) error {
	switch in.TipoMovimientoID {
	case entity.MovimientoAlta, entity.MovimientoModificacionSueldo:
		if in.Sueldo == nil || in.Sueldo.LessThanOrEqual(decimal.Zero) {
			return domain.ErrEntradaInvalida
		}
	case entity.MovimientoBajaDefinitiva, entity.MovimientoSuspension,
		entity.MovimientoTerminoSuspension, entity.MovimientoBajaPorTerminoSusp:
		if in.FechaMovimiento == nil {
			return domain.ErrEntradaInvalida
		}
	}
	return nil
}
