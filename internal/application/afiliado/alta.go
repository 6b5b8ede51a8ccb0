package afiliado

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
	"github.com/jhoicas/afiliados-api/pkg/logger"
)

// AltaCompletaInput agrupa las tres piezas del alta atómica.
// Folio, quincena/año y quincena_id del movimiento son opcionales: se
// calculan dentro de la transacción cuando vienen vacíos.
type AltaCompletaInput struct {
	Afiliado   entity.Afiliado
	Organica   entity.AfiliadoOrganica
	Movimiento entity.Movimiento
}

// AltaCompletaResult son los tres renglones creados, con ids asignados.
type AltaCompletaResult struct {
	Afiliado   *entity.Afiliado
	Organica   *entity.AfiliadoOrganica
	Movimiento *entity.Movimiento
}

// AltaUseCase da de alta afiliados. AltaCompleta crea afiliado, adscripción
// orgánica y movimiento de alta en una sola transacción del almacén
// primario; las consultas a nómina del resolver quedan fuera de ella.
type AltaUseCase struct {
	txRunner     TxRunner
	afiliadoRepo repository.AfiliadoRepository // atado al pool: chequeo de duplicados previo a la tx
	resolver     PeriodResolver
	log          *logger.Logger
}

// NewAltaUseCase construye el caso de uso.
func NewAltaUseCase(txRunner TxRunner, afiliadoRepo repository.AfiliadoRepository, resolver PeriodResolver, log *logger.Logger) *AltaUseCase {
	return &AltaUseCase{txRunner: txRunner, afiliadoRepo: afiliadoRepo, resolver: resolver, log: log}
}

// AltaCompleta ejecuta el alta atómica:
//
//  1. Chequeo de duplicados por CURP/RFC/NSS antes de abrir la transacción.
//  2. En una tx: folio max+1 si no viene, quincena del resolver si no
//     viene, inserción de afiliado, orgánica y movimiento.
//  3. Cualquier falla revierte todo; DuplicadoError se propaga intacto y el
//     resto se envuelve en RegistroError con la CURP para diagnóstico.
func (uc *AltaUseCase) AltaCompleta(ctx context.Context, in AltaCompletaInput) (*AltaCompletaResult, error) {
	if err := validarAlta(&in.Afiliado, &in.Organica); err != nil {
		return nil, err
	}
	if err := uc.verificarDuplicado(ctx, &in.Afiliado); err != nil {
		return nil, err
	}

	var res AltaCompletaResult
	err := uc.txRunner.Run(ctx, func(
		afiliadoRepo repository.AfiliadoRepository,
		organicaRepo repository.OrganicaRepository,
		movimientoRepo repository.MovimientoRepository,
		_ repository.HistorialRepository,
		_ repository.ControlQuincenaRepository,
	) error {
		a := in.Afiliado
		if err := uc.prepararAfiliado(ctx, afiliadoRepo, &a, in.Organica.Scope()); err != nil {
			return err
		}
		if err := afiliadoRepo.Create(ctx, &a); err != nil {
			return err
		}

		o := in.Organica
		o.AfiliadoID = a.ID
		o.Activo = true
		if err := organicaRepo.Create(ctx, &o); err != nil {
			return err
		}

		m := in.Movimiento
		m.AfiliadoID = a.ID
		m.Activo = true
		if m.TipoMovimientoID == 0 {
			m.TipoMovimientoID = entity.MovimientoAlta
		}
		if m.QuincenaID == "" {
			m.QuincenaID = entity.QuincenaID(a.QuincenaAplicacion, a.AnioAplicacion)
		}
		if err := movimientoRepo.Create(ctx, &m); err != nil {
			return err
		}

		res = AltaCompletaResult{Afiliado: &a, Organica: &o, Movimiento: &m}
		return nil
	})
	if err != nil {
		return nil, clasificarFalla(err, in.Afiliado.CURP)
	}
	return &res, nil
}

// Alta da de alta solo el afiliado (sin movimiento), en estatus Registrado.
// La adscripción orgánica acompaña al afiliado en la misma transacción.
func (uc *AltaUseCase) Alta(ctx context.Context, a entity.Afiliado, o entity.AfiliadoOrganica) (*AltaCompletaResult, error) {
	if err := validarAlta(&a, &o); err != nil {
		return nil, err
	}
	if err := uc.verificarDuplicado(ctx, &a); err != nil {
		return nil, err
	}

	var res AltaCompletaResult
	err := uc.txRunner.Run(ctx, func(
		afiliadoRepo repository.AfiliadoRepository,
		organicaRepo repository.OrganicaRepository,
		_ repository.MovimientoRepository,
		_ repository.HistorialRepository,
		_ repository.ControlQuincenaRepository,
	) error {
		if err := uc.prepararAfiliado(ctx, afiliadoRepo, &a, o.Scope()); err != nil {
			return err
		}
		if err := afiliadoRepo.Create(ctx, &a); err != nil {
			return err
		}
		o.AfiliadoID = a.ID
		o.Activo = true
		if err := organicaRepo.Create(ctx, &o); err != nil {
			return err
		}
		res = AltaCompletaResult{Afiliado: &a, Organica: &o}
		return nil
	})
	if err != nil {
		return nil, clasificarFalla(err, a.CURP)
	}
	return &res, nil
}

// prepararAfiliado completa folio, quincena y estatus inicial dentro de la tx.
func (uc *AltaUseCase) prepararAfiliado(ctx context.Context, afiliadoRepo repository.AfiliadoRepository, a *entity.Afiliado, scope entity.OrgScope) error {
	if a.Folio == 0 {
		max, err := afiliadoRepo.MaxFolio(ctx)
		if err != nil {
			return err
		}
		a.Folio = max + 1
	}
	if a.QuincenaAplicacion == 0 || a.AnioAplicacion == 0 {
		quincena, anio, err := uc.resolver.Resolve(ctx, scope)
		if err != nil {
			return fmt.Errorf("resolver quincena de aplicación: %w", err)
		}
		a.QuincenaAplicacion = quincena
		a.AnioAplicacion = anio
	}
	if a.NumValidacion == 0 {
		a.NumValidacion = entity.EstatusRegistrado
	}
	if a.FechaRegistro.IsZero() {
		a.FechaRegistro = time.Now()
	}
	return nil
}

// verificarDuplicado corre antes de abrir la transacción: una colisión no
// debe costar un begin/rollback.
func (uc *AltaUseCase) verificarDuplicado(ctx context.Context, a *entity.Afiliado) error {
	dup, err := uc.afiliadoRepo.FindDuplicado(ctx, a.CURP, a.RFC, a.NSS)
	if err != nil {
		return clasificarFalla(err, a.CURP)
	}
	if dup != nil {
		return &domain.DuplicadoError{Campo: dup.Campo, Valor: dup.Valor, ExistenteID: dup.AfiliadoID}
	}
	return nil
}

func validarAlta(a *entity.Afiliado, o *entity.AfiliadoOrganica) error {
	if a.Nombre == "" || a.ApellidoPaterno == "" {
		return domain.ErrEntradaInvalida
	}
	if o.Org0 == "" || o.Org1 == "" {
		return domain.ErrEntradaInvalida
	}
	return nil
}

// clasificarFalla respeta el contrato de errores del alta: DuplicadoError
// viaja intacto, todo lo demás se envuelve en RegistroError.
func clasificarFalla(err error, curp *string) error {
	var dup *domain.DuplicadoError
	if errors.As(err, &dup) {
		return err
	}
	c := ""
	if curp != nil {
		c = *curp
	}
	return &domain.RegistroError{CURP: c, Causa: err}
}
