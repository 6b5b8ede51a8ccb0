package afiliado

import (
	"context"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén
// primario, pasando repositorios atados a esa tx. Garantiza atomicidad para
// el alta completa y para la aplicación masiva de estatus.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		afiliadoRepo repository.AfiliadoRepository,
		organicaRepo repository.OrganicaRepository,
		movimientoRepo repository.MovimientoRepository,
		historialRepo repository.HistorialRepository,
		quincenaRepo repository.ControlQuincenaRepository,
	) error) error
}

// PeriodResolver resuelve la quincena vigente de un ámbito orgánico.
// Sus consultas al motor de nómina y su registro en el libro de quincenas
// corren FUERA de la transacción del alta: sus fallas degradan a valores de
// respaldo y nunca revierten la escritura primaria.
type PeriodResolver interface {
	Resolve(ctx context.Context, scope entity.OrgScope) (quincena, anio int, err error)
}
