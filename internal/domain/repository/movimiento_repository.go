package repository

import (
	"context"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// MovimientoRepository define el puerto de persistencia para la bitácora de
// movimientos (append-only).
type MovimientoRepository interface {
	Create(ctx context.Context, m *entity.Movimiento) error
	GetByID(ctx context.Context, id int64) (*entity.Movimiento, error)
	// ListActivosByAfiliado lista los movimientos vigentes del afiliado,
	// del más antiguo al más reciente.
	ListActivosByAfiliado(ctx context.Context, afiliadoID int64) ([]*entity.Movimiento, error)
}
