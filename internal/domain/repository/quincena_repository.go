package repository

import (
	"context"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// ControlQuincenaRepository define el puerto del libro de quincenas.
// El libro es append-only salvo Finalizar, que cierra un renglón existente.
type ControlQuincenaRepository interface {
	// GetUltima devuelve el renglón autoritativo del ámbito: coincidencia
	// exacta del ámbito, ordenado por anio desc, quincena desc, fecha de
	// registro desc. nil, nil cuando el ámbito no tiene renglones.
	GetUltima(ctx context.Context, scope entity.OrgScope) (*entity.ControlQuincena, error)
	// FindAplicar devuelve el renglón abierto (accion "Aplicar") del ámbito,
	// si existe. Es la guarda de idempotencia contra registros concurrentes.
	FindAplicar(ctx context.Context, scope entity.OrgScope) (*entity.ControlQuincena, error)
	Create(ctx context.Context, c *entity.ControlQuincena) error
	// Finalizar escribe accion y afiliados_completos sobre un renglón.
	Finalizar(ctx context.Context, id int64, accion string, afiliadosCompletos bool) error
}
