package repository

import (
	"context"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// OrganicaRepository define el puerto de persistencia para AfiliadoOrganica.
type OrganicaRepository interface {
	Create(ctx context.Context, o *entity.AfiliadoOrganica) error
	// GetActivaByAfiliado devuelve la adscripción vigente (nil, nil si no hay).
	GetActivaByAfiliado(ctx context.Context, afiliadoID int64) (*entity.AfiliadoOrganica, error)
	ListByAfiliado(ctx context.Context, afiliadoID int64) ([]*entity.AfiliadoOrganica, error)
}
