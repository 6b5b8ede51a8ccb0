package repository

import (
	"context"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// HistorialRepository define el puerto del historial de estatus (append-only).
type HistorialRepository interface {
	Create(ctx context.Context, h *entity.HistorialEstatus) error
	// ListByAfiliado lista del renglón más reciente al más antiguo.
	ListByAfiliado(ctx context.Context, afiliadoID int64, limit, offset int) ([]*entity.HistorialEstatus, error)
}
