package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
)

var _ repository.HistorialRepository = (*HistorialRepo)(nil)

// HistorialRepo implementación del historial de estatus sobre PostgreSQL.
// Append-only.
type HistorialRepo struct {
	q Querier
}

// NewHistorialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistorialRepository(q Querier) *HistorialRepo {
	return &HistorialRepo{q: q}
}

// Create inserta un renglón de auditoría.
func (r *HistorialRepo) Create(ctx context.Context, h *entity.HistorialEstatus) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.FechaRegistro.IsZero() {
		h.FechaRegistro = time.Now()
	}
	query := `
		INSERT INTO historial_estatus (id, afiliado_id, estatus_anterior, estatus_nuevo,
			usuario, motivo, observaciones, ip, user_agent, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.AfiliadoID, h.EstatusAnterior, h.EstatusNuevo,
		h.Usuario, h.Motivo, h.Observaciones, h.IP, h.UserAgent, h.FechaRegistro,
	)
	if err != nil {
		return fmt.Errorf("insert historial: %w", err)
	}
	return nil
}

// ListByAfiliado lista del renglón más reciente al más antiguo.
func (r *HistorialRepo) ListByAfiliado(ctx context.Context, afiliadoID int64, limit, offset int) ([]*entity.HistorialEstatus, error) {
	query := `
		SELECT id, afiliado_id, estatus_anterior, estatus_nuevo, usuario, motivo,
			observaciones, ip, user_agent, fecha_registro
		FROM historial_estatus
		WHERE afiliado_id = $1
		ORDER BY fecha_registro DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, afiliadoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list historial: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistorialEstatus
	for rows.Next() {
		var h entity.HistorialEstatus
		if err := rows.Scan(&h.ID, &h.AfiliadoID, &h.EstatusAnterior, &h.EstatusNuevo,
			&h.Usuario, &h.Motivo, &h.Observaciones, &h.IP, &h.UserAgent, &h.FechaRegistro); err != nil {
			return nil, fmt.Errorf("scan historial: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
