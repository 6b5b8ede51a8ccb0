package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

const movimientoColumnas = `id, afiliado_id, tipo_movimiento_id, quincena_id, sueldo,
		porcentaje, monto, fecha_movimiento, observaciones, activo, fecha_registro`

// MovimientoRepo implementación del puerto MovimientoRepository sobre
// PostgreSQL. La bitácora es append-only: no hay update ni delete.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create inserta un movimiento y captura el id generado.
func (r *MovimientoRepo) Create(ctx context.Context, m *entity.Movimiento) error {
	if m.FechaRegistro.IsZero() {
		m.FechaRegistro = time.Now()
	}
	query := `
		INSERT INTO movimientos (afiliado_id, tipo_movimiento_id, quincena_id, sueldo,
			porcentaje, monto, fecha_movimiento, observaciones, activo, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.AfiliadoID, m.TipoMovimientoID, m.QuincenaID, m.Sueldo,
		m.Porcentaje, m.Monto, m.FechaMovimiento, m.Observaciones,
		m.Activo, m.FechaRegistro,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por id. Devuelve nil, nil si no existe.
func (r *MovimientoRepo) GetByID(ctx context.Context, id int64) (*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumnas + ` FROM movimientos WHERE id = $1`
	m, err := escanearMovimiento(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return m, nil
}

// ListActivosByAfiliado lista los movimientos vigentes del afiliado, del más
// antiguo al más reciente (el orden de aplicación en nómina importa).
func (r *MovimientoRepo) ListActivosByAfiliado(ctx context.Context, afiliadoID int64) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumnas + `
		FROM movimientos WHERE afiliado_id = $1 AND activo
		ORDER BY fecha_registro, id`
	rows, err := r.q.Query(ctx, query, afiliadoID)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimiento
	for rows.Next() {
		m, err := escanearMovimiento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func escanearMovimiento(row pgx.Row) (*entity.Movimiento, error) {
	var m entity.Movimiento
	err := row.Scan(
		&m.ID, &m.AfiliadoID, &m.TipoMovimientoID, &m.QuincenaID, &m.Sueldo,
		&m.Porcentaje, &m.Monto, &m.FechaMovimiento, &m.Observaciones,
		&m.Activo, &m.FechaRegistro,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
