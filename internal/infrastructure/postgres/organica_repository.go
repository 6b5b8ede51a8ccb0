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

var _ repository.OrganicaRepository = (*OrganicaRepo)(nil)

const organicaColumnas = `id, afiliado_id, org0, org1, org2, org3, sueldo_base,
		sueldo_cotizable, porcentaje_descuento, activo, fecha_registro`

// OrganicaRepo implementación del puerto OrganicaRepository sobre PostgreSQL.
type OrganicaRepo struct {
	q Querier
}

// NewOrganicaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrganicaRepository(q Querier) *OrganicaRepo {
	return &OrganicaRepo{q: q}
}

// Create inserta la adscripción orgánica y captura el id generado.
func (r *OrganicaRepo) Create(ctx context.Context, o *entity.AfiliadoOrganica) error {
	if o.FechaRegistro.IsZero() {
		o.FechaRegistro = time.Now()
	}
	query := `
		INSERT INTO afiliado_organicas (afiliado_id, org0, org1, org2, org3, sueldo_base,
			sueldo_cotizable, porcentaje_descuento, activo, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		o.AfiliadoID, o.Org0, o.Org1, o.Org2, o.Org3, o.SueldoBase,
		o.SueldoCotizable, o.PorcentajeDescuento, o.Activo, o.FechaRegistro,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert organica: %w", err)
	}
	return nil
}

// GetActivaByAfiliado devuelve la adscripción vigente más reciente (nil, nil si no hay).
func (r *OrganicaRepo) GetActivaByAfiliado(ctx context.Context, afiliadoID int64) (*entity.AfiliadoOrganica, error) {
	query := `SELECT ` + organicaColumnas + `
		FROM afiliado_organicas
		WHERE afiliado_id = $1 AND activo
		ORDER BY fecha_registro DESC, id DESC
		LIMIT 1`
	o, err := escanearOrganica(r.q.QueryRow(ctx, query, afiliadoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organica activa: %w", err)
	}
	return o, nil
}

// ListByAfiliado lista todas las adscripciones del afiliado.
func (r *OrganicaRepo) ListByAfiliado(ctx context.Context, afiliadoID int64) ([]*entity.AfiliadoOrganica, error) {
	query := `SELECT ` + organicaColumnas + `
		FROM afiliado_organicas WHERE afiliado_id = $1
		ORDER BY fecha_registro DESC, id DESC`
	rows, err := r.q.Query(ctx, query, afiliadoID)
	if err != nil {
		return nil, fmt.Errorf("list organicas: %w", err)
	}
	defer rows.Close()
	var list []*entity.AfiliadoOrganica
	for rows.Next() {
		o, err := escanearOrganica(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organica: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func escanearOrganica(row pgx.Row) (*entity.AfiliadoOrganica, error) {
	var o entity.AfiliadoOrganica
	err := row.Scan(
		&o.ID, &o.AfiliadoID, &o.Org0, &o.Org1, &o.Org2, &o.Org3,
		&o.SueldoBase, &o.SueldoCotizable, &o.PorcentajeDescuento,
		&o.Activo, &o.FechaRegistro,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
