package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
)

var _ repository.ControlQuincenaRepository = (*ControlQuincenaRepo)(nil)

const quincenaColumnas = `id, org0, org1, org2, org3, quincena, anio, accion,
		afiliados_completos, fecha_registro`

// El ámbito se compara con IS NOT DISTINCT FROM para que org2/org3 nulos
// casen solo con nulos: un renglón de ("10","05","002") nunca es adoptado
// por quien resuelve ("10","05").
const quincenaFiltroAmbito = `org0 = $1 AND org1 = $2
		  AND org2 IS NOT DISTINCT FROM $3
		  AND org3 IS NOT DISTINCT FROM $4`

// ControlQuincenaRepo implementación del libro de quincenas sobre PostgreSQL.
type ControlQuincenaRepo struct {
	q Querier
}

// NewControlQuincenaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewControlQuincenaRepository(q Querier) *ControlQuincenaRepo {
	return &ControlQuincenaRepo{q: q}
}

// GetUltima devuelve el renglón autoritativo del ámbito: el más reciente por
// anio, quincena y fecha de registro. nil, nil si el ámbito no tiene renglones.
func (r *ControlQuincenaRepo) GetUltima(ctx context.Context, scope entity.OrgScope) (*entity.ControlQuincena, error) {
	query := `SELECT ` + quincenaColumnas + `
		FROM control_quincenas
		WHERE ` + quincenaFiltroAmbito + `
		ORDER BY anio DESC, quincena DESC, fecha_registro DESC, id DESC
		LIMIT 1`
	c, err := escanearQuincena(r.q.QueryRow(ctx, query, scope.Org0, scope.Org1, scope.Org2, scope.Org3))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ultima quincena: %w", err)
	}
	return c, nil
}

// FindAplicar devuelve el renglón abierto (accion "Aplicar") del ámbito, si
// existe. Guarda de idempotencia del registro de quincenas.
func (r *ControlQuincenaRepo) FindAplicar(ctx context.Context, scope entity.OrgScope) (*entity.ControlQuincena, error) {
	query := `SELECT ` + quincenaColumnas + `
		FROM control_quincenas
		WHERE ` + quincenaFiltroAmbito + ` AND accion = $5
		ORDER BY anio DESC, quincena DESC, fecha_registro DESC, id DESC
		LIMIT 1`
	c, err := escanearQuincena(r.q.QueryRow(ctx, query,
		scope.Org0, scope.Org1, scope.Org2, scope.Org3, entity.AccionAplicar))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find quincena aplicar: %w", err)
	}
	return c, nil
}

// Create inserta un renglón del libro y captura el id generado.
func (r *ControlQuincenaRepo) Create(ctx context.Context, c *entity.ControlQuincena) error {
	if c.FechaRegistro.IsZero() {
		c.FechaRegistro = time.Now()
	}
	query := `
		INSERT INTO control_quincenas (org0, org1, org2, org3, quincena, anio, accion,
			afiliados_completos, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.Org0, c.Org1, c.Org2, c.Org3, c.Quincena, c.Anio, c.Accion,
		c.AfiliadosCompletos, c.FechaRegistro,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert control quincena: %w", err)
	}
	return nil
}

// Finalizar escribe accion y afiliados_completos sobre un renglón existente.
func (r *ControlQuincenaRepo) Finalizar(ctx context.Context, id int64, accion string, afiliadosCompletos bool) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE control_quincenas SET accion = $2, afiliados_completos = $3 WHERE id = $1`,
		id, accion, afiliadosCompletos,
	)
	if err != nil {
		return fmt.Errorf("finalizar quincena: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoEncontrado
	}
	return nil
}

func escanearQuincena(row pgx.Row) (*entity.ControlQuincena, error) {
	var c entity.ControlQuincena
	err := row.Scan(
		&c.ID, &c.Org0, &c.Org1, &c.Org2, &c.Org3, &c.Quincena, &c.Anio,
		&c.Accion, &c.AfiliadosCompletos, &c.FechaRegistro,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
