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

var _ repository.AfiliadoRepository = (*AfiliadoRepo)(nil)

const afiliadoColumnas = `id, folio, curp, rfc, nss, nombre, apellido_paterno, apellido_materno,
		fecha_nacimiento, sexo, email, telefono, num_validacion, quincena_aplicacion,
		anio_aplicacion, empleado_nomina_id, fecha_registro, fecha_actualizacion`

// AfiliadoRepo implementación del puerto AfiliadoRepository sobre PostgreSQL
// (usable con pool o tx).
type AfiliadoRepo struct {
	q Querier
}

// NewAfiliadoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAfiliadoRepository(q Querier) *AfiliadoRepo {
	return &AfiliadoRepo{q: q}
}

// Create inserta el afiliado y captura el id generado. Una violación de
// unicidad en curp/rfc/nss se traduce a DuplicadoError.
func (r *AfiliadoRepo) Create(ctx context.Context, a *entity.Afiliado) error {
	if a.FechaRegistro.IsZero() {
		a.FechaRegistro = time.Now()
	}
	a.FechaActualizacion = a.FechaRegistro
	query := `
		INSERT INTO afiliados (folio, curp, rfc, nss, nombre, apellido_paterno, apellido_materno,
			fecha_nacimiento, sexo, email, telefono, num_validacion, quincena_aplicacion,
			anio_aplicacion, empleado_nomina_id, fecha_registro, fecha_actualizacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		a.Folio, a.CURP, a.RFC, a.NSS, a.Nombre, a.ApellidoPaterno, a.ApellidoMaterno,
		a.FechaNacimiento, a.Sexo, a.Email, a.Telefono, a.NumValidacion,
		a.QuincenaAplicacion, a.AnioAplicacion, a.EmpleadoNominaID,
		a.FechaRegistro, a.FechaActualizacion,
	).Scan(&a.ID)
	if err != nil {
		if pgErr := uniqueViolation(err); pgErr != nil {
			campo := campoDeConstraint(pgErr.ConstraintName)
			if campo != "" {
				return &domain.DuplicadoError{Campo: campo, Valor: valorDeCampo(a, campo)}
			}
		}
		return fmt.Errorf("insert afiliado: %w", err)
	}
	return nil
}

// GetByID obtiene un afiliado por id. Devuelve nil, nil si no existe.
func (r *AfiliadoRepo) GetByID(ctx context.Context, id int64) (*entity.Afiliado, error) {
	query := `SELECT ` + afiliadoColumnas + ` FROM afiliados WHERE id = $1`
	a, err := r.escanear(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get afiliado: %w", err)
	}
	return a, nil
}

// FindDuplicado busca colisión por CURP, RFC o NSS. Los parámetros nulos
// nunca colisionan (curp = NULL jamás es verdadero en SQL).
func (r *AfiliadoRepo) FindDuplicado(ctx context.Context, curp, rfc, nss *string) (*repository.Duplicado, error) {
	query := `
		SELECT id,
			CASE
				WHEN curp = $1 THEN 'curp'
				WHEN rfc  = $2 THEN 'rfc'
				ELSE 'nss'
			END AS campo
		FROM afiliados
		WHERE curp = $1 OR rfc = $2 OR nss = $3
		LIMIT 1`
	var d repository.Duplicado
	err := r.q.QueryRow(ctx, query, curp, rfc, nss).Scan(&d.AfiliadoID, &d.Campo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar duplicado: %w", err)
	}
	switch d.Campo {
	case "curp":
		d.Valor = deref(curp)
	case "rfc":
		d.Valor = deref(rfc)
	case "nss":
		d.Valor = deref(nss)
	}
	return &d, nil
}

// MaxFolio devuelve el folio más alto registrado (0 sin afiliados).
// La asignación max+1 corre dentro de la tx de alta; la ventana de carrera
// entre lecturas concurrentes es aceptada.
func (r *AfiliadoRepo) MaxFolio(ctx context.Context) (int64, error) {
	var max int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(folio), 0) FROM afiliados`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max folio: %w", err)
	}
	return max, nil
}

// UpdateEstatus escribe num_validacion y la fecha de actualización.
func (r *AfiliadoRepo) UpdateEstatus(ctx context.Context, id int64, estatus int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE afiliados SET num_validacion = $2, fecha_actualizacion = $3 WHERE id = $1`,
		id, estatus, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update estatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoEncontrado
	}
	return nil
}

// ListAplicables lista afiliados con adscripción vigente en el ámbito y
// estatus Aprobado o EnRevision, ordenados por folio.
func (r *AfiliadoRepo) ListAplicables(ctx context.Context, scope entity.OrgScope) ([]*entity.Afiliado, error) {
	query := `
		SELECT ` + columnasConAlias("a") + `
		FROM afiliados a
		JOIN afiliado_organicas o ON o.afiliado_id = a.id AND o.activo
		WHERE a.num_validacion IN ($1, $2)
		  AND o.org0 = $3 AND o.org1 = $4
		  AND o.org2 IS NOT DISTINCT FROM $5
		  AND o.org3 IS NOT DISTINCT FROM $6
		ORDER BY a.folio`
	rows, err := r.q.Query(ctx, query,
		entity.EstatusAprobado, entity.EstatusEnRevision,
		scope.Org0, scope.Org1, scope.Org2, scope.Org3,
	)
	if err != nil {
		return nil, fmt.Errorf("list aplicables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Afiliado
	for rows.Next() {
		a, err := r.escanear(rows)
		if err != nil {
			return nil, fmt.Errorf("scan afiliado: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AfiliadoRepo) escanear(row pgx.Row) (*entity.Afiliado, error) {
	var a entity.Afiliado
	err := row.Scan(
		&a.ID, &a.Folio, &a.CURP, &a.RFC, &a.NSS, &a.Nombre, &a.ApellidoPaterno,
		&a.ApellidoMaterno, &a.FechaNacimiento, &a.Sexo, &a.Email, &a.Telefono,
		&a.NumValidacion, &a.QuincenaAplicacion, &a.AnioAplicacion,
		&a.EmpleadoNominaID, &a.FechaRegistro, &a.FechaActualizacion,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func columnasConAlias(alias string) string {
	return alias + `.id, ` + alias + `.folio, ` + alias + `.curp, ` + alias + `.rfc, ` +
		alias + `.nss, ` + alias + `.nombre, ` + alias + `.apellido_paterno, ` +
		alias + `.apellido_materno, ` + alias + `.fecha_nacimiento, ` + alias + `.sexo, ` +
		alias + `.email, ` + alias + `.telefono, ` + alias + `.num_validacion, ` +
		alias + `.quincena_aplicacion, ` + alias + `.anio_aplicacion, ` +
		alias + `.empleado_nomina_id, ` + alias + `.fecha_registro, ` + alias + `.fecha_actualizacion`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
