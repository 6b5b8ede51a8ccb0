package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// uniqueViolation devuelve el PgError si err es una violación de constraint
// único (23505), o nil.
func uniqueViolation(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr
	}
	return nil
}

// valorDeCampo devuelve el valor del afiliado para el campo único en
// conflicto ("curp", "rfc" o "nss").
func valorDeCampo(a *entity.Afiliado, campo string) string {
	switch campo {
	case "curp":
		return deref(a.CURP)
	case "rfc":
		return deref(a.RFC)
	case "nss":
		return deref(a.NSS)
	}
	return ""
}

// campoDeConstraint deduce el campo en conflicto a partir del nombre del
// constraint único (afiliados_curp_key, afiliados_rfc_key, ...).
func campoDeConstraint(constraint string) string {
	switch {
	case strings.Contains(constraint, "curp"):
		return "curp"
	case strings.Contains(constraint, "rfc"):
		return "rfc"
	case strings.Contains(constraint, "nss"):
		return "nss"
	}
	return ""
}
