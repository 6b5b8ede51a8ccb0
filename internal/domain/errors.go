package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado       = errors.New("recurso no encontrado")
	ErrEntradaInvalida    = errors.New("entrada inválida")
	ErrEstatusInvalido    = errors.New("estatus fuera del catálogo")
	ErrSinOrganica        = errors.New("el usuario no tiene orgánica asignada")
	ErrNominaNoDisponible = errors.New("motor de nómina no disponible")
)

// DuplicadoError indica colisión de CURP, RFC o NSS con un afiliado ya
// registrado. Nombra el campo en conflicto y el id del afiliado existente.
type DuplicadoError struct {
	Campo       string // "curp" | "rfc" | "nss"
	Valor       string
	ExistenteID int64
}

func (e *DuplicadoError) Error() string {
	return fmt.Sprintf("afiliado duplicado: %s %q ya registrado con id %d", e.Campo, e.Valor, e.ExistenteID)
}

// RegistroError envuelve una falla de persistencia inesperada durante el
// alta completa. Siempre sigue a un rollback; conserva la causa original y
// la CURP del intento para diagnóstico.
type RegistroError struct {
	CURP  string
	Causa error
}

func (e *RegistroError) Error() string {
	return fmt.Sprintf("alta de afiliado fallida (curp %q): %v", e.CURP, e.Causa)
}

func (e *RegistroError) Unwrap() error { return e.Causa }
