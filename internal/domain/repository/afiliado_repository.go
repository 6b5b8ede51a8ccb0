package repository

import (
	"context"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// Duplicado describe una colisión de identificadores con un afiliado existente.
type Duplicado struct {
	Campo      string // "curp" | "rfc" | "nss"
	Valor      string
	AfiliadoID int64
}

// AfiliadoRepository define el puerto de persistencia para Afiliado (DIP).
type AfiliadoRepository interface {
	// Create inserta el afiliado y asigna el id generado.
	Create(ctx context.Context, a *entity.Afiliado) error
	// GetByID devuelve nil, nil cuando el afiliado no existe.
	GetByID(ctx context.Context, id int64) (*entity.Afiliado, error)
	// FindDuplicado busca colisión por CURP, RFC o NSS (los nulos no colisionan).
	// Devuelve nil cuando no hay colisión.
	FindDuplicado(ctx context.Context, curp, rfc, nss *string) (*Duplicado, error)
	// MaxFolio devuelve el folio más alto registrado (0 si no hay afiliados).
	MaxFolio(ctx context.Context) (int64, error)
	// UpdateEstatus escribe num_validacion del afiliado.
	UpdateEstatus(ctx context.Context, id int64, estatus int) error
	// ListAplicables lista afiliados vigentes en estatus Aprobado o EnRevision
	// dentro del ámbito orgánico, ordenados por folio.
	ListAplicables(ctx context.Context, scope entity.OrgScope) ([]*entity.Afiliado, error)
}
