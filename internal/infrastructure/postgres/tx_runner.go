package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
)

// Ensure TxRunner implements afiliado.TxRunner.
var _ afiliado.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los errores del callback se propagan sin envolver para
// que el caso de uso pueda reconocerlos con errors.As.
func (r *TxRunner) Run(ctx context.Context, fn func(
	afiliadoRepo repository.AfiliadoRepository,
	organicaRepo repository.OrganicaRepository,
	movimientoRepo repository.MovimientoRepository,
	historialRepo repository.HistorialRepository,
	quincenaRepo repository.ControlQuincenaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	afiliadoRepo := NewAfiliadoRepository(tx)
	organicaRepo := NewOrganicaRepository(tx)
	movimientoRepo := NewMovimientoRepository(tx)
	historialRepo := NewHistorialRepository(tx)
	quincenaRepo := NewControlQuincenaRepository(tx)

	if err := fn(afiliadoRepo, organicaRepo, movimientoRepo, historialRepo, quincenaRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
