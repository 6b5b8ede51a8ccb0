// Package nomina implementa el acceso al motor de nómina (sistema legado).
// El motor atiende una sesión a la vez: el cliente mantiene una sola
// conexión, serializa cada llamada con un mutex y la envuelve en un circuit
// breaker para que un motor caído degrade rápido en lugar de agotar
// timeouts en cada consulta.
package nomina

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/pkg/config"
	"github.com/jhoicas/afiliados-api/pkg/logger"
	"github.com/sony/gobreaker"
)

// Client es el acceso serializado al motor de nómina. La conexión se abre
// bajo demanda y se reintenta en la siguiente llamada si se perdió: la
// indisponibilidad del motor nunca es fatal para el proceso.
type Client struct {
	dsn string
	log *logger.Logger
	cb  *gobreaker.CircuitBreaker

	mu   sync.Mutex
	conn *pgx.Conn
}

// NewClient construye el cliente. No conecta: la primera llamada lo hace.
func NewClient(cfg config.NominaDBConfig, log *logger.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nomina",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("de", from.String()).Str("a", to.String()).
				Msg("circuit breaker de nómina cambió de estado")
		},
	})
	return &Client{dsn: cfg.DSN(), log: log, cb: cb}
}

// QuincenaAplicada devuelve el código de quincena aplicada (QQYY) y la
// fecha de aplicación como cadena, tal cual los reporta el motor.
func (c *Client) QuincenaAplicada(ctx context.Context) (string, string, error) {
	out, err := c.ejecutar(ctx, func(ctx context.Context, conn *pgx.Conn) (any, error) {
		var codigo, fecha string
		err := conn.QueryRow(ctx, `
			SELECT codigo_quincena, fecha_aplicacion::text
			FROM quincena_aplicada
			ORDER BY fecha_aplicacion DESC
			LIMIT 1`).Scan(&codigo, &fecha)
		if err != nil {
			return nil, err
		}
		return [2]string{codigo, fecha}, nil
	})
	if err != nil {
		return "", "", err
	}
	par := out.([2]string)
	return par[0], par[1], nil
}

// BuscarEmpleado busca el id interno del empleado por CURP o RFC.
// Devuelve nil, nil cuando el motor no lo conoce.
func (c *Client) BuscarEmpleado(ctx context.Context, curp, rfc string) (*int64, error) {
	if curp == "" && rfc == "" {
		return nil, nil
	}
	out, err := c.ejecutar(ctx, func(ctx context.Context, conn *pgx.Conn) (any, error) {
		var id int64
		err := conn.QueryRow(ctx, `
			SELECT id_empleado FROM empleados
			WHERE (curp = $1 AND $1 <> '') OR (rfc = $2 AND $2 <> '')
			LIMIT 1`, curp, rfc).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return (*int64)(nil), nil
		}
		if err != nil {
			return nil, err
		}
		return &id, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*int64), nil
}

// ejecutar corre la operación bajo el breaker y con la conexión serializada.
// Toda falla se reporta como ErrNominaNoDisponible con la causa anexa.
func (c *Client) ejecutar(ctx context.Context, op func(ctx context.Context, conn *pgx.Conn) (any, error)) (any, error) {
	out, err := c.cb.Execute(func() (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		conn, err := c.obtenerConn(ctx)
		if err != nil {
			return nil, err
		}
		res, err := op(ctx, conn)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			// Conexión posiblemente rota: soltar para reconectar en la próxima.
			_ = conn.Close(ctx)
			c.conn = nil
		}
		return res, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNominaNoDisponible, err)
	}
	return out, nil
}

// obtenerConn abre la conexión si hace falta. Se llama con el mutex tomado.
func (c *Client) obtenerConn(ctx context.Context) (*pgx.Conn, error) {
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn, nil
	}
	conn, err := pgx.Connect(ctx, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("conectar a nómina: %w", err)
	}
	c.conn = conn
	return conn, nil
}

// Close cierra la conexión al motor, si está abierta.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(ctx)
	c.conn = nil
	return err
}
