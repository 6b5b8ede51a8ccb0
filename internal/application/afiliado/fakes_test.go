package afiliado_test

import (
	"context"
	"fmt"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
	"github.com/jhoicas/afiliados-api/pkg/logger"
)

// almacenFake es el estado compartido de los repos fake. El tx runner fake
// lo respalda antes de cada callback y lo restaura si esta falla, para que
// los tests observen la semántica de rollback.
type almacenFake struct {
	afiliados   map[int64]*entity.Afiliado
	organicas   []*entity.AfiliadoOrganica
	movimientos []*entity.Movimiento
	historial   []*entity.HistorialEstatus
	quincenas   []*entity.ControlQuincena
	siguienteID int64

	errCreateAfiliado   error
	errCreateOrganica   error
	errCreateMovimiento error
	errCreateHistorial  error
	errUpdateEstatus    error
}

func nuevoAlmacen() *almacenFake {
	return &almacenFake{afiliados: map[int64]*entity.Afiliado{}}
}

func (a *almacenFake) clonar() *almacenFake {
	c := &almacenFake{
		afiliados:   make(map[int64]*entity.Afiliado, len(a.afiliados)),
		siguienteID: a.siguienteID,

		errCreateAfiliado:   a.errCreateAfiliado,
		errCreateOrganica:   a.errCreateOrganica,
		errCreateMovimiento: a.errCreateMovimiento,
		errCreateHistorial:  a.errCreateHistorial,
		errUpdateEstatus:    a.errUpdateEstatus,
	}
	for id, af := range a.afiliados {
		copia := *af
		c.afiliados[id] = &copia
	}
	for _, o := range a.organicas {
		copia := *o
		c.organicas = append(c.organicas, &copia)
	}
	for _, m := range a.movimientos {
		copia := *m
		c.movimientos = append(c.movimientos, &copia)
	}
	for _, h := range a.historial {
		copia := *h
		c.historial = append(c.historial, &copia)
	}
	for _, q := range a.quincenas {
		copia := *q
		c.quincenas = append(c.quincenas, &copia)
	}
	return c
}

func (a *almacenFake) agregarAfiliado(af entity.Afiliado) *entity.Afiliado {
	a.siguienteID++
	af.ID = a.siguienteID
	a.afiliados[af.ID] = &af
	return &af
}

// ── repos ────────────────────────────────────────────────────────────────────

type fakeAfiliadoRepo struct{ alm *almacenFake }

func (r *fakeAfiliadoRepo) Create(_ context.Context, af *entity.Afiliado) error {
	if r.alm.errCreateAfiliado != nil {
		return r.alm.errCreateAfiliado
	}
	creado := r.alm.agregarAfiliado(*af)
	af.ID = creado.ID
	return nil
}

func (r *fakeAfiliadoRepo) GetByID(_ context.Context, id int64) (*entity.Afiliado, error) {
	af, ok := r.alm.afiliados[id]
	if !ok {
		return nil, nil
	}
	copia := *af
	return &copia, nil
}

func (r *fakeAfiliadoRepo) FindDuplicado(_ context.Context, curp, rfc, nss *string) (*repository.Duplicado, error) {
	coincide := func(a, b *string) bool {
		return a != nil && b != nil && *a == *b
	}
	for _, af := range r.alm.afiliados {
		switch {
		case coincide(af.CURP, curp):
			return &repository.Duplicado{Campo: "curp", Valor: *curp, AfiliadoID: af.ID}, nil
		case coincide(af.RFC, rfc):
			return &repository.Duplicado{Campo: "rfc", Valor: *rfc, AfiliadoID: af.ID}, nil
		case coincide(af.NSS, nss):
			return &repository.Duplicado{Campo: "nss", Valor: *nss, AfiliadoID: af.ID}, nil
		}
	}
	return nil, nil
}

func (r *fakeAfiliadoRepo) MaxFolio(_ context.Context) (int64, error) {
	var max int64
	for _, af := range r.alm.afiliados {
		if af.Folio > max {
			max = af.Folio
		}
	}
	return max, nil
}

func (r *fakeAfiliadoRepo) UpdateEstatus(_ context.Context, id int64, estatus int) error {
	if r.alm.errUpdateEstatus != nil {
		return r.alm.errUpdateEstatus
	}
	af, ok := r.alm.afiliados[id]
	if !ok {
		return fmt.Errorf("afiliado %d no existe", id)
	}
	af.NumValidacion = estatus
	return nil
}

func (r *fakeAfiliadoRepo) ListAplicables(_ context.Context, _ entity.OrgScope) ([]*entity.Afiliado, error) {
	var out []*entity.Afiliado
	for _, af := range r.alm.afiliados {
		if af.NumValidacion == entity.EstatusAprobado || af.NumValidacion == entity.EstatusEnRevision {
			copia := *af
			out = append(out, &copia)
		}
	}
	return out, nil
}

type fakeOrganicaRepo struct{ alm *almacenFake }

func (r *fakeOrganicaRepo) Create(_ context.Context, o *entity.AfiliadoOrganica) error {
	if r.alm.errCreateOrganica != nil {
		return r.alm.errCreateOrganica
	}
	copia := *o
	copia.ID = int64(len(r.alm.organicas) + 1)
	r.alm.organicas = append(r.alm.organicas, &copia)
	o.ID = copia.ID
	return nil
}

func (r *fakeOrganicaRepo) GetActivaByAfiliado(_ context.Context, afiliadoID int64) (*entity.AfiliadoOrganica, error) {
	for _, o := range r.alm.organicas {
		if o.AfiliadoID == afiliadoID && o.Activo {
			copia := *o
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeOrganicaRepo) ListByAfiliado(_ context.Context, afiliadoID int64) ([]*entity.AfiliadoOrganica, error) {
	var out []*entity.AfiliadoOrganica
	for _, o := range r.alm.organicas {
		if o.AfiliadoID == afiliadoID {
			copia := *o
			out = append(out, &copia)
		}
	}
	return out, nil
}

type fakeMovimientoRepo struct{ alm *almacenFake }

func (r *fakeMovimientoRepo) Create(_ context.Context, m *entity.Movimiento) error {
	if r.alm.errCreateMovimiento != nil {
		return r.alm.errCreateMovimiento
	}
	copia := *m
	copia.ID = int64(len(r.alm.movimientos) + 1)
	r.alm.movimientos = append(r.alm.movimientos, &copia)
	m.ID = copia.ID
	return nil
}

func (r *fakeMovimientoRepo) GetByID(_ context.Context, id int64) (*entity.Movimiento, error) {
	for _, m := range r.alm.movimientos {
		if m.ID == id {
			copia := *m
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeMovimientoRepo) ListActivosByAfiliado(_ context.Context, afiliadoID int64) ([]*entity.Movimiento, error) {
	var out []*entity.Movimiento
	for _, m := range r.alm.movimientos {
		if m.AfiliadoID == afiliadoID && m.Activo {
			copia := *m
			out = append(out, &copia)
		}
	}
	return out, nil
}

type fakeHistorialRepo struct{ alm *almacenFake }

func (r *fakeHistorialRepo) Create(_ context.Context, h *entity.HistorialEstatus) error {
	if r.alm.errCreateHistorial != nil {
		return r.alm.errCreateHistorial
	}
	copia := *h
	r.alm.historial = append(r.alm.historial, &copia)
	return nil
}

func (r *fakeHistorialRepo) ListByAfiliado(_ context.Context, afiliadoID int64, _, _ int) ([]*entity.HistorialEstatus, error) {
	var out []*entity.HistorialEstatus
	for i := len(r.alm.historial) - 1; i >= 0; i-- {
		if r.alm.historial[i].AfiliadoID == afiliadoID {
			copia := *r.alm.historial[i]
			out = append(out, &copia)
		}
	}
	return out, nil
}

type fakeControlQuincenaRepo struct{ alm *almacenFake }

func (r *fakeControlQuincenaRepo) GetUltima(_ context.Context, _ entity.OrgScope) (*entity.ControlQuincena, error) {
	if len(r.alm.quincenas) == 0 {
		return nil, nil
	}
	copia := *r.alm.quincenas[0]
	return &copia, nil
}

func (r *fakeControlQuincenaRepo) FindAplicar(_ context.Context, _ entity.OrgScope) (*entity.ControlQuincena, error) {
	for _, q := range r.alm.quincenas {
		if q.Accion == entity.AccionAplicar {
			copia := *q
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeControlQuincenaRepo) Create(_ context.Context, c *entity.ControlQuincena) error {
	copia := *c
	copia.ID = int64(len(r.alm.quincenas) + 1)
	r.alm.quincenas = append(r.alm.quincenas, &copia)
	c.ID = copia.ID
	return nil
}

func (r *fakeControlQuincenaRepo) Finalizar(_ context.Context, id int64, accion string, completos bool) error {
	for _, q := range r.alm.quincenas {
		if q.ID == id {
			q.Accion = accion
			q.AfiliadosCompletos = completos
			return nil
		}
	}
	return fmt.Errorf("renglón de quincena %d no existe", id)
}

// ── tx runner ────────────────────────────────────────────────────────────────

// fakeTxRunner respalda el almacén antes del callback y lo restaura si esta
// devuelve error: el equivalente observacional de un rollback.
type fakeTxRunner struct{ alm *almacenFake }

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	repository.AfiliadoRepository,
	repository.OrganicaRepository,
	repository.MovimientoRepository,
	repository.HistorialRepository,
	repository.ControlQuincenaRepository,
) error) error {
	respaldo := t.alm.clonar()
	err := fn(
		&fakeAfiliadoRepo{alm: t.alm},
		&fakeOrganicaRepo{alm: t.alm},
		&fakeMovimientoRepo{alm: t.alm},
		&fakeHistorialRepo{alm: t.alm},
		&fakeControlQuincenaRepo{alm: t.alm},
	)
	if err != nil {
		*t.alm = *respaldo
	}
	return err
}

// ── resolver ─────────────────────────────────────────────────────────────────

type fakeResolver struct {
	quincena int
	anio     int
	err      error
	llamadas int
}

func (r *fakeResolver) Resolve(_ context.Context, _ entity.OrgScope) (int, int, error) {
	r.llamadas++
	if r.err != nil {
		return 0, 0, r.err
	}
	return r.quincena, r.anio, nil
}

func logDePrueba() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}
