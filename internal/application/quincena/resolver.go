// Package quincena resuelve la quincena vigente de cada ámbito orgánico,
// manteniendo el libro de control sincronizado con el calendario del motor
// de nómina.
package quincena

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
	"github.com/jhoicas/afiliados-api/pkg/logger"
)

// NominaClient consulta el motor de nómina (sistema legado).
type NominaClient interface {
	// QuincenaAplicada devuelve el código de quincena aplicada (formato QQYY)
	// y la fecha de aplicación como cadena.
	QuincenaAplicada(ctx context.Context) (codigo string, fecha string, err error)
}

// Resolver calcula y registra la quincena vigente por ámbito orgánico.
//
// Cadena de resolución: libro de control → motor de nómina → respaldo
// (quincena 1 del año en curso). El registro de una quincena nueva usa la
// guarda insertar-o-adoptar: si otro llamador ya abrió un renglón "Aplicar"
// para el ámbito, se adopta su (quincena, anio) en lugar de insertar.
type Resolver struct {
	quincenaRepo repository.ControlQuincenaRepository
	nomina       NominaClient
	log          *logger.Logger
	ahora        func() time.Time // reloj inyectable para pruebas
}

// NewResolver construye el resolver.
func NewResolver(quincenaRepo repository.ControlQuincenaRepository, nomina NominaClient, log *logger.Logger) *Resolver {
	return &Resolver{
		quincenaRepo: quincenaRepo,
		nomina:       nomina,
		log:          log,
		ahora:        time.Now,
	}
}

// Resolve devuelve la (quincena, anio) vigente para el ámbito.
//
//  1. El renglón autoritativo del libro manda: si existe y no está
//     "Completa", se reutiliza sin registrar nada.
//  2. "Completa" avanza a la siguiente quincena (la 24 rueda al año nuevo).
//  3. Sin renglones, la quincena inicial sale del motor de nómina, con
//     respaldo a (1, año en curso) si el motor no responde.
//
// Cualquier falla del paso de registro se anota y se traga: nunca debe
// tumbar la operación primaria del llamador.
func (r *Resolver) Resolve(ctx context.Context, scope entity.OrgScope) (int, int, error) {
	ultima, err := r.quincenaRepo.GetUltima(ctx, scope)
	if err != nil {
		return 0, 0, fmt.Errorf("consultar libro de quincenas: %w", err)
	}

	var quincena, anio int
	switch {
	case ultima == nil:
		quincena, anio = r.quincenaInicial(ctx)
	case ultima.Accion == entity.AccionCompleta:
		quincena, anio = entity.SiguienteQuincena(ultima.Quincena, ultima.Anio)
	default:
		return ultima.Quincena, ultima.Anio, nil
	}

	quincena, anio = r.registrar(ctx, scope, quincena, anio)
	return quincena, anio, nil
}

// Actual devuelve el renglón autoritativo del libro para el ámbito.
func (r *Resolver) Actual(ctx context.Context, scope entity.OrgScope) (*entity.ControlQuincena, error) {
	ultima, err := r.quincenaRepo.GetUltima(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("consultar libro de quincenas: %w", err)
	}
	if ultima == nil {
		return nil, domain.ErrNoEncontrado
	}
	return ultima, nil
}

// quincenaInicial consulta la quincena aplicada en el motor de nómina.
// El año del código (sufijo YY) y el año de la fecha vienen de fuentes
// independientes; si el de la fecha es plausible (2000..2100) se prefiere.
func (r *Resolver) quincenaInicial(ctx context.Context) (int, int) {
	codigo, fecha, err := r.nomina.QuincenaAplicada(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("nómina no disponible, usando quincena 1 del año en curso")
		return 1, r.ahora().Year()
	}
	quincena, anioCodigo, err := DecodificarQuincena(codigo)
	if err != nil {
		r.log.Warn().Err(err).Str("codigo", codigo).Msg("código de quincena ilegible, usando respaldo")
		return 1, r.ahora().Year()
	}
	anio := anioCodigo
	if anioFecha, ok := anioDeFecha(fecha); ok {
		anio = anioFecha
	}
	return quincena, anio
}

// registrar abre el renglón "Aplicar" de una quincena recién calculada,
// adoptando el renglón de un llamador concurrente si ya existe.
func (r *Resolver) registrar(ctx context.Context, scope entity.OrgScope, quincena, anio int) (int, int) {
	existente, err := r.quincenaRepo.FindAplicar(ctx, scope)
	if err != nil {
		r.log.Warn().Err(err).Msg("no se pudo verificar quincena abierta; se omite el registro")
		return quincena, anio
	}
	if existente != nil {
		return existente.Quincena, existente.Anio
	}
	nueva := &entity.ControlQuincena{
		Org0:          scope.Org0,
		Org1:          scope.Org1,
		Org2:          scope.Org2,
		Org3:          scope.Org3,
		Quincena:      quincena,
		Anio:          anio,
		Accion:        entity.AccionAplicar,
		FechaRegistro: r.ahora(),
	}
	if err := r.quincenaRepo.Create(ctx, nueva); err != nil {
		r.log.Warn().Err(err).
			Int("quincena", quincena).Int("anio", anio).
			Msg("no se pudo registrar la quincena; la operación primaria continúa")
	}
	return quincena, anio
}

// DecodificarQuincena descompone el código QQYY del motor de nómina:
// dos dígitos de quincena y dos de sufijo de año ("0924" → 9, 2024).
func DecodificarQuincena(codigo string) (quincena, anio int, err error) {
	codigo = strings.TrimSpace(codigo)
	if len(codigo) != 4 {
		return 0, 0, fmt.Errorf("código de quincena %q: se esperan 4 dígitos QQYY", codigo)
	}
	quincena, err = strconv.Atoi(codigo[:2])
	if err != nil {
		return 0, 0, fmt.Errorf("código de quincena %q: %w", codigo, err)
	}
	sufijo, err := strconv.Atoi(codigo[2:])
	if err != nil {
		return 0, 0, fmt.Errorf("código de quincena %q: %w", codigo, err)
	}
	if quincena < 1 || quincena > entity.QuincenasPorAnio {
		return 0, 0, fmt.Errorf("código de quincena %q: quincena %d fuera de rango", codigo, quincena)
	}
	return quincena, 2000 + sufijo, nil
}

// Formatos de fecha que reporta el motor de nómina según su configuración
// regional; el formato exacto no está garantizado.
var formatosFecha = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
}

// anioDeFecha extrae el año de la fecha reportada por nómina. Devuelve
// ok=false cuando la fecha es ilegible o su año no es plausible.
func anioDeFecha(fecha string) (int, bool) {
	fecha = strings.TrimSpace(fecha)
	for _, layout := range formatosFecha {
		t, err := time.Parse(layout, fecha)
		if err != nil {
			continue
		}
		if t.Year() >= 2000 && t.Year() <= 2100 {
			return t.Year(), true
		}
		return 0, false
	}
	return 0, false
}
