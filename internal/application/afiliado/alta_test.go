package afiliado_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

func ptr(s string) *string { return &s }

func entradaDeAlta() afiliado.AltaCompletaInput {
	return afiliado.AltaCompletaInput{
		Afiliado: entity.Afiliado{
			CURP:            ptr("GARC800101HDFABC01"),
			RFC:             ptr("GARC800101XX1"),
			Nombre:          "Laura",
			ApellidoPaterno: "García",
		},
		Organica: entity.AfiliadoOrganica{
			Org0:            "SECC-01",
			Org1:            "DEL-05",
			SueldoBase:      decimal.RequireFromString("18000"),
			SueldoCotizable: decimal.RequireFromString("15000"),
		},
	}
}

func nuevaAltaUC(alm *almacenFake, resolver *fakeResolver) *afiliado.AltaUseCase {
	return afiliado.NewAltaUseCase(
		&fakeTxRunner{alm: alm},
		&fakeAfiliadoRepo{alm: alm},
		resolver,
		logDePrueba(),
	)
}

func TestAltaCompleta_CreaLasTresPiezas(t *testing.T) {
	alm := nuevoAlmacen()
	alm.agregarAfiliado(entity.Afiliado{Folio: 41}) // folio más alto existente
	resolver := &fakeResolver{quincena: 9, anio: 2024}
	uc := nuevaAltaUC(alm, resolver)

	res, err := uc.AltaCompleta(context.Background(), entradaDeAlta())

	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Afiliado.Folio, "folio consecutivo: max existente + 1")
	assert.Equal(t, entity.EstatusRegistrado, res.Afiliado.NumValidacion)
	assert.Equal(t, 9, res.Afiliado.QuincenaAplicacion)
	assert.Equal(t, 2024, res.Afiliado.AnioAplicacion)

	require.NotNil(t, res.Organica)
	assert.True(t, res.Organica.Activo)
	assert.Equal(t, res.Afiliado.ID, res.Organica.AfiliadoID)

	require.NotNil(t, res.Movimiento)
	assert.Equal(t, entity.MovimientoAlta, res.Movimiento.TipoMovimientoID)
	assert.Equal(t, "2024-09", res.Movimiento.QuincenaID)

	assert.Len(t, alm.organicas, 1)
	assert.Len(t, alm.movimientos, 1)
	assert.Equal(t, 1, resolver.llamadas)
}

func TestAltaCompleta_RespetaQuincenaExplicita(t *testing.T) {
	alm := nuevoAlmacen()
	resolver := &fakeResolver{quincena: 9, anio: 2024}
	uc := nuevaAltaUC(alm, resolver)

	in := entradaDeAlta()
	in.Afiliado.QuincenaAplicacion = 3
	in.Afiliado.AnioAplicacion = 2025

	res, err := uc.AltaCompleta(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Afiliado.QuincenaAplicacion)
	assert.Equal(t, 2025, res.Afiliado.AnioAplicacion)
	assert.Zero(t, resolver.llamadas, "con quincena explícita el resolver no se consulta")
	assert.Equal(t, "2025-03", res.Movimiento.QuincenaID)
}

// El duplicado se detecta antes de abrir la transacción y viaja intacto
// hasta el llamador, con el campo en conflicto y el id del existente.
func TestAltaCompleta_CURPDuplicada(t *testing.T) {
	alm := nuevoAlmacen()
	existente := alm.agregarAfiliado(entity.Afiliado{Folio: 1, CURP: ptr("GARC800101HDFABC01")})
	uc := nuevaAltaUC(alm, &fakeResolver{quincena: 9, anio: 2024})

	_, err := uc.AltaCompleta(context.Background(), entradaDeAlta())

	var dup *domain.DuplicadoError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "curp", dup.Campo)
	assert.Equal(t, "GARC800101HDFABC01", dup.Valor)
	assert.Equal(t, existente.ID, dup.ExistenteID)

	assert.Len(t, alm.afiliados, 1, "no se insertó un segundo afiliado")
	assert.Empty(t, alm.organicas)
	assert.Empty(t, alm.movimientos)
}

// Una colisión detectada dentro de la transacción (violación de unicidad
// que el repo traduce) también viaja intacta, sin envolverse.
func TestAltaCompleta_DuplicadoDentroDeTxViajaIntacto(t *testing.T) {
	alm := nuevoAlmacen()
	alm.errCreateAfiliado = &domain.DuplicadoError{Campo: "rfc", Valor: "GARC800101XX1", ExistenteID: 7}
	uc := nuevaAltaUC(alm, &fakeResolver{quincena: 9, anio: 2024})

	_, err := uc.AltaCompleta(context.Background(), entradaDeAlta())

	var dup *domain.DuplicadoError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "rfc", dup.Campo)
	var reg *domain.RegistroError
	assert.False(t, errors.As(err, &reg), "DuplicadoError nunca se envuelve en RegistroError")
}

// Cualquier otra falla dentro de la transacción revierte las tres piezas y
// se reporta como RegistroError con la CURP del intento.
func TestAltaCompleta_FallaDelMovimientoRevierteTodo(t *testing.T) {
	alm := nuevoAlmacen()
	alm.errCreateMovimiento = fmt.Errorf("violación de llave foránea")
	uc := nuevaAltaUC(alm, &fakeResolver{quincena: 9, anio: 2024})

	_, err := uc.AltaCompleta(context.Background(), entradaDeAlta())

	var reg *domain.RegistroError
	require.ErrorAs(t, err, &reg)
	assert.Equal(t, "GARC800101HDFABC01", reg.CURP)
	assert.ErrorContains(t, reg.Causa, "llave foránea", "la causa original se conserva para diagnóstico")

	assert.Empty(t, alm.afiliados, "el afiliado se revirtió")
	assert.Empty(t, alm.organicas, "la orgánica se revirtió")
	assert.Empty(t, alm.movimientos)
}

func TestAltaCompleta_FallaDelResolverRevierte(t *testing.T) {
	alm := nuevoAlmacen()
	uc := nuevaAltaUC(alm, &fakeResolver{err: fmt.Errorf("libro de quincenas inaccesible")})

	_, err := uc.AltaCompleta(context.Background(), entradaDeAlta())

	var reg *domain.RegistroError
	require.ErrorAs(t, err, &reg)
	assert.Empty(t, alm.afiliados)
}

func TestAltaCompleta_ValidacionDeEntrada(t *testing.T) {
	uc := nuevaAltaUC(nuevoAlmacen(), &fakeResolver{quincena: 1, anio: 2024})

	sinNombre := entradaDeAlta()
	sinNombre.Afiliado.Nombre = ""
	_, err := uc.AltaCompleta(context.Background(), sinNombre)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)

	sinAmbito := entradaDeAlta()
	sinAmbito.Organica.Org1 = ""
	_, err = uc.AltaCompleta(context.Background(), sinAmbito)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestAlta_SoloAfiliadoYOrganica(t *testing.T) {
	alm := nuevoAlmacen()
	uc := nuevaAltaUC(alm, &fakeResolver{quincena: 9, anio: 2024})

	in := entradaDeAlta()
	res, err := uc.Alta(context.Background(), in.Afiliado, in.Organica)

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Afiliado.Folio)
	assert.Len(t, alm.organicas, 1)
	assert.Empty(t, alm.movimientos, "el alta simple no registra movimiento")
}
