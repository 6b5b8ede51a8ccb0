package afiliado_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

func metadatosDePrueba() afiliado.TransicionInput {
	return afiliado.TransicionInput{
		Actor:  "usuario-1",
		Motivo: "revisión documental",
		IP:     "10.0.0.1",
	}
}

func TestTransition_ActualizaEstatusYRegistraHistorial(t *testing.T) {
	alm := nuevoAlmacen()
	af := alm.agregarAfiliado(entity.Afiliado{Folio: 1, NumValidacion: entity.EstatusRegistrado})
	uc := afiliado.NewEstatusUseCase(&fakeTxRunner{alm: alm}, logDePrueba())

	hist, err := uc.Transition(context.Background(), af.ID, entity.EstatusAprobado, metadatosDePrueba())

	require.NoError(t, err)
	assert.Equal(t, entity.EstatusAprobado, alm.afiliados[af.ID].NumValidacion)
	require.Len(t, alm.historial, 1, "cada transición deja exactamente un renglón de historial")
	assert.Equal(t, entity.EstatusRegistrado, hist.EstatusAnterior)
	assert.Equal(t, entity.EstatusAprobado, hist.EstatusNuevo)
	assert.Equal(t, "usuario-1", hist.Usuario)
	assert.NotEmpty(t, hist.ID)
}

func TestTransition_EstatusFueraDeCatalogo(t *testing.T) {
	alm := nuevoAlmacen()
	af := alm.agregarAfiliado(entity.Afiliado{NumValidacion: entity.EstatusRegistrado})
	uc := afiliado.NewEstatusUseCase(&fakeTxRunner{alm: alm}, logDePrueba())

	for _, estatus := range []int{0, -1, 8, 100} {
		_, err := uc.Transition(context.Background(), af.ID, estatus, metadatosDePrueba())
		assert.ErrorIs(t, err, domain.ErrEstatusInvalido, "estatus %d", estatus)
	}
	assert.Empty(t, alm.historial, "ninguna transición inválida deja historial")
}

func TestTransition_AfiliadoInexistente(t *testing.T) {
	uc := afiliado.NewEstatusUseCase(&fakeTxRunner{alm: nuevoAlmacen()}, logDePrueba())

	_, err := uc.Transition(context.Background(), 999, entity.EstatusAprobado, metadatosDePrueba())

	assert.ErrorIs(t, err, domain.ErrNoEncontrado)
}

// Ningún estado del catálogo es terminal: las 7×7 combinaciones son válidas
// y cada una deja su renglón de historial con el par (anterior, nuevo).
func TestTransition_CoberturaTotalDelCatalogo(t *testing.T) {
	for desde := entity.EstatusRegistrado; desde <= entity.EstatusAplicadoNomina; desde++ {
		for hacia := entity.EstatusRegistrado; hacia <= entity.EstatusAplicadoNomina; hacia++ {
			t.Run(fmt.Sprintf("%d_a_%d", desde, hacia), func(t *testing.T) {
				alm := nuevoAlmacen()
				af := alm.agregarAfiliado(entity.Afiliado{NumValidacion: desde})
				uc := afiliado.NewEstatusUseCase(&fakeTxRunner{alm: alm}, logDePrueba())

				hist, err := uc.Transition(context.Background(), af.ID, hacia, metadatosDePrueba())

				require.NoError(t, err)
				assert.Equal(t, hacia, alm.afiliados[af.ID].NumValidacion)
				assert.Equal(t, desde, hist.EstatusAnterior)
				assert.Equal(t, hacia, hist.EstatusNuevo)
			})
		}
	}
}

// Si el renglón de historial no puede escribirse, la transacción revierte y
// el estatus del afiliado queda intacto.
func TestTransition_FallaDeHistorialRevierteEstatus(t *testing.T) {
	alm := nuevoAlmacen()
	af := alm.agregarAfiliado(entity.Afiliado{NumValidacion: entity.EstatusRegistrado})
	alm.errCreateHistorial = fmt.Errorf("tabla de historial llena")
	uc := afiliado.NewEstatusUseCase(&fakeTxRunner{alm: alm}, logDePrueba())

	_, err := uc.Transition(context.Background(), af.ID, entity.EstatusAprobado, metadatosDePrueba())

	require.Error(t, err)
	assert.Equal(t, entity.EstatusRegistrado, alm.afiliados[af.ID].NumValidacion,
		"el estatus no debe cambiar sin su renglón de historial")
	assert.Empty(t, alm.historial)
}

// La transición masiva procesa cada id de forma independiente: el id
// inexistente falla en su renglón y los demás se aplican.
func TestTransitionBatch_AislamientoPorAfiliado(t *testing.T) {
	alm := nuevoAlmacen()
	a1 := alm.agregarAfiliado(entity.Afiliado{NumValidacion: entity.EstatusRegistrado})
	a2 := alm.agregarAfiliado(entity.Afiliado{NumValidacion: entity.EstatusRegistrado})
	uc := afiliado.NewEstatusUseCase(&fakeTxRunner{alm: alm}, logDePrueba())

	resultados := uc.TransitionBatch(context.Background(), []int64{a1.ID, 999, a2.ID}, entity.EstatusAprobado, metadatosDePrueba())

	require.Len(t, resultados, 3)
	assert.True(t, resultados[0].OK)
	assert.False(t, resultados[1].OK)
	assert.NotEmpty(t, resultados[1].Error)
	assert.True(t, resultados[2].OK)
	assert.Equal(t, entity.EstatusAprobado, alm.afiliados[a1.ID].NumValidacion)
	assert.Equal(t, entity.EstatusAprobado, alm.afiliados[a2.ID].NumValidacion)
	assert.Len(t, alm.historial, 2)
}
