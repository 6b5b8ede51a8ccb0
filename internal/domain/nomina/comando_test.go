package nomina_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/nomina"
)

// ──────────────────────────────────────────────────────────────────────────────
// FormatearValor: la regla de literales del motor de nómina debe reproducirse
// byte a byte; la vista previa y la ejecución tienen que coincidir.
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatearValor_NuloProduceNULL(t *testing.T) {
	assert.Equal(t, "NULL", nomina.FormatearValor(nil, nomina.TipoCadena))

	var s *string
	assert.Equal(t, "NULL", nomina.FormatearValor(s, nomina.TipoCadena),
		"un puntero tipado nil también es nulo")

	var d *decimal.Decimal
	assert.Equal(t, "NULL", nomina.FormatearValor(d, nomina.TipoNumero))

	var n *int64
	assert.Equal(t, "NULL", nomina.FormatearValor(n, nomina.TipoNumero))
}

func TestFormatearValor_Numericos(t *testing.T) {
	assert.Equal(t, "5", nomina.FormatearValor(5, nomina.TipoNumero))
	assert.Equal(t, "2024", nomina.FormatearValor(int64(2024), nomina.TipoNumero))

	d := decimal.RequireFromString("12500.50")
	assert.Equal(t, "12500.5", nomina.FormatearValor(d, nomina.TipoNumero))
	assert.Equal(t, "12500.5", nomina.FormatearValor(&d, nomina.TipoNumero))
}

func TestFormatearValor_CadenasConComillas(t *testing.T) {
	assert.Equal(t, "'texto'", nomina.FormatearValor("texto", nomina.TipoCadena))
	assert.Equal(t, "'O''Brien'", nomina.FormatearValor("O'Brien", nomina.TipoCadena),
		"las comillas simples internas se duplican")
	assert.Equal(t, "''", nomina.FormatearValor("", nomina.TipoCadena),
		"cadena vacía no es NULL: se renderiza como ''")
	assert.Equal(t, "'2024-05-01'", nomina.FormatearValor("2024-05-01", nomina.TipoFecha),
		"las fechas se renderizan entrecomilladas como cadenas")
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerarComandoMovimiento
// ──────────────────────────────────────────────────────────────────────────────

func afiliadoDePrueba() *entity.Afiliado {
	curp := "GARC800101HDFABC01"
	rfc := "GARC800101XX1"
	emp := int64(4410)
	return &entity.Afiliado{
		ID:               1,
		Folio:            100,
		CURP:             &curp,
		RFC:              &rfc,
		Nombre:           "Laura",
		ApellidoPaterno:  "García",
		ApellidoMaterno:  "Núñez",
		EmpleadoNominaID: &emp,
	}
}

func organicaDePrueba() *entity.AfiliadoOrganica {
	return &entity.AfiliadoOrganica{
		AfiliadoID:      1,
		Org0:            "SECC-01",
		Org1:            "DEL-05",
		SueldoBase:      decimal.RequireFromString("18000.00"),
		SueldoCotizable: decimal.RequireFromString("15000.00"),
		Activo:          true,
	}
}

func TestGenerarComandoMovimiento_SueldoValido(t *testing.T) {
	sueldo := decimal.RequireFromString("16500.00")
	mov := &entity.Movimiento{
		ID:               7,
		AfiliadoID:       1,
		TipoMovimientoID: entity.MovimientoModificacionSueldo,
		QuincenaID:       "2024-09",
		Sueldo:           &sueldo,
	}

	cmd := nomina.GenerarComandoMovimiento(mov, afiliadoDePrueba(), organicaDePrueba())

	assert.True(t, cmd.ListoParaEjecutar, "todas las validaciones deben pasar: %v", cmd.Errores)
	assert.Empty(t, cmd.Errores)
	require.Len(t, cmd.Parametros, 9)
	assert.Equal(t, "4410", cmd.Parametros[0], "id del empleado en nómina")
	assert.Equal(t, "5", cmd.Parametros[1], "tipo de movimiento")
	assert.Equal(t, "9", cmd.Parametros[2], "quincena descompuesta de AAAA-QQ")
	assert.Equal(t, "2024", cmd.Parametros[3], "año descompuesto de AAAA-QQ")
	assert.Equal(t, "16500", cmd.Parametros[4])
	assert.Equal(t, "NULL", cmd.Parametros[5], "porcentaje ausente")
	assert.Equal(t, "NULL", cmd.Parametros[7], "fecha ausente es válida en sueldo")
	assert.True(t, strings.HasPrefix(cmd.SQL, "EXECUTE PROCEDURE editar_empleado("), "SQL: %s", cmd.SQL)
}

// El SQL se renderiza aunque haya validaciones fallidas: el operador debe
// poder inspeccionar el comando que se habría ejecutado.
func TestGenerarComandoMovimiento_RenderizaAunqueFalle(t *testing.T) {
	mov := &entity.Movimiento{
		TipoMovimientoID: 99, // fuera del catálogo
		QuincenaID:       "sin-formato",
	}

	cmd := nomina.GenerarComandoMovimiento(mov, afiliadoDePrueba(), organicaDePrueba())

	assert.False(t, cmd.ListoParaEjecutar)
	assert.NotEmpty(t, cmd.Errores)
	assert.NotEmpty(t, cmd.SQL, "el comando se renderiza igual para vista previa")
	assert.Contains(t, cmd.SQL, "editar_empleado(")
}

func TestGenerarComandoMovimiento_CatalogoDeValidaciones(t *testing.T) {
	fechaRemota := time.Date(1890, 1, 1, 0, 0, 0, 0, time.UTC)
	porcentajeAlto := decimal.RequireFromString("150")
	casos := []struct {
		nombre     string
		mov        entity.Movimiento
		org        *entity.AfiliadoOrganica
		reglaFalla string
	}{
		{
			nombre:     "baja sin fecha efectiva",
			mov:        entity.Movimiento{TipoMovimientoID: entity.MovimientoBajaDefinitiva, QuincenaID: "2024-09"},
			org:        organicaDePrueba(),
			reglaFalla: nomina.ValidacionDatosMovimiento,
		},
		{
			nombre:     "quincena fuera de rango",
			mov:        entity.Movimiento{TipoMovimientoID: entity.MovimientoSuspension, QuincenaID: "2024-25", FechaMovimiento: ptrFecha(2024, 5, 1)},
			org:        organicaDePrueba(),
			reglaFalla: nomina.ValidacionQuincena,
		},
		{
			nombre:     "año implausible en quincena",
			mov:        entity.Movimiento{TipoMovimientoID: entity.MovimientoSuspension, QuincenaID: "1890-09", FechaMovimiento: ptrFecha(2024, 5, 1)},
			org:        organicaDePrueba(),
			reglaFalla: nomina.ValidacionQuincena,
		},
		{
			nombre:     "fecha implausible",
			mov:        entity.Movimiento{TipoMovimientoID: entity.MovimientoSuspension, QuincenaID: "2024-09", FechaMovimiento: &fechaRemota},
			org:        organicaDePrueba(),
			reglaFalla: nomina.ValidacionFecha,
		},
		{
			nombre:     "porcentaje mayor a cien",
			mov:        entity.Movimiento{TipoMovimientoID: entity.MovimientoSuspension, QuincenaID: "2024-09", FechaMovimiento: ptrFecha(2024, 5, 1), Porcentaje: &porcentajeAlto},
			org:        organicaDePrueba(),
			reglaFalla: nomina.ValidacionPorcentajeMonto,
		},
		{
			nombre:     "sueldo cotizable en cero",
			mov:        entity.Movimiento{TipoMovimientoID: entity.MovimientoSuspension, QuincenaID: "2024-09", FechaMovimiento: ptrFecha(2024, 5, 1)},
			org:        &entity.AfiliadoOrganica{Org0: "SECC-01", Org1: "DEL-05"},
			reglaFalla: nomina.ValidacionSueldoCotizable,
		},
	}

	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			mov := tc.mov
			cmd := nomina.GenerarComandoMovimiento(&mov, afiliadoDePrueba(), tc.org)

			assert.False(t, cmd.ListoParaEjecutar)
			falla := false
			for _, v := range cmd.Validaciones {
				if v.Nombre == tc.reglaFalla && !v.OK {
					falla = true
				}
			}
			assert.True(t, falla, "la regla %s debe fallar; validaciones: %+v", tc.reglaFalla, cmd.Validaciones)
		})
	}
}

func TestComandoPreview_Bloquear(t *testing.T) {
	sueldo := decimal.RequireFromString("16500.00")
	mov := &entity.Movimiento{TipoMovimientoID: entity.MovimientoModificacionSueldo, QuincenaID: "2024-09", Sueldo: &sueldo}
	cmd := nomina.GenerarComandoMovimiento(mov, afiliadoDePrueba(), organicaDePrueba())
	require.True(t, cmd.ListoParaEjecutar)

	cmd.Bloquear("alta de empleado en nómina pendiente")

	assert.False(t, cmd.ListoParaEjecutar)
	assert.Contains(t, cmd.Errores, "alta de empleado en nómina pendiente")
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerarComandoAltaEmpleado
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerarComandoAltaEmpleado_Valido(t *testing.T) {
	af := afiliadoDePrueba()
	af.EmpleadoNominaID = nil

	cmd := nomina.GenerarComandoAltaEmpleado(af, organicaDePrueba())

	assert.True(t, cmd.ListoParaEjecutar, "errores: %v", cmd.Errores)
	require.Len(t, cmd.Parametros, 9)
	assert.Equal(t, "'GARC800101HDFABC01'", cmd.Parametros[0])
	assert.Equal(t, "NULL", cmd.Parametros[2], "NSS ausente")
	assert.Equal(t, "'Laura García Núñez'", cmd.Parametros[3])
	assert.True(t, strings.HasPrefix(cmd.SQL, "EXECUTE PROCEDURE alta_empleado("))
}

func TestGenerarComandoAltaEmpleado_SinIdentificadores(t *testing.T) {
	af := &entity.Afiliado{Nombre: "Ana", ApellidoPaterno: "Luna"}

	cmd := nomina.GenerarComandoAltaEmpleado(af, organicaDePrueba())

	assert.False(t, cmd.ListoParaEjecutar, "sin CURP ni RFC el alta no está lista")
	assert.NotEmpty(t, cmd.SQL, "se renderiza de todas formas")
}

func TestGenerarComandoAltaEmpleado_ApellidoConComilla(t *testing.T) {
	curp := "OBRI900101HDFABC02"
	af := &entity.Afiliado{CURP: &curp, Nombre: "Sean", ApellidoPaterno: "O'Brien"}

	cmd := nomina.GenerarComandoAltaEmpleado(af, organicaDePrueba())

	assert.Equal(t, "'Sean O''Brien'", cmd.Parametros[3],
		"las comillas del nombre deben duplicarse en el literal")
}

func ptrFecha(anio, mes, dia int) *time.Time {
	f := time.Date(anio, time.Month(mes), dia, 0, 0, 0, 0, time.UTC)
	return &f
}
