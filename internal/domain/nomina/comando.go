package nomina

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Nombres de las validaciones del catálogo. Cada generación ejecuta el
// catálogo completo; una validación fallida no detiene el renderizado.
const (
	ValidacionTipoMovimiento  = "tipo_movimiento"
	ValidacionDatosMovimiento = "datos_movimiento"
	ValidacionQuincena        = "quincena"
	ValidacionFecha           = "fecha"
	ValidacionPorcentajeMonto = "porcentaje_monto"
	ValidacionSueldoCotizable = "sueldo_cotizable"
)

// Rango plausible de años para quincenas y fechas de movimiento.
const (
	AnioMinimo = 2000
	AnioMaximo = 2100
)

// Validacion es el resultado de una regla del catálogo.
type Validacion struct {
	Nombre  string
	OK      bool
	Detalle string
}

// ComandoPreview es la vista previa de un llamado al motor de nómina.
// SQL siempre se renderiza, aunque haya validaciones fallidas, para que el
// operador pueda inspeccionar el comando que se habría ejecutado.
type ComandoPreview struct {
	SQL               string
	Parametros        []string
	Validaciones      []Validacion
	ListoParaEjecutar bool
	Errores           []string
}

func (c *ComandoPreview) agregar(nombre string, ok bool, detalle string) {
	c.Validaciones = append(c.Validaciones, Validacion{Nombre: nombre, OK: ok, Detalle: detalle})
	if !ok {
		c.Errores = append(c.Errores, detalle)
	}
}

func (c *ComandoPreview) cerrar() {
	c.ListoParaEjecutar = true
	for _, v := range c.Validaciones {
		if !v.OK {
			c.ListoParaEjecutar = false
			return
		}
	}
}

// Bloquear fuerza el comando a no-listo con una explicación. Se usa cuando
// la preparación depende de otro comando que falló (p. ej. el alta del
// empleado en nómina pendiente).
func (c *ComandoPreview) Bloquear(motivo string) {
	c.ListoParaEjecutar = false
	c.Errores = append(c.Errores, motivo)
}

// GenerarComandoMovimiento arma el llamado de edición en el motor de nómina
// para un movimiento del afiliado, corriendo el catálogo completo de
// validaciones. El comando queda listo solo si todas pasan.
func GenerarComandoMovimiento(mov *entity.Movimiento, af *entity.Afiliado, org *entity.AfiliadoOrganica) *ComandoPreview {
	c := &ComandoPreview{}

	validarTipoMovimiento(c, mov)
	validarDatosMovimiento(c, mov)
	quincena, anio := validarQuincena(c, mov.QuincenaID)
	validarFecha(c, mov.FechaMovimiento)
	validarPorcentajeMonto(c, mov)
	validarSueldoCotizable(c, org)

	empleado := FormatearValor(af.EmpleadoNominaID, TipoNumero)
	fecha := FormatearValor(textoFecha(mov.FechaMovimiento), TipoFecha)
	c.Parametros = []string{
		empleado,
		FormatearValor(mov.TipoMovimientoID, TipoNumero),
		FormatearValor(quincena, TipoNumero),
		FormatearValor(anio, TipoNumero),
		FormatearValor(mov.Sueldo, TipoNumero),
		FormatearValor(mov.Porcentaje, TipoNumero),
		FormatearValor(mov.Monto, TipoNumero),
		fecha,
		FormatearValor(mov.Observaciones, TipoCadena),
	}
	c.SQL = "EXECUTE PROCEDURE editar_empleado(" + strings.Join(c.Parametros, ", ") + ")"
	c.cerrar()
	return c
}

// GenerarComandoAltaEmpleado arma el llamado que crea el registro de
// personal en el motor de nómina para un afiliado que aún no tiene id
// interno asignado.
func GenerarComandoAltaEmpleado(af *entity.Afiliado, org *entity.AfiliadoOrganica) *ComandoPreview {
	c := &ComandoPreview{}

	if af.CURP == nil && af.RFC == nil {
		c.agregar(ValidacionDatosMovimiento, false, "alta de empleado: se requiere CURP o RFC")
	} else {
		c.agregar(ValidacionDatosMovimiento, true, "")
	}
	if strings.TrimSpace(af.Nombre) == "" || strings.TrimSpace(af.ApellidoPaterno) == "" {
		c.agregar(ValidacionTipoMovimiento, false, "alta de empleado: nombre y apellido paterno son obligatorios")
	} else {
		c.agregar(ValidacionTipoMovimiento, true, "")
	}
	validarSueldoCotizable(c, org)

	nombre := strings.TrimSpace(af.Nombre + " " + af.ApellidoPaterno + " " + af.ApellidoMaterno)
	c.Parametros = []string{
		FormatearValor(af.CURP, TipoCadena),
		FormatearValor(af.RFC, TipoCadena),
		FormatearValor(af.NSS, TipoCadena),
		FormatearValor(nombre, TipoCadena),
		FormatearValor(org.Org0, TipoCadena),
		FormatearValor(org.Org1, TipoCadena),
		FormatearValor(org.Org2, TipoCadena),
		FormatearValor(org.Org3, TipoCadena),
		FormatearValor(org.SueldoCotizable, TipoNumero),
	}
	c.SQL = "EXECUTE PROCEDURE alta_empleado(" + strings.Join(c.Parametros, ", ") + ")"
	c.cerrar()
	return c
}

func validarTipoMovimiento(c *ComandoPreview, mov *entity.Movimiento) {
	if !entity.TipoMovimientoValido(mov.TipoMovimientoID) {
		c.agregar(ValidacionTipoMovimiento, false,
			fmt.Sprintf("tipo de movimiento %d fuera del catálogo 1..6", mov.TipoMovimientoID))
		return
	}
	c.agregar(ValidacionTipoMovimiento, true, "")
}

func validarDatosMovimiento(c *ComandoPreview, mov *entity.Movimiento) {
	switch mov.TipoMovimientoID {
	case entity.MovimientoAlta, entity.MovimientoModificacionSueldo:
		if mov.Sueldo == nil || mov.Sueldo.LessThanOrEqual(decimal.Zero) {
			c.agregar(ValidacionDatosMovimiento, false, "el movimiento requiere sueldo mayor a cero")
			return
		}
	case entity.MovimientoBajaDefinitiva, entity.MovimientoSuspension,
		entity.MovimientoTerminoSuspension, entity.MovimientoBajaPorTerminoSusp:
		if mov.FechaMovimiento == nil {
			c.agregar(ValidacionDatosMovimiento, false, "el movimiento requiere fecha efectiva")
			return
		}
	}
	c.agregar(ValidacionDatosMovimiento, true, "")
}

// validarQuincena descompone "AAAA-QQ" y valida los rangos. Devuelve la
// quincena y el año descompuestos (0, 0 cuando el formato es inválido).
func validarQuincena(c *ComandoPreview, quincenaID string) (int, int) {
	partes := strings.SplitN(quincenaID, "-", 2)
	if len(partes) != 2 {
		c.agregar(ValidacionQuincena, false, fmt.Sprintf("quincena %q no tiene el formato AAAA-QQ", quincenaID))
		return 0, 0
	}
	anio, errA := strconv.Atoi(partes[0])
	quincena, errQ := strconv.Atoi(partes[1])
	if errA != nil || errQ != nil {
		c.agregar(ValidacionQuincena, false, fmt.Sprintf("quincena %q no tiene el formato AAAA-QQ", quincenaID))
		return 0, 0
	}
	if quincena < 1 || quincena > entity.QuincenasPorAnio {
		c.agregar(ValidacionQuincena, false, fmt.Sprintf("quincena %d fuera del rango 1..24", quincena))
		return quincena, anio
	}
	if anio < AnioMinimo || anio > AnioMaximo {
		c.agregar(ValidacionQuincena, false, fmt.Sprintf("año %d fuera del rango plausible", anio))
		return quincena, anio
	}
	c.agregar(ValidacionQuincena, true, "")
	return quincena, anio
}

func validarFecha(c *ComandoPreview, fecha *time.Time) {
	if fecha == nil {
		// La fecha es opcional en movimientos de sueldo; los tipos que la
		// exigen ya fallaron en datos_movimiento.
		c.agregar(ValidacionFecha, true, "")
		return
	}
	if fecha.Year() < AnioMinimo || fecha.Year() > AnioMaximo {
		c.agregar(ValidacionFecha, false, fmt.Sprintf("fecha %s fuera del rango plausible", fecha.Format("2006-01-02")))
		return
	}
	c.agregar(ValidacionFecha, true, "")
}

func validarPorcentajeMonto(c *ComandoPreview, mov *entity.Movimiento) {
	if mov.Porcentaje != nil {
		cien := decimal.NewFromInt(100)
		if mov.Porcentaje.IsNegative() || mov.Porcentaje.GreaterThan(cien) {
			c.agregar(ValidacionPorcentajeMonto, false,
				fmt.Sprintf("porcentaje %s fuera del rango 0..100", mov.Porcentaje.String()))
			return
		}
	}
	if mov.Monto != nil && mov.Monto.IsNegative() {
		c.agregar(ValidacionPorcentajeMonto, false,
			fmt.Sprintf("monto %s no puede ser negativo", mov.Monto.String()))
		return
	}
	c.agregar(ValidacionPorcentajeMonto, true, "")
}

func validarSueldoCotizable(c *ComandoPreview, org *entity.AfiliadoOrganica) {
	if org == nil || org.SueldoCotizable.LessThanOrEqual(decimal.Zero) {
		c.agregar(ValidacionSueldoCotizable, false, "sueldo cotizable debe ser mayor a cero")
		return
	}
	if org.SueldoCotizable.GreaterThan(org.SueldoBase) && org.SueldoBase.GreaterThan(decimal.Zero) {
		c.agregar(ValidacionSueldoCotizable, false, "sueldo cotizable no puede exceder el sueldo base")
		return
	}
	c.agregar(ValidacionSueldoCotizable, true, "")
}

func textoFecha(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
