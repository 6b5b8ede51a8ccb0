// Package nomina contiene la generación y validación de comandos para el
// motor de nómina (sistema legado). Los comandos se renderizan como texto
// para vista previa: nunca se ejecutan desde aquí.
package nomina

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Tipos de valor para FormatearValor.
const (
	TipoCadena = "string"
	TipoNumero = "number"
	TipoFecha  = "date"
)

// FormatearValor convierte un valor al literal exacto que espera el motor de
// nómina. La regla debe ser reproducida byte a byte para que la vista previa
// y la ejecución coincidan: nulo → NULL; numérico → su texto decimal;
// cualquier otro → cadena entre comillas simples con comillas internas
// duplicadas.
func FormatearValor(v any, tipo string) string {
	if esNulo(v) {
		return "NULL"
	}
	if tipo == TipoNumero {
		return textoNumerico(v)
	}
	s := textoPlano(v)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func esNulo(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case *string:
		return t == nil
	case *int:
		return t == nil
	case *int64:
		return t == nil
	case *float64:
		return t == nil
	case *decimal.Decimal:
		return t == nil
	}
	return false
}

func textoNumerico(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case *int:
		return strconv.Itoa(*n)
	case *int64:
		return strconv.FormatInt(*n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case *float64:
		return strconv.FormatFloat(*n, 'f', -1, 64)
	case decimal.Decimal:
		return n.String()
	case *decimal.Decimal:
		return n.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func textoPlano(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		return *s
	default:
		return fmt.Sprintf("%v", v)
	}
}
