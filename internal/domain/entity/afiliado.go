package entity

import "time"

// Estatus de validación del afiliado (num_validacion).
const (
	EstatusRegistrado     = 1
	EstatusAprobado       = 2
	EstatusEnRevision     = 3
	EstatusRechazado      = 4
	EstatusSuspendido     = 5
	EstatusCancelado      = 6
	EstatusAplicadoNomina = 7
)

// EstatusValido verifica que el estatus esté dentro del rango 1..7.
func EstatusValido(e int) bool {
	return e >= EstatusRegistrado && e <= EstatusAplicadoNomina
}

// Afiliado representa a una persona inscrita al programa de prestaciones.
// CURP, RFC y NSS son opcionales pero únicos cuando existen. Nunca se
// elimina físicamente en los flujos del ciclo de vida.
type Afiliado struct {
	ID                 int64
	Folio              int64
	CURP               *string
	RFC                *string
	NSS                *string
	Nombre             string
	ApellidoPaterno    string
	ApellidoMaterno    string
	FechaNacimiento    *time.Time
	Sexo               string
	Email              string
	Telefono           string
	NumValidacion      int // estatus actual (1..7)
	QuincenaAplicacion int
	AnioAplicacion     int
	EmpleadoNominaID   *int64 // id interno del empleado en el motor de nómina, si ya existe
	FechaRegistro      time.Time
	FechaActualizacion time.Time
}
