package dto

// Respuesta es la envoltura estándar de la API: { ok, data?, error? }.
type Respuesta struct {
	OK    bool          `json:"ok"`
	Data  any           `json:"data,omitempty"`
	Error *ErrorDetalle `json:"error,omitempty"`
}

// ErrorDetalle cuerpo de error con código estable legible por máquina.
type ErrorDetalle struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Exito arma una respuesta exitosa.
func Exito(data any) Respuesta {
	return Respuesta{OK: true, Data: data}
}

// Fallo arma una respuesta de error.
func Fallo(code, message string) Respuesta {
	return Respuesta{OK: false, Error: &ErrorDetalle{Code: code, Message: message}}
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
