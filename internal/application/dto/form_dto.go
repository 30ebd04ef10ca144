package dto

// FormState estado que recibe la capa de presentación tras enviar un formulario:
// errores por campo (en orden) y un mensaje legible.
type FormState struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message"`
}

// HasErrors indica si hay errores de validación por campo.
func (s FormState) HasErrors() bool {
	return len(s.Errors) > 0
}
