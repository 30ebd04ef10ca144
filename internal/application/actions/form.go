package actions

import (
	"io"
	"strings"
)

// FileUpload archivo recibido en un formulario multipart.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Form datos crudos de un formulario (clave/valor sin tipar más archivos).
// Es la única entrada de las operaciones: no hay estado previo implícito.
type Form struct {
	values map[string]string
	files  map[string]*FileUpload
}

// NewForm construye el formulario. Ambos mapas pueden ser nil.
func NewForm(values map[string]string, files map[string]*FileUpload) Form {
	return Form{values: values, files: files}
}

// Get devuelve el valor del campo sin espacios a los lados ("" si no existe).
func (f Form) Get(key string) string {
	return strings.TrimSpace(f.values[key])
}

// File devuelve el archivo del campo o nil.
func (f Form) File(key string) *FileUpload {
	return f.files[key]
}
