package actions

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DateMode origen de la fecha de una factura.
type DateMode string

const (
	// DateFromForm la fecha es obligatoria en el formulario.
	DateFromForm DateMode = "form"
	// DateAuto la fecha no se pide y se asigna la de hoy al escribir.
	DateAuto DateMode = "auto"
)

// DefaultMaxPhotoBytes límite (exclusivo) del tamaño de la foto de perfil: 4.9 MiB.
const DefaultMaxPhotoBytes = 4.9 * 1024 * 1024

// Policy variantes de validación y de flujo soportadas por las operaciones.
// DefaultPolicy es la variante canónica; el resto se activa por configuración.
type Policy struct {
	DateMode DateMode
	// StrictPhoto exige content type image/* al crear un cliente.
	StrictPhoto bool
	// PhotoReplacement permite reemplazar la foto al editar un cliente.
	PhotoReplacement bool
	// TransactionalCustomerDelete borra facturas y cliente en una sola transacción.
	// En false se usa la secuencia cliente → facturas → imagen sin rollback.
	TransactionalCustomerDelete bool
	MaxPhotoBytes               float64
}

// DefaultPolicy fecha del formulario, foto estricta, reemplazo de foto y borrado transaccional.
func DefaultPolicy() Policy {
	return Policy{
		DateMode:                    DateFromForm,
		StrictPhoto:                 true,
		PhotoReplacement:            true,
		TransactionalCustomerDelete: true,
		MaxPhotoBytes:               DefaultMaxPhotoBytes,
	}
}

func (p Policy) maxPhotoBytes() float64 {
	if p.MaxPhotoBytes <= 0 {
		return DefaultMaxPhotoBytes
	}
	return p.MaxPhotoBytes
}

// photoTooLargeMessage informa el límite efectivo en MB con un decimal ("4.9MB").
func (p Policy) photoTooLargeMessage() string {
	mb := decimal.NewFromFloat(p.maxPhotoBytes()).Div(decimal.NewFromInt(1024 * 1024)).Round(1)
	return fmt.Sprintf("Please upload a profile file smaller than %sMB.", mb.String())
}
