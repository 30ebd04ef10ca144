package actions

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
)

// Nombres de campo tal como llegan en el formulario (y como se devuelven en FormState.Errors).
const (
	FieldCustomerID   = "customerId"
	FieldAmount       = "amount"
	FieldStatus       = "status"
	FieldDate         = "date"
	FieldName         = "name"
	FieldEmail        = "email"
	FieldProfilePhoto = "profilePhoto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("form")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// amount: número decimal cuyo redondeo a centavos es positivo y cabe en int64
	// ("" y texto no numérico fallan).
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, ok := ParseAmount(fl.Field().String())
		return ok
	})
	return v
}

// fieldMessages mensaje por campo y regla fallida.
var fieldMessages = map[string]map[string]string{
	FieldCustomerID: {"required": "Please select a customer."},
	FieldAmount:     {"amount": "Please enter an amount greater than $0."},
	FieldStatus: {
		"required": "Please select an invoice status.",
		"oneof":    "Please select an invoice status.",
	},
	FieldDate: {
		"required": "Please select a date.",
		"datetime": "Please select a valid date.",
	},
	FieldName: {"required": "Please enter a name."},
	FieldEmail: {
		"required": "Please enter an email.",
		"email":    "Please enter a valid email address.",
	},
}

const (
	msgPhotoMissing  = "Please upload a profile file."
	msgPhotoNotImage = "Please upload an image file."
)

type invoiceFields struct {
	CustomerID string `form:"customerId" validate:"required"`
	Amount     string `form:"amount" validate:"amount"`
	Status     string `form:"status" validate:"required,oneof=pending paid"`
	Date       string `form:"date" validate:"required,datetime=2006-01-02"`
}

type customerFields struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,email"`
}

// invoiceInput datos de factura ya validados y convertidos.
type invoiceInput struct {
	CustomerID    string
	AmountInCents int64
	Status        string
	Date          time.Time
}

// customerInput datos de cliente ya validados. Photo es nil si no se envió archivo.
type customerInput struct {
	Name  string
	Email string
	Photo *FileUpload
}

// fieldErrors acumula errores por campo conservando el orden de inserción de cada lista.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e fieldErrors) collect(err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		e.add(fe.Field(), msg)
	}
}

// maxCents mayor importe en centavos representable en la columna amount (BIGINT).
var maxCents = decimal.NewFromInt(math.MaxInt64)

func roundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(100)).Round(0)
}

// ParseAmount interpreta un importe en unidades mayores y lo devuelve en centavos.
// ok es false si no es numérico, si redondea a cero o menos o si no cabe en int64.
func ParseAmount(raw string) (cents int64, ok bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	rounded := roundCents(d)
	if !rounded.IsPositive() || rounded.GreaterThan(maxCents) {
		return 0, false
	}
	return rounded.IntPart(), true
}

// parseInvoice valida los campos de factura según la política. Con DateAuto la fecha
// no se valida y se asigna today.
func parseInvoice(form Form, policy Policy, today time.Time) (*invoiceInput, fieldErrors) {
	fields := invoiceFields{
		CustomerID: form.Get(FieldCustomerID),
		Amount:     form.Get(FieldAmount),
		Status:     form.Get(FieldStatus),
		Date:       form.Get(FieldDate),
	}
	var err error
	if policy.DateMode == DateAuto {
		err = validate.StructExcept(fields, "Date")
	} else {
		err = validate.Struct(fields)
	}
	if err != nil {
		errs := fieldErrors{}
		errs.collect(err)
		return nil, errs
	}

	cents, _ := ParseAmount(fields.Amount)
	in := &invoiceInput{
		CustomerID:    fields.CustomerID,
		AmountInCents: cents,
		Status:        fields.Status,
		Date:          time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}
	if policy.DateMode != DateAuto {
		in.Date, _ = time.Parse(entity.DateLayout, fields.Date)
	}
	return in, nil
}

// parseCustomer valida nombre, email y foto. requirePhoto aplica las reglas de alta
// (foto obligatoria, no vacía y, con StrictPhoto, image/*); en edición solo se limita el tamaño.
func parseCustomer(form Form, policy Policy, requirePhoto bool) (*customerInput, fieldErrors) {
	fields := customerFields{
		Name:  form.Get(FieldName),
		Email: form.Get(FieldEmail),
	}
	errs := fieldErrors{}
	errs.collect(validate.Struct(fields))

	photo := form.File(FieldProfilePhoto)
	var size int64
	if photo != nil {
		size = photo.Size
	}
	if float64(size) >= policy.maxPhotoBytes() {
		errs.add(FieldProfilePhoto, policy.photoTooLargeMessage())
	}
	if requirePhoto {
		if size <= 0 {
			errs.add(FieldProfilePhoto, msgPhotoMissing)
		}
		if policy.StrictPhoto && (photo == nil || !strings.HasPrefix(photo.ContentType, "image/")) {
			errs.add(FieldProfilePhoto, msgPhotoNotImage)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &customerInput{Name: fields.Name, Email: fields.Email, Photo: photo}, nil
}
