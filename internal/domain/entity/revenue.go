package entity

import "github.com/shopspring/decimal"

// Revenue ingresos cobrados de un mes (unidades mayores de la moneda).
type Revenue struct {
	Month   string
	Revenue decimal.Decimal
}
