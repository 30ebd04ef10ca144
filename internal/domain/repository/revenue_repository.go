package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
)

// RevenueRepository consultas de solo lectura sobre ingresos.
type RevenueRepository interface {
	// MonthlyRevenue devuelve un punto por mes (incluidos meses sin ventas) desde el
	// mes de from hasta el mes de to, en orden cronológico.
	MonthlyRevenue(ctx context.Context, from, to time.Time) ([]entity.Revenue, error)
}
