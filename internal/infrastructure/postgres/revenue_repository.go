package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/internal/domain/repository"
)

var _ repository.RevenueRepository = (*RevenueRepo)(nil)

// RevenueRepo ingresos mensuales calculados sobre facturas pagadas.
type RevenueRepo struct {
	q Querier
}

// NewRevenueRepository construye el adaptador.
func NewRevenueRepository(q Querier) *RevenueRepo {
	return &RevenueRepo{q: q}
}

// MonthlyRevenue suma los importes pagados por mes (en unidades mayores) entre from y to.
// Los meses sin ventas aparecen con ingreso cero.
func (r *RevenueRepo) MonthlyRevenue(ctx context.Context, from, to time.Time) ([]entity.Revenue, error) {
	query := `
		SELECT date_trunc('month', date)::date AS month, SUM(amount)::numeric / 100
		FROM invoices
		WHERE status = 'paid' AND date >= $1 AND date <= $2
		GROUP BY 1`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var month time.Time
		var total decimal.Decimal
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("scan revenue: %w", err)
		}
		totals[month.Format("2006-01")] = total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fillMonths(from, to, totals), nil
}

// fillMonths arma la serie cronológica de from a to con un punto por mes.
func fillMonths(from, to time.Time, totals map[string]decimal.Decimal) []entity.Revenue {
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []entity.Revenue
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		total, ok := totals[m.Format("2006-01")]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, entity.Revenue{Month: m.Format("Jan"), Revenue: total})
	}
	return out
}
