package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medarrival/medarrival-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para los KPIs del dashboard.
// Agregación en SQL: las filas llegan agrupadas y sumadas.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// FindDailyRevenue ingresos por día del período.
func (r *ReportRepo) FindDailyRevenue(ctx context.Context, start, end time.Time) ([]repository.DailyMetric, error) {
	const query = `
	SELECT to_char(sale_date::date, 'YYYY-MM-DD') AS day,
	       COALESCE(SUM(total_amount), 0)         AS revenue
	FROM sales
	WHERE sale_date BETWEEN $1 AND $2
	GROUP BY day
	ORDER BY day`
	return r.dailyMetrics(ctx, query, start, end)
}

// FindDailyArrivals cantidad de arribos por día del período.
func (r *ReportRepo) FindDailyArrivals(ctx context.Context, start, end time.Time) ([]repository.DailyMetric, error) {
	const query = `
	SELECT to_char(arrival_date::date, 'YYYY-MM-DD') AS day,
	       COUNT(*)::NUMERIC                          AS arrivals
	FROM arrivals
	WHERE arrival_date BETWEEN $1 AND $2
	GROUP BY day
	ORDER BY day`
	return r.dailyMetrics(ctx, query, start, end)
}

func (r *ReportRepo) dailyMetrics(ctx context.Context, query string, start, end time.Time) ([]repository.DailyMetric, error) {
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports.dailyMetrics: %w", err)
	}
	defer rows.Close()
	var results []repository.DailyMetric
	for rows.Next() {
		var m repository.DailyMetric
		if err := rows.Scan(&m.Date, &m.Value); err != nil {
			return nil, fmt.Errorf("scan daily metric: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// FindTopSellingProducts productos ordenados por ingresos en el período.
func (r *ReportRepo) FindTopSellingProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT p.id,
	       p.name,
	       COUNT(s.id)                    AS sales_count,
	       COALESCE(SUM(s.total_amount), 0) AS revenue
	FROM sales s
	JOIN products p ON p.id = s.product_id
	WHERE s.sale_date BETWEEN $1 AND $2
	GROUP BY p.id, p.name
	ORDER BY revenue DESC
	LIMIT $3`
	rows, err := r.pool.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("reports.FindTopSellingProducts: %w", err)
	}
	defer rows.Close()
	var results []repository.TopProduct
	for rows.Next() {
		var p repository.TopProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.SalesCount, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// FindTopClients clientes ordenados por compras en el período.
func (r *ReportRepo) FindTopClients(ctx context.Context, start, end time.Time, limit int) ([]repository.TopClient, error) {
	const query = `
	SELECT c.id,
	       c.name,
	       COUNT(s.id)                      AS order_count,
	       COALESCE(SUM(s.total_amount), 0) AS total_purchases
	FROM sales s
	JOIN clients c ON c.id = s.client_id
	WHERE s.sale_date BETWEEN $1 AND $2
	GROUP BY c.id, c.name
	ORDER BY total_purchases DESC
	LIMIT $3`
	rows, err := r.pool.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("reports.FindTopClients: %w", err)
	}
	defer rows.Close()
	var results []repository.TopClient
	for rows.Next() {
		var c repository.TopClient
		if err := rows.Scan(&c.ClientID, &c.ClientName, &c.OrderCount, &c.TotalPurchases); err != nil {
			return nil, fmt.Errorf("scan top client: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// FindSalesByCategory ingresos agregados por categoría de producto.
// Productos sin categoría se consolidan en "Sans catégorie".
func (r *ReportRepo) FindSalesByCategory(ctx context.Context, start, end time.Time) ([]repository.CategorySales, error) {
	const query = `
	SELECT COALESCE(pc.name, 'Sans catégorie')  AS category,
	       COALESCE(SUM(s.total_amount), 0)     AS total_sales
	FROM sales s
	JOIN products p ON p.id = s.product_id
	LEFT JOIN product_categories pc ON pc.id = p.category_id
	WHERE s.sale_date BETWEEN $1 AND $2
	GROUP BY pc.name
	ORDER BY total_sales DESC`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports.FindSalesByCategory: %w", err)
	}
	defer rows.Close()
	var results []repository.CategorySales
	for rows.Next() {
		var cs repository.CategorySales
		if err := rows.Scan(&cs.Category, &cs.TotalSales); err != nil {
			return nil, fmt.Errorf("scan category sales: %w", err)
		}
		results = append(results, cs)
	}
	return results, rows.Err()
}
