package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailyMetric punto de una serie diaria (tendencias del dashboard).
type DailyMetric struct {
	Date  string
	Value decimal.Decimal
}

// TopProduct producto ordenado por ingresos en un período.
type TopProduct struct {
	ProductID   string
	ProductName string
	SalesCount  int64
	Revenue     decimal.Decimal
}

// TopClient cliente ordenado por compras en un período.
type TopClient struct {
	ClientID       string
	ClientName     string
	OrderCount     int64
	TotalPurchases decimal.Decimal
}

// CategorySales ventas agregadas por categoría de producto.
type CategorySales struct {
	Category   string
	TotalSales decimal.Decimal
}

// ReportRepository consultas de solo lectura para KPIs del dashboard.
// Agregación en SQL: las filas ya vienen agrupadas y sumadas.
type ReportRepository interface {
	FindDailyRevenue(ctx context.Context, start, end time.Time) ([]DailyMetric, error)
	FindDailyArrivals(ctx context.Context, start, end time.Time) ([]DailyMetric, error)
	FindTopSellingProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProduct, error)
	FindTopClients(ctx context.Context, start, end time.Time, limit int) ([]TopClient, error)
	FindSalesByCategory(ctx context.Context, start, end time.Time) ([]CategorySales, error)
}
