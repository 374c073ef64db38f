package dto

import "github.com/shopspring/decimal"

// KpiResponse métricas del dashboard en un período.
type KpiResponse struct {
	DailyRevenue       []DailyMetricDTO           `json:"daily_revenue"`
	DailyArrivals      []DailyMetricDTO           `json:"daily_arrivals"`
	TopSellingProducts []ProductMetricDTO         `json:"top_selling_products"`
	TopClients         []ClientMetricDTO          `json:"top_clients"`
	SalesByCategory    map[string]decimal.Decimal `json:"sales_by_category"`
}

// DailyMetricDTO punto de una serie diaria.
type DailyMetricDTO struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// ProductMetricDTO producto del top de ventas.
type ProductMetricDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SalesCount  int64           `json:"sales_count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ClientMetricDTO cliente del top de compras.
type ClientMetricDTO struct {
	ClientID       string          `json:"client_id"`
	ClientName     string          `json:"client_name"`
	OrderCount     int64           `json:"order_count"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
}
