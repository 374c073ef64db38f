package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
)

const defaultTopLimit = 5

// KpiUseCase métricas agregadas del dashboard. Solo lectura.
type KpiUseCase struct {
	reportRepo repository.ReportRepository
}

// NewKpiUseCase construye el caso de uso.
func NewKpiUseCase(reportRepo repository.ReportRepository) *KpiUseCase {
	return &KpiUseCase{reportRepo: reportRepo}
}

// GetDashboard agrega todas las métricas del período en una sola respuesta.
func (uc *KpiUseCase) GetDashboard(ctx context.Context, start, end time.Time) (*dto.KpiResponse, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}
	revenue, err := uc.reportRepo.FindDailyRevenue(ctx, start, end)
	if err != nil {
		return nil, err
	}
	arrivals, err := uc.reportRepo.FindDailyArrivals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	topProducts, err := uc.reportRepo.FindTopSellingProducts(ctx, start, end, defaultTopLimit)
	if err != nil {
		return nil, err
	}
	topClients, err := uc.reportRepo.FindTopClients(ctx, start, end, defaultTopLimit)
	if err != nil {
		return nil, err
	}
	byCategory, err := uc.reportRepo.FindSalesByCategory(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := &dto.KpiResponse{
		DailyRevenue:       toDailyMetrics(revenue),
		DailyArrivals:      toDailyMetrics(arrivals),
		TopSellingProducts: make([]dto.ProductMetricDTO, 0, len(topProducts)),
		TopClients:         make([]dto.ClientMetricDTO, 0, len(topClients)),
		SalesByCategory:    make(map[string]decimal.Decimal, len(byCategory)),
	}
	for _, p := range topProducts {
		out.TopSellingProducts = append(out.TopSellingProducts, dto.ProductMetricDTO{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			SalesCount:  p.SalesCount,
			Revenue:     p.Revenue,
		})
	}
	for _, c := range topClients {
		out.TopClients = append(out.TopClients, dto.ClientMetricDTO{
			ClientID:       c.ClientID,
			ClientName:     c.ClientName,
			OrderCount:     c.OrderCount,
			TotalPurchases: c.TotalPurchases,
		})
	}
	for _, cs := range byCategory {
		out.SalesByCategory[cs.Category] = cs.TotalSales
	}
	return out, nil
}

func toDailyMetrics(in []repository.DailyMetric) []dto.DailyMetricDTO {
	out := make([]dto.DailyMetricDTO, 0, len(in))
	for _, m := range in {
		out = append(out, dto.DailyMetricDTO{Date: m.Date, Value: m.Value})
	}
	return out
}
