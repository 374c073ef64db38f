package reports

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
	"github.com/medarrival/medarrival-api/pkg/logger"
)

// PriceGridRow fila de la grilla de precios exportable/importable: un
// producto con sus seis montos, en el orden de entity.ComponentTypes().
type PriceGridRow struct {
	ProductName string
	Amounts     map[entity.ComponentType]decimal.Decimal
}

// Bundle datos de los cuatro reportes para el workbook export-all.
type Bundle struct {
	MonthlyTitle  string
	MonthlyRows   []MonthlyProductRow
	MonthlyTotals MonthlyTotals

	PricingTitle  string
	PricingRows   []PricingRow
	PricingTotals PricingTotals

	ForecastTitle    string
	ForecastSections []ForecastSection

	RecapTitle string
	RecapRows  []RecapRow
}

// Renderer puerto de materialización de reportes (hoja de cálculo).
type Renderer interface {
	MonthlyProductReport(title string, rows []MonthlyProductRow, totals MonthlyTotals) ([]byte, error)
	PricingReport(title string, rows []PricingRow, totals PricingTotals) ([]byte, error)
	ForecastReport(title string, sections []ForecastSection) ([]byte, error)
	RecapReport(title string, rows []RecapRow) ([]byte, error)
	ExportAll(bundle Bundle) ([]byte, error)
	PriceGrid(rows []PriceGridRow) ([]byte, error)
	ParsePriceGrid(data []byte) ([]PriceGridRow, error)
}

// ExportUseCase arma y materializa los reportes del período.
type ExportUseCase struct {
	saleRepo    repository.SaleRepository
	arrivalRepo repository.ArrivalRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	renderer    Renderer
	log         *logger.Logger
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	saleRepo repository.SaleRepository,
	arrivalRepo repository.ArrivalRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	renderer Renderer,
	log *logger.Logger,
) *ExportUseCase {
	return &ExportUseCase{
		saleRepo:    saleRepo,
		arrivalRepo: arrivalRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		renderer:    renderer,
		log:         log,
	}
}

// MonthlyProductReport bilan produit del período, en xlsx.
func (uc *ExportUseCase) MonthlyProductReport(start, end time.Time) ([]byte, error) {
	sales, products, _, err := uc.loadPeriod(start, end)
	if err != nil {
		return nil, err
	}
	rows, totals := MonthlyProductRows(sales, products)
	title := fmt.Sprintf("BILAN PRODUIT DU %s AU %s", FrenchDate(start), FrenchDate(end))
	return uc.renderer.MonthlyProductReport(title, rows, totals)
}

// PricingReport rapport de prix del período, en xlsx.
func (uc *ExportUseCase) PricingReport(start, end time.Time) ([]byte, error) {
	sales, products, _, err := uc.loadPeriod(start, end)
	if err != nil {
		return nil, err
	}
	rows, totals := PricingRows(sales, products)
	title := fmt.Sprintf("RAPPORT DE PRIX DU %s AU %s", FrenchDate(start), FrenchDate(end))
	return uc.renderer.PricingReport(title, rows, totals)
}

// ForecastReport prévisionnel de ventas por cliente, en xlsx.
func (uc *ExportUseCase) ForecastReport(start, end time.Time) ([]byte, error) {
	sales, products, clients, err := uc.loadPeriod(start, end)
	if err != nil {
		return nil, err
	}
	sections := ForecastSections(sales, products, clients)
	title := "TABLEAU RECAPITULATIF DES VENTES PREVISIONNEL DES RP DU MOIS " + FrenchMonthYear(start)
	return uc.renderer.ForecastReport(title, sections)
}

// RecapReport récapitulatif de facturation del período, en xlsx.
// clientID no nulo restringe al cliente dado (debe existir).
func (uc *ExportUseCase) RecapReport(start, end time.Time, clientID *string) ([]byte, error) {
	if clientID != nil {
		client, err := uc.clientRepo.GetByID(*clientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
	}
	rows, err := uc.recapRows(start, end, clientID)
	if err != nil {
		return nil, err
	}
	title := "TABLEAU RECAPITULATIF DE FACTURATION POUR " + FrenchMonthYear(start)
	return uc.renderer.RecapReport(title, rows)
}

// ExportAll workbook único con las cuatro hojas del período.
func (uc *ExportUseCase) ExportAll(start, end time.Time) ([]byte, error) {
	sales, products, clients, err := uc.loadPeriod(start, end)
	if err != nil {
		return nil, err
	}
	recap, err := uc.recapRows(start, end, nil)
	if err != nil {
		return nil, err
	}
	bundle := Bundle{
		MonthlyTitle:     fmt.Sprintf("BILAN PRODUIT DU %s AU %s", FrenchDate(start), FrenchDate(end)),
		PricingTitle:     fmt.Sprintf("RAPPORT DE PRIX DU %s AU %s", FrenchDate(start), FrenchDate(end)),
		ForecastTitle:    "TABLEAU RECAPITULATIF DES VENTES PREVISIONNEL DES RP DU MOIS " + FrenchMonthYear(start),
		RecapTitle:       "TABLEAU RECAPITULATIF DE FACTURATION POUR " + FrenchMonthYear(start),
		ForecastSections: ForecastSections(sales, products, clients),
		RecapRows:        recap,
	}
	bundle.MonthlyRows, bundle.MonthlyTotals = MonthlyProductRows(sales, products)
	bundle.PricingRows, bundle.PricingTotals = PricingRows(sales, products)
	return uc.renderer.ExportAll(bundle)
}

// loadPeriod ventas del rango más los productos y clientes referenciados.
func (uc *ExportUseCase) loadPeriod(start, end time.Time) ([]*entity.Sale, map[string]*entity.Product, map[string]*entity.Client, error) {
	if end.Before(start) {
		return nil, nil, nil, domain.ErrInvalidInput
	}
	sales, err := uc.saleRepo.ListByDateRange(start, end)
	if err != nil {
		return nil, nil, nil, err
	}
	products := make(map[string]*entity.Product)
	clients := make(map[string]*entity.Client)
	for _, s := range sales {
		if _, ok := products[s.ProductID]; !ok {
			p, err := uc.productRepo.GetByID(s.ProductID)
			if err != nil {
				return nil, nil, nil, err
			}
			if p != nil {
				products[s.ProductID] = p
			}
		}
		if _, ok := clients[s.ClientID]; !ok {
			c, err := uc.clientRepo.GetByID(s.ClientID)
			if err != nil {
				return nil, nil, nil, err
			}
			if c != nil {
				clients[s.ClientID] = c
			}
		}
	}
	return sales, products, clients, nil
}

func (uc *ExportUseCase) recapRows(start, end time.Time, clientID *string) ([]RecapRow, error) {
	arrivals, err := uc.arrivalRepo.ListByDateRange(start, end)
	if err != nil {
		return nil, err
	}
	salesByID := make(map[string]*entity.Sale)
	products := make(map[string]*entity.Product)
	clients := make(map[string]*entity.Client)
	for _, arrival := range arrivals {
		for _, saleID := range arrival.SaleIDs {
			if _, ok := salesByID[saleID]; ok {
				continue
			}
			sale, err := uc.saleRepo.GetByID(saleID)
			if err != nil {
				return nil, err
			}
			if sale == nil {
				continue
			}
			salesByID[saleID] = sale
			if _, ok := products[sale.ProductID]; !ok {
				p, err := uc.productRepo.GetByID(sale.ProductID)
				if err != nil {
					return nil, err
				}
				if p != nil {
					products[sale.ProductID] = p
				}
			}
			if _, ok := clients[sale.ClientID]; !ok {
				c, err := uc.clientRepo.GetByID(sale.ClientID)
				if err != nil {
					return nil, err
				}
				if c != nil {
					clients[sale.ClientID] = c
				}
			}
		}
	}
	return RecapRows(arrivals, salesByID, products, clients, clientID), nil
}
