package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
	"github.com/medarrival/medarrival-api/pkg/logger"
)

// ArrivalUseCase casos de uso de arribos: registro del lote recibido junto
// con sus ventas (nuevas o existentes) en una sola transacción.
type ArrivalUseCase struct {
	arrivalRepo  repository.ArrivalRepository
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	clientRepo   repository.ClientRepository
	supplierRepo repository.SupplierRepository
	txRunner     TxRunner
	log          *logger.Logger
}

// NewArrivalUseCase construye el caso de uso.
func NewArrivalUseCase(
	arrivalRepo repository.ArrivalRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	supplierRepo repository.SupplierRepository,
	txRunner TxRunner,
	log *logger.Logger,
) *ArrivalUseCase {
	return &ArrivalUseCase{
		arrivalRepo:  arrivalRepo,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		clientRepo:   clientRepo,
		supplierRepo: supplierRepo,
		txRunner:     txRunner,
		log:          log,
	}
}

// Create registra un arribo. Las ventas embebidas se crean con su snapshot
// congelado y las existentes se asocian; todo dentro de la misma transacción,
// de modo que un fallo en cualquier venta aborta el arribo completo.
// El número de factura del proveedor debe ser único.
func (uc *ArrivalUseCase) Create(in dto.CreateArrivalRequest) (*dto.ArrivalResponse, error) {
	if in.InvoiceNumber == "" || in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.arrivalRepo.GetByInvoiceNumber(in.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	arrivalDate := in.ArrivalDate
	if arrivalDate.IsZero() {
		arrivalDate = now
	}
	arrival := &entity.Arrival{
		ID:            uuid.New().String(),
		ArrivalDate:   arrivalDate,
		InvoiceNumber: in.InvoiceNumber,
		SupplierID:    in.SupplierID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Las ventas nuevas se arman fuera de la transacción (solo lecturas);
	// la escritura queda atómica en el runner.
	newSales := make([]*entity.Sale, 0, len(in.Sales))
	for _, saleReq := range in.Sales {
		product, client, err := uc.loadRefs(saleReq)
		if err != nil {
			return nil, err
		}
		sale, err := buildSale(saleReq, product, client, now)
		if err != nil {
			return nil, err
		}
		newSales = append(newSales, sale)
	}
	for _, saleID := range in.SaleIDs {
		sale, err := uc.saleRepo.GetByID(saleID)
		if err != nil {
			return nil, err
		}
		if sale == nil {
			return nil, domain.ErrNotFound
		}
	}

	err = uc.txRunner.Run(context.Background(), func(repos TxRepos) error {
		if err := repos.Arrivals.Create(arrival); err != nil {
			return err
		}
		for _, sale := range newSales {
			if err := repos.Sales.Create(sale); err != nil {
				return err
			}
			if err := repos.Arrivals.AttachSale(arrival.ID, sale.ID); err != nil {
				return err
			}
			arrival.SaleIDs = append(arrival.SaleIDs, sale.ID)
		}
		for _, saleID := range in.SaleIDs {
			if err := repos.Arrivals.AttachSale(arrival.ID, saleID); err != nil {
				return err
			}
			arrival.SaleIDs = append(arrival.SaleIDs, saleID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.log != nil {
		uc.log.Info().
			Str("arrival_id", arrival.ID).
			Str("invoice_number", arrival.InvoiceNumber).
			Int("sales", len(arrival.SaleIDs)).
			Msg("arribo registrado")
	}
	return toArrivalResponse(arrival), nil
}

func (uc *ArrivalUseCase) loadRefs(in dto.CreateSaleRequest) (*entity.Product, *entity.Client, error) {
	if in.ProductID == "" || in.ClientID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, domain.ErrNotFound
	}
	return product, client, nil
}

// GetByID obtiene un arribo por ID.
func (uc *ArrivalUseCase) GetByID(id string) (*dto.ArrivalResponse, error) {
	arrival, err := uc.arrivalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if arrival == nil {
		return nil, domain.ErrNotFound
	}
	return toArrivalResponse(arrival), nil
}

// GetByInvoiceNumber busca un arribo por número de factura del proveedor.
func (uc *ArrivalUseCase) GetByInvoiceNumber(invoiceNumber string) (*dto.ArrivalResponse, error) {
	arrival, err := uc.arrivalRepo.GetByInvoiceNumber(invoiceNumber)
	if err != nil {
		return nil, err
	}
	if arrival == nil {
		return nil, domain.ErrNotFound
	}
	return toArrivalResponse(arrival), nil
}

// List lista arribos paginados.
func (uc *ArrivalUseCase) List(page dto.PageRequest) (*dto.ArrivalListResponse, error) {
	page.DefaultPage()
	list, err := uc.arrivalRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.arrivalRepo.Count()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArrivalResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArrivalResponse(a))
	}
	return &dto.ArrivalListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListBySupplier arribos de un proveedor.
func (uc *ArrivalUseCase) ListBySupplier(supplierID string) ([]dto.ArrivalResponse, error) {
	list, err := uc.arrivalRepo.ListBySupplier(supplierID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArrivalResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArrivalResponse(a))
	}
	return items, nil
}

// ListByDateRange arribos en un rango de fechas.
func (uc *ArrivalUseCase) ListByDateRange(start, end time.Time) ([]dto.ArrivalResponse, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.arrivalRepo.ListByDateRange(start, end)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ArrivalResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toArrivalResponse(a))
	}
	return items, nil
}

// Delete elimina un arribo desasociando antes sus ventas. Las ventas NO se
// borran: quedan huérfanas de arribo pero siguen en el libro.
func (uc *ArrivalUseCase) Delete(id string) error {
	arrival, err := uc.arrivalRepo.GetByID(id)
	if err != nil {
		return err
	}
	if arrival == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(context.Background(), func(repos TxRepos) error {
		for _, saleID := range arrival.SaleIDs {
			if err := repos.Sales.DetachArrival(saleID, arrival.ID); err != nil {
				return err
			}
		}
		return repos.Arrivals.Delete(arrival.ID)
	})
}

func toArrivalResponse(a *entity.Arrival) *dto.ArrivalResponse {
	return &dto.ArrivalResponse{
		ID:            a.ID,
		ArrivalDate:   a.ArrivalDate,
		InvoiceNumber: a.InvoiceNumber,
		SupplierID:    a.SupplierID,
		SaleIDs:       a.SaleIDs,
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
