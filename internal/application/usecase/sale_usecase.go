package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/pricing"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
	"github.com/medarrival/medarrival-api/pkg/logger"
)

// SaleUseCase libro de ventas: creación con snapshot de precios congelado,
// recálculo explícito de totales y consultas.
type SaleUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	log         *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{saleRepo: saleRepo, productRepo: productRepo, clientRepo: clientRepo, log: log}
}

// Create crea una venta. Valida entrada, congela el snapshot de precios y
// calcula el total antes de persistir; un total suministrado se ignora.
// Cualquier violación aborta la creación completa (sin persistencia parcial).
func (uc *SaleUseCase) Create(in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	product, client, err := uc.loadSaleRefs(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	sale, err := buildSale(in, product, client, now)
	if err != nil {
		return nil, err
	}
	uc.warnAmbiguity(product, client, now)
	if err := uc.saleRepo.Create(sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

func (uc *SaleUseCase) loadSaleRefs(in dto.CreateSaleRequest) (*entity.Product, *entity.Client, error) {
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

// buildSale arma la venta a persistir: valida, congela snapshot y total.
func buildSale(in dto.CreateSaleRequest, product *entity.Product, client *entity.Client, now time.Time) (*entity.Sale, error) {
	if in.Quantity <= 0 || in.ExpectedDeliveryDate == nil {
		return nil, domain.ErrInvalidInput
	}
	saleDate := now
	if in.SaleDate != nil {
		saleDate = *in.SaleDate
	}
	sale := &entity.Sale{
		ID:                   uuid.New().String(),
		ProductID:            product.ID,
		ClientID:             client.ID,
		Quantity:             in.Quantity,
		ExpectedQuantity:     in.ExpectedQuantity,
		SaleDate:             saleDate,
		ExpectedDeliveryDate: *in.ExpectedDeliveryDate,
		IsConform:            in.IsConform,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	snapshot, err := materializeSnapshot(in.PriceComponents, product, client, sale.ID, now)
	if err != nil {
		return nil, err
	}
	sale.PriceComponents = snapshot
	sale.TotalAmount = pricing.SaleTotal(sale.Quantity, sale.PriceComponents)
	return sale, nil
}

// materializeSnapshot materializa o normaliza el snapshot de precios.
// Colección vacía: se construye desde la grilla (una entrada por categoría,
// con fallback negociación→defecto). Colección suministrada: entradas
// marcadas con precio por defecto se refrescan contra la grilla; las
// personalizadas se conservan.
func materializeSnapshot(supplied []dto.SalePriceComponentDTO, product *entity.Product, client *entity.Client, saleID string, asOf time.Time) ([]*entity.SalePriceComponent, error) {
	if len(supplied) == 0 {
		return pricing.BuildSnapshot(product.PriceComponents, client, saleID, asOf), nil
	}
	entries := make([]*entity.SalePriceComponent, 0, len(supplied))
	for _, c := range supplied {
		t := entity.ComponentType(c.ComponentType)
		if !t.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		entries = append(entries, &entity.SalePriceComponent{
			ID:               c.ID,
			ComponentType:    t,
			Amount:           c.Amount,
			UsesDefaultPrice: c.UsesDefaultPrice,
		})
	}
	return pricing.NormalizeSnapshot(entries, product.PriceComponents, saleID, asOf), nil
}

// GetByID obtiene una venta por ID.
func (uc *SaleUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas paginadas.
func (uc *SaleUseCase) List(page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, err := uc.saleRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.saleRepo.Count()
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListByClient ventas de un cliente.
func (uc *SaleUseCase) ListByClient(clientID string) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	return toSaleResponses(list), nil
}

// ListByProduct ventas de un producto.
func (uc *SaleUseCase) ListByProduct(productID string) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	return toSaleResponses(list), nil
}

// Update actualización explícita de venta: único evento del ciclo de vida,
// junto con la creación, que rehace el snapshot. Ediciones de campos ajenos
// al precio no lo redisparan si no se envían componentes.
func (uc *SaleUseCase) Update(id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Version != in.Version {
		return nil, domain.ErrConflict
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		sale.Quantity = *in.Quantity
	}
	if in.ExpectedQuantity != nil {
		sale.ExpectedQuantity = *in.ExpectedQuantity
	}
	if in.ExpectedDeliveryDate != nil {
		sale.ExpectedDeliveryDate = *in.ExpectedDeliveryDate
	}
	if in.IsConform != nil {
		sale.IsConform = *in.IsConform
	}
	now := time.Now()
	sale.UpdatedAt = now

	if len(in.PriceComponents) > 0 {
		product, err := uc.productRepo.GetByID(sale.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		client, err := uc.clientRepo.GetByID(sale.ClientID)
		if err != nil {
			return nil, err
		}
		sale.PriceComponents, err = materializeSnapshot(in.PriceComponents, product, client, sale.ID, now)
		if err != nil {
			return nil, err
		}
	}
	sale.TotalAmount = pricing.SaleTotal(sale.Quantity, sale.PriceComponents)

	if err := uc.saleRepo.Update(sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// Delete elimina una venta.
func (uc *SaleUseCase) Delete(id string) error {
	return uc.saleRepo.Delete(id)
}

func (uc *SaleUseCase) warnAmbiguity(product *entity.Product, client *entity.Client, asOf time.Time) {
	if uc.log == nil {
		return
	}
	scopes := []*string{nil}
	if client.ClientType == entity.ClientNegotiated {
		scopes = append(scopes, &client.ID)
	}
	for _, scope := range scopes {
		for _, t := range pricing.AmbiguousTypes(product.PriceComponents, scope, asOf) {
			uc.log.Warn().
				Str("product_id", product.ID).
				Str("component_type", string(t)).
				Msg("grilla ambigua al construir snapshot; resolución determinista aplicada")
		}
	}
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	comps := make([]dto.SalePriceComponentDTO, 0, len(s.PriceComponents))
	for _, spc := range s.PriceComponents {
		comps = append(comps, dto.SalePriceComponentDTO{
			ID:               spc.ID,
			ComponentType:    string(spc.ComponentType),
			Amount:           spc.Amount,
			UsesDefaultPrice: spc.UsesDefaultPrice,
		})
	}
	return &dto.SaleResponse{
		ID:                   s.ID,
		ProductID:            s.ProductID,
		ClientID:             s.ClientID,
		Quantity:             s.Quantity,
		ExpectedQuantity:     s.ExpectedQuantity,
		TotalAmount:          s.TotalAmount,
		SaleDate:             s.SaleDate,
		ExpectedDeliveryDate: s.ExpectedDeliveryDate,
		IsConform:            s.IsConform,
		PriceComponents:      comps,
		ArrivalIDs:           s.ArrivalIDs,
		Version:              s.Version,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func toSaleResponses(list []*entity.Sale) []dto.SaleResponse {
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return items
}
