package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/pricing"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
	"github.com/medarrival/medarrival-api/pkg/logger"
)

// ProductUseCase casos de uso de productos y su grilla de precios: CRUD,
// vistas de precio por cliente y negociaciones por componente.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	priceRepo   repository.PriceComponentRepository
	clientRepo  repository.ClientRepository
	txRunner    TxRunner
	log         *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	priceRepo repository.PriceComponentRepository,
	clientRepo repository.ClientRepository,
	txRunner TxRunner,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		priceRepo:   priceRepo,
		clientRepo:  clientRepo,
		txRunner:    txRunner,
		log:         log,
	}
}

// Create crea un producto con sus precios por defecto iniciales.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	components, err := toComponents(in.PriceComponents, product.ID, now)
	if err != nil {
		return nil, err
	}
	product.PriceComponents = components

	err = uc.txRunner.Run(context.Background(), func(repos TxRepos) error {
		if err := repos.Products.Create(product); err != nil {
			return err
		}
		return repos.Prices.CreateAll(components)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// GetByID obtiene un producto con su vista de precios por defecto
// (componentes sin cliente y con vigencia abierta).
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product, nil), nil
}

// GetWithClientPricing obtiene un producto con la grilla efectiva que ve ese
// cliente: sus negociaciones vigentes más los defectos no sobreescritos.
func (uc *ProductUseCase) GetWithClientPricing(productID, clientID string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product, client), nil
}

// List lista productos con su vista de precios por defecto.
func (uc *ProductUseCase) List(page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.productRepo.Count()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, nil))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualiza nombre/descripción y reemplaza los precios por defecto:
// los defectos vigentes se cierran (EffectiveTo = ahora, nunca se borran,
// para preservar el histórico) y se abren los nuevos. Las negociaciones de
// clientes no se tocan.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.Version != in.Version {
		return nil, domain.ErrConflict
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	now := time.Now()
	product.UpdatedAt = now

	var newComponents []*entity.PriceComponent
	var toClose []*entity.PriceComponent
	if in.PriceComponents != nil {
		newComponents, err = toComponents(in.PriceComponents, product.ID, now)
		if err != nil {
			return nil, err
		}
		for _, pc := range newComponents {
			if pc.ClientID != nil {
				// Las negociaciones se gestionan por SetCustomPricing.
				return nil, domain.ErrInvalidInput
			}
		}
		for _, pc := range pricing.ActiveDefaults(product.PriceComponents) {
			closed := *pc
			closedAt := now
			closed.EffectiveTo = &closedAt
			toClose = append(toClose, &closed)
		}
	}

	err = uc.txRunner.Run(context.Background(), func(repos TxRepos) error {
		if err := repos.Products.Update(product); err != nil {
			return err
		}
		for _, pc := range toClose {
			if err := repos.Prices.Close(pc); err != nil {
				return err
			}
		}
		return repos.Prices.CreateAll(newComponents)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(id)
}

// Delete elimina un producto y, en cascada, su grilla de precios.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.productRepo.Delete(id)
}

// SetCustomPricing fija precios negociados por componente para un cliente
// NEGOTIATED. Por cada tipo: elimina incondicionalmente la fila existente
// (producto, cliente, tipo), sea cual sea su ventana, e inserta una nueva
// con vigencia desde ahora y sin cierre. No afecta snapshots ya tomados.
func (uc *ProductUseCase) SetCustomPricing(productID, clientID string, in dto.SetCustomPricingRequest) (*dto.ProductResponse, error) {
	product, client, err := uc.loadNegotiated(productID, clientID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var toDelete []string
	var toCreate []*entity.PriceComponent
	components := product.PriceComponents
	for rawType, amount := range in.Components {
		t := entity.ComponentType(rawType)
		if !t.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		var removed []*entity.PriceComponent
		components, removed = pricing.WithoutComponentType(components, clientID, t)
		for _, pc := range removed {
			toDelete = append(toDelete, pc.ID)
		}
		toCreate = append(toCreate, &entity.PriceComponent{
			ID:            uuid.New().String(),
			ProductID:     productID,
			ComponentType: t,
			Amount:        amount,
			EffectiveFrom: now,
			ClientID:      &client.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	err = uc.txRunner.Run(context.Background(), func(repos TxRepos) error {
		if err := repos.Prices.DeleteAll(toDelete); err != nil {
			return err
		}
		return repos.Prices.CreateAll(toCreate)
	})
	if err != nil {
		return nil, err
	}
	uc.warnAmbiguity(productID, append(components, toCreate...), &client.ID)
	return uc.GetWithClientPricing(productID, clientID)
}

// RemoveCustomPricing elimina todas las negociaciones del cliente sobre el
// producto (reset completo: el cliente vuelve íntegro al precio por defecto).
// Es el único caso en que componentes se borran en lugar de cerrarse.
func (uc *ProductUseCase) RemoveCustomPricing(productID, clientID string) (*dto.ProductResponse, error) {
	product, _, err := uc.loadNegotiated(productID, clientID)
	if err != nil {
		return nil, err
	}
	_, removed := pricing.WithoutComponentsFor(product.PriceComponents, clientID)
	ids := make([]string, 0, len(removed))
	for _, pc := range removed {
		ids = append(ids, pc.ID)
	}
	if err := uc.priceRepo.DeleteAll(ids); err != nil {
		return nil, err
	}
	return uc.GetByID(productID)
}

// loadNegotiated carga producto y cliente validando que el cliente admita
// precios negociados.
func (uc *ProductUseCase) loadNegotiated(productID, clientID string) (*entity.Product, *entity.Client, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, domain.ErrNotFound
	}
	if client.ClientType != entity.ClientNegotiated {
		return nil, nil, domain.ErrNotNegotiated
	}
	return product, client, nil
}

// warnAmbiguity registra una advertencia de calidad de datos si quedaron
// varias filas vigentes para un mismo tipo. No es un fallo: la resolución
// sigue siendo determinista.
func (uc *ProductUseCase) warnAmbiguity(productID string, components []*entity.PriceComponent, clientID *string) {
	if uc.log == nil {
		return
	}
	ambiguous := pricing.AmbiguousTypes(components, clientID, time.Now())
	for _, t := range ambiguous {
		ev := uc.log.Warn().Str("product_id", productID).Str("component_type", string(t))
		if clientID != nil {
			ev = ev.Str("client_id", *clientID)
		}
		ev.Msg("varias filas de precio vigentes para el mismo tipo; se resuelve por EffectiveFrom más reciente")
	}
}

// toProductResponse proyecta un producto con la vista de grilla que ve el
// cliente (nil = vista por defecto).
func toProductResponse(p *entity.Product, client *entity.Client) *dto.ProductResponse {
	now := time.Now()
	var view []*entity.PriceComponent
	var total decimal.Decimal
	if client != nil {
		view = pricing.ForClientView(p.PriceComponents, client.ID)
		total = pricing.TotalCostForClient(p.PriceComponents, client, now)
	} else {
		view = pricing.ActiveDefaults(p.PriceComponents)
		total = pricing.TotalCost(p.PriceComponents, now)
	}
	comps := make([]dto.PriceComponentDTO, 0, len(view))
	for _, pc := range view {
		comps = append(comps, dto.PriceComponentDTO{
			ID:            pc.ID,
			ComponentType: string(pc.ComponentType),
			Amount:        pc.Amount,
			EffectiveFrom: pc.EffectiveFrom,
			EffectiveTo:   pc.EffectiveTo,
			ClientID:      pc.ClientID,
		})
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		PriceComponents: comps,
		TotalCost:       total,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// toComponents valida y convierte DTOs de componentes a entidades.
func toComponents(in []dto.PriceComponentDTO, productID string, now time.Time) ([]*entity.PriceComponent, error) {
	components := make([]*entity.PriceComponent, 0, len(in))
	for _, c := range in {
		t := entity.ComponentType(c.ComponentType)
		if !t.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		effectiveFrom := c.EffectiveFrom
		if effectiveFrom.IsZero() {
			effectiveFrom = now
		}
		components = append(components, &entity.PriceComponent{
			ID:            uuid.New().String(),
			ProductID:     productID,
			ComponentType: t,
			Amount:        c.Amount,
			EffectiveFrom: effectiveFrom,
			EffectiveTo:   c.EffectiveTo,
			ClientID:      c.ClientID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return components, nil
}
