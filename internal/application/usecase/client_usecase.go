package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/availability"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
	"github.com/medarrival/medarrival-api/pkg/logger"
)

// ClientUseCase casos de uso de clientes: CRUD, cambio de modalidad de precio
// y consulta de productos pendientes de entrega.
type ClientUseCase struct {
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	receiptRepo repository.ReceiptRepository
	log         *logger.Logger
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	receiptRepo repository.ReceiptRepository,
	log *logger.Logger,
) *ClientUseCase {
	return &ClientUseCase{
		clientRepo:  clientRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		receiptRepo: receiptRepo,
		log:         log,
	}
}

// Create crea un cliente. El tipo por defecto es STANDARD.
func (uc *ClientUseCase) Create(in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	t := entity.ClientStandard
	if in.ClientType != "" {
		t = entity.ClientType(in.ClientType)
		if !t.IsValid() {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	client := &entity.Client{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Address:    in.Address,
		ClientType: t,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(id string) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

// List lista clientes paginados.
func (uc *ClientUseCase) List(page dto.PageRequest) (*dto.ClientListResponse, error) {
	page.DefaultPage()
	list, err := uc.clientRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.clientRepo.Count()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListByType lista clientes de una modalidad.
func (uc *ClientUseCase) ListByType(rawType string) ([]dto.ClientResponse, error) {
	t := entity.ClientType(rawType)
	if !t.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.clientRepo.ListByType(t)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return items, nil
}

// Update actualiza un cliente con control optimista. Cambiar la modalidad a
// STANDARD no borra negociaciones existentes: dejan de considerarse en la
// resolución mientras el cliente no vuelva a NEGOTIATED.
func (uc *ClientUseCase) Update(id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.Version != in.Version {
		return nil, domain.ErrConflict
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		client.Name = *in.Name
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	if in.ClientType != nil {
		t := entity.ClientType(*in.ClientType)
		if !t.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		if t != client.ClientType && uc.log != nil {
			uc.log.Info().
				Str("client_id", client.ID).
				Str("from", string(client.ClientType)).
				Str("to", string(t)).
				Msg("cambio de modalidad de precios del cliente")
		}
		client.ClientType = t
	}
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete elimina un cliente.
func (uc *ClientUseCase) Delete(id string) error {
	return uc.clientRepo.Delete(id)
}

// GetAvailableProducts productos que el cliente tiene pendientes de recibir:
// por producto, cantidad vendida menos cantidad ya facturada en recibos. Solo
// se listan saldos estrictamente positivos.
func (uc *ClientUseCase) GetAvailableProducts(clientID string) ([]dto.AvailableProductResponse, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	sales, err := uc.saleRepo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	receipts, err := uc.receiptRepo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	outstanding := availability.Outstanding(sales, receipts)
	items := make([]dto.AvailableProductResponse, 0, len(outstanding))
	for _, productID := range availability.OutstandingProductIDs(sales, receipts) {
		product, err := uc.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			// Venta huérfana de producto borrado: se omite del listado.
			continue
		}
		items = append(items, dto.AvailableProductResponse{
			Product:           *toProductResponse(product, client),
			AvailableQuantity: outstanding[productID],
		})
	}
	return items, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		ClientType: string(c.ClientType),
		Version:    c.Version,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
