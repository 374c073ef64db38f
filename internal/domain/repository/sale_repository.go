package repository

import (
	"time"

	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para Sale y su snapshot de precios.
// Toda lectura devuelve ventas hidratadas con sus SalePriceComponents.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	List(limit, offset int) ([]*entity.Sale, error)
	Count() (int, error)
	ListByClient(clientID string) ([]*entity.Sale, error)
	ListByProduct(productID string) ([]*entity.Sale, error)
	ListByDateRange(start, end time.Time) ([]*entity.Sale, error)
	// Update reemplaza también la colección de SalePriceComponents (el
	// snapshot se regraba completo). Versionado optimista: ErrConflict.
	Update(sale *entity.Sale) error
	Delete(id string) error
	// DetachArrival elimina la fila de asociación venta↔arribo.
	DetachArrival(saleID, arrivalID string) error
}

// ArrivalRepository puerto de persistencia para Arrival.
type ArrivalRepository interface {
	Create(arrival *entity.Arrival) error
	GetByID(id string) (*entity.Arrival, error)
	List(limit, offset int) ([]*entity.Arrival, error)
	Count() (int, error)
	ListBySupplier(supplierID string) ([]*entity.Arrival, error)
	ListByDateRange(start, end time.Time) ([]*entity.Arrival, error)
	GetByInvoiceNumber(invoiceNumber string) (*entity.Arrival, error)
	Update(arrival *entity.Arrival) error
	Delete(id string) error
	AttachSale(arrivalID, saleID string) error
}
