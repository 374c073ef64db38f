package repository

import "github.com/medarrival/medarrival-api/internal/domain/entity"

// ProductRepository puerto de persistencia para Product (DIP).
// GetByID devuelve el agregado hidratado con todos sus PriceComponents.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Count() (int, error)
	// Update aplica versionado optimista: falla con domain.ErrConflict si la
	// versión persistida no coincide con product.Version.
	Update(product *entity.Product) error
	Delete(id string) error
}

// PriceComponentRepository puerto de persistencia para la grilla de precios.
type PriceComponentRepository interface {
	Create(pc *entity.PriceComponent) error
	CreateAll(pcs []*entity.PriceComponent) error
	// Close fija EffectiveTo del componente (cerrar en lugar de borrar).
	Close(pc *entity.PriceComponent) error
	DeleteAll(ids []string) error
	ListByProduct(productID string) ([]*entity.PriceComponent, error)
}
