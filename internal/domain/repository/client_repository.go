package repository

import "github.com/medarrival/medarrival-api/internal/domain/entity"

// ClientRepository puerto de persistencia para Client.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)
	Count() (int, error)
	ListByType(t entity.ClientType) ([]*entity.Client, error)
	Update(client *entity.Client) error
	Delete(id string) error
}

// SupplierRepository puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Delete(id string) error
}

// UserRepository puerto de persistencia para usuarios (auth).
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}
