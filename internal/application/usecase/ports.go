package usecase

import (
	"context"

	"github.com/medarrival/medarrival-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Products repository.ProductRepository
	Prices   repository.PriceComponentRepository
	Clients  repository.ClientRepository
	Sales    repository.SaleRepository
	Arrivals repository.ArrivalRepository
	Receipts repository.ReceiptRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que las cascadas (recibo→líneas,
// arribo→asociaciones, producto→componentes) se confirmen o reviertan juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
