package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/application/usecase"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/pricing"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
	"github.com/medarrival/medarrival-api/pkg/logger"
)

// PriceGridUseCase exportación e importación masiva de la grilla de precios
// en formato hoja de cálculo.
type PriceGridUseCase struct {
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	txRunner    usecase.TxRunner
	renderer    Renderer
	log         *logger.Logger
}

// NewPriceGridUseCase construye el caso de uso.
func NewPriceGridUseCase(
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	txRunner usecase.TxRunner,
	renderer Renderer,
	log *logger.Logger,
) *PriceGridUseCase {
	return &PriceGridUseCase{
		productRepo: productRepo,
		clientRepo:  clientRepo,
		txRunner:    txRunner,
		renderer:    renderer,
		log:         log,
	}
}

// Export matriz producto × componente con los montos vigentes. clientID no
// nulo exporta la grilla efectiva que ve ese cliente (negociaciones con
// fallback al defecto); nulo exporta los precios por defecto.
func (uc *PriceGridUseCase) Export(clientID *string) ([]byte, error) {
	var client *entity.Client
	if clientID != nil {
		var err error
		client, err = uc.clientRepo.GetByID(*clientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
	}
	total, err := uc.productRepo.Count()
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(total, 0)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rows := make([]PriceGridRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, PriceGridRow{
			ProductName: p.Name,
			Amounts:     pricing.PriceVector(p.PriceComponents, client, now),
		})
	}
	return uc.renderer.PriceGrid(rows)
}

// ImportResult resumen de una importación masiva de precios.
type ImportResult struct {
	Applied int      `json:"applied"`
	Skipped []string `json:"skipped,omitempty"` // nombres de producto no encontrados
}

// Import aplica una hoja de grilla sobre los precios POR DEFECTO: por cada
// fila con producto conocido, cierra los defectos vigentes (EffectiveTo =
// ahora) y abre los nuevos montos. Filas de productos desconocidos se
// reportan sin abortar el resto; cada producto se aplica en su propia
// transacción.
func (uc *PriceGridUseCase) Import(data []byte) (*ImportResult, error) {
	rows, err := uc.renderer.ParsePriceGrid(data)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	result := &ImportResult{}
	now := time.Now()
	for _, row := range rows {
		product, err := uc.productRepo.GetByName(row.ProductName)
		if err != nil {
			return nil, err
		}
		if product == nil {
			result.Skipped = append(result.Skipped, row.ProductName)
			continue
		}
		if err := uc.applyRow(product, row.Amounts, now); err != nil {
			return nil, err
		}
		result.Applied++
	}
	if uc.log != nil {
		uc.log.Info().
			Int("applied", result.Applied).
			Int("skipped", len(result.Skipped)).
			Msg("grilla de precios importada")
	}
	return result, nil
}

func (uc *PriceGridUseCase) applyRow(product *entity.Product, amounts map[entity.ComponentType]decimal.Decimal, now time.Time) error {
	var toClose []*entity.PriceComponent
	for _, pc := range pricing.ActiveDefaults(product.PriceComponents) {
		if _, ok := amounts[pc.ComponentType]; !ok {
			continue
		}
		closed := *pc
		closedAt := now
		closed.EffectiveTo = &closedAt
		toClose = append(toClose, &closed)
	}
	var toCreate []*entity.PriceComponent
	for _, t := range entity.ComponentTypes() {
		amount, ok := amounts[t]
		if !ok {
			continue
		}
		toCreate = append(toCreate, &entity.PriceComponent{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			ComponentType: t,
			Amount:        amount,
			EffectiveFrom: now,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return uc.txRunner.Run(context.Background(), func(repos usecase.TxRepos) error {
		for _, pc := range toClose {
			if err := repos.Prices.Close(pc); err != nil {
				return err
			}
		}
		return repos.Prices.CreateAll(toCreate)
	})
}
