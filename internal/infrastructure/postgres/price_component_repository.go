package postgres

import (
	"context"
	"fmt"

	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
)

var _ repository.PriceComponentRepository = (*PriceComponentRepo)(nil)

// PriceComponentRepo implementación del puerto PriceComponentRepository sobre PostgreSQL.
type PriceComponentRepo struct {
	q Querier
}

// NewPriceComponentRepository construye el adaptador de la grilla de precios. Pasar pool o tx.
func NewPriceComponentRepository(q Querier) *PriceComponentRepo {
	return &PriceComponentRepo{q: q}
}

const priceComponentColumns = `id, product_id, component_type, amount, effective_from, effective_to, client_id, created_at, updated_at, version`

// Create persiste un componente de precio.
func (r *PriceComponentRepo) Create(pc *entity.PriceComponent) error {
	query := `
		INSERT INTO price_components (id, product_id, component_type, amount, effective_from, effective_to, client_id, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)`
	_, err := r.q.Exec(context.Background(), query,
		pc.ID, pc.ProductID, string(pc.ComponentType), pc.Amount,
		pc.EffectiveFrom, pc.EffectiveTo, pc.ClientID, pc.CreatedAt, pc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert price component: %w", err)
	}
	return nil
}

// CreateAll persiste un lote de componentes.
func (r *PriceComponentRepo) CreateAll(pcs []*entity.PriceComponent) error {
	for _, pc := range pcs {
		if err := r.Create(pc); err != nil {
			return err
		}
	}
	return nil
}

// Close cierra la vigencia del componente fijando effective_to (no borra).
func (r *PriceComponentRepo) Close(pc *entity.PriceComponent) error {
	query := `
		UPDATE price_components SET effective_to = $2, updated_at = $2, version = version + 1
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, pc.ID, pc.EffectiveTo)
	if err != nil {
		return fmt.Errorf("close price component: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll borra los componentes indicados (negociaciones retiradas).
func (r *PriceComponentRepo) DeleteAll(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(context.Background(), `DELETE FROM price_components WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete price components: %w", err)
	}
	return nil
}

// ListByProduct toda la grilla de un producto: defectos y negociaciones,
// vigentes e históricos. La resolución de precios necesita el conjunto entero.
func (r *PriceComponentRepo) ListByProduct(productID string) ([]*entity.PriceComponent, error) {
	query := `SELECT ` + priceComponentColumns + ` FROM price_components WHERE product_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list price components: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceComponent
	for rows.Next() {
		var pc entity.PriceComponent
		var componentType string
		if err := rows.Scan(&pc.ID, &pc.ProductID, &componentType, &pc.Amount,
			&pc.EffectiveFrom, &pc.EffectiveTo, &pc.ClientID, &pc.CreatedAt, &pc.UpdatedAt, &pc.Version); err != nil {
			return nil, fmt.Errorf("scan price component: %w", err)
		}
		pc.ComponentType = entity.ComponentType(componentType)
		list = append(list, &pc)
	}
	return list, rows.Err()
}
