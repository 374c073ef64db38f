package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
// Toda lectura hidrata el snapshot de precios y los arribos asociados.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, product_id, client_id, quantity, expected_quantity, total_amount,
	sale_date, expected_delivery_date, is_conform, created_at, updated_at, version`

// Create persiste la venta junto con su snapshot de precios.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, product_id, client_id, quantity, expected_quantity, total_amount,
			sale_date, expected_delivery_date, is_conform, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.ProductID, sale.ClientID, sale.Quantity, sale.ExpectedQuantity,
		sale.TotalAmount, sale.SaleDate, sale.ExpectedDeliveryDate, sale.IsConform,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return r.insertSnapshot(sale)
}

func (r *SaleRepo) insertSnapshot(sale *entity.Sale) error {
	for _, spc := range sale.PriceComponents {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO sale_price_components (id, sale_id, component_type, amount, uses_default_price, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			spc.ID, sale.ID, string(spc.ComponentType), spc.Amount, spc.UsesDefaultPrice,
			spc.CreatedAt, spc.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert sale price component: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta hidratada.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(),
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &s.ProductID, &s.ClientID, &s.Quantity, &s.ExpectedQuantity, &s.TotalAmount,
		&s.SaleDate, &s.ExpectedDeliveryDate, &s.IsConform, &s.CreatedAt, &s.UpdatedAt, &s.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.hydrate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List lista ventas hidratadas, las más recientes primero.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	return r.list(`SELECT `+saleColumns+` FROM sales ORDER BY sale_date DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// Count total de ventas.
func (r *SaleRepo) Count() (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

// ListByClient ventas de un cliente.
func (r *SaleRepo) ListByClient(clientID string) ([]*entity.Sale, error) {
	return r.list(`SELECT `+saleColumns+` FROM sales WHERE client_id = $1 ORDER BY sale_date DESC`, clientID)
}

// ListByProduct ventas de un producto.
func (r *SaleRepo) ListByProduct(productID string) ([]*entity.Sale, error) {
	return r.list(`SELECT `+saleColumns+` FROM sales WHERE product_id = $1 ORDER BY sale_date DESC`, productID)
}

// ListByDateRange ventas en el rango [start, end].
func (r *SaleRepo) ListByDateRange(start, end time.Time) ([]*entity.Sale, error) {
	return r.list(`SELECT `+saleColumns+` FROM sales WHERE sale_date BETWEEN $1 AND $2 ORDER BY sale_date`, start, end)
}

func (r *SaleRepo) list(query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ClientID, &s.Quantity, &s.ExpectedQuantity,
			&s.TotalAmount, &s.SaleDate, &s.ExpectedDeliveryDate, &s.IsConform,
			&s.CreatedAt, &s.UpdatedAt, &s.Version); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.hydrate(s); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// hydrate carga el snapshot de precios y los IDs de arribos asociados.
func (r *SaleRepo) hydrate(s *entity.Sale) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, sale_id, component_type, amount, uses_default_price, created_at, updated_at
		FROM sale_price_components WHERE sale_id = $1 ORDER BY component_type`, s.ID)
	if err != nil {
		return fmt.Errorf("list sale price components: %w", err)
	}
	defer rows.Close()
	s.PriceComponents = nil
	for rows.Next() {
		var spc entity.SalePriceComponent
		var componentType string
		if err := rows.Scan(&spc.ID, &spc.SaleID, &componentType, &spc.Amount,
			&spc.UsesDefaultPrice, &spc.CreatedAt, &spc.UpdatedAt); err != nil {
			return fmt.Errorf("scan sale price component: %w", err)
		}
		spc.ComponentType = entity.ComponentType(componentType)
		s.PriceComponents = append(s.PriceComponents, &spc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	arrivalRows, err := r.q.Query(context.Background(),
		`SELECT arrival_id FROM arrival_sales WHERE sale_id = $1`, s.ID)
	if err != nil {
		return fmt.Errorf("list sale arrivals: %w", err)
	}
	defer arrivalRows.Close()
	s.ArrivalIDs = nil
	for arrivalRows.Next() {
		var arrivalID string
		if err := arrivalRows.Scan(&arrivalID); err != nil {
			return fmt.Errorf("scan sale arrival: %w", err)
		}
		s.ArrivalIDs = append(s.ArrivalIDs, arrivalID)
	}
	return arrivalRows.Err()
}

// Update actualiza la venta con versionado optimista y regraba el snapshot
// completo (borrar e insertar, nunca merge parcial).
func (r *SaleRepo) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET quantity = $2, expected_quantity = $3, total_amount = $4,
			sale_date = $5, expected_delivery_date = $6, is_conform = $7, updated_at = $8,
			version = version + 1
		WHERE id = $1 AND version = $9`
	cmd, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Quantity, sale.ExpectedQuantity, sale.TotalAmount,
		sale.SaleDate, sale.ExpectedDeliveryDate, sale.IsConform, sale.UpdatedAt, sale.Version,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	sale.Version++

	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM sale_price_components WHERE sale_id = $1`, sale.ID); err != nil {
		return fmt.Errorf("clear sale snapshot: %w", err)
	}
	return r.insertSnapshot(sale)
}

// Delete elimina una venta; snapshot y asociaciones caen por FK ON DELETE CASCADE.
func (r *SaleRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DetachArrival elimina la fila de asociación venta↔arribo.
func (r *SaleRepo) DetachArrival(saleID, arrivalID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM arrival_sales WHERE sale_id = $1 AND arrival_id = $2`, saleID, arrivalID)
	if err != nil {
		return fmt.Errorf("detach arrival: %w", err)
	}
	return nil
}
