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

var _ repository.ArrivalRepository = (*ArrivalRepo)(nil)

// ArrivalRepo implementación del puerto ArrivalRepository sobre PostgreSQL.
type ArrivalRepo struct {
	q Querier
}

// NewArrivalRepository construye el adaptador de persistencia para arribos. Pasar pool o tx.
func NewArrivalRepository(q Querier) *ArrivalRepo {
	return &ArrivalRepo{q: q}
}

const arrivalColumns = `id, arrival_date, invoice_number, supplier_id, created_at, updated_at, version`

// Create persiste un arribo (las asociaciones van por AttachSale).
func (r *ArrivalRepo) Create(arrival *entity.Arrival) error {
	query := `
		INSERT INTO arrivals (id, arrival_date, invoice_number, supplier_id, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, 0)`
	_, err := r.q.Exec(context.Background(), query,
		arrival.ID, arrival.ArrivalDate, arrival.InvoiceNumber, arrival.SupplierID,
		arrival.CreatedAt, arrival.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert arrival: %w", err)
	}
	return nil
}

// GetByID obtiene un arribo con los IDs de sus ventas.
func (r *ArrivalRepo) GetByID(id string) (*entity.Arrival, error) {
	return r.getOne(`SELECT `+arrivalColumns+` FROM arrivals WHERE id = $1`, id)
}

// GetByInvoiceNumber busca por número de factura del proveedor (único).
func (r *ArrivalRepo) GetByInvoiceNumber(invoiceNumber string) (*entity.Arrival, error) {
	return r.getOne(`SELECT `+arrivalColumns+` FROM arrivals WHERE invoice_number = $1`, invoiceNumber)
}

func (r *ArrivalRepo) getOne(query string, arg any) (*entity.Arrival, error) {
	var a entity.Arrival
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&a.ID, &a.ArrivalDate, &a.InvoiceNumber, &a.SupplierID, &a.CreatedAt, &a.UpdatedAt, &a.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get arrival: %w", err)
	}
	if err := r.hydrate(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// List lista arribos, los más recientes primero.
func (r *ArrivalRepo) List(limit, offset int) ([]*entity.Arrival, error) {
	return r.list(`SELECT `+arrivalColumns+` FROM arrivals ORDER BY arrival_date DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// Count total de arribos.
func (r *ArrivalRepo) Count() (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM arrivals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count arrivals: %w", err)
	}
	return n, nil
}

// ListBySupplier arribos de un proveedor.
func (r *ArrivalRepo) ListBySupplier(supplierID string) ([]*entity.Arrival, error) {
	return r.list(`SELECT `+arrivalColumns+` FROM arrivals WHERE supplier_id = $1 ORDER BY arrival_date DESC`, supplierID)
}

// ListByDateRange arribos en el rango [start, end].
func (r *ArrivalRepo) ListByDateRange(start, end time.Time) ([]*entity.Arrival, error) {
	return r.list(`SELECT `+arrivalColumns+` FROM arrivals WHERE arrival_date BETWEEN $1 AND $2 ORDER BY arrival_date`, start, end)
}

func (r *ArrivalRepo) list(query string, args ...any) ([]*entity.Arrival, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list arrivals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Arrival
	for rows.Next() {
		var a entity.Arrival
		if err := rows.Scan(&a.ID, &a.ArrivalDate, &a.InvoiceNumber, &a.SupplierID,
			&a.CreatedAt, &a.UpdatedAt, &a.Version); err != nil {
			return nil, fmt.Errorf("scan arrival: %w", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, a := range list {
		if err := r.hydrate(a); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ArrivalRepo) hydrate(a *entity.Arrival) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT sale_id FROM arrival_sales WHERE arrival_id = $1`, a.ID)
	if err != nil {
		return fmt.Errorf("list arrival sales: %w", err)
	}
	defer rows.Close()
	a.SaleIDs = nil
	for rows.Next() {
		var saleID string
		if err := rows.Scan(&saleID); err != nil {
			return fmt.Errorf("scan arrival sale: %w", err)
		}
		a.SaleIDs = append(a.SaleIDs, saleID)
	}
	return rows.Err()
}

// Update actualiza un arribo con versionado optimista.
func (r *ArrivalRepo) Update(arrival *entity.Arrival) error {
	query := `
		UPDATE arrivals SET arrival_date = $2, invoice_number = $3, supplier_id = $4, updated_at = $5,
			version = version + 1
		WHERE id = $1 AND version = $6`
	cmd, err := r.q.Exec(context.Background(), query,
		arrival.ID, arrival.ArrivalDate, arrival.InvoiceNumber, arrival.SupplierID,
		arrival.UpdatedAt, arrival.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update arrival: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	arrival.Version++
	return nil
}

// Delete elimina un arribo; las asociaciones caen por FK ON DELETE CASCADE.
func (r *ArrivalRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM arrivals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete arrival: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AttachSale crea la fila de asociación arribo↔venta (idempotente).
func (r *ArrivalRepo) AttachSale(arrivalID, saleID string) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO arrival_sales (arrival_id, sale_id) VALUES ($1, $2)
		ON CONFLICT (arrival_id, sale_id) DO NOTHING`, arrivalID, saleID)
	if err != nil {
		return fmt.Errorf("attach sale: %w", err)
	}
	return nil
}
