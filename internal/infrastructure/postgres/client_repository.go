package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de persistencia para clientes. Pasar pool o tx.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, address, client_type, created_at, updated_at, version`

// Create persiste un cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, address, client_type, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, 0)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Address, string(client.ClientType),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	var c entity.Client
	var clientType string
	err := r.q.QueryRow(context.Background(),
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Address, &clientType, &c.CreatedAt, &c.UpdatedAt, &c.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	c.ClientType = entity.ClientType(clientType)
	return &c, nil
}

// List lista clientes con paginación, por nombre.
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	return scanClients(rows)
}

// Count total de clientes.
func (r *ClientRepo) Count() (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

// ListByType clientes de una modalidad de precios.
func (r *ClientRepo) ListByType(t entity.ClientType) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_type = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, string(t))
	if err != nil {
		return nil, fmt.Errorf("list clients by type: %w", err)
	}
	defer rows.Close()
	return scanClients(rows)
}

// Update actualiza un cliente con versionado optimista.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, address = $3, client_type = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $6`
	cmd, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Address, string(client.ClientType),
		client.UpdatedAt, client.Version,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	client.Version++
	return nil
}

// Delete elimina un cliente.
func (r *ClientRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanClients(rows pgx.Rows) ([]*entity.Client, error) {
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		var clientType string
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &clientType, &c.CreatedAt, &c.UpdatedAt, &c.Version); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.ClientType = entity.ClientType(clientType)
		list = append(list, &c)
	}
	return list, rows.Err()
}
