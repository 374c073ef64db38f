package dto

import "time"

// CreateClientRequest alta de cliente.
type CreateClientRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	ClientType string `json:"client_type"`
}

// UpdateClientRequest actualización de cliente (versionado optimista).
type UpdateClientRequest struct {
	Name       *string `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	ClientType *string `json:"client_type,omitempty"`
	Version    int64   `json:"version"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	ClientType string    `json:"client_type"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ClientListResponse listado paginado de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// AvailableProductResponse producto aún adeudado al cliente con su cantidad
// pendiente (vendida − recibida). Puede ser negativa en sobre-entrega.
type AvailableProductResponse struct {
	Product           ProductResponse `json:"product"`
	AvailableQuantity int             `json:"available_quantity"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// UpdateSupplierRequest actualización de proveedor.
type UpdateSupplierRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Version int64   `json:"version"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
