package entity

import "time"

// ClientType clasificación del cliente frente a la grilla de precios.
type ClientType string

const (
	// ClientStandard usa solo precios por defecto de la grilla.
	ClientStandard ClientType = "STANDARD"
	// ClientNegotiated puede tener precios negociados por componente.
	// Una negociación en TRANSPORT no implica una en PURCHASE_PRICE:
	// las sobreescrituras son componente a componente, nunca del vector entero.
	ClientNegotiated ClientType = "NEGOTIATED"
)

// IsValid indica si el tipo de cliente es conocido.
func (t ClientType) IsValid() bool {
	return t == ClientStandard || t == ClientNegotiated
}

// Client destinatario de ventas y recepciones. Sus ventas y recibos se
// consultan vía repositorios (referencia por ID, sin grafos bidireccionales).
type Client struct {
	ID         string
	Name       string
	Address    string
	ClientType ClientType
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}
