package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalePriceComponentDTO entrada del snapshot de precios de una venta.
// uses_default_price=true: el monto se refresca contra el defecto vigente al
// guardar; false: el monto personalizado se conserva tal cual.
type SalePriceComponentDTO struct {
	ID               string          `json:"id,omitempty"`
	ComponentType    string          `json:"component_type"`
	Amount           decimal.Decimal `json:"amount"`
	UsesDefaultPrice bool            `json:"uses_default_price"`
}

// CreateSaleRequest alta de venta. PriceComponents vacío = el snapshot se
// materializa desde la grilla; no vacío = sobreescritura manual al vender.
type CreateSaleRequest struct {
	ProductID            string                  `json:"product_id"`
	ClientID             string                  `json:"client_id"`
	Quantity             int                     `json:"quantity"`
	ExpectedQuantity     int                     `json:"expected_quantity"`
	SaleDate             *time.Time              `json:"sale_date,omitempty"`
	ExpectedDeliveryDate *time.Time              `json:"expected_delivery_date"`
	IsConform            bool                    `json:"is_conform"`
	PriceComponents      []SalePriceComponentDTO `json:"price_components,omitempty"`
}

// UpdateSaleRequest actualización explícita de venta: rehace snapshot y
// total. Version es obligatoria para el control optimista.
type UpdateSaleRequest struct {
	Quantity             *int                    `json:"quantity,omitempty"`
	ExpectedQuantity     *int                    `json:"expected_quantity,omitempty"`
	ExpectedDeliveryDate *time.Time              `json:"expected_delivery_date,omitempty"`
	IsConform            *bool                   `json:"is_conform,omitempty"`
	PriceComponents      []SalePriceComponentDTO `json:"price_components,omitempty"`
	Version              int64                   `json:"version"`
}

// SaleResponse venta con su snapshot y total calculado.
type SaleResponse struct {
	ID                   string                  `json:"id"`
	ProductID            string                  `json:"product_id"`
	ClientID             string                  `json:"client_id"`
	Quantity             int                     `json:"quantity"`
	ExpectedQuantity     int                     `json:"expected_quantity"`
	TotalAmount          decimal.Decimal         `json:"total_amount"`
	SaleDate             time.Time               `json:"sale_date"`
	ExpectedDeliveryDate time.Time               `json:"expected_delivery_date"`
	IsConform            bool                    `json:"is_conform"`
	PriceComponents      []SalePriceComponentDTO `json:"price_components"`
	ArrivalIDs           []string                `json:"arrival_ids,omitempty"`
	Version              int64                   `json:"version"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateArrivalRequest alta de arribo con sus ventas (nuevas o existentes).
type CreateArrivalRequest struct {
	ArrivalDate   time.Time           `json:"arrival_date"`
	InvoiceNumber string              `json:"invoice_number"`
	SupplierID    string              `json:"supplier_id"`
	Sales         []CreateSaleRequest `json:"sales"`
	SaleIDs       []string            `json:"sale_ids,omitempty"`
}

// ArrivalResponse arribo en respuestas.
type ArrivalResponse struct {
	ID            string    `json:"id"`
	ArrivalDate   time.Time `json:"arrival_date"`
	InvoiceNumber string    `json:"invoice_number"`
	SupplierID    string    `json:"supplier_id"`
	SaleIDs       []string  `json:"sale_ids"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ArrivalListResponse listado paginado de arribos.
type ArrivalListResponse struct {
	Items []ArrivalResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
