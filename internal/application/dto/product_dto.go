package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceComponentDTO componente de precio en requests y responses.
// En creación el ID y las fechas se ignoran; EffectiveTo vacío = vigencia abierta.
type PriceComponentDTO struct {
	ID            string          `json:"id,omitempty"`
	ComponentType string          `json:"component_type"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveFrom time.Time       `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	ClientID      *string         `json:"client_id,omitempty"`
}

// CreateProductRequest alta de producto con sus precios por defecto iniciales.
type CreateProductRequest struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	CategoryID      *string             `json:"category_id,omitempty"`
	PriceComponents []PriceComponentDTO `json:"price_components"`
}

// UpdateProductRequest actualización de producto. Los componentes enviados
// reemplazan los precios por defecto vigentes; las negociaciones de clientes
// no se tocan. Version es obligatoria para el control optimista.
type UpdateProductRequest struct {
	Name            *string             `json:"name,omitempty"`
	Description     *string             `json:"description,omitempty"`
	CategoryID      *string             `json:"category_id,omitempty"`
	PriceComponents []PriceComponentDTO `json:"price_components,omitempty"`
	Version         int64               `json:"version"`
}

// ProductResponse producto con la vista de precios que corresponda
// (defecto, o efectiva para un cliente si se pidió así).
type ProductResponse struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	CategoryID      *string             `json:"category_id,omitempty"`
	PriceComponents []PriceComponentDTO `json:"price_components"`
	TotalCost       decimal.Decimal     `json:"total_cost"`
	Version         int64               `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SetCustomPricingRequest montos negociados por tipo de componente.
type SetCustomPricingRequest struct {
	Components map[string]decimal.Decimal `json:"components"`
}
