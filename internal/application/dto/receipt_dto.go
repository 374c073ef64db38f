package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptItemDTO línea de recibo. Subtotal es de solo lectura: siempre se
// recalcula como quantity × unit_price al persistir.
type ReceiptItemDTO struct {
	ID              string          `json:"id,omitempty"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Subtotal        decimal.Decimal `json:"subtotal,omitempty"`
	LotNumber       string          `json:"lot_number,omitempty"`
	CalibrationDate *time.Time      `json:"calibration_date,omitempty"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	ArticleCode     string          `json:"article_code,omitempty"`
	Description     string          `json:"description,omitempty"`
	Unit            string          `json:"unit,omitempty"`
}

// CreateReceiptRequest alta de recibo para un cliente. ReceiptNumber vacío =
// se genera uno; ReceiptDate nula = ahora.
type CreateReceiptRequest struct {
	ReceiptNumber       string           `json:"receipt_number,omitempty"`
	ReceiptDate         *time.Time       `json:"receipt_date,omitempty"`
	ICENumber           string           `json:"ice_number,omitempty"`
	ReferenceNumber     string           `json:"reference_number,omitempty"`
	DeliveryNoteNumbers string           `json:"delivery_note_numbers,omitempty"`
	TVAPercentage       decimal.Decimal  `json:"tva_percentage"`
	TotalHT             decimal.Decimal  `json:"total_ht"`
	TotalTTC            decimal.Decimal  `json:"total_ttc"`
	PaymentTerms        string           `json:"payment_terms,omitempty"`
	BankAccount         string           `json:"bank_account,omitempty"`
	BankDetails         string           `json:"bank_details,omitempty"`
	IssuingDepartment   string           `json:"issuing_department,omitempty"`
	DeliveryRef         string           `json:"delivery_ref,omitempty"`
	DeliveryReceived    bool             `json:"delivery_received"`
	Items               []ReceiptItemDTO `json:"items"`
}

// UpdateReceiptRequest actualización de recibo: la colección de líneas se
// reemplaza completa (no merge) y los totales se recalculan.
type UpdateReceiptRequest struct {
	ReceiptDate *time.Time       `json:"receipt_date,omitempty"`
	Items       []ReceiptItemDTO `json:"items"`
	Version     int64            `json:"version"`
}

// ReceiptAttachmentDTO metadatos de un adjunto.
type ReceiptAttachmentDTO struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReceiptResponse recibo con líneas y total derivado.
type ReceiptResponse struct {
	ID                  string                 `json:"id"`
	ClientID            string                 `json:"client_id"`
	ReceiptNumber       string                 `json:"receipt_number"`
	ReceiptDate         time.Time              `json:"receipt_date"`
	TotalAmount         decimal.Decimal        `json:"total_amount"`
	ICENumber           string                 `json:"ice_number,omitempty"`
	ReferenceNumber     string                 `json:"reference_number,omitempty"`
	DeliveryNoteNumbers string                 `json:"delivery_note_numbers,omitempty"`
	TVAPercentage       decimal.Decimal        `json:"tva_percentage"`
	TotalHT             decimal.Decimal        `json:"total_ht"`
	TotalTTC            decimal.Decimal        `json:"total_ttc"`
	PaymentTerms        string                 `json:"payment_terms,omitempty"`
	BankAccount         string                 `json:"bank_account,omitempty"`
	BankDetails         string                 `json:"bank_details,omitempty"`
	IssuingDepartment   string                 `json:"issuing_department,omitempty"`
	DeliveryRef         string                 `json:"delivery_ref,omitempty"`
	DeliveryReceived    bool                   `json:"delivery_received"`
	Items               []ReceiptItemDTO       `json:"items"`
	Attachments         []ReceiptAttachmentDTO `json:"attachments,omitempty"`
	Version             int64                  `json:"version"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}
