package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt recibo de entrega facturado a un cliente. Los campos de facturación
// replican el formato francés de los bons de livraison escaneados.
// Invariante: TotalAmount = Σ(Items[i].Subtotal).
type Receipt struct {
	ID                  string
	ClientID            string
	ReceiptNumber       string
	ReceiptDate         time.Time
	TotalAmount         decimal.Decimal
	ICENumber           string // "I.C.E"
	ReferenceNumber     string // "Réf Bon Commande"
	DeliveryNoteNumbers string
	TVAPercentage       decimal.Decimal
	TotalHT             decimal.Decimal
	TotalTTC            decimal.Decimal
	PaymentTerms        string
	BankAccount         string
	BankDetails         string
	IssuingDepartment   string // "Organe Emetteur"
	DeliveryRef         string // "Basé sur Livraison ..."
	DeliveryReceived    bool   // "Accusé de réception"
	Items               []*ReceiptItem
	Attachments         []*ReceiptAttachment
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int64
}

// ReceiptItem línea de un recibo. Subtotal es derivado (Quantity × UnitPrice)
// y se recalcula en cada persistencia, nunca se confía en el valor recibido.
type ReceiptItem struct {
	ID              string
	ReceiptID       string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	Subtotal        decimal.Decimal
	LotNumber       string
	CalibrationDate *time.Time
	ExpirationDate  *time.Time
	ArticleCode     string
	Description     string
	Unit            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReceiptAttachment archivo adjunto al recibo (PDF escaneado, etc.).
// El contenido vive en el storage de archivos; aquí solo los metadatos.
type ReceiptAttachment struct {
	ID          string
	ReceiptID   string
	FileName    string
	ContentType string
	StoragePath string
	SizeBytes   int64
	CreatedAt   time.Time
}
