package repository

import (
	"time"

	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// ReceiptRepository puerto de persistencia para Receipt y sus líneas.
// Borrar un recibo arrastra líneas y adjuntos en la misma transacción.
type ReceiptRepository interface {
	Create(receipt *entity.Receipt) error
	GetByID(id string) (*entity.Receipt, error)
	ListByClient(clientID string) ([]*entity.Receipt, error)
	ListByClientAndDateRange(clientID string, start, end time.Time) ([]*entity.Receipt, error)
	// Update regraba la colección de líneas completa (reemplazo, no merge).
	// Versionado optimista: ErrConflict si la versión es obsoleta.
	Update(receipt *entity.Receipt) error
	Delete(id string) error
	AddAttachment(att *entity.ReceiptAttachment) error
	DeleteAttachment(id string) error
	GetAttachment(id string) (*entity.ReceiptAttachment, error)
}
