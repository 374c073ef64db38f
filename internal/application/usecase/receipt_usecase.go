package usecase

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/pricing"
	"github.com/medarrival/medarrival-api/internal/domain/repository"
	"github.com/medarrival/medarrival-api/pkg/logger"
)

// FileStorage puerto de almacenamiento de archivos adjuntos.
type FileStorage interface {
	Save(path string, data []byte) error
	Read(path string) ([]byte, error)
	Delete(path string) error
}

// ReceiptRenderer puerto de generación del documento imprimible del recibo.
type ReceiptRenderer interface {
	RenderReceipt(receipt *entity.Receipt, client *entity.Client) ([]byte, error)
}

// ReceiptUseCase casos de uso de recibos de entrega: emisión, consulta por
// cliente, reemplazo de líneas, adjuntos y documento imprimible.
type ReceiptUseCase struct {
	receiptRepo repository.ReceiptRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	storage     FileStorage
	renderer    ReceiptRenderer
	log         *logger.Logger
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	receiptRepo repository.ReceiptRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	storage FileStorage,
	renderer ReceiptRenderer,
	log *logger.Logger,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		receiptRepo: receiptRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		storage:     storage,
		renderer:    renderer,
		log:         log,
	}
}

// Create emite un recibo para un cliente. Los subtotales de línea y el total
// se recalculan siempre al persistir, ignorando los valores recibidos.
func (uc *ReceiptUseCase) Create(clientID string, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	receiptDate := now
	if in.ReceiptDate != nil {
		receiptDate = *in.ReceiptDate
	}
	number := in.ReceiptNumber
	if number == "" {
		number = generateReceiptNumber(receiptDate)
	}
	receipt := &entity.Receipt{
		ID:                  uuid.New().String(),
		ClientID:            clientID,
		ReceiptNumber:       number,
		ReceiptDate:         receiptDate,
		ICENumber:           in.ICENumber,
		ReferenceNumber:     in.ReferenceNumber,
		DeliveryNoteNumbers: in.DeliveryNoteNumbers,
		TVAPercentage:       in.TVAPercentage,
		TotalHT:             in.TotalHT,
		TotalTTC:            in.TotalTTC,
		PaymentTerms:        in.PaymentTerms,
		BankAccount:         in.BankAccount,
		BankDetails:         in.BankDetails,
		IssuingDepartment:   in.IssuingDepartment,
		DeliveryRef:         in.DeliveryRef,
		DeliveryReceived:    in.DeliveryReceived,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	receipt.Items, err = uc.toItems(in.Items, receipt.ID, now)
	if err != nil {
		return nil, err
	}
	pricing.RecomputeReceipt(receipt)

	if err := uc.receiptRepo.Create(receipt); err != nil {
		return nil, err
	}
	if uc.log != nil {
		uc.log.Info().
			Str("receipt_id", receipt.ID).
			Str("receipt_number", receipt.ReceiptNumber).
			Str("client_id", clientID).
			Msg("recibo emitido")
	}
	return toReceiptResponse(receipt), nil
}

// GetByID obtiene un recibo verificando que pertenezca al cliente de la ruta.
func (uc *ReceiptUseCase) GetByID(clientID, receiptID string) (*dto.ReceiptResponse, error) {
	receipt, err := uc.owned(clientID, receiptID)
	if err != nil {
		return nil, err
	}
	return toReceiptResponse(receipt), nil
}

// ListByClient recibos de un cliente.
func (uc *ReceiptUseCase) ListByClient(clientID string) ([]dto.ReceiptResponse, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.receiptRepo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReceiptResponse(r))
	}
	return items, nil
}

// ListByClientAndDateRange recibos de un cliente en un rango de fechas.
func (uc *ReceiptUseCase) ListByClientAndDateRange(clientID string, start, end time.Time) ([]dto.ReceiptResponse, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.receiptRepo.ListByClientAndDateRange(clientID, start, end)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReceiptResponse(r))
	}
	return items, nil
}

// Update reemplaza la colección de líneas completa y recalcula los totales.
// Control optimista por versión.
func (uc *ReceiptUseCase) Update(clientID, receiptID string, in dto.UpdateReceiptRequest) (*dto.ReceiptResponse, error) {
	receipt, err := uc.owned(clientID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Version != in.Version {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	if in.ReceiptDate != nil {
		receipt.ReceiptDate = *in.ReceiptDate
	}
	receipt.Items, err = uc.toItems(in.Items, receipt.ID, now)
	if err != nil {
		return nil, err
	}
	receipt.UpdatedAt = now
	pricing.RecomputeReceipt(receipt)

	if err := uc.receiptRepo.Update(receipt); err != nil {
		return nil, err
	}
	return toReceiptResponse(receipt), nil
}

// Delete elimina un recibo (líneas y adjuntos en cascada) y sus archivos.
func (uc *ReceiptUseCase) Delete(clientID, receiptID string) error {
	receipt, err := uc.owned(clientID, receiptID)
	if err != nil {
		return err
	}
	for _, att := range receipt.Attachments {
		if err := uc.storage.Delete(att.StoragePath); err != nil && uc.log != nil {
			// El registro se borra igualmente; el archivo huérfano se reporta.
			uc.log.Warn().Err(err).Str("path", att.StoragePath).Msg("no se pudo borrar el adjunto del storage")
		}
	}
	return uc.receiptRepo.Delete(receipt.ID)
}

// RenderDocument genera el documento imprimible (PDF) del recibo.
func (uc *ReceiptUseCase) RenderDocument(clientID, receiptID string) ([]byte, string, error) {
	receipt, err := uc.owned(clientID, receiptID)
	if err != nil {
		return nil, "", err
	}
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.renderer.RenderReceipt(receipt, client)
	if err != nil {
		return nil, "", fmt.Errorf("generar documento del recibo: %w", err)
	}
	return data, fmt.Sprintf("%s.pdf", receipt.ReceiptNumber), nil
}

// AddAttachment guarda el archivo en el storage y registra sus metadatos.
func (uc *ReceiptUseCase) AddAttachment(clientID, receiptID, fileName, contentType string, data []byte) (*dto.ReceiptAttachmentDTO, error) {
	if fileName == "" || len(data) == 0 {
		return nil, domain.ErrInvalidInput
	}
	receipt, err := uc.owned(clientID, receiptID)
	if err != nil {
		return nil, err
	}
	att := &entity.ReceiptAttachment{
		ID:          uuid.New().String(),
		ReceiptID:   receipt.ID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		CreatedAt:   time.Now(),
	}
	att.StoragePath = fmt.Sprintf("receipts/%s/%s-%s", receipt.ID, att.ID, fileName)
	if err := uc.storage.Save(att.StoragePath, data); err != nil {
		return nil, fmt.Errorf("guardar adjunto: %w", err)
	}
	if err := uc.receiptRepo.AddAttachment(att); err != nil {
		return nil, err
	}
	return toAttachmentDTO(att), nil
}

// GetAttachment devuelve metadatos y contenido de un adjunto.
func (uc *ReceiptUseCase) GetAttachment(clientID, receiptID, attachmentID string) (*dto.ReceiptAttachmentDTO, []byte, error) {
	if _, err := uc.owned(clientID, receiptID); err != nil {
		return nil, nil, err
	}
	att, err := uc.receiptRepo.GetAttachment(attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if att == nil || att.ReceiptID != receiptID {
		return nil, nil, domain.ErrNotFound
	}
	data, err := uc.storage.Read(att.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("leer adjunto: %w", err)
	}
	return toAttachmentDTO(att), data, nil
}

// DeleteAttachment borra el adjunto del storage y su registro.
func (uc *ReceiptUseCase) DeleteAttachment(clientID, receiptID, attachmentID string) error {
	if _, err := uc.owned(clientID, receiptID); err != nil {
		return err
	}
	att, err := uc.receiptRepo.GetAttachment(attachmentID)
	if err != nil {
		return err
	}
	if att == nil || att.ReceiptID != receiptID {
		return domain.ErrNotFound
	}
	if err := uc.storage.Delete(att.StoragePath); err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("path", att.StoragePath).Msg("no se pudo borrar el adjunto del storage")
	}
	return uc.receiptRepo.DeleteAttachment(attachmentID)
}

// owned carga el recibo y verifica la pertenencia al cliente de la ruta.
func (uc *ReceiptUseCase) owned(clientID, receiptID string) (*entity.Receipt, error) {
	receipt, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.ErrNotFound
	}
	if receipt.ClientID != clientID {
		return nil, domain.ErrWrongOwnership
	}
	return receipt, nil
}

func (uc *ReceiptUseCase) toItems(in []dto.ReceiptItemDTO, receiptID string, now time.Time) ([]*entity.ReceiptItem, error) {
	items := make([]*entity.ReceiptItem, 0, len(in))
	for _, it := range in {
		if it.Quantity <= 0 || it.UnitPrice.IsNegative() || it.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		id := it.ID
		if id == "" {
			id = uuid.New().String()
		}
		items = append(items, &entity.ReceiptItem{
			ID:              id,
			ReceiptID:       receiptID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			LotNumber:       it.LotNumber,
			CalibrationDate: it.CalibrationDate,
			ExpirationDate:  it.ExpirationDate,
			ArticleCode:     it.ArticleCode,
			Description:     it.Description,
			Unit:            it.Unit,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return items, nil
}

// generateReceiptNumber número de recibo legible: FACTURE-fecha-sufijo.
func generateReceiptNumber(date time.Time) string {
	return fmt.Sprintf("FACTURE-%s-%05d", date.Format("20060102"), rand.IntN(100000))
}

func toReceiptResponse(r *entity.Receipt) *dto.ReceiptResponse {
	items := make([]dto.ReceiptItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.ReceiptItemDTO{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			Subtotal:        it.Subtotal,
			LotNumber:       it.LotNumber,
			CalibrationDate: it.CalibrationDate,
			ExpirationDate:  it.ExpirationDate,
			ArticleCode:     it.ArticleCode,
			Description:     it.Description,
			Unit:            it.Unit,
		})
	}
	atts := make([]dto.ReceiptAttachmentDTO, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		atts = append(atts, *toAttachmentDTO(a))
	}
	return &dto.ReceiptResponse{
		ID:                  r.ID,
		ClientID:            r.ClientID,
		ReceiptNumber:       r.ReceiptNumber,
		ReceiptDate:         r.ReceiptDate,
		TotalAmount:         r.TotalAmount,
		ICENumber:           r.ICENumber,
		ReferenceNumber:     r.ReferenceNumber,
		DeliveryNoteNumbers: r.DeliveryNoteNumbers,
		TVAPercentage:       r.TVAPercentage,
		TotalHT:             r.TotalHT,
		TotalTTC:            r.TotalTTC,
		PaymentTerms:        r.PaymentTerms,
		BankAccount:         r.BankAccount,
		BankDetails:         r.BankDetails,
		IssuingDepartment:   r.IssuingDepartment,
		DeliveryRef:         r.DeliveryRef,
		DeliveryReceived:    r.DeliveryReceived,
		Items:               items,
		Attachments:         atts,
		Version:             r.Version,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func toAttachmentDTO(a *entity.ReceiptAttachment) *dto.ReceiptAttachmentDTO {
	return &dto.ReceiptAttachmentDTO{
		ID:          a.ID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}
