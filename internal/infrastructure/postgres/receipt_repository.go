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

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación del puerto ReceiptRepository sobre PostgreSQL.
// Las lecturas hidratan líneas y adjuntos.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador de persistencia para recibos. Pasar pool o tx.
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

const receiptColumns = `id, client_id, receipt_number, receipt_date, total_amount,
	ice_number, reference_number, delivery_note_numbers, tva_percentage, total_ht, total_ttc,
	payment_terms, bank_account, bank_details, issuing_department, delivery_ref, delivery_received,
	created_at, updated_at, version`

// Create persiste el recibo con sus líneas.
func (r *ReceiptRepo) Create(receipt *entity.Receipt) error {
	query := `
		INSERT INTO receipts (id, client_id, receipt_number, receipt_date, total_amount,
			ice_number, reference_number, delivery_note_numbers, tva_percentage, total_ht, total_ttc,
			payment_terms, bank_account, bank_details, issuing_department, delivery_ref, delivery_received,
			created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, 0)`
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.ClientID, receipt.ReceiptNumber, receipt.ReceiptDate, receipt.TotalAmount,
		receipt.ICENumber, receipt.ReferenceNumber, receipt.DeliveryNoteNumbers, receipt.TVAPercentage,
		receipt.TotalHT, receipt.TotalTTC, receipt.PaymentTerms, receipt.BankAccount, receipt.BankDetails,
		receipt.IssuingDepartment, receipt.DeliveryRef, receipt.DeliveryReceived,
		receipt.CreatedAt, receipt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return r.insertItems(receipt)
}

func (r *ReceiptRepo) insertItems(receipt *entity.Receipt) error {
	for _, it := range receipt.Items {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO receipt_items (id, receipt_id, product_id, quantity, unit_price, subtotal,
				lot_number, calibration_date, expiration_date, article_code, description, unit,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			it.ID, receipt.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
			it.LotNumber, it.CalibrationDate, it.ExpirationDate, it.ArticleCode, it.Description,
			it.Unit, it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert receipt item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un recibo hidratado con líneas y adjuntos.
func (r *ReceiptRepo) GetByID(id string) (*entity.Receipt, error) {
	var rec entity.Receipt
	err := r.q.QueryRow(context.Background(),
		`SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id).Scan(receiptFields(&rec)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	if err := r.hydrate(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByClient recibos de un cliente, los más recientes primero.
func (r *ReceiptRepo) ListByClient(clientID string) ([]*entity.Receipt, error) {
	return r.list(`SELECT `+receiptColumns+` FROM receipts WHERE client_id = $1 ORDER BY receipt_date DESC`, clientID)
}

// ListByClientAndDateRange recibos de un cliente en el rango [start, end].
func (r *ReceiptRepo) ListByClientAndDateRange(clientID string, start, end time.Time) ([]*entity.Receipt, error) {
	return r.list(`SELECT `+receiptColumns+` FROM receipts
		WHERE client_id = $1 AND receipt_date BETWEEN $2 AND $3 ORDER BY receipt_date`, clientID, start, end)
}

func (r *ReceiptRepo) list(query string, args ...any) ([]*entity.Receipt, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		var rec entity.Receipt
		if err := rows.Scan(receiptFields(&rec)...); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range list {
		if err := r.hydrate(rec); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func receiptFields(rec *entity.Receipt) []any {
	return []any{
		&rec.ID, &rec.ClientID, &rec.ReceiptNumber, &rec.ReceiptDate, &rec.TotalAmount,
		&rec.ICENumber, &rec.ReferenceNumber, &rec.DeliveryNoteNumbers, &rec.TVAPercentage,
		&rec.TotalHT, &rec.TotalTTC, &rec.PaymentTerms, &rec.BankAccount, &rec.BankDetails,
		&rec.IssuingDepartment, &rec.DeliveryRef, &rec.DeliveryReceived,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.Version,
	}
}

func (r *ReceiptRepo) hydrate(rec *entity.Receipt) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, receipt_id, product_id, quantity, unit_price, subtotal,
			lot_number, calibration_date, expiration_date, article_code, description, unit,
			created_at, updated_at
		FROM receipt_items WHERE receipt_id = $1 ORDER BY created_at`, rec.ID)
	if err != nil {
		return fmt.Errorf("list receipt items: %w", err)
	}
	defer rows.Close()
	rec.Items = nil
	for rows.Next() {
		var it entity.ReceiptItem
		if err := rows.Scan(&it.ID, &it.ReceiptID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.Subtotal, &it.LotNumber, &it.CalibrationDate, &it.ExpirationDate, &it.ArticleCode,
			&it.Description, &it.Unit, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return fmt.Errorf("scan receipt item: %w", err)
		}
		rec.Items = append(rec.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	attRows, err := r.q.Query(context.Background(), `
		SELECT id, receipt_id, file_name, content_type, storage_path, size_bytes, created_at
		FROM receipt_attachments WHERE receipt_id = $1 ORDER BY created_at`, rec.ID)
	if err != nil {
		return fmt.Errorf("list receipt attachments: %w", err)
	}
	defer attRows.Close()
	rec.Attachments = nil
	for attRows.Next() {
		var att entity.ReceiptAttachment
		if err := attRows.Scan(&att.ID, &att.ReceiptID, &att.FileName, &att.ContentType,
			&att.StoragePath, &att.SizeBytes, &att.CreatedAt); err != nil {
			return fmt.Errorf("scan receipt attachment: %w", err)
		}
		rec.Attachments = append(rec.Attachments, &att)
	}
	return attRows.Err()
}

// Update actualiza el recibo con versionado optimista y regraba la colección
// de líneas completa (reemplazo, no merge).
func (r *ReceiptRepo) Update(receipt *entity.Receipt) error {
	query := `
		UPDATE receipts SET receipt_date = $2, total_amount = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5`
	cmd, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.ReceiptDate, receipt.TotalAmount, receipt.UpdatedAt, receipt.Version,
	)
	if err != nil {
		return fmt.Errorf("update receipt: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	receipt.Version++

	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM receipt_items WHERE receipt_id = $1`, receipt.ID); err != nil {
		return fmt.Errorf("clear receipt items: %w", err)
	}
	return r.insertItems(receipt)
}

// Delete elimina un recibo; líneas y adjuntos caen por FK ON DELETE CASCADE.
func (r *ReceiptRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddAttachment registra los metadatos de un adjunto.
func (r *ReceiptRepo) AddAttachment(att *entity.ReceiptAttachment) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO receipt_attachments (id, receipt_id, file_name, content_type, storage_path, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		att.ID, att.ReceiptID, att.FileName, att.ContentType, att.StoragePath, att.SizeBytes, att.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt attachment: %w", err)
	}
	return nil
}

// GetAttachment obtiene los metadatos de un adjunto.
func (r *ReceiptRepo) GetAttachment(id string) (*entity.ReceiptAttachment, error) {
	var att entity.ReceiptAttachment
	err := r.q.QueryRow(context.Background(), `
		SELECT id, receipt_id, file_name, content_type, storage_path, size_bytes, created_at
		FROM receipt_attachments WHERE id = $1`, id).Scan(
		&att.ID, &att.ReceiptID, &att.FileName, &att.ContentType, &att.StoragePath, &att.SizeBytes, &att.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt attachment: %w", err)
	}
	return &att, nil
}

// DeleteAttachment borra el registro de un adjunto.
func (r *ReceiptRepo) DeleteAttachment(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM receipt_attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete receipt attachment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
