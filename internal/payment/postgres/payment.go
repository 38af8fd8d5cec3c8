package postgres

import (
	goerrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	errors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/core/datamodel/payment"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Upsert writes the record for its reference, creating or overwriting.
// Callers serialize per reference, so read-then-write is race-free here.
func (r *PaymentRepository) Upsert(rec *payment.PaymentRecord) error {
	var existing payment.PaymentRecord
	err := r.db.Where("reference = ?", rec.Reference).First(&existing).Error
	if err != nil {
		if !goerrors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load payment record: %w", err)
		}
		rec.CreatedAt = time.Now()
		rec.LastUpdated = time.Now()
		if err := r.db.Create(rec).Error; err != nil {
			return fmt.Errorf("failed to create payment record: %w", err)
		}
		return nil
	}

	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.LastUpdated = time.Now()
	if err := r.db.Save(rec).Error; err != nil {
		return fmt.Errorf("failed to update payment record: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByReference(reference string) (*payment.PaymentRecord, error) {
	var rec payment.PaymentRecord
	err := r.db.Where("reference = ?", reference).First(&rec).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment record: %w", err)
	}
	return &rec, nil
}
