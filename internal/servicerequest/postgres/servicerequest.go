package postgres

import (
	"errors"
	"time"

	apperrors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/core/datamodel/servicerequest"
	servicerequestpkg "github.com/raccordement/raccordement-service/internal/servicerequest"
	"gorm.io/gorm"
)

type ServiceRequestRepository struct {
	db *gorm.DB
}

func NewServiceRequestRepository(db *gorm.DB) servicerequestpkg.Repository {
	return &ServiceRequestRepository{
		db: db,
	}
}

func (r *ServiceRequestRepository) Create(req *servicerequest.ServiceRequest) error {
	return r.db.Create(req).Error
}

func (r *ServiceRequestRepository) GetByReference(reference string) (*servicerequest.ServiceRequest, error) {
	var req servicerequest.ServiceRequest
	err := r.db.Where("reference = ?", reference).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ServiceRequestRepository) Update(req *servicerequest.ServiceRequest) error {
	return r.db.Save(req).Error
}

func (r *ServiceRequestRepository) UpdateStatus(reference, status string, paymentIntentID, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}

	if paymentIntentID != nil {
		updates["payment_intent_id"] = *paymentIntentID
	}

	if errorMessage != nil {
		updates["error_message"] = *errorMessage
	} else {
		updates["error_message"] = nil
	}

	result := r.db.Model(&servicerequest.ServiceRequest{}).Where("reference = ?", reference).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

func (r *ServiceRequestRepository) List(limit, offset int) ([]*servicerequest.ServiceRequest, error) {
	var requests []*servicerequest.ServiceRequest
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error
	return requests, err
}
