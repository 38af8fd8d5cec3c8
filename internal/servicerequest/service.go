package servicerequest

import (
	"fmt"
	"log/slog"

	errors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/core/datamodel/servicerequest"
)

const referenceRetries = 5

// Repository defines the data access methods for service requests.
type Repository interface {
	Create(req *servicerequest.ServiceRequest) error
	GetByReference(reference string) (*servicerequest.ServiceRequest, error)
	Update(req *servicerequest.ServiceRequest) error
	UpdateStatus(reference, status string, paymentIntentID, errorMessage *string) error
	List(limit, offset int) ([]*servicerequest.ServiceRequest, error)
}

// Service owns the service-request store: intake creation, reads, partial
// updates. It performs no gateway calls and no side effects beyond the store.
type Service struct {
	repo            Repository
	defaultCurrency string
	logger          *slog.Logger
}

func NewService(repo Repository, defaultCurrency string, logger *slog.Logger) *Service {
	if defaultCurrency == "" {
		defaultCurrency = "eur"
	}
	return &Service{
		repo:            repo,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Create stores a new service request from an intake submission. When the
// caller supplies no reference one is generated, retrying on the (unlikely)
// collision.
func (s *Service) Create(dto *CreateServiceRequestDTO) (*servicerequest.ServiceRequest, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("service request validation failed", "error", err)
		return nil, err
	}

	currency := dto.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	req := &servicerequest.ServiceRequest{
		Status:         servicerequest.StatusPendingPayment,
		Amount:         dto.Amount,
		Currency:       currency,
		Name:           dto.Name,
		Email:          dto.Email,
		Phone:          dto.Phone,
		Address:        dto.Address,
		PostalCode:     dto.PostalCode,
		City:           dto.City,
		ConnectionType: dto.ConnectionType,
	}

	if dto.Reference != "" {
		if existing, err := s.repo.GetByReference(dto.Reference); err == nil && existing != nil {
			return nil, errors.NewValidationError(
				fmt.Sprintf("reference %s already exists", dto.Reference),
				errors.ErrCodeInvalidReference)
		}
		req.Reference = dto.Reference
		if err := s.repo.Create(req); err != nil {
			s.logger.Error("failed to create service request", "error", err, "reference", req.Reference)
			return nil, errors.NewInternalError("failed to create service request", err)
		}
		return req, nil
	}

	var lastErr error
	for attempt := 0; attempt < referenceRetries; attempt++ {
		req.Reference = NewReference()
		if existing, err := s.repo.GetByReference(req.Reference); err == nil && existing != nil {
			continue
		}
		if err := s.repo.Create(req); err != nil {
			lastErr = err
			continue
		}
		s.logger.Info("service request created",
			"reference", req.Reference,
			"amount", req.Amount,
			"currency", req.Currency)
		return req, nil
	}

	s.logger.Error("failed to create service request after retries", "error", lastErr)
	return nil, errors.NewInternalError("failed to create service request", lastErr)
}

// CreateAuto synthesizes a service request for a reference seen for the
// first time during a payment operation. The record is flagged so the
// underlying intake race stays diagnosable.
func (s *Service) CreateAuto(reference string, amount float64, currency string) (*servicerequest.ServiceRequest, error) {
	if currency == "" {
		currency = s.defaultCurrency
	}

	req := &servicerequest.ServiceRequest{
		Reference:   reference,
		Status:      servicerequest.StatusPendingPayment,
		Amount:      amount,
		Currency:    currency,
		AutoCreated: true,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to auto-create service request", "error", err, "reference", reference)
		return nil, errors.NewInternalError("failed to create service request", err)
	}

	return req, nil
}

func (s *Service) GetByReference(reference string) (*servicerequest.ServiceRequest, error) {
	req, err := s.repo.GetByReference(reference)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Update merges the non-nil fields of the DTO into an existing request.
func (s *Service) Update(reference string, dto *UpdateServiceRequestDTO) (*servicerequest.ServiceRequest, error) {
	req, err := s.repo.GetByReference(reference)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		req.Name = *dto.Name
	}
	if dto.Email != nil {
		req.Email = *dto.Email
	}
	if dto.Phone != nil {
		req.Phone = *dto.Phone
	}
	if dto.Address != nil {
		req.Address = *dto.Address
	}
	if dto.PostalCode != nil {
		req.PostalCode = *dto.PostalCode
	}
	if dto.City != nil {
		req.City = *dto.City
	}
	if dto.ConnectionType != nil {
		req.ConnectionType = *dto.ConnectionType
	}
	if dto.Amount != nil {
		req.Amount = *dto.Amount
	}
	if dto.Currency != nil {
		req.Currency = *dto.Currency
	}

	if err := s.repo.Update(req); err != nil {
		s.logger.Error("failed to update service request", "error", err, "reference", reference)
		return nil, errors.NewInternalError("failed to update service request", err)
	}

	return req, nil
}

// SetPaymentState records the latest payment observation on the request.
func (s *Service) SetPaymentState(reference, status string, paymentIntentID, errorMessage *string) error {
	return s.repo.UpdateStatus(reference, status, paymentIntentID, errorMessage)
}

func (s *Service) List(limit, offset int) ([]*servicerequest.ServiceRequest, error) {
	return s.repo.List(limit, offset)
}
