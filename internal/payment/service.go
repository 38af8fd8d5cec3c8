package payment

import (
	"context"
	goerrors "errors"
	"log/slog"

	errors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/core/datamodel/payment"
	srmodel "github.com/raccordement/raccordement-service/internal/core/datamodel/servicerequest"
	"github.com/raccordement/raccordement-service/internal/core/events"
	"github.com/raccordement/raccordement-service/internal/core/keylock"
	"github.com/raccordement/raccordement-service/internal/gateway"
	"github.com/raccordement/raccordement-service/internal/servicerequest"
)

// Repository defines the payment-record store: one logical payment per
// reference, latest attempt wins.
type Repository interface {
	Upsert(rec *payment.PaymentRecord) error
	GetByReference(reference string) (*payment.PaymentRecord, error)
}

// ServiceRequestStore is the slice of the service-request service the
// orchestrator needs.
type ServiceRequestStore interface {
	GetByReference(reference string) (*srmodel.ServiceRequest, error)
	CreateAuto(reference string, amount float64, currency string) (*srmodel.ServiceRequest, error)
	SetPaymentState(reference, status string, paymentIntentID, errorMessage *string) error
}

// GatewayAPI is the payment-processor boundary.
type GatewayAPI interface {
	CreateAndConfirm(ctx context.Context, amount float64, currency, paymentMethodID, reference string) (*gateway.Intent, error)
	Retrieve(ctx context.Context, paymentIntentID string) (*gateway.Intent, error)
	ListRecent(ctx context.Context) ([]*gateway.Intent, error)
}

// Service orchestrates payments across the two stores and the gateway.
// Every mutating operation serializes per reference: the keyed lock is held
// across the store read, the gateway call and the store write, so a user
// retry and a concurrent sync cannot interleave on the same reference.
// Operations on different references run fully in parallel.
type Service struct {
	records         Repository
	requests        ServiceRequestStore
	gateway         GatewayAPI
	eventBus        *events.EventBus
	locks           *keylock.KeyLock
	defaultAmount   float64
	defaultCurrency string
	logger          *slog.Logger
}

func NewService(records Repository, requests ServiceRequestStore, gw GatewayAPI, eventBus *events.EventBus, defaultAmount float64, defaultCurrency string, logger *slog.Logger) *Service {
	if defaultAmount <= 0 {
		defaultAmount = 99.99
	}
	if defaultCurrency == "" {
		defaultCurrency = "eur"
	}
	return &Service{
		records:         records,
		requests:        requests,
		gateway:         gw,
		eventBus:        eventBus,
		locks:           keylock.New(),
		defaultAmount:   defaultAmount,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// CreatePaymentIntent runs the full intake-to-gateway sequence for one
// payment attempt. An unknown reference is tolerated: the service request is
// synthesized on the fly so a client-side race cannot strand a paying user.
func (s *Service) CreatePaymentIntent(ctx context.Context, dto *CreatePaymentIntentDTO) (*PaymentIntentResult, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("payment intent validation failed", "error", err)
		return nil, err
	}

	reference := dto.Reference
	if reference == "" {
		reference = servicerequest.NewReference()
	}

	s.locks.Lock(reference)
	defer s.locks.Unlock(reference)

	req, err := s.requests.GetByReference(reference)
	if err != nil {
		if !goerrors.Is(err, errors.ErrRequestNotFound) {
			return nil, errors.NewInternalError("failed to load service request", err)
		}

		amount := dto.Amount
		if amount <= 0 {
			amount = s.defaultAmount
		}
		currency := dto.Currency
		if currency == "" {
			currency = s.defaultCurrency
		}

		req, err = s.requests.CreateAuto(reference, amount, currency)
		if err != nil {
			return nil, err
		}
		s.signalAutoCreation(ctx, reference, "create_payment_intent")
	}

	amount := dto.Amount
	if amount <= 0 {
		amount = req.Amount
	}
	if amount <= 0 {
		amount = s.defaultAmount
	}
	currency := dto.Currency
	if currency == "" {
		currency = req.Currency
	}
	if currency == "" {
		currency = s.defaultCurrency
	}

	intent, err := s.gateway.CreateAndConfirm(ctx, amount, currency, dto.PaymentMethodID, reference)
	if err != nil {
		return nil, s.failPayment(ctx, reference, "", err)
	}

	rec := &payment.PaymentRecord{
		Reference:       reference,
		PaymentIntentID: intent.ID,
		Amount:          amount,
		Currency:        currency,
		Status:          intent.Status,
	}
	if err := s.records.Upsert(rec); err != nil {
		s.logger.Error("failed to store payment record", "error", err, "reference", reference)
		return nil, errors.NewInternalError("failed to store payment record", err)
	}

	if err := s.applyGatewayStatus(ctx, reference, intent); err != nil {
		return nil, err
	}

	s.logger.Info("payment intent created",
		"reference", reference,
		"payment_intent_id", intent.ID,
		"gateway_status", intent.Status)

	return &PaymentIntentResult{
		Status:          intent.Status,
		Reference:       reference,
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		RequiresAction:  intent.Status == gateway.StatusRequiresAction,
	}, nil
}

// GetPaymentStatus is a pure read of the payment-record store.
func (s *Service) GetPaymentStatus(reference string) (*payment.PaymentRecord, error) {
	return s.records.GetByReference(reference)
}

// GetServiceRequest is a pure read of the service-request store.
func (s *Service) GetServiceRequest(reference string) (*srmodel.ServiceRequest, error) {
	return s.requests.GetByReference(reference)
}

// CompletePayment re-reads the gateway after client-side 3-D Secure and
// reconciles local state with whatever the gateway reports. A missing local
// record is reconstructed from the intent's metadata reference.
func (s *Service) CompletePayment(ctx context.Context, dto *CompletePaymentDTO) (*CompletePaymentResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	locked := ""
	unlock := func() {
		if locked != "" {
			s.locks.Unlock(locked)
			locked = ""
		}
	}
	defer unlock()

	paymentIntentID := dto.PaymentIntentID
	reference := dto.Reference

	if reference != "" {
		s.locks.Lock(reference)
		locked = reference
	}

	if paymentIntentID == "" {
		rec, err := s.records.GetByReference(reference)
		if err != nil {
			return nil, errors.ErrIntentUnresolved
		}
		paymentIntentID = rec.PaymentIntentID
	}

	intent, err := s.gateway.Retrieve(ctx, paymentIntentID)
	if err != nil {
		return nil, s.failPayment(ctx, reference, paymentIntentID, err)
	}

	if reference == "" {
		reference = intent.Reference
		if reference == "" {
			return nil, errors.ErrIntentUnresolved
		}
		s.locks.Lock(reference)
		locked = reference

		// The first retrieve ran before the lock was known, so a concurrent
		// sync may have observed a fresher status in between. Re-read under
		// the lock so the stale snapshot is never written back.
		intent, err = s.gateway.Retrieve(ctx, paymentIntentID)
		if err != nil {
			return nil, s.failPayment(ctx, reference, paymentIntentID, err)
		}
	}

	if _, err := s.reconcileIntent(ctx, reference, intent); err != nil {
		return nil, err
	}

	return &CompletePaymentResult{
		Status:    intent.Status,
		Reference: reference,
	}, nil
}

// SyncPayments reconciles every recent gateway intent against the local
// stores: updated when a record exists, recovered when the reference is
// known but the record is missing, skipped when the intent carries no
// reference metadata.
func (s *Service) SyncPayments(ctx context.Context) ([]SyncResult, error) {
	intents, err := s.gateway.ListRecent(ctx)
	if err != nil {
		var gwErr *gateway.Error
		if goerrors.As(err, &gwErr) {
			return nil, errors.NewGatewayError(gwErr.Message, "")
		}
		return nil, errors.NewInternalError("failed to list gateway intents", err)
	}

	results := make([]SyncResult, 0, len(intents))
	for _, intent := range intents {
		if intent.Reference == "" {
			results = append(results, SyncResult{
				PaymentIntentID: intent.ID,
				Action:          SyncActionSkipped,
			})
			continue
		}

		s.locks.Lock(intent.Reference)
		action, err := s.reconcileIntent(ctx, intent.Reference, intent)
		s.locks.Unlock(intent.Reference)
		if err != nil {
			s.logger.Error("sync reconciliation failed",
				"error", err,
				"reference", intent.Reference,
				"payment_intent_id", intent.ID)
			return nil, err
		}

		results = append(results, SyncResult{
			PaymentIntentID: intent.ID,
			Reference:       intent.Reference,
			Action:          action,
		})
	}

	s.logger.Info("payment sync completed", "intents", len(intents), "results", len(results))
	return results, nil
}

// reconcileIntent overwrites local state with a fresh gateway observation.
// Caller must hold the per-reference lock.
func (s *Service) reconcileIntent(ctx context.Context, reference string, intent *gateway.Intent) (string, error) {
	action := SyncActionUpdated

	rec, err := s.records.GetByReference(reference)
	if err != nil {
		if !goerrors.Is(err, errors.ErrPaymentNotFound) {
			return "", errors.NewInternalError("failed to load payment record", err)
		}

		if _, reqErr := s.requests.GetByReference(reference); reqErr != nil {
			if !goerrors.Is(reqErr, errors.ErrRequestNotFound) {
				return "", errors.NewInternalError("failed to load service request", reqErr)
			}
			if _, createErr := s.requests.CreateAuto(reference, float64(intent.Amount)/100, intent.Currency); createErr != nil {
				return "", createErr
			}
			s.signalAutoCreation(ctx, reference, "reconciliation")
		}

		rec = &payment.PaymentRecord{
			Reference:           reference,
			RecoveredFromStripe: true,
		}
		action = SyncActionRecovered
		s.logger.Info("recovering payment record from gateway",
			"reference", reference,
			"payment_intent_id", intent.ID)
	}

	rec.PaymentIntentID = intent.ID
	rec.Amount = float64(intent.Amount) / 100
	rec.Currency = intent.Currency
	rec.Status = intent.Status

	if err := s.records.Upsert(rec); err != nil {
		return "", errors.NewInternalError("failed to store payment record", err)
	}

	if err := s.applyGatewayStatus(ctx, reference, intent); err != nil {
		return "", err
	}

	return action, nil
}

// applyGatewayStatus maps the intent status onto the service request and
// publishes the matching domain event.
func (s *Service) applyGatewayStatus(ctx context.Context, reference string, intent *gateway.Intent) error {
	status := MapGatewayStatus(intent.Status)
	if err := s.requests.SetPaymentState(reference, status, &intent.ID, nil); err != nil {
		s.logger.Error("failed to update service request status",
			"error", err,
			"reference", reference,
			"status", status)
		return errors.NewInternalError("failed to update service request", err)
	}

	if s.eventBus != nil && status == srmodel.StatusPaid {
		s.eventBus.Publish(ctx, events.NewPaymentSucceededEvent(
			reference, intent.ID, float64(intent.Amount)/100, intent.Currency))
	}

	return nil
}

// failPayment records a gateway failure on the service request and converts
// the error for the HTTP surface. Card errors are user faults, not server
// faults: the request stays addressable and resubmittable.
func (s *Service) failPayment(ctx context.Context, reference, paymentIntentID string, err error) error {
	var gwErr *gateway.Error
	if !goerrors.As(err, &gwErr) {
		return errors.NewInternalError("gateway call failed", err)
	}

	message := gwErr.Message
	if reference != "" {
		if updateErr := s.requests.SetPaymentState(reference, srmodel.StatusPaymentFailed, nil, &message); updateErr != nil {
			s.logger.Error("failed to mark service request failed",
				"error", updateErr,
				"reference", reference)
		}
		if s.eventBus != nil {
			s.eventBus.Publish(ctx, events.NewPaymentFailedEvent(reference, paymentIntentID, message))
		}
	}

	s.logger.Warn("payment failed",
		"reference", reference,
		"code", gwErr.Code,
		"message", message)

	appErr := errors.NewGatewayError(message, reference)
	if gwErr.Code == "gateway_timeout" {
		appErr.Code = errors.ErrCodeGatewayTimeout
	}
	return appErr
}

// signalAutoCreation emits the observability signal for the leniency path:
// a payment operation referenced a service request that did not exist.
func (s *Service) signalAutoCreation(ctx context.Context, reference, origin string) {
	s.logger.Warn("service request auto-created during payment flow",
		"reference", reference,
		"origin", origin)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewServiceRequestAutoCreatedEvent(reference, origin))
	}
}
