package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentSucceeded          = "payment.succeeded"
	EventTypePaymentFailed             = "payment.failed"
	EventTypeServiceRequestAutoCreated = "service_request.auto_created"
)

type PaymentSucceededEvent struct {
	BaseEvent
	Reference       string  `json:"reference"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

func NewPaymentSucceededEvent(reference, paymentIntentID string, amount float64, currency string) *PaymentSucceededEvent {
	return &PaymentSucceededEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentSucceeded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"reference":         reference,
				"payment_intent_id": paymentIntentID,
				"amount":            amount,
				"currency":          currency,
			},
		},
		Reference:       reference,
		PaymentIntentID: paymentIntentID,
		Amount:          amount,
		Currency:        currency,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	Reference       string `json:"reference"`
	PaymentIntentID string `json:"payment_intent_id"`
	FailureReason   string `json:"failure_reason"`
}

func NewPaymentFailedEvent(reference, paymentIntentID, failureReason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"reference":         reference,
				"payment_intent_id": paymentIntentID,
				"failure_reason":    failureReason,
			},
		},
		Reference:       reference,
		PaymentIntentID: paymentIntentID,
		FailureReason:   failureReason,
	}
}

// ServiceRequestAutoCreatedEvent fires whenever a payment operation
// references an unknown service request and one is synthesized on the fly.
// This masks a client/server race, so each occurrence is worth observing.
type ServiceRequestAutoCreatedEvent struct {
	BaseEvent
	Reference string `json:"reference"`
	Origin    string `json:"origin"`
}

func NewServiceRequestAutoCreatedEvent(reference, origin string) *ServiceRequestAutoCreatedEvent {
	return &ServiceRequestAutoCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeServiceRequestAutoCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"reference": reference,
				"origin":    origin,
			},
		},
		Reference: reference,
		Origin:    origin,
	}
}
