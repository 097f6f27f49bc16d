package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

// Gateway event types the reconciler consumes.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentService owns the local payment lifecycle: recording intent
// rows and applying asynchronous gateway confirmations.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// RecordIntent persists the local row for a freshly created gateway
// intent. A duplicate on the order or intent id means another create
// is already in flight and is reported as a conflict, not a crash.
func (s *PaymentService) RecordIntent(payment *models.Payment) error {
	if err := s.db.Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrConflict("a payment for this order is already in flight")
		}
		return err
	}
	return nil
}

// FindByOrderID returns the payment attached to an order, if any.
func (s *PaymentService) FindByOrderID(orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// Reconcile applies a gateway confirmation event to the local payment
// row, keyed by intent id. It is idempotent: replaying a succeeded
// event leaves the row succeeded with no further effect. An unknown
// intent id is a logged no-op, not an error — the row may belong to a
// different environment or may not have committed yet; the gateway's
// at-least-once delivery will retry.
func (s *PaymentService) Reconcile(eventType, intentID string) error {
	var target string
	switch eventType {
	case EventPaymentSucceeded:
		target = models.PaymentStatusSucceeded
	case EventPaymentFailed:
		target = models.PaymentStatusFailed
	default:
		// Unhandled event types are acknowledged and ignored.
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("intent_id = ?", intentID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.InfoLogger.Printf("reconcile: no payment for intent %s, discarding event", intentID)
				return nil
			}
			return fmt.Errorf("failed to load payment for intent %s: %w", intentID, err)
		}

		// Terminal success is sticky; replays and late failure events
		// do not move it.
		if payment.Status == models.PaymentStatusSucceeded || payment.Status == target {
			return nil
		}

		payment.Status = target
		if err := tx.Save(&payment).Error; err != nil {
			return fmt.Errorf("failed to update payment %d: %w", payment.ID, err)
		}
		utils.InfoLogger.Printf("reconcile: payment %d -> %s (intent %s)", payment.ID, target, intentID)
		return nil
	})
}
