package payments

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"teesheet/src/lib"
	"teesheet/src/models"
	"teesheet/src/register"
	"teesheet/src/types"
	"teesheet/src/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrRefundNotFound is retryable, the creation event may still be in
	// flight when the confirmation arrives.
	ErrRefundNotFound = errors.New("refund not found")
)

const refundConfirmAttempts = 3

var createPaymentIntent = lib.CreatePaymentIntent

// Service runs the payment flows against a single transactional store
// handle. Charges and refunds go through the shared processor client.
type Service struct {
	db  *gorm.DB
	reg *register.Service
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, reg: register.NewService(db)}
}

// CreatePayment prices the requested slots and opens a charge for them. The
// local record is created first as a placeholder and picks up the
// processor's charge id and client secret once the intent exists.
func (s *Service) CreatePayment(userID uint, body types.CreatePaymentRequestBody) (*models.Payment, error) {
	feeIDs := make([]uint, 0, len(body.Fees))
	for _, fee := range body.Fees {
		feeIDs = append(feeIDs, fee.EventFeeID)
	}
	var eventFees []models.EventFee
	if err := s.db.Where("id IN ? AND event_id = ?", feeIDs, body.EventID).
		Find(&eventFees).Error; err != nil {
		return nil, err
	}
	amountByFee := make(map[uint]float64, len(eventFees))
	for _, fee := range eventFees {
		amountByFee[fee.ID] = fee.Amount
	}
	amountDue := 0.0
	for _, fee := range body.Fees {
		amount, ok := amountByFee[fee.EventFeeID]
		if !ok {
			return nil, errors.New("unknown event fee for this event")
		}
		amountDue += amount
	}
	if amountDue <= 0 {
		return nil, errors.New("nothing to pay")
	}
	total, transactionFee := CalculatePaymentAmount(amountDue)

	// placeholder code until the processor issues the intent id
	payment := models.Payment{
		EventID:        body.EventID,
		UserID:         userID,
		RegistrationID: body.RegistrationID,
		PaymentCode:    uuid.NewString(),
		PaymentAmount:  total,
		TransactionFee: transactionFee,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		for _, fee := range body.Fees {
			record := models.RegistrationFee{
				EventFeeID:         fee.EventFeeID,
				RegistrationSlotID: fee.SlotID,
				PaymentID:          &payment.ID,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	intent, err := createPaymentIntent(int64(math.Round(total*100)), map[string]string{
		"user_id":         fmt.Sprint(userID),
		"registration_id": fmt.Sprint(body.RegistrationID),
		"payment_id":      fmt.Sprint(payment.ID),
	})
	if err != nil {
		// a charge that never opened must not leave a payment behind
		if cleanupErr := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("payment_id = ?", payment.ID).
				Delete(&models.RegistrationFee{}).Error; err != nil {
				return err
			}
			return tx.Delete(&payment).Error
		}); cleanupErr != nil {
			log.Printf("[Payment] Failed to remove orphaned payment %d: %s\n", payment.ID, cleanupErr.Error())
		}
		return nil, err
	}
	if err := s.db.Model(&payment).Updates(map[string]interface{}{
		"payment_code": intent.ID,
		"payment_key":  intent.ClientSecret,
	}).Error; err != nil {
		return nil, err
	}
	payment.PaymentCode = intent.ID
	payment.PaymentKey = &intent.ClientSecret
	return &payment, nil
}

// CancelPayment abandons an unconfirmed charge with the processor. A
// payment that never reached the processor has nothing to cancel.
func (s *Service) CancelPayment(paymentID uint) error {
	var payment models.Payment
	err := s.db.First(&payment, paymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if payment.Confirmed || payment.PaymentCode == "" {
		return nil
	}
	if _, err := lib.CancelPaymentIntent(payment.PaymentCode); err != nil {
		log.Printf("[Payment] Failed to cancel intent %s: %s\n", payment.PaymentCode, err.Error())
		return err
	}
	return nil
}

// CreateRefund issues a processor refund against a confirmed payment and
// records it locally. The payer is notified on creation, not again on
// confirmation.
func (s *Service) CreateRefund(issuerID uint, body types.CreateRefundRequestBody) (*models.Refund, error) {
	var payment models.Payment
	if err := s.db.Preload("Event").First(&payment, body.PaymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	stripeRefund, err := lib.CreateRefund(payment.PaymentCode, int64(math.Round(body.Amount*100)))
	if err != nil {
		return nil, err
	}
	refund := models.Refund{
		PaymentID:    payment.ID,
		IssuerID:     issuerID,
		RefundCode:   stripeRefund.ID,
		RefundAmount: body.Amount,
		Notes:        body.Notes,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "refund_code"}},
		DoNothing: true,
	}).Create(&refund).Error; err != nil {
		return nil, err
	}
	s.notifyRefund(&payment.Event, &refund, payment.UserID)
	return &refund, nil
}

// HandlePaymentComplete finalizes a payment on the processor's succeeded
// event. Safe to re-run, a confirmed payment is left untouched.
func (s *Service) HandlePaymentComplete(paymentIntentID string) error {
	var payment models.Payment
	confirmedNow := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Event").
			Where("payment_code = ?", paymentIntentID).
			First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[Payment] No payment for intent %s\n", paymentIntentID)
			return nil
		}
		if err != nil {
			return err
		}
		if payment.Confirmed {
			return nil
		}
		now := time.Now()
		if err := tx.Model(&payment).Updates(map[string]interface{}{
			"confirmed":    true,
			"confirm_date": now,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RegistrationFee{}).
			Where("payment_id = ?", payment.ID).
			Update("is_paid", true).Error; err != nil {
			return err
		}
		if err := register.ConfirmSlots(tx, payment.RegistrationID); err != nil {
			return err
		}
		confirmedNow = true
		return nil
	})
	if err != nil {
		return err
	}
	if confirmedNow {
		s.notifyPaymentComplete(&payment)
	}
	return nil
}

// notifyPaymentComplete emails everyone seated in the paid group. Delivery
// failures are logged and never fail the confirmation.
func (s *Service) notifyPaymentComplete(payment *models.Payment) {
	var slots []models.RegistrationSlot
	if err := s.db.Preload("Player").
		Where("registration_id = ?", payment.RegistrationID).
		Find(&slots).Error; err != nil {
		log.Printf("[Payment] Could not load slots for notification: %s\n", err.Error())
		return
	}
	recipients := utils.GetRecipients(slots)
	if len(recipients) == 0 {
		return
	}
	input := lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
		To:       recipients,
		Subject:  fmt.Sprintf("Payment received for %s", payment.Event.Name),
		Body:     utils.PaymentConfirmationBody(&payment.Event, payment),
	}
	if err := lib.SendMail(&input); err != nil {
		log.Printf("[Payment] Failed to send notification: %s\n", err.Error())
	}
}

// HandlePaymentCanceled releases the registration behind an abandoned
// charge. A confirmed payment is never unwound here.
func (s *Service) HandlePaymentCanceled(paymentIntentID string) error {
	var payment models.Payment
	err := s.db.Where("payment_code = ?", paymentIntentID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if payment.Confirmed {
		return nil
	}
	return s.reg.CancelRegistration(payment.RegistrationID, "payment canceled")
}

// HandleRefundCreated records a refund the processor reports. A refund the
// club initiated locally already exists under the same refund code, so the
// insert lands on the unique index and does nothing. An intent we have no
// payment for is a permanent failure, no record is fabricated.
func (s *Service) HandleRefundCreated(refundCode string, paymentIntentID string, amountMinor int64, reason string) error {
	var payment models.Payment
	err := s.db.Preload("Event").
		Where("payment_code = ?", paymentIntentID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Refund] No payment for intent %s, dropping refund %s\n", paymentIntentID, refundCode)
		return nil
	}
	if err != nil {
		return err
	}
	refund := models.Refund{
		PaymentID:    payment.ID,
		RefundCode:   refundCode,
		RefundAmount: float64(amountMinor) / 100,
		Notes:        reason,
	}
	created := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "refund_code"}},
		DoNothing: true,
	}).Create(&refund)
	if created.Error != nil {
		return created.Error
	}
	if created.RowsAffected > 0 {
		s.notifyRefund(&payment.Event, &refund, payment.UserID)
	}
	return nil
}

// HandleRefundConfirmed marks a refund settled. Returns ErrRefundNotFound
// when the creation event has not landed yet so the caller can retry.
func (s *Service) HandleRefundConfirmed(refundCode string) error {
	var refund models.Refund
	err := s.db.Where("refund_code = ?", refundCode).First(&refund).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRefundNotFound
	}
	if err != nil {
		return err
	}
	if refund.Confirmed {
		return nil
	}
	return s.db.Model(&refund).Update("confirmed", true).Error
}

// ConfirmRefundWithRetry absorbs the out-of-order case where the
// confirmation event arrives before the creation event has been
// processed.
func (s *Service) ConfirmRefundWithRetry(refundCode string) error {
	backoff := time.Second
	var err error
	for attempt := 1; attempt <= refundConfirmAttempts; attempt++ {
		err = s.HandleRefundConfirmed(refundCode)
		if !errors.Is(err, ErrRefundNotFound) {
			return err
		}
		if attempt < refundConfirmAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	log.Printf("[Refund] Giving up on confirmation for %s after %d attempts\n", refundCode, refundConfirmAttempts)
	return err
}

// notifyRefund emails the payer about a new refund. Delivery failures are
// logged and never fail the owning operation.
func (s *Service) notifyRefund(event *models.Event, refund *models.Refund, userID uint) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		log.Printf("[Refund] Could not load user %d for notification: %s\n", userID, err.Error())
		return
	}
	input := lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
		To:       []string{user.Email},
		Subject:  fmt.Sprintf("Refund issued for %s", event.Name),
		Body:     utils.RefundNoticeBody(event, refund),
	}
	if err := lib.SendMail(&input); err != nil {
		log.Printf("[Refund] Failed to send notification to %s: %s\n", user.Email, err.Error())
	}
}
