package register

import (
	"errors"
	"log"

	"teesheet/src/models"
	"teesheet/src/types"

	"gorm.io/gorm"
)

// PaymentProcessing moves a registration's held slots into the payment
// attempt. Pending slots with a player move to Processing; seats nobody
// claimed are returned to the pool so they stop blocking other groups.
func (s *Service) PaymentProcessing(registrationID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var reg models.Registration
		if err := tx.Preload("Event").First(&reg, registrationID).Error; err != nil {
			return err
		}
		if err := releasePlayerless(tx, &reg); err != nil {
			return err
		}
		return tx.Model(&models.RegistrationSlot{}).
			Where("registration_id = ? AND status = ? AND player_id IS NOT NULL", reg.ID, types.SLOT_PENDING).
			Update("status", types.SLOT_PROCESSING).Error
	})
}

func releasePlayerless(tx *gorm.DB, reg *models.Registration) error {
	if reg.Event.CanChoose {
		return tx.Model(&models.RegistrationSlot{}).
			Where("registration_id = ? AND status = ? AND player_id IS NULL", reg.ID, types.SLOT_PENDING).
			Updates(map[string]interface{}{
				"status":          types.SLOT_AVAILABLE,
				"registration_id": nil,
			}).Error
	}
	return tx.
		Where("registration_id = ? AND status = ? AND player_id IS NULL", reg.ID, types.SLOT_PENDING).
		Delete(&models.RegistrationSlot{}).Error
}

// ConfirmSlots finalizes a registration's Processing slots as Reserved.
// Runs inside the caller's transaction so the flip lands atomically with
// the payment confirmation that triggered it.
func ConfirmSlots(tx *gorm.DB, registrationID uint) error {
	return tx.Model(&models.RegistrationSlot{}).
		Where("registration_id = ? AND status = ?", registrationID, types.SLOT_PROCESSING).
		Update("status", types.SLOT_RESERVED).Error
}

// PaymentConfirmed finalizes a registration's slots outside of any larger
// transaction.
func (s *Service) PaymentConfirmed(registrationID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return ConfirmSlots(tx, registrationID)
	})
}

// CancelRegistration releases a registration's held and in-flight slots
// and deletes the registration. A registration that is already gone is a
// no-op, the expiry sweep may have gotten there first.
func (s *Service) CancelRegistration(registrationID uint, reason string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var reg models.Registration
		err := tx.Preload("Event").First(&reg, registrationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		statuses := []types.SlotStatus{types.SLOT_PENDING, types.SLOT_PROCESSING}
		if err := releaseSlots(tx, &reg.Event, reg.ID, statuses); err != nil {
			return err
		}
		if reason != "" {
			log.Printf("[Registration] canceled registration %d: %s\n", reg.ID, reason)
		}
		return tx.Delete(&reg).Error
	})
}
