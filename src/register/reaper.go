package register

import (
	"errors"
	"log"
	"time"

	"teesheet/src/config"
	"teesheet/src/lib"
	"teesheet/src/models"
	"teesheet/src/types"

	"gorm.io/gorm"
)

// CleanUpExpired releases the holds of registrations whose expiry has
// passed while they still carry Pending slots. Processing and Reserved
// slots are never touched, a hold that began payment is resolved by the
// payment outcome alone. Returns how many registrations were swept.
func (s *Service) CleanUpExpired(now time.Time) (int, error) {
	count := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var regIDs []uint
		if err := tx.Model(&models.RegistrationSlot{}).
			Joins("JOIN registrations ON registrations.id = registration_slots.registration_id").
			Where("registrations.expires < ? AND registration_slots.status = ?", now, types.SLOT_PENDING).
			Where("registrations.deleted_at IS NULL").
			Distinct().
			Pluck("registration_slots.registration_id", &regIDs).Error; err != nil {
			return err
		}
		for _, id := range regIDs {
			var reg models.Registration
			err := tx.Preload("Event").First(&reg, id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := releaseSlots(tx, &reg.Event, reg.ID, []types.SlotStatus{types.SLOT_PENDING}); err != nil {
				return err
			}
			var remaining int64
			if err := tx.Model(&models.RegistrationSlot{}).
				Where("registration_id = ?", reg.ID).
				Count(&remaining).Error; err != nil {
				return err
			}
			if remaining == 0 {
				if err := tx.Delete(&reg).Error; err != nil {
					return err
				}
			}
			count++
		}
		return nil
	})
	return count, err
}

// StartReaper schedules the periodic expiry sweep on the shared scheduler.
func (s *Service) StartReaper() error {
	_, err := lib.CreateCronJob(func() {
		count, err := s.CleanUpExpired(time.Now())
		if err != nil {
			log.Printf("[Reaper] sweep failed: %s\n", err.Error())
			return
		}
		if count > 0 {
			log.Printf("[Reaper] released %d expired registrations\n", count)
		}
	}, config.ReaperInterval())
	return err
}
