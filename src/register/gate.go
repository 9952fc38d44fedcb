package register

import (
	"time"

	"teesheet/src/models"
	"teesheet/src/types"
)

// ValidateAdmission rejects a signup attempt that is outside the signup
// window, over capacity, or duplicates a confirmed registration. Wave
// checks run later, per slot, once the slots are locked.
func (s *Service) ValidateAdmission(event *models.Event, userID uint, now time.Time) error {
	window := Window(event, now)
	if window != types.WINDOW_REGISTRATION && window != types.WINDOW_PRIORITY {
		return ErrRegistrationClosed
	}
	if !event.CanChoose && event.RegistrationMaximum != nil && *event.RegistrationMaximum > 0 {
		var reserved int64
		if err := s.db.Model(&models.RegistrationSlot{}).
			Where("event_id = ? AND status = ?", event.ID, types.SLOT_RESERVED).
			Count(&reserved).Error; err != nil {
			return err
		}
		if reserved >= int64(*event.RegistrationMaximum) {
			return ErrEventFull
		}
	}
	var inflight int64
	err := s.db.Model(&models.RegistrationSlot{}).
		Joins("JOIN registrations ON registrations.id = registration_slots.registration_id").
		Where("registrations.event_id = ? AND registrations.user_id = ?", event.ID, userID).
		Where("registration_slots.status IN ?", []types.SlotStatus{types.SLOT_RESERVED, types.SLOT_PROCESSING}).
		Count(&inflight).Error
	if err != nil {
		return err
	}
	if inflight > 0 {
		return ErrAlreadyRegistered
	}
	return nil
}
