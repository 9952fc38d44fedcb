package register

import (
	"errors"
	"time"

	"teesheet/src/config"
	"teesheet/src/models"
	"teesheet/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateAndReserve claims slots for one signup attempt in a single
// transaction. Choosable events lock the requested rows before any status
// is inspected so two claimants for the same slot serialize on the row
// lock and the loser sees a non-Available status. On-demand events mint a
// fresh group of Pending slots instead.
func (s *Service) CreateAndReserve(p ReserveParams) (*models.Registration, error) {
	var registration *models.Registration
	err := s.db.Transaction(func(tx *gorm.DB) error {
		event := p.Event
		if event.CanChoose {
			if p.CourseID == nil {
				return ErrCourseRequired
			}
			slots, err := lockSlots(tx, event.ID, p.SlotIDs)
			if err != nil {
				return err
			}
			for i := range slots {
				if err := ValidateWave(event, &slots[i], p.Now); err != nil {
					return err
				}
			}
			reg, err := createOrUpdateRegistration(tx, event, p)
			if err != nil {
				return err
			}
			for i := range slots {
				update := map[string]interface{}{
					"status":          types.SLOT_PENDING,
					"registration_id": reg.ID,
				}
				if i == 0 {
					update["player_id"] = p.Player.ID
				}
				if err := tx.Model(&models.RegistrationSlot{}).
					Where("id = ?", slots[i].ID).
					Updates(update).Error; err != nil {
					return err
				}
			}
			registration = reg
			return nil
		}

		reg, err := createOrUpdateRegistration(tx, event, p)
		if err != nil {
			return err
		}
		for i := 0; i < event.MaximumSignupGroupSize; i++ {
			slot := models.RegistrationSlot{
				EventID:        event.ID,
				RegistrationID: &reg.ID,
				SlotNumber:     i,
				Status:         types.SLOT_PENDING,
			}
			if i == 0 {
				slot.PlayerID = &p.Player.ID
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		registration = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.db.Preload("Slots").Preload("Course").First(registration, registration.ID).Error; err != nil {
		return nil, err
	}
	return registration, nil
}

// lockSlots takes exclusive row locks on the requested slot ids and
// verifies every one of them is still Available. The returned slice
// preserves the request order, which decides who gets the primary player.
func lockSlots(tx *gorm.DB, eventID uint, slotIDs []uint) ([]models.RegistrationSlot, error) {
	if len(slotIDs) == 0 {
		return nil, ErrMissingSlots
	}
	var locked []models.RegistrationSlot
	if err := tx.
		Clauses(clause.Locking{
			Strength: "UPDATE",
			Table:    clause.Table{Name: clause.CurrentTable},
		}).
		Preload("Hole").
		Where("id IN ? AND event_id = ?", slotIDs, eventID).
		Find(&locked).Error; err != nil {
		return nil, err
	}
	if len(locked) == 0 {
		return nil, ErrMissingSlots
	}
	if len(locked) != len(slotIDs) {
		return nil, ErrSlotConflict
	}
	byID := make(map[uint]models.RegistrationSlot, len(locked))
	for _, slot := range locked {
		if slot.Status != types.SLOT_AVAILABLE {
			return nil, ErrSlotConflict
		}
		byID[slot.ID] = slot
	}
	ordered := make([]models.RegistrationSlot, 0, len(slotIDs))
	for _, id := range slotIDs {
		slot, ok := byID[id]
		if !ok {
			return nil, ErrSlotConflict
		}
		ordered = append(ordered, slot)
	}
	return ordered, nil
}

// createOrUpdateRegistration reuses the user's existing registration for
// the event when it has no confirmed or in-flight leg, resetting any stale
// Pending slots it still holds. The hold deadline is shorter for choosable
// events because the slots are already picked.
func createOrUpdateRegistration(tx *gorm.DB, event *models.Event, p ReserveParams) (*models.Registration, error) {
	holdMinutes := config.ON_DEMAND_HOLD_MINUTES
	if event.CanChoose {
		holdMinutes = config.CHOOSABLE_HOLD_MINUTES
	}
	expires := p.Now.Add(time.Duration(holdMinutes) * time.Minute)

	var reg models.Registration
	err := tx.Preload("Slots").
		Where("event_id = ? AND user_id = ?", event.ID, p.UserID).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			reg = models.Registration{
				EventID:    event.ID,
				CourseID:   p.CourseID,
				UserID:     p.UserID,
				SignedUpBy: p.SignedUpBy,
				Expires:    &expires,
				Notes:      p.Notes,
			}
			if err := tx.Create(&reg).Error; err != nil {
				return nil, err
			}
			return &reg, nil
		}
		return nil, err
	}
	for _, slot := range reg.Slots {
		if slot.Status == types.SLOT_RESERVED || slot.Status == types.SLOT_PROCESSING {
			return nil, ErrAlreadyRegistered
		}
	}
	if err := releaseSlots(tx, event, reg.ID, []types.SlotStatus{types.SLOT_PENDING}); err != nil {
		return nil, err
	}
	update := map[string]interface{}{
		"course_id":    p.CourseID,
		"signed_up_by": p.SignedUpBy,
		"expires":      expires,
	}
	if p.Notes != "" {
		update["notes"] = p.Notes
	}
	if err := tx.Model(&reg).Updates(update).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// UpdateNotes replaces the free-text notes on a registration.
func (s *Service) UpdateNotes(registrationID uint, notes string) (*models.Registration, error) {
	var reg models.Registration
	if err := s.db.First(&reg, registrationID).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&reg).Update("notes", notes).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}
