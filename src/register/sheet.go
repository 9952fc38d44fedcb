package register

import (
	"teesheet/src/models"
	"teesheet/src/types"
)

// BuildSlotSheet mints the Available slot grid a choosable event opens
// with. Shotgun events get a group on every hole of the course, with a
// second group behind it except on par 3s. Tee-time events stack every
// group on hole 1 in starting order.
func (s *Service) BuildSlotSheet(event *models.Event, courseID uint) ([]models.RegistrationSlot, error) {
	if !event.CanChoose {
		return nil, ErrNotChoosable
	}
	groupSize := 0
	if event.GroupSize != nil {
		groupSize = *event.GroupSize
	}
	if groupSize <= 0 {
		return nil, ErrNotChoosable
	}

	var slots []models.RegistrationSlot
	switch event.StartType {
	case types.START_SHOTGUN:
		var holes []models.Hole
		if err := s.db.Where("course_id = ?", courseID).
			Order("hole_number").
			Find(&holes).Error; err != nil {
			return nil, err
		}
		for _, hole := range holes {
			slots = append(slots, mintGroup(event.ID, &hole.ID, 0, groupSize)...)
			if hole.Par != 3 {
				slots = append(slots, mintGroup(event.ID, &hole.ID, 1, groupSize)...)
			}
		}
	case types.START_TEE_TIMES:
		var first models.Hole
		if err := s.db.Where("course_id = ? AND hole_number = ?", courseID, 1).
			First(&first).Error; err != nil {
			return nil, err
		}
		totalGroups := 0
		if event.TotalGroups != nil {
			totalGroups = *event.TotalGroups
		}
		for order := 0; order < totalGroups; order++ {
			slots = append(slots, mintGroup(event.ID, &first.ID, order, groupSize)...)
		}
	default:
		return nil, ErrNotChoosable
	}

	if len(slots) == 0 {
		return slots, nil
	}
	if err := s.db.Create(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// AddHoleGroup appends one more group of open seats behind the last group
// on a hole.
func (s *Service) AddHoleGroup(event *models.Event, holeID uint) ([]models.RegistrationSlot, error) {
	if !event.CanChoose {
		return nil, ErrNotChoosable
	}
	var next int
	if err := s.db.Model(&models.RegistrationSlot{}).
		Where("event_id = ? AND hole_id = ?", event.ID, holeID).
		Select("COALESCE(MAX(starting_order), -1) + 1").
		Scan(&next).Error; err != nil {
		return nil, err
	}
	slots := mintGroup(event.ID, &holeID, next, event.MaximumSignupGroupSize)
	if len(slots) == 0 {
		return slots, nil
	}
	if err := s.db.Create(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// RemoveHoleGroup drops one group of a hole from the sheet.
func (s *Service) RemoveHoleGroup(eventID, holeID uint, startingOrder int) error {
	return s.db.
		Where("event_id = ? AND hole_id = ? AND starting_order = ?", eventID, holeID, startingOrder).
		Delete(&models.RegistrationSlot{}).Error
}

func mintGroup(eventID uint, holeID *uint, startingOrder, groupSize int) []models.RegistrationSlot {
	group := make([]models.RegistrationSlot, 0, groupSize)
	for i := 0; i < groupSize; i++ {
		group = append(group, models.RegistrationSlot{
			EventID:       eventID,
			HoleID:        holeID,
			StartingOrder: startingOrder,
			SlotNumber:    i,
			Status:        types.SLOT_AVAILABLE,
		})
	}
	return group
}
