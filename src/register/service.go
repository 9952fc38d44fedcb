package register

import (
	"time"

	"teesheet/src/models"
	"teesheet/src/types"

	"gorm.io/gorm"
)

// Service runs the reservation flows against a single transactional store
// handle. Every operation takes the identifiers it needs as explicit
// parameters.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ReserveParams carries one signup attempt.
type ReserveParams struct {
	UserID     uint
	Player     *models.Player
	Event      *models.Event
	CourseID   *uint
	SlotIDs    []uint
	SignedUpBy string
	Notes      string
	Now        time.Time
}

// releaseSlots returns a registration's slots in the given statuses to the
// pool. Choosable slots go back to Available unlinked, on-demand slots are
// deleted.
func releaseSlots(tx *gorm.DB, event *models.Event, registrationID uint, statuses []types.SlotStatus) error {
	if event.CanChoose {
		return tx.Model(&models.RegistrationSlot{}).
			Where("registration_id = ? AND status IN ?", registrationID, statuses).
			Updates(map[string]interface{}{
				"status":          types.SLOT_AVAILABLE,
				"registration_id": nil,
				"player_id":       nil,
			}).Error
	}
	return tx.
		Where("registration_id = ? AND status IN ?", registrationID, statuses).
		Delete(&models.RegistrationSlot{}).Error
}
