package utils

import (
	"fmt"
	"os"

	"teesheet/src/models"

	"github.com/gosimple/slug"
)

// GetEventURL builds the public link for an event page from its season and
// slugged name.
func GetEventURL(event *models.Event) string {
	base := os.Getenv("WEB_URL")
	return fmt.Sprintf("%s/event/%d/%s", base, event.Season, slug.Make(event.Name))
}

// GetRecipients collects the email addresses of every player seated in the
// given slots.
func GetRecipients(slots []models.RegistrationSlot) []string {
	recipients := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot.Player != nil && slot.Player.Email != "" {
			recipients = append(recipients, slot.Player.Email)
		}
	}
	return recipients
}

func PaymentConfirmationBody(event *models.Event, payment *models.Payment) string {
	return fmt.Sprintf(
		"Your payment of $%.2f for %s has been received.\n\nView the event here: %s\n",
		payment.PaymentAmount, event.Name, GetEventURL(event),
	)
}

func RefundNoticeBody(event *models.Event, refund *models.Refund) string {
	return fmt.Sprintf(
		"A refund of $%.2f has been issued for %s.\n\nView the event here: %s\n",
		refund.RefundAmount, event.Name, GetEventURL(event),
	)
}
