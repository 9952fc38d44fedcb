package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"teesheet/src/db"
	"teesheet/src/lib"
	"teesheet/src/payments"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		// delivery is at-least-once, drop redelivered events up front
		dedupeKey := fmt.Sprintf("stripe:event:%s", event.ID)
		if !lib.ClaimOnce(context.Background(), dedupeKey, 24*time.Hour) {
			log.Printf("[StripeEvent] %s already handled\n", event.ID)
			ctx.Status(http.StatusOK)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		svc := payments.NewService(db.GetDb())
		if err := dispatchStripeEvent(svc, &event); err != nil {
			// give the claim back so the processor's redelivery is not
			// dropped as a duplicate
			lib.ReleaseClaim(context.Background(), dedupeKey)
			log.Printf("[StripeEvent] %s failed, awaiting redelivery: %s\n", event.ID, err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

// dispatchStripeEvent routes one verified event to its handler. A returned
// error means the event was not durably processed and must be redelivered;
// a payload we cannot parse is logged and dropped since redelivery would
// carry the same bytes.
func dispatchStripeEvent(svc *payments.Service, event *stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
			return nil
		}
		log.Printf("[PaymentIntent] ID: %s %s\n", pi.ID, pi.Status)
		return svc.HandlePaymentComplete(pi.ID)
	case "payment_intent.canceled":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
			return nil
		}
		log.Printf("[PaymentIntent] ID: %s %s\n", pi.ID, pi.Status)
		return svc.HandlePaymentCanceled(pi.ID)
	case "refund.created":
		var re stripe.Refund
		if err := json.Unmarshal(event.Data.Raw, &re); err != nil {
			log.Printf("[Stripe] Error parsing Refund: %s\n", err.Error())
			return nil
		}
		intentID := ""
		if re.PaymentIntent != nil {
			intentID = re.PaymentIntent.ID
		}
		return svc.HandleRefundCreated(re.ID, intentID, re.Amount, string(re.Reason))
	case "refund.updated":
		var re stripe.Refund
		if err := json.Unmarshal(event.Data.Raw, &re); err != nil {
			log.Printf("[Stripe] Error parsing Refund: %s\n", err.Error())
			return nil
		}
		if re.Status != stripe.RefundStatusSucceeded {
			return nil
		}
		// the matching refund.created may still be in flight; after the
		// in-process retries run out the processor's redelivery takes over
		return svc.ConfirmRefundWithRetry(re.ID)
	default:
		log.Printf("[StripeEvent] Unhandled event type: %s\n", event.Type)
		return nil
	}
}
