package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"teesheet/src/db"
	"teesheet/src/models"
	"teesheet/src/payments"
	"teesheet/src/register"
	"teesheet/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func registrationErrorStatus(err error) int {
	var waveErr *register.WaveNotOpenError
	switch {
	case errors.Is(err, register.ErrSlotConflict), errors.Is(err, register.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, register.ErrMissingSlots),
		errors.Is(err, register.ErrCourseRequired),
		errors.Is(err, register.ErrEventFull),
		errors.Is(err, register.ErrRegistrationClosed):
		return http.StatusBadRequest
	case errors.As(err, &waveErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func registrationRoutes(g *gin.RouterGroup) {
	g.POST("/registration", func(ctx *gin.Context) {
		var body types.CreateRegistrationRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userID := ctx.GetUint("id")
		email := ctx.GetString("email")
		name := ctx.GetString("name")

		db := db.GetDb()
		var event models.Event
		if err := db.First(&event, body.EventID).Error; err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		var player models.Player
		if err := db.Where("email = ?", email).First(&player).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "no player profile for this account"})
			return
		}

		now := time.Now()
		svc := register.NewService(db)
		if err := svc.ValidateAdmission(&event, userID, now); err != nil {
			status := registrationErrorStatus(err)
			if status == http.StatusInternalServerError {
				log.Printf("[Registration] admission check failed: %s\n", err.Error())
				ctx.Status(status)
				return
			}
			ctx.JSON(status, gin.H{"error": err.Error()})
			return
		}

		slotIDs := make([]uint, 0, len(body.Slots))
		for _, slot := range body.Slots {
			slotIDs = append(slotIDs, slot.ID)
		}
		registration, err := svc.CreateAndReserve(register.ReserveParams{
			UserID:     userID,
			Player:     &player,
			Event:      &event,
			CourseID:   body.CourseID,
			SlotIDs:    slotIDs,
			SignedUpBy: name,
			Notes:      body.Notes,
			Now:        now,
		})
		if err != nil {
			status := registrationErrorStatus(err)
			if status == http.StatusInternalServerError {
				log.Printf("[Registration] reserve failed: %s\n", err.Error())
				ctx.Status(status)
				return
			}
			response := gin.H{"error": err.Error()}
			var waveErr *register.WaveNotOpenError
			if errors.As(err, &waveErr) {
				response["wave"] = waveErr.Wave
			}
			ctx.JSON(status, response)
			return
		}
		ctx.JSON(http.StatusCreated, registration)
	})

	g.GET("/registration/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		db := db.GetDb()
		var registration models.Registration
		err := db.
			Preload("Slots").
			Preload("Slots.Player").
			Preload("Slots.Hole").
			Preload("Course").
			First(&registration, params.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[Registration] lookup failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, registration)
	})

	g.PUT("/registration/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		var body types.UpdateRegistrationRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		svc := register.NewService(db.GetDb())
		registration, err := svc.UpdateNotes(params.ID, body.Notes)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[Registration] notes update failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, registration)
	})

	g.PUT("/registration/:id/cancel", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		var body types.CancelRegistrationRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		database := db.GetDb()
		if body.PaymentID != nil {
			paySvc := payments.NewService(database)
			if err := paySvc.CancelPayment(*body.PaymentID); err != nil {
				log.Printf("[Registration] payment cancel failed: %s\n", err.Error())
			}
		}
		svc := register.NewService(database)
		if err := svc.CancelRegistration(params.ID, body.Reason); err != nil {
			log.Printf("[Registration] cancel failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.Status(http.StatusNoContent)
	})
}
