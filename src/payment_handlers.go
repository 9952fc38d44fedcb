package main

import (
	"errors"
	"log"
	"net/http"

	"teesheet/src/db"
	"teesheet/src/models"
	"teesheet/src/payments"
	"teesheet/src/register"
	"teesheet/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func paymentRoutes(g *gin.RouterGroup) {
	g.POST("/payments", func(ctx *gin.Context) {
		var body types.CreatePaymentRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userID := ctx.GetUint("id")
		database := db.GetDb()

		paySvc := payments.NewService(database)
		payment, err := paySvc.CreatePayment(userID, body)
		if err != nil {
			log.Printf("[Payment] create failed: %s\n", err.Error())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// payment is in flight, unclaimed seats go back to the pool
		regSvc := register.NewService(database)
		if err := regSvc.PaymentProcessing(body.RegistrationID); err != nil {
			log.Printf("[Payment] processing transition failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusCreated, payment)
	})

	g.GET("/payments/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		database := db.GetDb()
		var payment models.Payment
		err := database.First(&payment, params.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[Payment] lookup failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, payment)
	})

	g.POST("/refunds", func(ctx *gin.Context) {
		var body types.CreateRefundRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		issuerID := ctx.GetUint("id")
		paySvc := payments.NewService(db.GetDb())
		refund, err := paySvc.CreateRefund(issuerID, body)
		if err != nil {
			if errors.Is(err, payments.ErrPaymentNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			log.Printf("[Refund] create failed: %s\n", err.Error())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusCreated, refund)
	})
}
