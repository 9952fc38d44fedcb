package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"teesheet/src/db"
	"teesheet/src/models"
	"teesheet/src/register"
	"teesheet/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type eventResponse struct {
	models.Event
	RegistrationWindow types.RegistrationWindow `json:"registration_window"`
}

func eventRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)

	apiv1.GET("/events", func(ctx *gin.Context) {
		var query struct {
			Season int `form:"season"`
		}
		if err := ctx.ShouldBindQuery(&query); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		database := db.GetDb()
		tx := database.Preload("Fees")
		if query.Season > 0 {
			tx = tx.Where("season = ?", query.Season)
		}
		var events []models.Event
		if err := tx.Order("start_date").Find(&events).Error; err != nil {
			log.Printf("[Event] list failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		now := time.Now()
		response := make([]eventResponse, 0, len(events))
		for _, event := range events {
			response = append(response, eventResponse{
				Event:              event,
				RegistrationWindow: register.Window(&event, now),
			})
		}
		ctx.JSON(http.StatusOK, response)
	})

	apiv1.GET("/events/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		database := db.GetDb()
		var event models.Event
		err := database.Preload("Fees").First(&event, params.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[Event] lookup failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, eventResponse{
			Event:              event,
			RegistrationWindow: register.Window(&event, time.Now()),
		})
	})

	apiv1.GET("/events/:id/slots", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		database := db.GetDb()
		var slots []models.RegistrationSlot
		err := database.
			Preload("Player").
			Preload("Hole").
			Where("event_id = ?", params.ID).
			Order("starting_order, slot_number").
			Find(&slots).Error
		if err != nil {
			log.Printf("[Event] slot sheet failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, slots)
	})

	return apiv1
}

// eventAdminRoutes carries the operator side of the tee sheet: building the
// opening slot grid and adding or dropping hole groups afterwards.
func eventAdminRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/events/:id/slots", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		var body types.BuildSlotSheetRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		database := db.GetDb()
		var event models.Event
		err := database.First(&event, params.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[Event] lookup failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		slots, err := register.NewService(database).BuildSlotSheet(&event, body.CourseID)
		if errors.Is(err, register.ErrNotChoosable) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			log.Printf("[Event] slot sheet build failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusCreated, slots)
	})

	g.POST("/events/:id/holes/:hole", func(ctx *gin.Context) {
		var params types.HoleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		database := db.GetDb()
		var event models.Event
		err := database.First(&event, params.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[Event] lookup failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		slots, err := register.NewService(database).AddHoleGroup(&event, params.HoleID)
		if errors.Is(err, register.ErrNotChoosable) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			log.Printf("[Event] hole group add failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusCreated, slots)
	})

	g.DELETE("/events/:id/holes/:hole", func(ctx *gin.Context) {
		var params types.HoleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		var body types.RemoveHoleGroupRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		svc := register.NewService(db.GetDb())
		if err := svc.RemoveHoleGroup(params.ID, params.HoleID, *body.StartingOrder); err != nil {
			log.Printf("[Event] hole group removal failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.Status(http.StatusNoContent)
	})

	return g
}
