package main

import (
	"errors"
	"log"
	"net/http"

	"teesheet/src/db"
	"teesheet/src/models"
	"teesheet/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func playerRoutes(g *gin.RouterGroup) {
	g.GET("/players/me", func(ctx *gin.Context) {
		email := ctx.GetString("email")
		database := db.GetDb()
		var player models.Player
		err := database.Where("email = ?", email).First(&player).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[Player] lookup failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, player)
	})

	g.PUT("/players/me", func(ctx *gin.Context) {
		var body types.UpdatePlayerRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		email := ctx.GetString("email")
		database := db.GetDb()
		var player models.Player
		err := database.Where("email = ?", email).First(&player).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("[Player] lookup failed: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		update := map[string]interface{}{}
		if body.FirstName != "" {
			update["first_name"] = body.FirstName
		}
		if body.LastName != "" {
			update["last_name"] = body.LastName
		}
		if body.GHIN != nil {
			update["ghin"] = *body.GHIN
		}
		if body.Tee != "" {
			update["tee"] = body.Tee
		}
		if body.PhoneNumber != nil {
			update["phone_number"] = *body.PhoneNumber
		}
		if len(update) > 0 {
			if err := database.Model(&player).Updates(update).Error; err != nil {
				log.Printf("[Player] update failed: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
		}
		ctx.JSON(http.StatusOK, player)
	})
}
