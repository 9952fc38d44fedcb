package boot

import (
	"log"

	"teesheet/src/db"
	"teesheet/src/lib"
	"teesheet/src/models"
	"teesheet/src/register"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Player{},
		&models.Course{},
		&models.Hole{},
		&models.Event{},
		&models.EventFee{},
		&models.Registration{},
		&models.RegistrationSlot{},
		&models.RegistrationFee{},
		&models.Payment{},
		&models.Refund{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler starts the background scheduler and hangs the expiry
// sweep off it.
func InitScheduler() {
	svc := register.NewService(db.GetDb())
	if err := svc.StartReaper(); err != nil {
		log.Printf("Error scheduling expiry sweep: %s\n", err.Error())
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error shutting down scheduler: %s\n", err.Error())
	}
}
