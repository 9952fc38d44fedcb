package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// Hold durations before the expiry sweep reclaims an unpaid registration.
// On-demand events get the wider window because the group is assembled slot
// by slot rather than picked off the sheet.
const (
	CHOOSABLE_HOLD_MINUTES = 5
	ON_DEMAND_HOLD_MINUTES = 15
)

// Stripe standard card pricing. The charged total is grossed up so the
// configured amount due remains after the processor takes its cut.
const (
	STRIPE_PERCENTAGE_FEE = 0.029
	STRIPE_FIXED_FEE      = 0.30
)

func ReaperInterval() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("REAPER_INTERVAL_SECONDS"))
	if err != nil || secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}
