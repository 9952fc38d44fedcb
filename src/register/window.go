package register

import (
	"math"
	"time"

	"teesheet/src/models"
	"teesheet/src/types"
)

// Window reports where an event sits in its signup lifecycle at the given
// instant. Events that do not take registrations always report n/a.
func Window(event *models.Event, now time.Time) types.RegistrationWindow {
	if event.RegistrationType == "N" {
		return types.WINDOW_NA
	}
	if event.PrioritySignupStart != nil && event.SignupStart != nil &&
		event.PrioritySignupStart.Before(now) && now.Before(*event.SignupStart) {
		return types.WINDOW_PRIORITY
	}
	if event.SignupStart != nil && event.SignupEnd != nil &&
		event.SignupStart.Before(now) && now.Before(*event.SignupEnd) {
		return types.WINDOW_REGISTRATION
	}
	if event.SignupStart != nil && event.SignupStart.After(now) {
		return types.WINDOW_FUTURE
	}
	return types.WINDOW_PAST
}

// CurrentWave returns which priority wave is open at the given instant.
// Returns 0 before the priority window opens, waves+1 once general signup
// opens, and 999 when the event has no usable wave configuration.
func CurrentWave(event *models.Event, now time.Time) int {
	if event.SignupWaves == nil || *event.SignupWaves == 0 ||
		event.PrioritySignupStart == nil || event.SignupStart == nil {
		return 999
	}
	if now.Before(*event.PrioritySignupStart) {
		return 0
	}
	if !now.Before(*event.SignupStart) {
		return *event.SignupWaves + 1
	}
	window := event.SignupStart.Sub(*event.PrioritySignupStart)
	waveLength := window / time.Duration(*event.SignupWaves)
	elapsed := now.Sub(*event.PrioritySignupStart)
	return int(math.Ceil(float64(elapsed) / float64(waveLength)))
}

// StartingWave maps a zero-based starting order to the wave that releases
// it. Groups are split evenly across waves with the remainder front-loaded,
// so the first total%waves waves carry one extra group.
func StartingWave(event *models.Event, startingOrder int) int {
	if event.SignupWaves == nil || *event.SignupWaves == 0 ||
		event.TotalGroups == nil || *event.TotalGroups == 0 {
		return 1
	}
	waves := *event.SignupWaves
	base := *event.TotalGroups / waves
	rem := *event.TotalGroups % waves
	cutoff := 0
	for wave := 1; wave <= waves; wave++ {
		size := base
		if wave <= rem {
			size++
		}
		cutoff += size
		if startingOrder < cutoff {
			return wave
		}
	}
	return waves
}

// EffectiveOrder folds a shotgun slot's hole into its ordering index so
// hole 1 order 0 releases before hole 2 order 0.
func EffectiveOrder(holeNumber int, startingOrder int) int {
	return (holeNumber-1)*2 + startingOrder
}

// ValidateWave rejects a slot whose wave has not opened. Only choosable
// events with waves configured are gated, and only during the priority
// window.
func ValidateWave(event *models.Event, slot *models.RegistrationSlot, now time.Time) error {
	if !event.CanChoose || event.SignupWaves == nil || *event.SignupWaves == 0 {
		return nil
	}
	if Window(event, now) != types.WINDOW_PRIORITY {
		return nil
	}
	order := slot.StartingOrder
	if event.StartType == types.START_SHOTGUN && slot.Hole != nil {
		order = EffectiveOrder(slot.Hole.HoleNumber, slot.StartingOrder)
	}
	wave := StartingWave(event, order)
	if wave > CurrentWave(event, now) {
		return &WaveNotOpenError{Wave: wave}
	}
	return nil
}
