package register

import (
	"testing"
	"time"

	"teesheet/src/models"
	"teesheet/src/types"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func timep(t time.Time) *time.Time { return &t }

func waveEvent(now time.Time) *models.Event {
	return &models.Event{
		ID:                  1,
		RegistrationType:    "M",
		CanChoose:           true,
		SignupWaves:         intp(4),
		TotalGroups:         intp(40),
		PrioritySignupStart: timep(now.Add(-2 * time.Hour)),
		SignupStart:         timep(now.Add(2 * time.Hour)),
		SignupEnd:           timep(now.Add(6 * 24 * time.Hour)),
	}
}

func TestWindow(t *testing.T) {
	now := time.Now()

	event := waveEvent(now)
	event.RegistrationType = "N"
	assert.Equal(t, types.WINDOW_NA, Window(event, now))

	event = waveEvent(now)
	assert.Equal(t, types.WINDOW_PRIORITY, Window(event, now))

	event = waveEvent(now)
	event.PrioritySignupStart = nil
	event.SignupStart = timep(now.Add(-1 * time.Hour))
	assert.Equal(t, types.WINDOW_REGISTRATION, Window(event, now))

	event = waveEvent(now)
	event.PrioritySignupStart = nil
	event.SignupStart = timep(now.Add(1 * time.Hour))
	assert.Equal(t, types.WINDOW_FUTURE, Window(event, now))

	event = waveEvent(now)
	event.PrioritySignupStart = nil
	event.SignupStart = timep(now.Add(-48 * time.Hour))
	event.SignupEnd = timep(now.Add(-24 * time.Hour))
	assert.Equal(t, types.WINDOW_PAST, Window(event, now))
}

func TestCurrentWaveBeforePriorityStart(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.PrioritySignupStart = timep(now.Add(1 * time.Hour))

	assert.Equal(t, 0, CurrentWave(event, now))
}

func TestCurrentWaveDuringPriorityWindow(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.PrioritySignupStart = timep(now)
	event.SignupStart = timep(now.Add(4 * time.Hour))

	// 4-hour window split into 4 waves of one hour each
	assert.Equal(t, 1, CurrentWave(event, now.Add(60*time.Minute)))
	assert.Equal(t, 2, CurrentWave(event, now.Add(75*time.Minute)))
	assert.Equal(t, 4, CurrentWave(event, now.Add(210*time.Minute)))
}

func TestCurrentWaveAfterPriorityWindow(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.PrioritySignupStart = timep(now.Add(-4 * time.Hour))
	event.SignupStart = timep(now.Add(-2 * time.Hour))

	assert.Equal(t, 5, CurrentWave(event, now))
}

func TestCurrentWaveEdgeCases(t *testing.T) {
	now := time.Now()

	event := waveEvent(now)
	event.SignupWaves = nil
	assert.Equal(t, 999, CurrentWave(event, now))

	event = waveEvent(now)
	event.SignupWaves = intp(0)
	assert.Equal(t, 999, CurrentWave(event, now))

	event = waveEvent(now)
	event.PrioritySignupStart = nil
	assert.Equal(t, 999, CurrentWave(event, now))

	event = waveEvent(now)
	event.SignupStart = nil
	assert.Equal(t, 999, CurrentWave(event, now))
}

func TestStartingWaveEvenDistribution(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)

	// 40 groups over 4 waves, 10 per wave
	assert.Equal(t, 1, StartingWave(event, 0))
	assert.Equal(t, 1, StartingWave(event, 9))
	assert.Equal(t, 2, StartingWave(event, 10))
	assert.Equal(t, 2, StartingWave(event, 19))
	assert.Equal(t, 3, StartingWave(event, 20))
	assert.Equal(t, 3, StartingWave(event, 29))
	assert.Equal(t, 4, StartingWave(event, 30))
	assert.Equal(t, 4, StartingWave(event, 39))
}

func TestStartingWaveUnevenDistribution(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.TotalGroups = intp(42)

	// base 10, remainder 2, first two waves take 11
	assert.Equal(t, 1, StartingWave(event, 0))
	assert.Equal(t, 1, StartingWave(event, 10))
	assert.Equal(t, 2, StartingWave(event, 11))
	assert.Equal(t, 2, StartingWave(event, 21))
	assert.Equal(t, 3, StartingWave(event, 22))
	assert.Equal(t, 3, StartingWave(event, 31))
	assert.Equal(t, 4, StartingWave(event, 32))
	assert.Equal(t, 4, StartingWave(event, 41))
}

func TestStartingWaveFrontLoadedRemainder(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.SignupWaves = intp(3)
	event.TotalGroups = intp(26)

	// waves sized 9, 9, 8
	assert.Equal(t, 1, StartingWave(event, 8))
	assert.Equal(t, 2, StartingWave(event, 9))
	assert.Equal(t, 2, StartingWave(event, 17))
	assert.Equal(t, 3, StartingWave(event, 18))
	assert.Equal(t, 3, StartingWave(event, 25))
}

func TestStartingWaveEdgeCases(t *testing.T) {
	now := time.Now()

	event := waveEvent(now)
	event.SignupWaves = nil
	assert.Equal(t, 1, StartingWave(event, 5))

	event = waveEvent(now)
	event.SignupWaves = intp(0)
	assert.Equal(t, 1, StartingWave(event, 5))

	event = waveEvent(now)
	event.TotalGroups = nil
	assert.Equal(t, 1, StartingWave(event, 5))

	event = waveEvent(now)
	event.TotalGroups = intp(0)
	assert.Equal(t, 1, StartingWave(event, 5))
}

func TestStartingWaveBoundaryConditions(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.SignupWaves = intp(5)
	event.TotalGroups = intp(37)

	// base 7, remainder 2: waves sized 8, 8, 7, 7, 7
	assert.Equal(t, 1, StartingWave(event, 7))
	assert.Equal(t, 2, StartingWave(event, 8))
	assert.Equal(t, 2, StartingWave(event, 15))
	assert.Equal(t, 3, StartingWave(event, 16))
	assert.Equal(t, 3, StartingWave(event, 22))
	assert.Equal(t, 4, StartingWave(event, 23))
	assert.Equal(t, 4, StartingWave(event, 29))
	assert.Equal(t, 5, StartingWave(event, 30))
	assert.Equal(t, 5, StartingWave(event, 36))
}

func TestEffectiveOrder(t *testing.T) {
	assert.Equal(t, 0, EffectiveOrder(1, 0))
	assert.Equal(t, 1, EffectiveOrder(1, 1))
	assert.Equal(t, 2, EffectiveOrder(2, 0))
	assert.Equal(t, 19, EffectiveOrder(10, 1))
}

func TestValidateWaveNotOpen(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.PrioritySignupStart = timep(now.Add(-30 * time.Minute))
	event.SignupStart = timep(now.Add(210 * time.Minute))

	// 30 minutes into a 4-hour window is wave 1
	slot := &models.RegistrationSlot{StartingOrder: 25}
	err := ValidateWave(event, slot, now)
	var waveErr *WaveNotOpenError
	assert.ErrorAs(t, err, &waveErr)
	assert.Equal(t, 3, waveErr.Wave)
}

func TestValidateWaveOpen(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.PrioritySignupStart = timep(now.Add(-75 * time.Minute))
	event.SignupStart = timep(now.Add(165 * time.Minute))

	// 75 minutes in is wave 2, so wave 1 and 2 slots pass
	assert.NoError(t, ValidateWave(event, &models.RegistrationSlot{StartingOrder: 5}, now))
	assert.NoError(t, ValidateWave(event, &models.RegistrationSlot{StartingOrder: 15}, now))
}

func TestValidateWaveShotgunOrdering(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.StartType = types.START_SHOTGUN
	event.PrioritySignupStart = timep(now.Add(-30 * time.Minute))
	event.SignupStart = timep(now.Add(210 * time.Minute))

	hole := &models.Hole{HoleNumber: 10}
	slot := &models.RegistrationSlot{StartingOrder: 1, Hole: hole}

	// effective order 19 lands in wave 2 while only wave 1 is open
	err := ValidateWave(event, slot, now)
	var waveErr *WaveNotOpenError
	assert.ErrorAs(t, err, &waveErr)
	assert.Equal(t, 2, waveErr.Wave)
}

func TestValidateWaveSkipsNonPriorityWindow(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.PrioritySignupStart = timep(now.Add(-4 * time.Hour))
	event.SignupStart = timep(now.Add(-2 * time.Hour))

	assert.NoError(t, ValidateWave(event, &models.RegistrationSlot{StartingOrder: 35}, now))
}

func TestValidateWaveSkipsNonChoosable(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.CanChoose = false

	assert.NoError(t, ValidateWave(event, &models.RegistrationSlot{StartingOrder: 35}, now))
}

func TestValidateWaveSkipsUnconfigured(t *testing.T) {
	now := time.Now()
	event := waveEvent(now)
	event.SignupWaves = nil

	assert.NoError(t, ValidateWave(event, &models.RegistrationSlot{StartingOrder: 35}, now))
}
