package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"teesheet/src/db"
	"teesheet/src/middlewares"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
}

func (s *TestSuite) SetupTest() {
	os.Unsetenv("MAINTENANCE_MODE")
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestMaintenanceModeOff() {
	os.Setenv("MAINTENANCE_MODE", "false")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestWebhookRejectsBadSignature() {
	router := setupRouter()
	stripeWebhookRoute(router)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"id":"evt_test","type":"payment_intent.succeeded"}`)
	req, _ := http.NewRequest("POST", "/api/v1/webhook/stripe", body)
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

// signStripePayload builds a signature header the webhook endpoint accepts.
func signStripePayload(payload, secret string) string {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + payload))
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func (s *TestSuite) TestWebhookFailureLeavesEventRedeliverable() {
	os.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	defer os.Unsetenv("STRIPE_WEBHOOK_SECRET")

	sqlDB, mock, err := sqlmock.New()
	assert.Nil(s.T(), err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.Nil(s.T(), err)
	db.NewDB(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	router := setupRouter()
	stripeWebhookRoute(router)

	payload := fmt.Sprintf(
		`{"id":"evt_1","api_version":"%s","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","status":"succeeded"}}}`,
		stripe.APIVersion,
	)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/webhook/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signStripePayload(payload, "whsec_test"))
	router.ServeHTTP(w, req)

	// a failed handler must not return 200 or the processor never redelivers
	assert.Equal(s.T(), 500, w.Code)
	assert.Nil(s.T(), mock.ExpectationsWereMet())
}

func (s *TestSuite) TestAuthRejectsBareBearerHeader() {
	router := setupRouter()
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	registrationRoutes(authorized)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/registration", strings.NewReader(`{"event":1}`))
	req.Header.Set("Authorization", "Bearer")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestSlotSheetBuildRequiresAuth() {
	router := setupRouter()
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	eventAdminRoutes(authorized)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/events/1/slots", strings.NewReader(`{"course":3}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestRegistrationRequiresAuth() {
	router := setupRouter()
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	registrationRoutes(authorized)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"event":1}`)
	req, _ := http.NewRequest("POST", "/api/v1/registration", body)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestRegistrationRejectsBadBody() {
	router := setupRouter()
	// no auth layer so the handler's own validation is what rejects
	group := router.Group(apiPrefix)
	registrationRoutes(group)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/registration", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)

	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	errMsg := gjson.Get(string(rbytes), "error").String()
	assert.NotEmpty(s.T(), errMsg)
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
