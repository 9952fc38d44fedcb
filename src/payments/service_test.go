package payments

import (
	"errors"
	"log"
	"testing"
	"time"

	"teesheet/src/lib"
	"teesheet/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockService() (*Service, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return NewService(gormDB), mock
}

func TestRefundConfirmedBeforeCreated(t *testing.T) {
	svc, mock := newMockService()

	// confirmation arrives before the creation event has been processed
	mock.ExpectQuery(`SELECT \* FROM "refunds"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.HandleRefundConfirmed("re_123")
	assert.ErrorIs(t, err, ErrRefundNotFound)

	// creation has landed by the second attempt
	rows := sqlmock.NewRows([]string{"id", "refund_code", "confirmed"}).
		AddRow(1, "re_123", false)
	mock.ExpectQuery(`SELECT \* FROM "refunds"`).WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "refunds" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = svc.HandleRefundConfirmed("re_123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundConfirmedIsIdempotent(t *testing.T) {
	svc, mock := newMockService()

	rows := sqlmock.NewRows([]string{"id", "refund_code", "confirmed"}).
		AddRow(1, "re_123", true)
	mock.ExpectQuery(`SELECT \* FROM "refunds"`).WillReturnRows(rows)

	err := svc.HandleRefundConfirmed("re_123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentCompleteUnknownIntentIsDropped(t *testing.T) {
	svc, mock := newMockService()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err := svc.HandlePaymentComplete("pi_missing")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentCompleteIsIdempotent(t *testing.T) {
	svc, mock := newMockService()

	mock.ExpectBegin()
	payment := sqlmock.NewRows([]string{"id", "payment_code", "event_id", "registration_id", "confirmed"}).
		AddRow(9, "pi_123", 5, 7, true)
	mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(payment)
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	err := svc.HandlePaymentComplete("pi_123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundCreatedUnknownPaymentIsPermanentFailure(t *testing.T) {
	svc, mock := newMockService()

	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.HandleRefundCreated("re_123", "pi_missing", 1000, "requested_by_customer")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundCreatedDuplicateDoesNotRenotify(t *testing.T) {
	svc, mock := newMockService()

	payment := sqlmock.NewRows([]string{"id", "payment_code", "event_id", "user_id"}).
		AddRow(9, "pi_123", 5, 2)
	mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(payment)
	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	// the insert lands on the refund_code unique index and does nothing
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "refunds" .* ON CONFLICT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err := svc.HandleRefundCreated("re_123", "pi_123", 1000, "requested_by_customer")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRefundRetryStopsAfterFinalAttempt(t *testing.T) {
	svc, mock := newMockService()

	for i := 0; i < refundConfirmAttempts; i++ {
		mock.ExpectQuery(`SELECT \* FROM "refunds"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}

	start := time.Now()
	err := svc.ConfirmRefundWithRetry("re_404")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrRefundNotFound)
	// two waits between three attempts, none after the last
	assert.GreaterOrEqual(t, elapsed, 3*time.Second)
	assert.Less(t, elapsed, 6*time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentRemovesOrphanOnProcessorFailure(t *testing.T) {
	svc, mock := newMockService()

	createPaymentIntent = func(amount int64, metadata map[string]string) (*stripe.PaymentIntent, error) {
		return nil, errors.New("processor unavailable")
	}
	defer func() { createPaymentIntent = lib.CreatePaymentIntent }()

	fees := sqlmock.NewRows([]string{"id", "event_id", "amount"}).AddRow(1, 2, 50.00)
	mock.ExpectQuery(`SELECT \* FROM "event_fees"`).WillReturnRows(fees)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))
	mock.ExpectQuery(`INSERT INTO "registration_fees"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(44))
	mock.ExpectCommit()
	// the placeholder payment and its fee rows are taken back out
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "registration_fees" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := svc.CreatePayment(1, types.CreatePaymentRequestBody{
		EventID:        2,
		RegistrationID: 7,
		Fees:           []types.PaymentFeeRequest{{EventFeeID: 1, SlotID: 10}},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
