package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockPaymentRepository(t *testing.T) (*GormPaymentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPaymentRepository(gormDB), mock, mockDB
}

func TestGormPaymentRepository_FindByID(t *testing.T) {
	t.Run("finds existing payment", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		paymentID := uuid.New()
		saleID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "property_sale_id", "amount", "payment_date", "method", "reference"}).
			AddRow(paymentID, saleID, "500000.00", time.Now(), "TRANSFER", "TRX-001")

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(paymentID, 1).
			WillReturnRows(rows)

		payment, err := repo.FindByID(context.Background(), paymentID)

		assert.NoError(t, err)
		require.NotNil(t, payment)
		assert.Equal(t, paymentID, payment.ID)
		assert.Equal(t, saleID, payment.PropertySaleID)
		assert.Equal(t, realty.PaymentMethodTransfer, payment.Method)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent payment", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		paymentID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(paymentID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		payment, err := repo.FindByID(context.Background(), paymentID)

		assert.Nil(t, payment)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_FindBySale(t *testing.T) {
	t.Run("returns payments oldest first", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()
		first := uuid.New()
		second := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "property_sale_id", "amount", "payment_date", "method"}).
			AddRow(first, saleID, "200000.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "CASH").
			AddRow(second, saleID, "300000.00", time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), "TRANSFER")

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE property_sale_id = \$1 ORDER BY payment_date ASC, created_at ASC`).
			WithArgs(saleID).
			WillReturnRows(rows)

		payments, err := repo.FindBySale(context.Background(), saleID)

		assert.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, first, payments[0].ID)
		assert.Equal(t, second, payments[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_Save(t *testing.T) {
	t.Run("inserts a payment", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		payment, err := realty.NewPayment(uuid.New(), decimal.NewFromInt(250000), time.Now(), realty.PaymentMethodCash, "", "")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "payments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Save(context.Background(), payment))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_SumBySale(t *testing.T) {
	t.Run("sums all payments against a sale", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payments" WHERE property_sale_id = \$1`).
			WithArgs(saleID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("750000.00"))

		sum, err := repo.SumBySale(context.Background(), saleID)

		assert.NoError(t, err)
		assert.Equal(t, "750000", sum.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero for a sale with no payments", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payments" WHERE property_sale_id = \$1`).
			WithArgs(saleID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

		sum, err := repo.SumBySale(context.Background(), saleID)

		assert.NoError(t, err)
		assert.True(t, sum.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
