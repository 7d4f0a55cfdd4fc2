package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockCommissionRepository(t *testing.T) (*GormCommissionRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormCommissionRepository(gormDB), mock, mockDB
}

func commissionRows(id, realtorID uuid.UUID, tier string, amount string, isPaid bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "version", "realtor_id", "amount", "description", "property_reference", "tier", "is_paid",
	}).AddRow(id, 1, realtorID, amount, "Commission on sale PS-2024-0042", "PS-2024-0042", tier, isPaid)
}

func TestGormCommissionRepository_FindByID(t *testing.T) {
	t.Run("finds existing commission", func(t *testing.T) {
		repo, mock, mockDB := newMockCommissionRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		realtorID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "commissions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(commissionRows(id, realtorID, "SPONSOR", "25000.00", false))

		commission, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, realtorID, commission.RealtorID)
		assert.Equal(t, realty.CommissionTierSponsor, commission.Tier)
		assert.False(t, commission.IsPaid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		repo, mock, mockDB := newMockCommissionRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "commissions"`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCommissionRepository_FindByIDForUpdate(t *testing.T) {
	repo, mock, mockDB := newMockCommissionRepository(t)
	defer mockDB.Close()

	id := uuid.New()
	realtorID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "commissions" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(id, 1).
		WillReturnRows(commissionRows(id, realtorID, "REALTOR", "150000.00", false))

	commission, err := repo.FindByIDForUpdate(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, realtorID, commission.RealtorID)
	assert.False(t, commission.IsPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCommissionRepository_FindUnpaidByRealtor(t *testing.T) {
	repo, mock, mockDB := newMockCommissionRepository(t)
	defer mockDB.Close()

	realtorID := uuid.New()
	rows := commissionRows(uuid.New(), realtorID, "REALTOR", "150000.00", false).
		AddRow(uuid.New(), 1, realtorID, "25000.00", "Commission on sale PS-2024-0043", "PS-2024-0043", "UPLINE", false)

	mock.ExpectQuery(`SELECT \* FROM "commissions" WHERE realtor_id = \$1 AND is_paid = \$2 ORDER BY created_at ASC`).
		WithArgs(realtorID, false).
		WillReturnRows(rows)

	commissions, err := repo.FindUnpaidByRealtor(context.Background(), realtorID)

	require.NoError(t, err)
	require.Len(t, commissions, 2)
	assert.Equal(t, realty.CommissionTierRealtor, commissions[0].Tier)
	assert.Equal(t, realty.CommissionTierUpline, commissions[1].Tier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCommissionRepository_SumByRealtor(t *testing.T) {
	t.Run("sums all commissions", func(t *testing.T) {
		repo, mock, mockDB := newMockCommissionRepository(t)
		defer mockDB.Close()

		realtorID := uuid.New()
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "commissions" WHERE realtor_id = \$1`).
			WithArgs(realtorID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("475000.00"))

		sum, err := repo.SumByRealtor(context.Background(), realtorID, nil)

		require.NoError(t, err)
		assert.Equal(t, "475000", sum.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("restricts to unpaid", func(t *testing.T) {
		repo, mock, mockDB := newMockCommissionRepository(t)
		defer mockDB.Close()

		realtorID := uuid.New()
		isPaid := false
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "commissions" WHERE realtor_id = \$1 AND is_paid = \$2`).
			WithArgs(realtorID, false).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("175000.00"))

		sum, err := repo.SumByRealtor(context.Background(), realtorID, &isPaid)

		require.NoError(t, err)
		assert.Equal(t, "175000", sum.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCommissionRepository_FindAllFilterByTier(t *testing.T) {
	repo, mock, mockDB := newMockCommissionRepository(t)
	defer mockDB.Close()

	realtorID := uuid.New()
	tier := realty.CommissionTierSponsor
	filter := realty.CommissionFilter{
		Filter:    shared.DefaultFilter(),
		RealtorID: &realtorID,
		Tier:      &tier,
	}

	mock.ExpectQuery(`SELECT \* FROM "commissions" WHERE realtor_id = \$1 AND tier = \$2 ORDER BY created_at DESC LIMIT .*`).
		WithArgs(realtorID, "SPONSOR", 20).
		WillReturnRows(commissionRows(uuid.New(), realtorID, "SPONSOR", "25000.00", true))

	commissions, err := repo.FindAll(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, commissions, 1)
	assert.True(t, commissions[0].IsPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
