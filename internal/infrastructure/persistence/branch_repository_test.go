package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockBranchRepository creates a GormBranchRepository with a mocked SQL connection
func newMockBranchRepository(t *testing.T) (*GormBranchRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormBranchRepository(gormDB), mock, mockDB
}

func branchRows(id uuid.UUID, name, branchType string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "version", "name", "location", "state", "type", "allocated_funds", "is_active"}).
		AddRow(id, 1, name, "Lekki Phase 1", "Lagos", branchType, decimal.Zero, true)
}

func TestGormBranchRepository_FindByID(t *testing.T) {
	t.Run("finds existing branch", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		branchID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "branches" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(branchID, 1).
			WillReturnRows(branchRows(branchID, "Lagos Branch", "SUB"))

		branch, err := repo.FindByID(context.Background(), branchID)

		assert.NoError(t, err)
		assert.NotNil(t, branch)
		assert.Equal(t, branchID, branch.ID)
		assert.Equal(t, "Lagos Branch", branch.Name)
		assert.Equal(t, ledger.BranchTypeSub, branch.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent branch", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		branchID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "branches" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(branchID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		branch, err := repo.FindByID(context.Background(), branchID)

		assert.Error(t, err)
		assert.Nil(t, branch)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBranchRepository_FindMain(t *testing.T) {
	t.Run("finds the active main branch", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		mainID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "branches" WHERE type = \$1 AND is_active = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("MAIN", true, 1).
			WillReturnRows(branchRows(mainID, "Head Office", "MAIN"))

		branch, err := repo.FindMain(context.Background())

		assert.NoError(t, err)
		assert.NotNil(t, branch)
		assert.Equal(t, mainID, branch.ID)
		assert.True(t, branch.IsMain())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no main branch exists", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "branches" WHERE type = \$1 AND is_active = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("MAIN", true, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		branch, err := repo.FindMain(context.Background())

		assert.Nil(t, branch)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBranchRepository_SumByType(t *testing.T) {
	t.Run("sums committed amounts by type", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		branchID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions" WHERE branch_id = \$1 AND type = \$2`).
			WithArgs(branchID, "INCOME").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("2500000.00"))

		sum, err := repo.SumByType(context.Background(), branchID, ledger.TransactionTypeIncome)

		assert.NoError(t, err)
		assert.Equal(t, "2500000", sum.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero for a branch with no entries", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		branchID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions" WHERE branch_id = \$1 AND type = \$2`).
			WithArgs(branchID, "EXPENDITURE").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

		sum, err := repo.SumByType(context.Background(), branchID, ledger.TransactionTypeExpenditure)

		assert.NoError(t, err)
		assert.True(t, sum.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBranchRepository_GetBalance(t *testing.T) {
	t.Run("derives balance from income and expenditure sums", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		branchID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions" WHERE branch_id = \$1 AND type = \$2`).
			WithArgs(branchID, "INCOME").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("1000000.00"))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions" WHERE branch_id = \$1 AND type = \$2`).
			WithArgs(branchID, "EXPENDITURE").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("400000.00"))

		balance, err := repo.GetBalance(context.Background(), branchID)

		assert.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, branchID, balance.BranchID)
		assert.Equal(t, "600000", balance.Balance().String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBranchRepository_SaveWithLock(t *testing.T) {
	t.Run("saves when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		branch := &ledger.Branch{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{ID: uuid.New()},
				Version:    2,
			},
			Name: "Abuja Branch",
			Type: ledger.BranchTypeSub,
		}

		mock.ExpectExec(`UPDATE "branches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), branch)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports conflict when version has moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		branch := &ledger.Branch{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{ID: uuid.New()},
				Version:    2,
			},
			Name: "Abuja Branch",
			Type: ledger.BranchTypeSub,
		}

		mock.ExpectExec(`UPDATE "branches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), branch)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBranchRepository_Delete(t *testing.T) {
	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		branchID := uuid.New()

		mock.ExpectExec(`DELETE FROM "branches" WHERE id = \$1`).
			WithArgs(branchID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), branchID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBranchRepository_Count(t *testing.T) {
	t.Run("counts branches", func(t *testing.T) {
		repo, mock, mockDB := newMockBranchRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "branches"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.Count(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
