package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripled/backend/internal/domain/shared"
)

func TestNewBranch(t *testing.T) {
	tests := []struct {
		name       string
		branchName string
		branchType BranchType
		wantErr    bool
		errCode    string
	}{
		{
			name:       "valid main branch",
			branchName: "Head Office",
			branchType: BranchTypeMain,
			wantErr:    false,
		},
		{
			name:       "valid sub branch",
			branchName: "Lekki Branch",
			branchType: BranchTypeSub,
			wantErr:    false,
		},
		{
			name:       "empty name",
			branchName: "",
			branchType: BranchTypeSub,
			wantErr:    true,
			errCode:    "INVALID_NAME",
		},
		{
			name:       "invalid type",
			branchName: "Somewhere",
			branchType: BranchType("REGIONAL"),
			wantErr:    true,
			errCode:    "INVALID_BRANCH_TYPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			branch, err := NewBranch(tt.branchName, "Lagos", "Lagos", "1 Marina Rd", tt.branchType)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.errCode, errCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.branchName, branch.Name)
			assert.True(t, branch.IsActive)
			assert.True(t, branch.AllocatedFunds.IsZero())
			assert.Equal(t, 1, branch.GetVersion())
			assert.Len(t, branch.GetDomainEvents(), 1)
		})
	}
}

func TestBranch_Deactivate(t *testing.T) {
	main, err := NewBranch("Head Office", "Lagos", "Lagos", "", BranchTypeMain)
	require.NoError(t, err)
	assert.Error(t, main.Deactivate(), "main branch must not be deactivated")

	sub, err := NewBranch("Lekki Branch", "Lekki", "Lagos", "", BranchTypeSub)
	require.NoError(t, err)
	require.NoError(t, sub.Deactivate())
	assert.False(t, sub.IsActive)
	assert.Error(t, sub.Deactivate(), "double deactivation is invalid")
}

func TestBranch_AllocatedFunds(t *testing.T) {
	branch, err := NewBranch("Lekki Branch", "Lekki", "Lagos", "", BranchTypeSub)
	require.NoError(t, err)

	require.NoError(t, branch.IncreaseAllocatedFunds(decimal.NewFromInt(300000)))
	assert.Equal(t, "300000", branch.AllocatedFunds.String())

	require.NoError(t, branch.DecreaseAllocatedFunds(decimal.NewFromInt(100000)))
	assert.Equal(t, "200000", branch.AllocatedFunds.String())

	assert.Error(t, branch.IncreaseAllocatedFunds(decimal.Zero))
	assert.Error(t, branch.DecreaseAllocatedFunds(decimal.NewFromInt(-5)))
}

func TestBranchBalance_Balance(t *testing.T) {
	balance := BranchBalance{
		Income:      decimal.NewFromInt(1000000),
		Expenditure: decimal.NewFromInt(400000),
	}
	assert.Equal(t, "600000", balance.Balance().String())
	assert.Equal(t, "600000.00", balance.BalanceMoney().StringFixed(2))
}

// errCode extracts the code from any of the domain error shapes
func errCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	type coded interface{ Code() string }
	var c coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}
