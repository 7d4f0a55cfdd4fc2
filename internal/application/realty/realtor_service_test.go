package realty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
)

func TestRealtorService_CreateRealtor(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtorRepo.On("ExistsByEmail", mock.Anything, "emeka@tripled.ng").Return(false, nil)
	realtorRepo.On("ExistsByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	realtorRepo.On("Save", mock.Anything, mock.AnythingOfType("*realty.Realtor")).Return(nil)

	resp, err := service.CreateRealtor(context.Background(), CreateRealtorRequest{
		FirstName: "Emeka",
		LastName:  "Okafor",
		Email:     "emeka@tripled.ng",
		Phone:     "+2348012345678",
	})

	require.NoError(t, err)
	assert.Len(t, resp.ReferralCode, 8)
	assert.Equal(t, "REGULAR", resp.Status)
	assert.Nil(t, resp.SponsorID)
	assert.True(t, resp.IsActive)
}

func TestRealtorService_CreateRealtor_DuplicateEmail(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtorRepo.On("ExistsByEmail", mock.Anything, "emeka@tripled.ng").Return(true, nil)

	_, err := service.CreateRealtor(context.Background(), CreateRealtorRequest{
		FirstName: "Emeka",
		LastName:  "Okafor",
		Email:     "emeka@tripled.ng",
	})

	require.Error(t, err)
	assert.Equal(t, "ALREADY_EXISTS", serviceErrCode(err))
	realtorRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRealtorService_CreateRealtor_RetriesOnCodeCollision(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtorRepo.On("ExistsByEmail", mock.Anything, "emeka@tripled.ng").Return(false, nil)
	realtorRepo.On("ExistsByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Twice()
	realtorRepo.On("ExistsByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	realtorRepo.On("Save", mock.Anything, mock.AnythingOfType("*realty.Realtor")).Return(nil)

	resp, err := service.CreateRealtor(context.Background(), CreateRealtorRequest{
		FirstName: "Emeka",
		LastName:  "Okafor",
		Email:     "emeka@tripled.ng",
	})

	require.NoError(t, err)
	assert.Len(t, resp.ReferralCode, 8)
	realtorRepo.AssertNumberOfCalls(t, "ExistsByReferralCode", 3)
}

func TestRealtorService_CreateRealtor_CodeGenerationGivesUp(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtorRepo.On("ExistsByEmail", mock.Anything, "emeka@tripled.ng").Return(false, nil)
	realtorRepo.On("ExistsByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)

	_, err := service.CreateRealtor(context.Background(), CreateRealtorRequest{
		FirstName: "Emeka",
		LastName:  "Okafor",
		Email:     "emeka@tripled.ng",
	})

	require.Error(t, err)
	assert.Equal(t, "CODE_GENERATION_FAILED", serviceErrCode(err))
}

func TestRealtorService_CreateRealtor_SponsorResolved(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	sponsor := newTestRealtor(t, "ngozi", "22222222")

	realtorRepo.On("ExistsByEmail", mock.Anything, "emeka@tripled.ng").Return(false, nil)
	realtorRepo.On("ExistsByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	realtorRepo.On("FindByReferralCode", mock.Anything, sponsor.ReferralCode).Return(sponsor, nil)
	realtorRepo.On("Save", mock.Anything, mock.AnythingOfType("*realty.Realtor")).Return(nil)

	resp, err := service.CreateRealtor(context.Background(), CreateRealtorRequest{
		FirstName:   "Emeka",
		LastName:    "Okafor",
		Email:       "emeka@tripled.ng",
		SponsorCode: sponsor.ReferralCode,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.SponsorID)
	assert.Equal(t, sponsor.ID, *resp.SponsorID)
	assert.Equal(t, sponsor.ReferralCode, resp.SponsorCode)
}

func TestRealtorService_CreateRealtor_DanglingSponsorCodeKept(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtorRepo.On("ExistsByEmail", mock.Anything, "emeka@tripled.ng").Return(false, nil)
	realtorRepo.On("ExistsByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	realtorRepo.On("FindByReferralCode", mock.Anything, "99999999").Return(nil, shared.ErrNotFound)
	realtorRepo.On("Save", mock.Anything, mock.AnythingOfType("*realty.Realtor")).Return(nil)

	resp, err := service.CreateRealtor(context.Background(), CreateRealtorRequest{
		FirstName:   "Emeka",
		LastName:    "Okafor",
		Email:       "emeka@tripled.ng",
		SponsorCode: "99999999",
	})

	// The code that resolved to nobody is kept as entered; the realtor
	// simply has no sponsor.
	require.NoError(t, err)
	assert.Equal(t, "99999999", resp.SponsorCode)
	assert.Nil(t, resp.SponsorID)
}

func TestRealtorService_ChangeSponsor(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtor := newTestRealtor(t, "emeka", "33333333")
	sponsor := newTestRealtor(t, "ngozi", "22222222")

	realtorRepo.On("FindByID", mock.Anything, realtor.ID).Return(realtor, nil)
	realtorRepo.On("FindByReferralCode", mock.Anything, sponsor.ReferralCode).Return(sponsor, nil)
	realtorRepo.On("FindBySponsor", mock.Anything, realtor.ID).Return([]realty.Realtor{}, nil)
	realtorRepo.On("SaveWithLock", mock.Anything, realtor).Return(nil)

	resp, err := service.ChangeSponsor(context.Background(), realtor.ID, ChangeSponsorRequest{
		SponsorCode: sponsor.ReferralCode,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.SponsorID)
	assert.Equal(t, sponsor.ID, *resp.SponsorID)
}

func TestRealtorService_ChangeSponsor_UnknownCode(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtor := newTestRealtor(t, "emeka", "33333333")

	realtorRepo.On("FindByID", mock.Anything, realtor.ID).Return(realtor, nil)
	realtorRepo.On("FindByReferralCode", mock.Anything, "99999999").Return(nil, shared.ErrNotFound)

	_, err := service.ChangeSponsor(context.Background(), realtor.ID, ChangeSponsorRequest{
		SponsorCode: "99999999",
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_SPONSOR", serviceErrCode(err))
}

func TestRealtorService_ChangeSponsor_DownlineRejected(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtor := newTestRealtor(t, "emeka", "33333333")
	child := newTestRealtor(t, "ada", "55555555")
	require.NoError(t, child.LinkSponsor(realtor.ReferralCode, &realtor.ID))
	grandchild := newTestRealtor(t, "obi", "66666666")
	require.NoError(t, grandchild.LinkSponsor(child.ReferralCode, &child.ID))

	realtorRepo.On("FindByID", mock.Anything, realtor.ID).Return(realtor, nil)
	realtorRepo.On("FindByReferralCode", mock.Anything, grandchild.ReferralCode).Return(grandchild, nil)
	realtorRepo.On("FindBySponsor", mock.Anything, realtor.ID).Return([]realty.Realtor{*child}, nil)
	realtorRepo.On("FindBySponsor", mock.Anything, child.ID).Return([]realty.Realtor{*grandchild}, nil)

	_, err := service.ChangeSponsor(context.Background(), realtor.ID, ChangeSponsorRequest{
		SponsorCode: grandchild.ReferralCode,
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_SPONSOR", serviceErrCode(err))
	realtorRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestRealtorService_ChangeSponsor_SelfRejected(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtor := newTestRealtor(t, "emeka", "33333333")

	realtorRepo.On("FindByID", mock.Anything, realtor.ID).Return(realtor, nil)
	realtorRepo.On("FindByReferralCode", mock.Anything, realtor.ReferralCode).Return(realtor, nil)

	_, err := service.ChangeSponsor(context.Background(), realtor.ID, ChangeSponsorRequest{
		SponsorCode: realtor.ReferralCode,
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_SPONSOR", serviceErrCode(err))
}

func TestRealtorService_PromoteAndDemote(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtor := newTestRealtor(t, "emeka", "33333333")
	realtorRepo.On("FindByID", mock.Anything, realtor.ID).Return(realtor, nil)
	realtorRepo.On("SaveWithLock", mock.Anything, realtor).Return(nil)

	resp, err := service.Promote(context.Background(), realtor.ID)
	require.NoError(t, err)
	assert.Equal(t, "EXECUTIVE", resp.Status)

	// Promoting an executive again is rejected in the domain.
	_, err = service.Promote(context.Background(), realtor.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", serviceErrCode(err))

	resp, err = service.Demote(context.Background(), realtor.ID)
	require.NoError(t, err)
	assert.Equal(t, "REGULAR", resp.Status)
}

func TestRealtorService_UpdateContact_DuplicateEmail(t *testing.T) {
	realtorRepo := new(MockRealtorRepository)
	service := NewRealtorService(realtorRepo, testLogger())

	realtor := newTestRealtor(t, "emeka", "33333333")
	realtorRepo.On("FindByID", mock.Anything, realtor.ID).Return(realtor, nil)
	realtorRepo.On("ExistsByEmail", mock.Anything, "taken@tripled.ng").Return(true, nil)

	_, err := service.UpdateContact(context.Background(), realtor.ID, UpdateRealtorContactRequest{
		Email: "taken@tripled.ng",
	})

	require.Error(t, err)
	assert.Equal(t, "ALREADY_EXISTS", serviceErrCode(err))
	realtorRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
