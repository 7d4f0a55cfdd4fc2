package realty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Referral code generation retries a handful of times on the rare
// collision before giving up.
const maxCodeAttempts = 5

// RealtorService provides application-level realtor operations
type RealtorService struct {
	realtorRepo realty.RealtorRepository
	logger      *zap.Logger
}

// NewRealtorService creates a new RealtorService
func NewRealtorService(realtorRepo realty.RealtorRepository, logger *zap.Logger) *RealtorService {
	return &RealtorService{
		realtorRepo: realtorRepo,
		logger:      logger,
	}
}

// RealtorResponse represents a realtor in API responses
type RealtorResponse struct {
	ID               uuid.UUID       `json:"id"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	FullName         string          `json:"full_name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	BankName         string          `json:"bank_name"`
	AccountNumber    string          `json:"account_number"`
	AccountName      string          `json:"account_name"`
	ReferralCode     string          `json:"referral_code"`
	SponsorCode      string          `json:"sponsor_code,omitempty"`
	SponsorID        *uuid.UUID      `json:"sponsor_id,omitempty"`
	Status           string          `json:"status"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
	PaidCommission   decimal.Decimal `json:"paid_commission"`
	UnpaidCommission decimal.Decimal `json:"unpaid_commission"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreateRealtorRequest represents a request to register a realtor
type CreateRealtorRequest struct {
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	Email       string     `json:"email" binding:"required,email"`
	Phone       string     `json:"phone"`
	SponsorCode string     `json:"sponsor_code"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// UpdateRealtorContactRequest represents a contact details update
type UpdateRealtorContactRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateBankDetailsRequest represents a payout account update
type UpdateBankDetailsRequest struct {
	BankName      string `json:"bank_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
}

// ChangeSponsorRequest represents a sponsor reassignment
type ChangeSponsorRequest struct {
	SponsorCode string `json:"sponsor_code" binding:"required"`
}

// CreateRealtor registers a realtor: a fresh unique referral code is
// generated, and the sponsor code, if given, is resolved once and
// cached. A code that resolves to nobody is kept as entered; the
// realtor simply has no sponsor.
func (s *RealtorService) CreateRealtor(ctx context.Context, req CreateRealtorRequest) (*RealtorResponse, error) {
	taken, err := s.realtorRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A realtor with this email already exists")
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	realtor, err := realty.NewRealtor(req.FirstName, req.LastName, req.Email, req.Phone, code)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		realtor.SetCreatedBy(*req.CreatedBy)
	}

	if req.SponsorCode != "" {
		sponsorID, err := s.resolveSponsor(ctx, req.SponsorCode)
		if err != nil {
			return nil, err
		}
		if err := realtor.LinkSponsor(req.SponsorCode, sponsorID); err != nil {
			return nil, err
		}
	}

	if err := s.realtorRepo.Save(ctx, realtor); err != nil {
		return nil, err
	}

	s.logger.Info("realtor registered",
		zap.String("realtor_id", realtor.ID.String()),
		zap.String("referral_code", realtor.ReferralCode))

	return toRealtorResponse(realtor), nil
}

// GetRealtor returns a realtor by ID
func (s *RealtorService) GetRealtor(ctx context.Context, id uuid.UUID) (*RealtorResponse, error) {
	realtor, err := s.realtorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRealtorResponse(realtor), nil
}

// GetRealtorByCode returns a realtor by referral code
func (s *RealtorService) GetRealtorByCode(ctx context.Context, code string) (*RealtorResponse, error) {
	realtor, err := s.realtorRepo.FindByReferralCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toRealtorResponse(realtor), nil
}

// ListRealtors returns realtors with pagination
func (s *RealtorService) ListRealtors(ctx context.Context, filter shared.Filter) (*shared.Paginated[RealtorResponse], error) {
	realtors, err := s.realtorRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.realtorRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RealtorResponse, len(realtors))
	for i := range realtors {
		items[i] = *toRealtorResponse(&realtors[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetDownline returns the realtors directly sponsored by a realtor
func (s *RealtorService) GetDownline(ctx context.Context, realtorID uuid.UUID) ([]RealtorResponse, error) {
	downline, err := s.realtorRepo.FindBySponsor(ctx, realtorID)
	if err != nil {
		return nil, err
	}

	items := make([]RealtorResponse, len(downline))
	for i := range downline {
		items[i] = *toRealtorResponse(&downline[i])
	}
	return items, nil
}

// UpdateContact updates a realtor's contact details
func (s *RealtorService) UpdateContact(ctx context.Context, id uuid.UUID, req UpdateRealtorContactRequest) (*RealtorResponse, error) {
	realtor, err := s.realtorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != realtor.Email {
		taken, err := s.realtorRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A realtor with this email already exists")
		}
	}

	if err := realtor.UpdateContact(req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.realtorRepo.SaveWithLock(ctx, realtor); err != nil {
		return nil, err
	}

	return toRealtorResponse(realtor), nil
}

// UpdateBankDetails updates a realtor's payout account
func (s *RealtorService) UpdateBankDetails(ctx context.Context, id uuid.UUID, req UpdateBankDetailsRequest) (*RealtorResponse, error) {
	realtor, err := s.realtorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	realtor.UpdateBankDetails(req.BankName, req.AccountNumber, req.AccountName)

	if err := s.realtorRepo.SaveWithLock(ctx, realtor); err != nil {
		return nil, err
	}

	return toRealtorResponse(realtor), nil
}

// ChangeSponsor reassigns a realtor's sponsor. The new sponsor must
// exist and must not sit anywhere below the realtor in the sponsorship
// tree, or the tree would gain a cycle.
func (s *RealtorService) ChangeSponsor(ctx context.Context, id uuid.UUID, req ChangeSponsorRequest) (*RealtorResponse, error) {
	realtor, err := s.realtorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sponsor, err := s.realtorRepo.FindByReferralCode(ctx, req.SponsorCode)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVALID_SPONSOR", "No realtor holds this referral code")
		}
		return nil, err
	}

	descendant, err := s.isDescendant(ctx, realtor.ID, sponsor.ID)
	if err != nil {
		return nil, err
	}
	if descendant {
		return nil, shared.NewDomainError("INVALID_SPONSOR", "Sponsor cannot be taken from the realtor's own downline")
	}

	if err := realtor.LinkSponsor(req.SponsorCode, &sponsor.ID); err != nil {
		return nil, err
	}

	if err := s.realtorRepo.SaveWithLock(ctx, realtor); err != nil {
		return nil, err
	}

	return toRealtorResponse(realtor), nil
}

// Promote elevates a realtor to executive status
func (s *RealtorService) Promote(ctx context.Context, id uuid.UUID) (*RealtorResponse, error) {
	return s.transition(ctx, id, (*realty.Realtor).Promote)
}

// Demote returns an executive to regular status
func (s *RealtorService) Demote(ctx context.Context, id uuid.UUID) (*RealtorResponse, error) {
	return s.transition(ctx, id, (*realty.Realtor).Demote)
}

// Deactivate deactivates a realtor
func (s *RealtorService) Deactivate(ctx context.Context, id uuid.UUID) (*RealtorResponse, error) {
	return s.transition(ctx, id, (*realty.Realtor).Deactivate)
}

func (s *RealtorService) transition(ctx context.Context, id uuid.UUID, fn func(*realty.Realtor) error) (*RealtorResponse, error) {
	realtor, err := s.realtorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(realtor); err != nil {
		return nil, err
	}
	if err := s.realtorRepo.SaveWithLock(ctx, realtor); err != nil {
		return nil, err
	}
	return toRealtorResponse(realtor), nil
}

// generateUniqueCode generates referral codes until one is free
func (s *RealtorService) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := realty.GenerateReferralCode()
		if err != nil {
			return "", err
		}
		taken, err := s.realtorRepo.ExistsByReferralCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", shared.NewDomainError("CODE_GENERATION_FAILED", "Could not generate a unique referral code")
}

// resolveSponsor looks up a sponsor code. A missing code is not an
// error: the code is kept and the realtor has no sponsor.
func (s *RealtorService) resolveSponsor(ctx context.Context, code string) (*uuid.UUID, error) {
	sponsor, err := s.realtorRepo.FindByReferralCode(ctx, code)
	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("sponsor code did not resolve", zap.String("sponsor_code", code))
			return nil, nil
		}
		return nil, err
	}
	return &sponsor.ID, nil
}

// isDescendant walks down from rootID and reports whether candidateID
// appears anywhere in the downline
func (s *RealtorService) isDescendant(ctx context.Context, rootID, candidateID uuid.UUID) (bool, error) {
	if rootID == candidateID {
		return true, nil
	}
	queue := []uuid.UUID{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := s.realtorRepo.FindBySponsor(ctx, current)
		if err != nil {
			return false, err
		}
		for i := range children {
			if children[i].ID == candidateID {
				return true, nil
			}
			queue = append(queue, children[i].ID)
		}
	}
	return false, nil
}

func toRealtorResponse(realtor *realty.Realtor) *RealtorResponse {
	return &RealtorResponse{
		ID:               realtor.ID,
		FirstName:        realtor.FirstName,
		LastName:         realtor.LastName,
		FullName:         realtor.FullName(),
		Email:            realtor.Email,
		Phone:            realtor.Phone,
		Address:          realtor.Address,
		BankName:         realtor.BankName,
		AccountNumber:    realtor.AccountNumber,
		AccountName:      realtor.AccountName,
		ReferralCode:     realtor.ReferralCode,
		SponsorCode:      realtor.SponsorCode,
		SponsorID:        realtor.SponsorID,
		Status:           realtor.Status.String(),
		TotalCommission:  realtor.TotalCommission,
		PaidCommission:   realtor.PaidCommission,
		UnpaidCommission: realtor.UnpaidCommission(),
		IsActive:         realtor.IsActive,
		CreatedAt:        realtor.CreatedAt,
		UpdatedAt:        realtor.UpdatedAt,
	}
}
