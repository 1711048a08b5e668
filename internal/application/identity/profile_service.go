package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProfileService handles profile reads and owner or admin updates
type ProfileService struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
	logger      *zap.Logger
	events      shared.EventPublisher
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProfileService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishDomainEvents publishes pending events from the profile aggregate.
// Errors are logged by the event bus, not propagated.
func (s *ProfileService) publishDomainEvents(ctx context.Context, profile *identity.Profile) {
	if s.events == nil {
		return
	}
	events := profile.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
	profile.ClearDomainEvents()
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// GetProfile returns the combined user and profile view
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newProfileResult(user, profile), nil
}

// UpdateProfile applies the owner-editable fields. Role, tier, and
// verification are not touched here; those move through their own
// operations.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := user.SetName(*input.Name); err != nil {
			return nil, err
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	contact := identity.ContactUpdate{
		Phone:        valueOr(input.Phone, profile.Phone),
		Whatsapp:     valueOr(input.Whatsapp, profile.Whatsapp),
		Address:      valueOr(input.Address, profile.Address),
		City:         valueOr(input.City, profile.City),
		District:     valueOr(input.District, profile.District),
		Neighborhood: valueOr(input.Neighborhood, profile.Neighborhood),
	}
	if err := profile.UpdateContact(contact); err != nil {
		return nil, err
	}

	business := identity.BusinessUpdate{
		BusinessName:        valueOr(input.BusinessName, profile.BusinessName),
		BusinessType:        valueOr(input.BusinessType, profile.BusinessType),
		BusinessDescription: valueOr(input.BusinessDescription, profile.BusinessDescription),
		BusinessPhone:       valueOr(input.BusinessPhone, profile.BusinessPhone),
		Website:             valueOr(input.Website, profile.Website),
		TaxID:               valueOr(input.TaxID, profile.TaxID),
	}
	if err := profile.UpdateBusiness(business); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return newProfileResult(user, profile), nil
}

// UpgradeToVendor turns a customer profile into a vendor on the free
// tier. Repeat calls are no-ops that preserve the current tier.
func (s *ProfileService) UpgradeToVendor(ctx context.Context, input UpgradeToVendorInput) (*ProfileResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	wasVendor := profile.IsVendor()
	if err := profile.UpgradeToVendor(identity.BusinessUpdate{
		BusinessName:        input.BusinessName,
		BusinessType:        input.BusinessType,
		BusinessDescription: input.BusinessDescription,
		BusinessPhone:       input.BusinessPhone,
		Website:             input.Website,
		TaxID:               input.TaxID,
	}); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, profile)

	if !wasVendor {
		s.logger.Info("User upgraded to vendor",
			zap.String("user_id", input.UserID.String()),
			zap.String("tier", string(profile.VendorTier)))
	}

	return newProfileResult(user, profile), nil
}

// SetTier changes a vendor's tier. Admin only; the handler enforces the
// role, this enforces the domain rules.
func (s *ProfileService) SetTier(ctx context.Context, input SetTierInput) (*ProfileResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := profile.SetTier(input.Tier, input.SubscriptionStartsAt, input.SubscriptionExpiresAt); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, profile)

	s.logger.Info("Vendor tier changed",
		zap.String("user_id", input.UserID.String()),
		zap.String("tier", string(input.Tier)))

	return newProfileResult(user, profile), nil
}

// VerifyVendor marks a vendor profile as verified. Admin only.
func (s *ProfileService) VerifyVendor(ctx context.Context, userID uuid.UUID) (*ProfileResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsVendor() {
		return nil, shared.NewDomainError("NOT_A_VENDOR", "Only vendor profiles can be verified")
	}

	profile.Verify()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return newProfileResult(user, profile), nil
}

// ListUsers returns users matching the filter. Admin only.
func (s *ProfileService) ListUsers(ctx context.Context, filter identity.UserFilter) (*shared.Paginated[*identity.User], error) {
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(users, total, filter.Page, filter.PageSize)
	return &result, nil
}

func valueOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
