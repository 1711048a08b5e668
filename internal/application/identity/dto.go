package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/identity"
)

// Inputs into the auth service. Handlers map request bodies onto
// these so the service layer never sees gin types.

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by Register and Login: the token pair plus
// the slice of the user the client shows after sign-in.
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

type UserInfo struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  identity.Role
}

type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult is AuthResult without the user block; refresh
// callers already hold the profile.
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput carries the token identity to revoke. TokenTTL sizes
// the blacklist entry so it expires with the token.
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the owner-editable profile fields. Nil
// pointers leave the current value untouched.
type UpdateProfileInput struct {
	Name *string

	Phone        *string
	Whatsapp     *string
	Address      *string
	City         *string
	District     *string
	Neighborhood *string

	BusinessName        *string
	BusinessType        *string
	BusinessDescription *string
	BusinessPhone       *string
	Website             *string
	TaxID               *string
}

// UpgradeToVendorInput carries the business details required to turn
// a customer profile into a vendor one.
type UpgradeToVendorInput struct {
	UserID              uuid.UUID
	BusinessName        string
	BusinessType        string
	BusinessDescription string
	BusinessPhone       string
	Website             string
	TaxID               string
}

// SetTierInput is the admin operation that moves a vendor between
// tiers and stamps the subscription window.
type SetTierInput struct {
	UserID                uuid.UUID
	Tier                  identity.VendorTier
	SubscriptionStartsAt  *time.Time
	SubscriptionExpiresAt *time.Time
}

// ProfileResult is the owner's full profile view, including the
// business block and the product limit derived from the tier.
type ProfileResult struct {
	UserID     uuid.UUID
	Email      string
	Name       string
	Role       identity.Role
	VendorTier identity.VendorTier

	Phone        string
	Whatsapp     string
	Address      string
	City         string
	District     string
	Neighborhood string

	BusinessName        string
	BusinessType        string
	BusinessDescription string
	BusinessPhone       string
	Website             string
	TaxID               string

	SubscriptionStartsAt  *time.Time
	SubscriptionExpiresAt *time.Time
	IsVerified            bool
	ProductLimit          *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newProfileResult(user *identity.User, profile *identity.Profile) *ProfileResult {
	return &ProfileResult{
		UserID:                user.ID,
		Email:                 user.Email,
		Name:                  user.Name,
		Role:                  profile.Role,
		VendorTier:            profile.VendorTier,
		Phone:                 profile.Phone,
		Whatsapp:              profile.Whatsapp,
		Address:               profile.Address,
		City:                  profile.City,
		District:              profile.District,
		Neighborhood:          profile.Neighborhood,
		BusinessName:          profile.BusinessName,
		BusinessType:          profile.BusinessType,
		BusinessDescription:   profile.BusinessDescription,
		BusinessPhone:         profile.BusinessPhone,
		Website:               profile.Website,
		TaxID:                 profile.TaxID,
		SubscriptionStartsAt:  profile.SubscriptionStartsAt,
		SubscriptionExpiresAt: profile.SubscriptionExpiresAt,
		IsVerified:            profile.IsVerified,
		ProductLimit:          profile.ProductLimit(),
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             profile.UpdatedAt,
	}
}
