package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/shared"
)

// Profile carries the role, contact details, and vendor metadata for a user.
// Every user has exactly one profile; it is created in the same transaction
// as the user during registration. Role and vendor tier are never mutated by
// the owning user, only by admin actions or the vendor-upgrade flow.
type Profile struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID
	Role   Role

	// Contact fields
	Phone        string
	Whatsapp     string
	Address      string
	City         string
	District     string
	Neighborhood string

	// Vendor business fields
	BusinessName        string
	BusinessType        string
	BusinessDescription string
	BusinessPhone       string
	Website             string
	TaxID               string

	VendorTier            VendorTier
	SubscriptionStartsAt  *time.Time
	SubscriptionExpiresAt *time.Time
	IsVerified            bool
}

// TableName returns the database table name
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates the default customer profile for a freshly registered user
func NewProfile(userID uuid.UUID) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	profile := &Profile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Role:              RoleCustomer,
		VendorTier:        TierFree,
	}

	return profile, nil
}

// ContactUpdate holds the owner-editable contact fields
type ContactUpdate struct {
	Phone        string
	Whatsapp     string
	Address      string
	City         string
	District     string
	Neighborhood string
}

// UpdateContact updates the owner-editable contact fields
func (p *Profile) UpdateContact(update ContactUpdate) error {
	for _, field := range []struct {
		name  string
		value string
		max   int
	}{
		{"phone", update.Phone, 20},
		{"whatsapp", update.Whatsapp, 20},
		{"city", update.City, 100},
		{"district", update.District, 100},
		{"neighborhood", update.Neighborhood, 100},
	} {
		if len(field.value) > field.max {
			return shared.NewDomainError("INVALID_PROFILE", "Field "+field.name+" is too long")
		}
	}

	p.Phone = strings.TrimSpace(update.Phone)
	p.Whatsapp = strings.TrimSpace(update.Whatsapp)
	p.Address = strings.TrimSpace(update.Address)
	p.City = strings.TrimSpace(update.City)
	p.District = strings.TrimSpace(update.District)
	p.Neighborhood = strings.TrimSpace(update.Neighborhood)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// BusinessUpdate holds the vendor business fields
type BusinessUpdate struct {
	BusinessName        string
	BusinessType        string
	BusinessDescription string
	BusinessPhone       string
	Website             string
	TaxID               string
}

// UpdateBusiness updates the vendor business fields
func (p *Profile) UpdateBusiness(update BusinessUpdate) error {
	if len(update.BusinessName) > 255 {
		return shared.NewDomainError("INVALID_PROFILE", "Business name cannot exceed 255 characters")
	}
	if len(update.Website) > 500 {
		return shared.NewDomainError("INVALID_PROFILE", "Website URL cannot exceed 500 characters")
	}

	p.BusinessName = strings.TrimSpace(update.BusinessName)
	p.BusinessType = strings.TrimSpace(update.BusinessType)
	p.BusinessDescription = strings.TrimSpace(update.BusinessDescription)
	p.BusinessPhone = strings.TrimSpace(update.BusinessPhone)
	p.Website = strings.TrimSpace(update.Website)
	p.TaxID = strings.TrimSpace(update.TaxID)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpgradeToVendor switches a customer profile to the vendor role on the free
// tier. Upgrading an existing vendor is a no-op; admins cannot be downgraded
// through this path.
func (p *Profile) UpgradeToVendor(business BusinessUpdate) error {
	if p.Role == RoleAdmin {
		return shared.NewDomainError("INVALID_STATE", "Admin accounts cannot be converted to vendor")
	}

	if err := p.UpdateBusiness(business); err != nil {
		return err
	}

	if p.Role == RoleVendor {
		return nil
	}

	p.Role = RoleVendor
	p.VendorTier = TierFree
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewVendorUpgradedEvent(p))

	return nil
}

// SetRole sets the role. Admin-only operation.
func (p *Profile) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	p.Role = role
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetTier sets the vendor tier and subscription window. Admin-only operation.
func (p *Profile) SetTier(tier VendorTier, startsAt, expiresAt *time.Time) error {
	if !tier.IsValid() {
		return shared.NewDomainError("INVALID_TIER", "Unknown vendor tier")
	}

	oldTier := p.VendorTier
	p.VendorTier = tier
	p.SubscriptionStartsAt = startsAt
	p.SubscriptionExpiresAt = expiresAt
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if oldTier != tier {
		p.AddDomainEvent(NewTierChangedEvent(p, oldTier, tier))
	}

	return nil
}

// Verify marks the profile as verified. Admin-only operation.
func (p *Profile) Verify() {
	p.IsVerified = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ProductLimit returns the product quota for the profile's tier, nil for
// unlimited
func (p *Profile) ProductLimit() *int {
	return p.VendorTier.ProductLimit()
}

// IsSubscriptionActive returns true when there is no expiry or the expiry is
// in the future
func (p *Profile) IsSubscriptionActive() bool {
	if p.SubscriptionExpiresAt == nil {
		return true
	}
	return time.Now().Before(*p.SubscriptionExpiresAt)
}

// IsVendor returns true for vendor profiles
func (p *Profile) IsVendor() bool {
	return p.Role == RoleVendor
}

// IsAdmin returns true for admin profiles
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
