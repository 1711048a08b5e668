package identity

import (
	"github.com/sokohub/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeUser    = "User"
	AggregateTypeProfile = "Profile"
)

// Identity domain event types
const (
	EventTypeUserRegistered  = "UserRegistered"
	EventTypeUserDeactivated = "UserDeactivated"
	EventTypeVendorUpgraded  = "VendorUpgraded"
	EventTypeTierChanged     = "TierChanged"
)

// UserRegisteredEvent is published when a user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Name:            user.Name,
	}
}

// UserDeactivatedEvent is published when a user is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, user.ID),
		Email:           user.Email,
	}
}

// VendorUpgradedEvent is published when a customer becomes a vendor
type VendorUpgradedEvent struct {
	shared.BaseDomainEvent
	UserID       string `json:"user_id"`
	BusinessName string `json:"business_name"`
}

// NewVendorUpgradedEvent creates a new VendorUpgradedEvent
func NewVendorUpgradedEvent(profile *Profile) *VendorUpgradedEvent {
	return &VendorUpgradedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorUpgraded, AggregateTypeProfile, profile.ID),
		UserID:          profile.UserID.String(),
		BusinessName:    profile.BusinessName,
	}
}

// TierChangedEvent is published when a vendor's tier changes
type TierChangedEvent struct {
	shared.BaseDomainEvent
	UserID  string     `json:"user_id"`
	OldTier VendorTier `json:"old_tier"`
	NewTier VendorTier `json:"new_tier"`
}

// NewTierChangedEvent creates a new TierChangedEvent
func NewTierChangedEvent(profile *Profile, oldTier, newTier VendorTier) *TierChangedEvent {
	return &TierChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTierChanged, AggregateTypeProfile, profile.ID),
		UserID:          profile.UserID.String(),
		OldTier:         oldTier,
		NewTier:         newTier,
	}
}
