package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/domain/shared"
)

// UserModel is the users row. FailedAttempts and LockedUntil back
// the login lockout; both reset on a successful login.
type UserModel struct {
	AggregateModel
	Email          string              `gorm:"type:varchar(254);not null;uniqueIndex:idx_users_email"`
	Name           string              `gorm:"type:varchar(150);not null"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	IsStaff        bool                `gorm:"not null;default:false"`
	LastLoginAt    *time.Time          `gorm:"index"`
	FailedAttempts int                 `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Email:          m.Email,
		Name:           m.Name,
		PasswordHash:   m.PasswordHash,
		Status:         m.Status,
		IsStaff:        m.IsStaff,
		LastLoginAt:    m.LastLoginAt,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
}

func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.Name = u.Name
	m.PasswordHash = u.PasswordHash
	m.Status = u.Status
	m.IsStaff = u.IsStaff
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain maps a user aggregate onto a fresh row.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// ProfileModel is the profiles row, one per user. The business and
// tier columns only carry values for vendors; customers leave them at
// their zero values.
type ProfileModel struct {
	AggregateModel
	UserID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_profiles_user"`
	Role   identity.Role `gorm:"type:varchar(20);not null;default:'customer';index"`

	Phone        string `gorm:"type:varchar(30)"`
	Whatsapp     string `gorm:"type:varchar(30)"`
	Address      string `gorm:"type:varchar(255)"`
	City         string `gorm:"type:varchar(100);index"`
	District     string `gorm:"type:varchar(100);index"`
	Neighborhood string `gorm:"type:varchar(100)"`

	BusinessName        string `gorm:"type:varchar(200)"`
	BusinessType        string `gorm:"type:varchar(100)"`
	BusinessDescription string `gorm:"type:text"`
	BusinessPhone       string `gorm:"type:varchar(30)"`
	Website             string `gorm:"type:varchar(255)"`
	TaxID               string `gorm:"type:varchar(50)"`

	VendorTier            identity.VendorTier `gorm:"type:varchar(20);not null;default:'free';index"`
	SubscriptionStartsAt  *time.Time
	SubscriptionExpiresAt *time.Time
	IsVerified            bool `gorm:"not null;default:false"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}

func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		UserID:                m.UserID,
		Role:                  m.Role,
		Phone:                 m.Phone,
		Whatsapp:              m.Whatsapp,
		Address:               m.Address,
		City:                  m.City,
		District:              m.District,
		Neighborhood:          m.Neighborhood,
		BusinessName:          m.BusinessName,
		BusinessType:          m.BusinessType,
		BusinessDescription:   m.BusinessDescription,
		BusinessPhone:         m.BusinessPhone,
		Website:               m.Website,
		TaxID:                 m.TaxID,
		VendorTier:            m.VendorTier,
		SubscriptionStartsAt:  m.SubscriptionStartsAt,
		SubscriptionExpiresAt: m.SubscriptionExpiresAt,
		IsVerified:            m.IsVerified,
	}
}

func (m *ProfileModel) FromDomain(p *identity.Profile) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.UserID = p.UserID
	m.Role = p.Role
	m.Phone = p.Phone
	m.Whatsapp = p.Whatsapp
	m.Address = p.Address
	m.City = p.City
	m.District = p.District
	m.Neighborhood = p.Neighborhood
	m.BusinessName = p.BusinessName
	m.BusinessType = p.BusinessType
	m.BusinessDescription = p.BusinessDescription
	m.BusinessPhone = p.BusinessPhone
	m.Website = p.Website
	m.TaxID = p.TaxID
	m.VendorTier = p.VendorTier
	m.SubscriptionStartsAt = p.SubscriptionStartsAt
	m.SubscriptionExpiresAt = p.SubscriptionExpiresAt
	m.IsVerified = p.IsVerified
}

// ProfileModelFromDomain maps a profile aggregate onto a fresh row.
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}
