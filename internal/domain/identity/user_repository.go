package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository is the persistence port for the User aggregate.
// FindByEmail and ExistsByEmail are case-insensitive on email.
type UserRepository interface {
	Create(ctx context.Context, user *User) error

	Update(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	FindByEmail(ctx context.Context, email string) (*User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll returns the matching page plus the unpaged total.
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	Count(ctx context.Context) (int64, error)
}

// ProfileRepository is the persistence port for the Profile aggregate.
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error

	Update(ctx context.Context, profile *Profile) error

	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)

	CountByRole(ctx context.Context, role Role) (int64, error)

	// CountByTier returns a histogram of vendor profiles per tier.
	CountByTier(ctx context.Context) (map[VendorTier]int64, error)
}

// RegistrationRepository creates a user and its profile atomically. The
// "every user has exactly one profile" invariant is enforced here rather
// than by a persistence side effect, so it is visible at the call site.
type RegistrationRepository interface {
	CreateUserWithProfile(ctx context.Context, user *User, profile *Profile) error
}

// UserFilter narrows and pages admin user listings.
type UserFilter struct {
	// Keyword matches against email and name.
	Keyword string

	Status *UserStatus

	Page     int
	PageSize int

	SortBy    string
	SortOrder string // asc or desc
}

// NewUserFilter starts from the first page of twenty, newest first.
func NewUserFilter() UserFilter {
	return UserFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

func (f UserFilter) WithKeyword(keyword string) UserFilter {
	f.Keyword = keyword
	return f
}

func (f UserFilter) WithStatus(status UserStatus) UserFilter {
	f.Status = &status
	return f
}

func (f UserFilter) WithPagination(page, pageSize int) UserFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}
