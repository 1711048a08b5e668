package handler

import (
	"net/http"
	"testing"

	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileHandler_GetProfile(t *testing.T) {
	t.Run("returns the caller's profile", func(t *testing.T) {
		env := newTestEnv()
		user := newTestUser(t, "amina@example.com", "Amina")
		profile, err := identity.NewProfile(user.ID)
		require.NoError(t, err)
		token := env.tokenFor(t, user, identity.RoleCustomer)

		env.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		env.profileRepo.On("FindByUserID", mock.Anything, user.ID).Return(profile, nil)

		w, envelope := env.do(t, http.MethodGet, "/api/v1/auth/profile", token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, envelope)
		assert.Equal(t, "amina@example.com", data["email"])
		assert.Equal(t, "customer", data["role"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := newTestEnv()

		w, _ := env.do(t, http.MethodGet, "/api/v1/auth/profile", "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	t.Run("updates contact fields", func(t *testing.T) {
		env := newTestEnv()
		user := newTestUser(t, "amina@example.com", "Amina")
		profile, err := identity.NewProfile(user.ID)
		require.NoError(t, err)
		token := env.tokenFor(t, user, identity.RoleCustomer)

		env.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		env.profileRepo.On("FindByUserID", mock.Anything, user.ID).Return(profile, nil)
		env.profileRepo.On("Update", mock.Anything, profile).Return(nil)

		phone := "+254700000001"
		city := "Nairobi"
		w, envelope := env.do(t, http.MethodPut, "/api/v1/auth/profile", token, UpdateProfileRequest{
			Phone: &phone,
			City:  &city,
		})

		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, envelope)
		assert.Equal(t, "+254700000001", data["phone"])
		assert.Equal(t, "Nairobi", data["city"])
		env.profileRepo.AssertExpectations(t)
	})
}

func TestProfileHandler_UpgradeToVendor(t *testing.T) {
	t.Run("customer becomes a free tier vendor", func(t *testing.T) {
		env := newTestEnv()
		user := newTestUser(t, "amina@example.com", "Amina")
		profile, err := identity.NewProfile(user.ID)
		require.NoError(t, err)
		token := env.tokenFor(t, user, identity.RoleCustomer)

		env.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		env.profileRepo.On("FindByUserID", mock.Anything, user.ID).Return(profile, nil)
		env.profileRepo.On("Update", mock.Anything, profile).Return(nil)

		w, envelope := env.do(t, http.MethodPost, "/api/v1/auth/upgrade-to-vendor", token, UpgradeToVendorRequest{
			BusinessName: "Soko Traders",
		})

		require.Equal(t, http.StatusOK, w.Code)
		data := dataOf(t, envelope)
		assert.Equal(t, "vendor", data["role"])
		assert.Equal(t, "free", data["vendor_tier"])
		assert.Equal(t, "Soko Traders", data["business_name"])
		assert.Equal(t, float64(10), data["product_limit"])
	})

	t.Run("business name is required", func(t *testing.T) {
		env := newTestEnv()
		user := newTestUser(t, "amina@example.com", "Amina")
		token := env.tokenFor(t, user, identity.RoleCustomer)

		w, _ := env.do(t, http.MethodPost, "/api/v1/auth/upgrade-to-vendor", token, map[string]any{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
