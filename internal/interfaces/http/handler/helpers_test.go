package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/sokohub/backend/internal/application/catalog"
	identityapp "github.com/sokohub/backend/internal/application/identity"
	reportapp "github.com/sokohub/backend/internal/application/report"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/infrastructure/auth"
	"github.com/sokohub/backend/internal/infrastructure/config"
	"github.com/sokohub/backend/internal/interfaces/http/middleware"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "sokohub-test",
	})
}

// testEnv wires every handler behind the production middleware stack
// against mocked repositories
type testEnv struct {
	router *gin.Engine
	jwt    *auth.JWTService

	userRepo    *MockUserRepository
	profileRepo *MockProfileRepository
	regRepo     *MockRegistrationRepository
	productRepo *MockProductRepository
	catRepo     *MockCategoryRepository
	dashRepo    *MockDashboardRepository
	storage     *MockObjectStorage
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	env := &testEnv{
		jwt:         newTestJWTService(),
		userRepo:    new(MockUserRepository),
		profileRepo: new(MockProfileRepository),
		regRepo:     new(MockRegistrationRepository),
		productRepo: new(MockProductRepository),
		catRepo:     new(MockCategoryRepository),
		dashRepo:    new(MockDashboardRepository),
		storage:     new(MockObjectStorage),
	}

	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := identityapp.NewAuthService(
		env.userRepo, env.profileRepo, env.regRepo,
		env.jwt, blacklist, identityapp.DefaultAuthServiceConfig(), logger)
	profileService := identityapp.NewProfileService(env.userRepo, env.profileRepo, logger)
	productService := catalogapp.NewProductService(
		env.productRepo, env.catRepo, env.userRepo, env.profileRepo, logger)
	categoryService := catalogapp.NewCategoryService(env.catRepo, env.productRepo, logger)
	imageService := catalogapp.NewImageService(env.productRepo, env.storage, logger)
	dashboardService := reportapp.NewDashboardService(env.dashRepo, env.profileRepo, logger)

	r := gin.New()
	jwtCfg := middleware.DefaultJWTConfig(env.jwt)
	jwtCfg.TokenBlacklist = blacklist
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	api := r.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(api)
	NewProfileHandler(profileService).RegisterRoutes(api)
	NewProductHandler(productService, imageService).RegisterRoutes(api)
	NewCategoryHandler(categoryService).RegisterRoutes(api)
	NewAdminHandler(dashboardService, profileService).RegisterRoutes(api)
	NewSystemHandler().RegisterRoutes(api)

	env.router = r
	return env
}

// tokenFor issues a real access token for the given user and role
func (e *testEnv) tokenFor(t *testing.T, user *identity.User, role identity.Role) string {
	t.Helper()
	pair, err := e.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

// do runs a JSON request through the router and decodes the envelope
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var envelope map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", envelope)
	return data
}

func errorOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	errObj, ok := envelope["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %v", envelope)
	return errObj
}

func newTestUser(t *testing.T, email, name string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, name, "s3cretpass")
	require.NoError(t, err)
	return user
}

func newVendor(t *testing.T, user *identity.User, tier identity.VendorTier) *identity.Profile {
	t.Helper()
	profile, err := identity.NewProfile(user.ID)
	require.NoError(t, err)
	require.NoError(t, profile.UpgradeToVendor(identity.BusinessUpdate{BusinessName: "Soko Traders"}))
	if tier != identity.TierFree {
		require.NoError(t, profile.SetTier(tier, nil, nil))
	}
	return profile
}
