package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCategory(t *testing.T, name string) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name, "")
	require.NoError(t, err)
	return category
}

func TestCategoryHandler_Create(t *testing.T) {
	t.Run("admin creates a category", func(t *testing.T) {
		env := newTestEnv()
		admin := newTestUser(t, "admin@example.com", "Admin")
		token := env.tokenFor(t, admin, identity.RoleAdmin)

		env.catRepo.On("ExistsByName", mock.Anything, "Handicrafts", uuid.Nil).Return(false, nil)
		env.catRepo.On("SlugExists", mock.Anything, "handicrafts", uuid.Nil).Return(false, nil)
		env.catRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		w, envelope := env.do(t, http.MethodPost, "/api/v1/categories", token, CreateCategoryRequest{
			Name: "Handicrafts",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		data := dataOf(t, envelope)
		assert.Equal(t, "Handicrafts", data["name"])
		assert.Equal(t, "handicrafts", data["slug"])
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		env := newTestEnv()
		admin := newTestUser(t, "admin@example.com", "Admin")
		token := env.tokenFor(t, admin, identity.RoleAdmin)

		env.catRepo.On("ExistsByName", mock.Anything, "Handicrafts", uuid.Nil).Return(true, nil)

		w, envelope := env.do(t, http.MethodPost, "/api/v1/categories", token, CreateCategoryRequest{
			Name: "Handicrafts",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ERR_ALREADY_EXISTS", errorOf(t, envelope)["code"])
	})

	t.Run("any signed-in account can create categories", func(t *testing.T) {
		env := newTestEnv()
		user := newTestUser(t, "vendor@example.com", "Vendor")
		token := env.tokenFor(t, user, identity.RoleVendor)

		env.catRepo.On("ExistsByName", mock.Anything, "Textiles", uuid.Nil).Return(false, nil)
		env.catRepo.On("SlugExists", mock.Anything, "textiles", uuid.Nil).Return(false, nil)
		env.catRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		w, envelope := env.do(t, http.MethodPost, "/api/v1/categories", token, CreateCategoryRequest{
			Name: "Textiles",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "textiles", dataOf(t, envelope)["slug"])
	})

	t.Run("anonymous create is unauthorized", func(t *testing.T) {
		env := newTestEnv()

		w, envelope := env.do(t, http.MethodPost, "/api/v1/categories", "", CreateCategoryRequest{
			Name: "Handicrafts",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_UNAUTHORIZED", errorOf(t, envelope)["code"])
		env.catRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCategoryHandler_Update(t *testing.T) {
	t.Run("vendor cannot modify an existing category", func(t *testing.T) {
		env := newTestEnv()
		user := newTestUser(t, "vendor@example.com", "Vendor")
		token := env.tokenFor(t, user, identity.RoleVendor)

		name := "Renamed"
		w, envelope := env.do(t, http.MethodPut, "/api/v1/categories/"+uuid.New().String(), token, UpdateCategoryRequest{
			Name: &name,
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ERR_FORBIDDEN", errorOf(t, envelope)["code"])
	})

	t.Run("patch reaches the same handler as put", func(t *testing.T) {
		env := newTestEnv()
		admin := newTestUser(t, "admin@example.com", "Admin")
		token := env.tokenFor(t, admin, identity.RoleAdmin)

		category := newTestCategory(t, "Handicrafts")
		desc := "Woven goods"
		env.catRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		env.catRepo.On("Update", mock.Anything, category).Return(nil)

		w, envelope := env.do(t, http.MethodPatch, "/api/v1/categories/"+category.ID.String(), token, UpdateCategoryRequest{
			Description: &desc,
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Woven goods", dataOf(t, envelope)["description"])
	})
}

func TestCategoryHandler_Delete(t *testing.T) {
	t.Run("category still holding products cannot be deleted", func(t *testing.T) {
		env := newTestEnv()
		admin := newTestUser(t, "admin@example.com", "Admin")
		token := env.tokenFor(t, admin, identity.RoleAdmin)

		category := newTestCategory(t, "Handicrafts")
		env.catRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		env.productRepo.On("FindAllRanked", mock.Anything, mock.Anything).Return(nil, int64(3), nil)

		w, envelope := env.do(t, http.MethodDelete, "/api/v1/categories/"+category.ID.String(), token, nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ERR_CATEGORY_IN_USE", errorOf(t, envelope)["code"])
		env.catRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("empty category is deleted", func(t *testing.T) {
		env := newTestEnv()
		admin := newTestUser(t, "admin@example.com", "Admin")
		token := env.tokenFor(t, admin, identity.RoleAdmin)

		category := newTestCategory(t, "Handicrafts")
		env.catRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		env.productRepo.On("FindAllRanked", mock.Anything, mock.Anything).Return(nil, int64(0), nil)
		env.catRepo.On("Delete", mock.Anything, category.ID).Return(nil)

		w, envelope := env.do(t, http.MethodDelete, "/api/v1/categories/"+category.ID.String(), token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, envelope["success"].(bool))
		env.catRepo.AssertExpectations(t)
	})
}

func TestCategoryHandler_Reads(t *testing.T) {
	t.Run("flat list returns the whole taxonomy", func(t *testing.T) {
		env := newTestEnv()
		first := newTestCategory(t, "Agriculture")
		second := newTestCategory(t, "Handicrafts")

		env.catRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.OrderBy == "name" && f.OrderDir == "asc"
		})).Return([]*catalog.Category{first, second}, int64(2), nil)

		w, envelope := env.do(t, http.MethodGet, "/api/v1/categories/list", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		items := envelope["data"].([]any)
		require.Len(t, items, 2)
		assert.Equal(t, "Agriculture", items[0].(map[string]any)["name"])
		assert.Equal(t, "handicrafts", items[1].(map[string]any)["slug"])
	})

	t.Run("paginated list carries meta", func(t *testing.T) {
		env := newTestEnv()
		category := newTestCategory(t, "Handicrafts")

		env.catRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*catalog.Category{category}, int64(1), nil)

		w, envelope := env.do(t, http.MethodGet, "/api/v1/categories", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		meta := envelope["meta"].(map[string]any)
		assert.Equal(t, float64(1), meta["total"])
	})

	t.Run("slug read returns one category", func(t *testing.T) {
		env := newTestEnv()
		category := newTestCategory(t, "Handicrafts")

		env.catRepo.On("FindBySlug", mock.Anything, "handicrafts").Return(category, nil)

		w, envelope := env.do(t, http.MethodGet, "/api/v1/categories/slug/handicrafts", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Handicrafts", dataOf(t, envelope)["name"])
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		env := newTestEnv()

		env.catRepo.On("FindBySlug", mock.Anything, "missing").Return(nil, shared.ErrNotFound)

		w, _ := env.do(t, http.MethodGet, "/api/v1/categories/slug/missing", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
