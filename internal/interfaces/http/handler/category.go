package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/sokohub/backend/internal/application/catalog"
	"github.com/sokohub/backend/internal/domain/shared"
	"github.com/sokohub/backend/internal/interfaces/http/dto"
	"github.com/sokohub/backend/internal/interfaces/http/middleware"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100" example:"Electronics"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// UpdateCategoryRequest represents the request body for updating a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// Create godoc
// @Summary      Create a category
// @Description  Any authenticated account. Names are unique case-insensitively.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body CreateCategoryRequest true "Category details"
// @Success      201 {object} dto.Response{data=catalog.CategoryResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.categoryService.Create(c.Request.Context(), catalogapp.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update godoc
// @Summary      Update a category
// @Description  Admin only. Renaming regenerates the slug.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Category ID"
// @Param        request body UpdateCategoryRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=catalog.CategoryResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid category ID")
		return
	}

	categoryID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.categoryService.Update(c.Request.Context(), catalogapp.UpdateCategoryInput{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a category
// @Description  Admin only. Categories still holding products cannot be deleted.
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} dto.Response{data=MessageData}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid category ID")
		return
	}

	categoryID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid category ID")
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), categoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Category deleted"})
}

// List godoc
// @Summary      Browse categories
// @Description  Paginated category listing ordered by name
// @Tags         categories
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Name search"
// @Success      200 {object} dto.Response{data=[]catalog.CategoryResult,meta=dto.Meta}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "Invalid query parameters")
		return
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	result, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListAll godoc
// @Summary      Flat category list
// @Description  The whole taxonomy as a flat id, name, slug list for pickers
// @Tags         categories
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalog.CategoryRef}
// @Router       /categories/list [get]
func (h *CategoryHandler) ListAll(c *gin.Context) {
	refs, err := h.categoryService.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, refs)
}

// GetBySlug godoc
// @Summary      Get a category by slug
// @Tags         categories
// @Produce      json
// @Param        slug path string true "Category slug"
// @Success      200 {object} dto.Response{data=catalog.CategoryResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/slug/{slug} [get]
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	var uri dto.SlugRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid category slug")
		return
	}

	result, err := h.categoryService.GetBySlug(c.Request.Context(), uri.Slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes wires the category endpoints. Reads are public, any
// signed-in account may create, and changing or removing an existing
// category stays admin-only.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.List)
		categories.GET("/list", h.ListAll)
		categories.GET("/slug/:slug", h.GetBySlug)
		categories.POST("", middleware.RequireAuthenticated(), h.Create)
		categories.PUT("/:id", middleware.RequireAdmin(), h.Update)
		categories.PATCH("/:id", middleware.RequireAdmin(), h.Update)
		categories.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
	}
}
