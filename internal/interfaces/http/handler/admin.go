package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/sokohub/backend/internal/application/identity"
	"github.com/sokohub/backend/internal/application/report"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/interfaces/http/dto"
	"github.com/sokohub/backend/internal/interfaces/http/middleware"
)

// AdminHandler handles the admin-only endpoints
type AdminHandler struct {
	BaseHandler
	dashboardService *report.DashboardService
	profileService   *identityapp.ProfileService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(dashboardService *report.DashboardService, profileService *identityapp.ProfileService) *AdminHandler {
	return &AdminHandler{
		dashboardService: dashboardService,
		profileService:   profileService,
	}
}

// ListUsersRequest represents the query parameters for the user list
type ListUsersRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=200"`
	Status   string `form:"status" binding:"omitempty,oneof=active locked deactivated"`
}

// SetTierRequest represents the request body for a tier change
type SetTierRequest struct {
	Tier                  string     `json:"tier" binding:"required,oneof=free basic premium featured"`
	SubscriptionStartsAt  *time.Time `json:"subscription_starts_at"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
}

// AdminUserResponse represents a user row in the admin listing
type AdminUserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	IsStaff     bool       `json:"is_staff"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newAdminUserResponse(u *identity.User) AdminUserResponse {
	return AdminUserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		Status:      string(u.Status),
		IsStaff:     u.IsStaff,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// DashboardStats godoc
// @Summary      Marketplace dashboard
// @Description  Aggregate marketplace KPIs for the admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=report.DashboardStats}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/dashboard-stats [get]
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListUsers godoc
// @Summary      List users
// @Description  Paginated user listing with search and status filter
// @Tags         admin
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Email or name search"
// @Param        status    query string false "Filter by status" Enums(active, locked, deactivated)
// @Success      200 {object} dto.Response{data=[]AdminUserResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "Invalid query parameters")
		return
	}

	filter := identity.UserFilter{
		Keyword:  req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if req.Status != "" {
		status := identity.UserStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.profileService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	users := make([]AdminUserResponse, len(result.Items))
	for i, u := range result.Items {
		users[i] = newAdminUserResponse(u)
	}

	h.SuccessWithMeta(c, users, result.Total, result.Page, result.PageSize)
}

// SetTier godoc
// @Summary      Change a vendor's tier
// @Description  Sets the vendor tier and optional subscription window
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string         true "User ID"
// @Param        request body SetTierRequest true "Tier and subscription window"
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/tier [put]
func (h *AdminHandler) SetTier(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid user ID")
		return
	}

	userID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid user ID")
		return
	}

	var req SetTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.profileService.SetTier(c.Request.Context(), identityapp.SetTierInput{
		UserID:                userID,
		Tier:                  identity.VendorTier(req.Tier),
		SubscriptionStartsAt:  req.SubscriptionStartsAt,
		SubscriptionExpiresAt: req.SubscriptionExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newProfileResponse(result))
}

// VerifyVendor godoc
// @Summary      Verify a vendor
// @Description  Marks a vendor profile as verified
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/users/{id}/verify [post]
func (h *AdminHandler) VerifyVendor(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid user ID")
		return
	}

	userID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid user ID")
		return
	}

	result, err := h.profileService.VerifyVendor(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newProfileResponse(result))
}

// RegisterRoutes wires the admin endpoints behind the admin role
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/dashboard-stats", h.DashboardStats)
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/tier", h.SetTier)
		admin.POST("/users/:id/verify", h.VerifyVendor)
	}
}
