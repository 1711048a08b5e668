package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/application/identity"
)

// ProfileHandler handles profile HTTP requests for the authenticated user
type ProfileHandler struct {
	BaseHandler
	profileService *identity.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *identity.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// UpdateProfileRequest represents the request body for profile updates.
// All fields are optional; absent fields keep their current value.
type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone        *string `json:"phone" binding:"omitempty,max=20"`
	Whatsapp     *string `json:"whatsapp" binding:"omitempty,max=20"`
	Address      *string `json:"address" binding:"omitempty,max=300"`
	City         *string `json:"city" binding:"omitempty,max=100"`
	District     *string `json:"district" binding:"omitempty,max=100"`
	Neighborhood *string `json:"neighborhood" binding:"omitempty,max=100"`

	BusinessName        *string `json:"business_name" binding:"omitempty,max=150"`
	BusinessType        *string `json:"business_type" binding:"omitempty,max=100"`
	BusinessDescription *string `json:"business_description" binding:"omitempty,max=2000"`
	BusinessPhone       *string `json:"business_phone" binding:"omitempty,max=20"`
	Website             *string `json:"website" binding:"omitempty,url,max=200"`
	TaxID               *string `json:"tax_id" binding:"omitempty,max=50"`
}

// UpgradeToVendorRequest represents the request body for a vendor upgrade
type UpgradeToVendorRequest struct {
	BusinessName        string `json:"business_name" binding:"required,min=2,max=150"`
	BusinessType        string `json:"business_type" binding:"omitempty,max=100"`
	BusinessDescription string `json:"business_description" binding:"omitempty,max=2000"`
	BusinessPhone       string `json:"business_phone" binding:"omitempty,max=20"`
	Website             string `json:"website" binding:"omitempty,url,max=200"`
	TaxID               string `json:"tax_id" binding:"omitempty,max=50"`
}

// ProfileResponse represents the combined user and profile view
type ProfileResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	VendorTier string    `json:"vendor_tier"`

	Phone        string `json:"phone,omitempty"`
	Whatsapp     string `json:"whatsapp,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	District     string `json:"district,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`

	BusinessName        string `json:"business_name,omitempty"`
	BusinessType        string `json:"business_type,omitempty"`
	BusinessDescription string `json:"business_description,omitempty"`
	BusinessPhone       string `json:"business_phone,omitempty"`
	Website             string `json:"website,omitempty"`
	TaxID               string `json:"tax_id,omitempty"`

	SubscriptionStartsAt  *time.Time `json:"subscription_starts_at,omitempty"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	IsVerified            bool       `json:"is_verified"`
	ProductLimit          *int       `json:"product_limit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProfileResponse(result *identity.ProfileResult) ProfileResponse {
	return ProfileResponse{
		UserID:                result.UserID,
		Email:                 result.Email,
		Name:                  result.Name,
		Role:                  string(result.Role),
		VendorTier:            string(result.VendorTier),
		Phone:                 result.Phone,
		Whatsapp:              result.Whatsapp,
		Address:               result.Address,
		City:                  result.City,
		District:              result.District,
		Neighborhood:          result.Neighborhood,
		BusinessName:          result.BusinessName,
		BusinessType:          result.BusinessType,
		BusinessDescription:   result.BusinessDescription,
		BusinessPhone:         result.BusinessPhone,
		Website:               result.Website,
		TaxID:                 result.TaxID,
		SubscriptionStartsAt:  result.SubscriptionStartsAt,
		SubscriptionExpiresAt: result.SubscriptionExpiresAt,
		IsVerified:            result.IsVerified,
		ProductLimit:          result.ProductLimit,
		CreatedAt:             result.CreatedAt,
		UpdatedAt:             result.UpdatedAt,
	}
}

// GetProfile godoc
// @Summary      Get own profile
// @Description  Returns the authenticated user's combined account and profile
// @Tags         profile
// @Produce      json
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newProfileResponse(result))
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Partially update contact and business fields
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields to update"
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.profileService.UpdateProfile(c.Request.Context(), userID, identity.UpdateProfileInput{
		Name:                req.Name,
		Phone:               req.Phone,
		Whatsapp:            req.Whatsapp,
		Address:             req.Address,
		City:                req.City,
		District:            req.District,
		Neighborhood:        req.Neighborhood,
		BusinessName:        req.BusinessName,
		BusinessType:        req.BusinessType,
		BusinessDescription: req.BusinessDescription,
		BusinessPhone:       req.BusinessPhone,
		Website:             req.Website,
		TaxID:               req.TaxID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newProfileResponse(result))
}

// UpgradeToVendor godoc
// @Summary      Become a vendor
// @Description  Convert the authenticated customer account into a free tier vendor
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body UpgradeToVendorRequest true "Business details"
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/upgrade-to-vendor [post]
func (h *ProfileHandler) UpgradeToVendor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpgradeToVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.profileService.UpgradeToVendor(c.Request.Context(), identity.UpgradeToVendorInput{
		UserID:              userID,
		BusinessName:        req.BusinessName,
		BusinessType:        req.BusinessType,
		BusinessDescription: req.BusinessDescription,
		BusinessPhone:       req.BusinessPhone,
		Website:             req.Website,
		TaxID:               req.TaxID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newProfileResponse(result))
}

// RegisterRoutes wires the profile endpoints under the auth group
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)
		auth.POST("/upgrade-to-vendor", h.UpgradeToVendor)
	}
}
