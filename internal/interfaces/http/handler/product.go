package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/sokohub/backend/internal/application/catalog"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/interfaces/http/dto"
	"github.com/sokohub/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product HTTP requests
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	imageService   *catalogapp.ImageService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalogapp.ProductService, imageService *catalogapp.ImageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		imageService:   imageService,
	}
}

// Create godoc
// @Summary      Create a product
// @Description  Create a listing for the authenticated vendor, subject to the tier quota
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body CreateProductRequest true "Product details"
// @Success      201 {object} dto.Response{data=catalog.ProductResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo} "Not a vendor or quota exceeded"
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid category ID")
		return
	}

	result, err := h.productService.Create(c.Request.Context(), catalogapp.CreateProductInput{
		VendorID:      userID,
		CategoryID:    categoryID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         toDecimal(req.Price),
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update godoc
// @Summary      Update a product
// @Description  Partially update a listing. Owners edit their own products, admins any.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Product ID"
// @Param        request body UpdateProductRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=catalog.ProductResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	actorID, actorRole, ok := currentUser(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	productID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	input := catalogapp.UpdateProductInput{
		ProductID:     productID,
		ActorID:       actorID,
		ActorRole:     identity.Role(actorRole),
		Name:          req.Name,
		Description:   req.Description,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsActive:      req.IsActive,
		Featured:      req.Featured,
	}
	if req.Price != nil {
		input.Price = toDecimalPtr(*req.Price)
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid category ID")
			return
		}
		input.CategoryID = &categoryID
	}

	result, err := h.productService.Update(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Remove a listing. Owners delete their own products, admins any.
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=MessageData}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	actorID, actorRole, ok := currentUser(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	productID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID, actorID, identity.Role(actorRole)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Product deleted"})
}

// List godoc
// @Summary      Browse products
// @Description  Public catalog listing, ranked by vendor tier then recency
// @Tags         products
// @Produce      json
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Param        search      query string false "Free-text search"
// @Param        category_id query string false "Category ID"
// @Param        vendor_id   query string false "Vendor ID"
// @Param        in_stock    query bool   false "Only in-stock products"
// @Param        featured    query bool   false "Only featured products"
// @Param        price_min   query number false "Minimum price"
// @Param        price_max   query number false "Maximum price"
// @Param        city        query string false "Vendor city"
// @Param        district    query string false "Vendor district"
// @Success      200 {object} dto.Response{data=[]catalog.ProductResult,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "Invalid query parameters")
		return
	}

	filter, err := req.toFilter()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, err.Error())
		return
	}

	// Public browsing only sees live listings
	active := true
	filter.IsActive = &active

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Featured godoc
// @Summary      Featured products
// @Description  Newest active listings from featured tier vendors
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalog.ProductResult}
// @Router       /products/featured [get]
func (h *ProductHandler) Featured(c *gin.Context) {
	results, err := h.productService.Featured(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// GetByID godoc
// @Summary      Get a product
// @Description  Returns the product detail and counts the view
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalog.ProductResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	productID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	result, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetBySlug godoc
// @Summary      Get a product by slug
// @Description  Returns the product detail and counts the view
// @Tags         products
// @Produce      json
// @Param        slug path string true "Product slug"
// @Success      200 {object} dto.Response{data=catalog.ProductResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /product/{slug} [get]
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	var uri dto.SlugRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product slug")
		return
	}

	result, err := h.productService.GetBySlug(c.Request.Context(), uri.Slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RevealContact godoc
// @Summary      Reveal vendor contact
// @Description  Returns the vendor's contact card for a product and counts the reveal
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalog.ContactInfoResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/reveal-contact [post]
func (h *ProductHandler) RevealContact(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	productID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	result, err := h.productService.RevealContact(c.Request.Context(), productID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UploadImage godoc
// @Summary      Upload a product image
// @Description  Stores the image and sets it as the product's image reference
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path     string true "Product ID"
// @Param        image formData file   true "Image file (JPEG, PNG, WebP, or GIF, max 5 MB)"
// @Success      200 {object} dto.Response{data=catalog.ProductResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/image [post]
func (h *ProductHandler) UploadImage(c *gin.Context) {
	actorID, actorRole, ok := currentUser(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	productID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, "Invalid product ID")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "Image file is required")
		return
	}
	if fileHeader.Size > catalogapp.MaxImageSize {
		h.ErrorWithCode(c, dto.ErrCodeValidationRange, "Image exceeds the 5 MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Image file could not be read")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, catalogapp.MaxImageSize+1))
	if err != nil {
		h.BadRequest(c, "Image file could not be read")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	result, err := h.imageService.UploadProductImage(c.Request.Context(), catalogapp.UploadProductImageInput{
		ProductID:   productID,
		ActorID:     actorID,
		ActorRole:   identity.Role(actorRole),
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MyProducts godoc
// @Summary      List own products
// @Description  Returns the authenticated vendor's listings, newest first
// @Tags         vendor
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]catalog.ProductResult,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor/products [get]
func (h *ProductHandler) MyProducts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "Invalid query parameters")
		return
	}

	result, err := h.productService.VendorProducts(c.Request.Context(), userID, catalog.ProductFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// MyStats godoc
// @Summary      Vendor dashboard stats
// @Description  Returns listing counts, view and contact totals, and remaining quota
// @Tags         vendor
// @Produce      json
// @Success      200 {object} dto.Response{data=catalog.VendorStatsResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor/stats [get]
func (h *ProductHandler) MyStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.productService.VendorStats(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes wires the product endpoints. The slug detail lives
// under the singular /product prefix so the /products wildcard stays an
// ID everywhere.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/featured", h.Featured)
		products.GET("/:id", h.GetByID)
		products.POST("", middleware.RequireVendor(), h.Create)
		products.PUT("/:id", h.Update)
		products.PATCH("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.POST("/:id/reveal-contact", h.RevealContact)
		products.POST("/:id/image", h.UploadImage)
	}

	rg.GET("/product/:slug", h.GetBySlug)

	vendor := rg.Group("/vendor", middleware.RequireVendor())
	{
		vendor.GET("/products", h.MyProducts)
		vendor.GET("/stats", h.MyStats)
	}
}
