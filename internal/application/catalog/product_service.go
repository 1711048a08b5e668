package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/domain/shared"
	"github.com/sokohub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxSlugAttempts bounds the numeric-suffix search when concurrent
// inserts keep taking each candidate slug.
const maxSlugAttempts = 50

// featuredLimit caps the featured-products listing
const featuredLimit = 20

// ProductService handles product listing lifecycle and discovery
type ProductService struct {
	productRepo catalog.ProductRepository
	catRepo     catalog.CategoryRepository
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
	logger      *zap.Logger
	metrics     *telemetry.MarketplaceMetrics
	events      shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	catRepo catalog.CategoryRepository,
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		catRepo:     catRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// SetMarketplaceMetrics sets the marketplace metrics collector
func (s *ProductService) SetMarketplaceMetrics(mm *telemetry.MarketplaceMetrics) {
	s.metrics = mm
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishDomainEvents publishes pending events from the product aggregate.
// Errors are logged by the event bus, not propagated.
func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.events == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
	product.ClearDomainEvents()
}

// Create creates a product for a vendor. Admins bypass the tier quota;
// everyone else is counted against the central tier table before the
// insert.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*ProductResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create",
		telemetry.WithAttribute(telemetry.SpanAttrVendorID, input.VendorID.String()))
	defer span.End()

	result, err := s.create(ctx, input)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductID, result.ID.String(),
		telemetry.SpanAttrProductSlug, result.Slug)
	return result, nil
}

func (s *ProductService) create(ctx context.Context, input CreateProductInput) (*ProductResult, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}
	if !profile.Role.CanManageProducts() {
		return nil, shared.NewDomainError("NOT_A_VENDOR", "Only vendors can list products")
	}

	if !profile.IsAdmin() {
		if limit := profile.ProductLimit(); limit != nil {
			count, err := s.productRepo.CountByVendor(ctx, input.VendorID, false)
			if err != nil {
				return nil, err
			}
			if count >= int64(*limit) {
				if s.metrics != nil {
					s.metrics.RecordQuotaRejected(ctx, string(profile.VendorTier))
				}
				return nil, &QuotaExceededError{
					CurrentCount: count,
					Limit:        *limit,
					Tier:         profile.VendorTier,
				}
			}
		}
	}

	if _, err := s.catRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return nil, err
	}

	product, err := catalog.NewProduct(input.VendorID, input.CategoryID, input.Name, input.Description, input.Price, input.StockQuantity)
	if err != nil {
		return nil, err
	}
	if input.ImageURL != "" {
		if err := product.SetImageURL(input.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.createWithUniqueSlug(ctx, product); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordListingCreated(ctx, string(profile.VendorTier))
	}
	s.publishDomainEvents(ctx, product)

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("vendor_id", input.VendorID.String()),
		zap.String("slug", product.Slug))

	return newProductResult(product), nil
}

// createWithUniqueSlug finds a free slug and inserts. When a
// concurrent insert takes the slug between the check and the write,
// the unique index rejects it and the next suffix is tried.
func (s *ProductService) createWithUniqueSlug(ctx context.Context, product *catalog.Product) error {
	base := product.Slug
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, checked, err := s.nextFreeSlug(ctx, base, attempt, uuid.Nil)
		if err != nil {
			return err
		}
		attempt = checked

		product.SetSlug(slug)
		err = s.productRepo.Create(ctx, product)
		if err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return err
		}
	}
	return shared.NewDomainError("SLUG_EXHAUSTED", "Could not find a free slug for this product name")
}

// nextFreeSlug returns the first untaken suffixed slug at or after the
// given attempt, along with the attempt index it stopped at
func (s *ProductService) nextFreeSlug(ctx context.Context, base string, from int, excludeID uuid.UUID) (string, int, error) {
	for attempt := from; attempt < maxSlugAttempts; attempt++ {
		candidate := catalog.NextSlug(base, attempt)
		taken, err := s.productRepo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", attempt, err
		}
		if !taken {
			return candidate, attempt, nil
		}
	}
	return "", maxSlugAttempts, shared.NewDomainError("SLUG_EXHAUSTED", "Could not find a free slug for this product name")
}

// Update applies changes to a product. Only the owning vendor or an
// admin may modify it; a rename re-derives the slug.
func (s *ProductService) Update(ctx context.Context, input UpdateProductInput) (*ProductResult, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(input.ActorID) && input.ActorRole != identity.RoleAdmin {
		return nil, shared.NewDomainError("NOT_OWNER", "You can only modify your own products")
	}

	slugChanged := false
	if input.Name != nil {
		changed, err := product.Rename(*input.Name)
		if err != nil {
			return nil, err
		}
		slugChanged = changed
	}
	if input.Description != nil {
		product.SetDescription(*input.Description)
	}
	if input.CategoryID != nil {
		if _, err := s.catRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		if err := product.SetCategory(*input.CategoryID); err != nil {
			return nil, err
		}
	}
	if input.Price != nil {
		if err := product.SetPrice(*input.Price); err != nil {
			return nil, err
		}
	}
	if input.StockQuantity != nil {
		if err := product.SetStock(*input.StockQuantity); err != nil {
			return nil, err
		}
	}
	if input.ImageURL != nil {
		if err := product.SetImageURL(*input.ImageURL); err != nil {
			return nil, err
		}
	}
	if input.IsActive != nil {
		if *input.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}
	if input.Featured != nil {
		if input.ActorRole != identity.RoleAdmin {
			return nil, shared.NewDomainError("FORBIDDEN", "Only admins can feature products")
		}
		product.SetFeatured(*input.Featured)
	}

	if slugChanged {
		if err := s.updateWithUniqueSlug(ctx, product); err != nil {
			return nil, err
		}
	} else {
		if err := s.productRepo.Update(ctx, product); err != nil {
			return nil, err
		}
	}

	return newProductResult(product), nil
}

func (s *ProductService) updateWithUniqueSlug(ctx context.Context, product *catalog.Product) error {
	base := product.Slug
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, checked, err := s.nextFreeSlug(ctx, base, attempt, product.ID)
		if err != nil {
			return err
		}
		attempt = checked

		product.SetSlug(slug)
		err = s.productRepo.Update(ctx, product)
		if err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return err
		}
	}
	return shared.NewDomainError("SLUG_EXHAUSTED", "Could not find a free slug for this product name")
}

// Delete removes a product. Only the owning vendor or an admin may.
func (s *ProductService) Delete(ctx context.Context, productID, actorID uuid.UUID, actorRole identity.Role) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsOwnedBy(actorID) && actorRole != identity.RoleAdmin {
		return shared.NewDomainError("NOT_OWNER", "You can only delete your own products")
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", productID.String()),
		zap.String("actor_id", actorID.String()))
	return nil
}

// GetBySlug returns the product detail and counts the view. The counter
// bumps in its own UPDATE so two concurrent detail reads both land.
// Deactivated products are not served.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "detail",
		telemetry.WithAttribute(telemetry.SpanAttrProductSlug, slug))
	defer span.End()

	product, err := s.productRepo.FindActiveBySlug(ctx, slug)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.productRepo.IncrementViewCount(ctx, product.ID); err != nil {
		s.logger.Warn("View count bump failed", zap.String("product_id", product.ID.String()), zap.Error(err))
	} else {
		product.ViewCount++
	}
	if s.metrics != nil {
		s.metrics.RecordProductView(ctx)
	}

	return newProductResult(product), nil
}

// GetByID returns the product detail and counts the view. Deactivated
// products are not served.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResult, error) {
	product, err := s.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.IncrementViewCount(ctx, product.ID); err != nil {
		s.logger.Warn("View count bump failed", zap.String("product_id", product.ID.String()), zap.Error(err))
	} else {
		product.ViewCount++
	}
	if s.metrics != nil {
		s.metrics.RecordProductView(ctx)
	}

	return newProductResult(product), nil
}

// List returns products matching the filter, ranked by vendor tier then
// recency
func (s *ProductService) List(ctx context.Context, filter catalog.ProductFilter) (*shared.Paginated[*ProductResult], error) {
	products, total, err := s.productRepo.FindAllRanked(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(newProductResults(products), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Featured returns the newest active products from featured-tier vendors
func (s *ProductService) Featured(ctx context.Context) ([]*ProductResult, error) {
	products, err := s.productRepo.FindFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	return newProductResults(products), nil
}

// RevealContact returns the vendor's contact card for an active product
// and counts the reveal. Every authenticated reveal moves the counter,
// the owner's included.
func (s *ProductService) RevealContact(ctx context.Context, productID, viewerID uuid.UUID) (*ContactInfoResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "reveal_contact",
		telemetry.WithAttribute(telemetry.SpanAttrProductID, productID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrUserID, viewerID.String()))
	defer span.End()

	product, err := s.productRepo.FindActiveByID(ctx, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	vendor, err := s.userRepo.FindByID(ctx, product.VendorID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, product.VendorID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.productRepo.IncrementContactReveals(ctx, product.ID); err != nil {
		s.logger.Warn("Contact reveal count bump failed",
			zap.String("product_id", product.ID.String()), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordContactReveal(ctx)
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, catalog.NewContactRevealedEvent(product, viewerID))
	}
	telemetry.AddEvent(span, "contact_revealed",
		telemetry.SpanAttrVendorID, product.VendorID.String())

	return &ContactInfoResult{
		Phone:         profile.Phone,
		Whatsapp:      profile.Whatsapp,
		Email:         vendor.Email,
		BusinessName:  profile.BusinessName,
		BusinessPhone: profile.BusinessPhone,
	}, nil
}

// VendorProducts returns a vendor's own listings, newest first
func (s *ProductService) VendorProducts(ctx context.Context, vendorID uuid.UUID, filter catalog.ProductFilter) (*shared.Paginated[*ProductResult], error) {
	products, total, err := s.productRepo.FindByVendor(ctx, vendorID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(newProductResults(products), total, filter.Page, filter.PageSize)
	return &result, nil
}

// VendorStats returns the vendor dashboard snapshot including remaining
// quota for the current tier
func (s *ProductService) VendorStats(ctx context.Context, vendorID uuid.UUID) (*VendorStatsResult, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	stats, err := s.productRepo.StatsByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	result := &VendorStatsResult{
		TotalProducts:  stats.TotalProducts,
		ActiveProducts: stats.ActiveProducts,
		TotalViews:     stats.TotalViews,
		TotalContacts:  stats.TotalContacts,
		Tier:           profile.VendorTier,
		ProductLimit:   profile.ProductLimit(),
	}
	if result.ProductLimit != nil {
		remaining := *result.ProductLimit - int(stats.TotalProducts)
		if remaining < 0 {
			remaining = 0
		}
		result.ProductsRemaining = &remaining
	}
	return result, nil
}
