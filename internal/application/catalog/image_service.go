package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sokohub/backend/internal/domain/catalog"
	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MaxImageSize is the upload cap for product images
const MaxImageSize = 5 << 20

// ObjectStorageService abstracts the object store product images live in
type ObjectStorageService interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	PublicURL(storageKey string) string
}

var imageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageService uploads product images and persists the resulting URL on
// the product
type ImageService struct {
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	logger      *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(
	productRepo catalog.ProductRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *ImageService {
	return &ImageService{
		productRepo: productRepo,
		storage:     storage,
		logger:      logger,
	}
}

// UploadProductImageInput contains the input for a product image upload
type UploadProductImageInput struct {
	ProductID   uuid.UUID
	ActorID     uuid.UUID
	ActorRole   identity.Role
	Filename    string
	ContentType string
	Data        []byte
}

// UploadProductImage stores the image and sets it as the product's image
// reference. The previous object is removed after a successful swap.
func (s *ImageService) UploadProductImage(ctx context.Context, input UploadProductImageInput) (*ProductResult, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(input.ActorID) && input.ActorRole != identity.RoleAdmin {
		return nil, shared.NewDomainError("NOT_OWNER", "You can only modify your own products")
	}

	if len(input.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image file is empty")
	}
	if len(input.Data) > MaxImageSize {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image exceeds the 5 MB limit")
	}
	ext, ok := imageContentTypes[strings.ToLower(input.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Unsupported image type, use JPEG, PNG, WebP, or GIF")
	}

	key := fmt.Sprintf("products/%s/%s%s", product.VendorID, uuid.New(), ext)
	if err := s.storage.Upload(ctx, key, input.Data, input.ContentType); err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}

	oldKey := s.storageKeyFromURL(product.ImageURL)
	if err := product.SetImageURL(s.storage.PublicURL(key)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if oldKey != "" {
		if err := s.storage.DeleteObject(ctx, oldKey); err != nil {
			s.logger.Warn("Stale product image not removed",
				zap.String("storage_key", oldKey), zap.Error(err))
		}
	}

	s.logger.Info("Product image uploaded",
		zap.String("product_id", product.ID.String()),
		zap.String("storage_key", key),
		zap.Int("size", len(input.Data)))

	return newProductResult(product), nil
}

// storageKeyFromURL recovers the object key from a URL this service
// produced. URLs pointing elsewhere return empty and are left alone.
func (s *ImageService) storageKeyFromURL(url string) string {
	if url == "" {
		return ""
	}
	idx := strings.Index(url, "/products/")
	if idx < 0 {
		return ""
	}
	key := url[idx+1:]
	if path.Ext(key) == "" {
		return ""
	}
	return key
}
