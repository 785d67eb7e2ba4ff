package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"
	"marketplace-backend/pkg/utils"
)

const maxProductImages = 5

const productCacheTTL = 5 * time.Minute

var (
	ErrTooManyImages  = errors.New("a product holds at most 5 images")
	ErrShippingNotSet = errors.New("shipping countries must be configured before listing products")
)

// CatalogService covers products and categories. Product reads go through
// the cache; every write invalidates the cached entry.
type CatalogService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	sellerInfo domain.SellerInfoRepository
	cache      domain.CatalogCache
	images     *ImageService
	log        logger.Logger
}

func NewCatalogService(products domain.ProductRepository, categories domain.CategoryRepository,
	sellerInfo domain.SellerInfoRepository, cache domain.CatalogCache, images *ImageService,
	log logger.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		sellerInfo: sellerInfo,
		cache:      cache,
		images:     images,
		log:        log,
	}
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	CategoryID  string
}

// CreateProduct refuses listings from sellers who have not configured where
// they ship yet.
func (s *CatalogService) CreateProduct(ctx context.Context, sellerID string, input ProductInput) (*domain.Product, error) {
	countries, _, err := s.sellerInfo.GetShipping(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if len(countries) == 0 {
		return nil, ErrShippingNotSet
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:          utils.GenerateID("prod"),
		SellerID:    sellerID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		ImageKeys:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("Product created", "product_id", product.ID, "seller_id", sellerID)
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	cached, err := s.cache.GetProduct(ctx, id)
	if err != nil {
		s.log.Warn("Product cache read failed", "product_id", id, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product, productCacheTTL); err != nil {
		s.log.Warn("Product cache write failed", "product_id", id, "error", err)
	}
	return product, nil
}

// UpdateProduct only touches products owned by the given seller.
func (s *CatalogService) UpdateProduct(ctx context.Context, id, sellerID string, update *domain.ProductUpdate) (*domain.Product, error) {
	if update.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *update.CategoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	product, err := s.products.Update(ctx, id, sellerID, update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, id)
	return product, nil
}

type ImageUpload struct {
	Filename string
	Data     []byte
}

// AddProductImages resizes and stores the uploads, then appends their keys.
func (s *CatalogService) AddProductImages(ctx context.Context, id, sellerID string, uploads []ImageUpload) (*domain.Product, error) {
	product, err := s.products.GetOwned(ctx, id, sellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(product.ImageKeys)+len(uploads) > maxProductImages {
		return nil, ErrTooManyImages
	}

	keys := product.ImageKeys
	for _, upload := range uploads {
		key, err := s.images.UploadProductImage(ctx, upload.Filename, upload.Data)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	if err := s.products.UpdateImages(ctx, id, keys); err != nil {
		return nil, err
	}
	product.ImageKeys = keys

	s.invalidate(ctx, id)
	return product, nil
}

func (s *CatalogService) RemoveProductImage(ctx context.Context, id, sellerID, imageKey string) (*domain.Product, error) {
	product, err := s.products.GetOwned(ctx, id, sellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	kept := make([]string, 0, len(product.ImageKeys))
	found := false
	for _, key := range product.ImageKeys {
		if key == imageKey {
			found = true
			continue
		}
		kept = append(kept, key)
	}
	if !found {
		return nil, ErrNotFound
	}

	if err := s.products.UpdateImages(ctx, id, kept); err != nil {
		return nil, err
	}
	if err := s.images.Remove(ctx, imageKey); err != nil {
		s.log.Warn("Failed to remove product image", "key", imageKey, "error", err)
	}
	product.ImageKeys = kept

	s.invalidate(ctx, id)
	return product, nil
}

// DeleteProduct removes the row and then its stored images.
func (s *CatalogService) DeleteProduct(ctx context.Context, id, sellerID string) error {
	if _, err := s.products.GetOwned(ctx, id, sellerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	product, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}

	for _, key := range product.ImageKeys {
		if err := s.images.Remove(ctx, key); err != nil {
			s.log.Warn("Failed to remove product image", "key", key, "error", err)
		}
	}

	s.invalidate(ctx, id)
	s.log.Info("Product deleted", "product_id", id, "seller_id", sellerID)
	return nil
}

// AdminDeleteProduct removes any product regardless of owner, cleaning up
// its stored images.
func (s *CatalogService) AdminDeleteProduct(ctx context.Context, id string) error {
	product, err := s.products.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	for _, key := range product.ImageKeys {
		if err := s.images.Remove(ctx, key); err != nil {
			s.log.Warn("Failed to remove product image", "key", key, "error", err)
		}
	}

	s.invalidate(ctx, id)
	s.log.Info("Product removed by admin", "product_id", id)
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, name, categoryID string, page int) ([]*domain.Product, error) {
	return s.products.List(ctx, name, categoryID, page)
}

func (s *CatalogService) ListSellerProducts(ctx context.Context, sellerID, name, categoryID string, page int) ([]*domain.Product, error) {
	return s.products.ListBySeller(ctx, sellerID, name, categoryID, page)
}

func (s *CatalogService) QuickSearch(ctx context.Context, name string) ([]*domain.Product, error) {
	return s.products.QuickSearch(ctx, name)
}

// ImageURLs presigns every stored key for client rendering.
func (s *CatalogService) ImageURLs(ctx context.Context, keys []string) ([]string, error) {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := s.images.URL(ctx, key)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	now := time.Now()
	category := &domain.Category{
		ID:          utils.GenerateID("cat"),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, name, description *string) (*domain.Category, error) {
	category, err := s.categories.Update(ctx, id, name, description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategoryImage(ctx context.Context, id, filename string, data []byte) (*domain.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := s.images.UploadCategoryImage(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	if err := s.categories.UpdateImage(ctx, id, key); err != nil {
		return nil, err
	}

	if category.ImageKey != "" {
		if err := s.images.Remove(ctx, category.ImageKey); err != nil {
			s.log.Warn("Failed to remove old category image", "key", category.ImageKey, "error", err)
		}
	}
	category.ImageKey = key
	return category, nil
}

func (s *CatalogService) DeleteCategoryImage(ctx context.Context, id string) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if category.ImageKey == "" {
		return nil
	}

	if err := s.categories.UpdateImage(ctx, id, ""); err != nil {
		return err
	}
	if err := s.images.Remove(ctx, category.ImageKey); err != nil {
		s.log.Warn("Failed to remove category image", "key", category.ImageKey, "error", err)
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	if category.ImageKey != "" {
		if err := s.images.Remove(ctx, category.ImageKey); err != nil {
			s.log.Warn("Failed to remove category image", "key", category.ImageKey, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.log.Warn("Product cache invalidation failed", "product_id", id, "error", err)
	}
}
