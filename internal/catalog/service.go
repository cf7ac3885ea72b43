package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kavindu-dev/furnicraft-backend/pkg/db/models"
	"github.com/kavindu-dev/furnicraft-backend/pkg/enums"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
)

// Service exposes catalog operations to the API layer.
type Service interface {
	ListCategories(ctx context.Context, includeProducts bool) ([]CategorySummary, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, includeCategory bool) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SimilarProducts(ctx context.Context, query SimilarQuery) ([]models.Product, error)
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

const defaultSimilarLimit = 4

func (s *service) ListCategories(ctx context.Context, includeProducts bool) ([]CategorySummary, error) {
	categories, err := s.repo.ListCategories(ctx, includeProducts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	counts, err := s.repo.CountProductsByCategory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products per category")
	}

	summaries := make([]CategorySummary, 0, len(categories))
	for _, category := range categories {
		summary := CategorySummary{
			ID:           category.ID,
			Name:         category.Name,
			Description:  category.Description,
			Type:         category.Type.String(),
			Image:        category.Image,
			ProductCount: counts[category.ID],
		}
		if includeProducts {
			summary.Products = category.Products
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	categoryType, err := enums.ParseCategoryType(input.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category type")
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Type:        categoryType,
		Image:       input.Image,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*models.Category, error) {
	categoryType, err := enums.ParseCategoryType(input.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category type")
	}

	category, err := s.repo.FindCategoryByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	category.Name = input.Name
	category.Description = input.Description
	category.Type = categoryType
	category.Image = input.Image

	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return updated, nil
}

// DeleteCategory refuses to remove a category while products still reference
// it, so no order or listing is ever orphaned.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	count, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category has products").
			WithDetails(map[string]any{"productCount": count})
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context, includeCategory bool) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx, includeCategory)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Dimensions:  input.Dimensions,
		Features:    pq.StringArray(input.Features),
		Colors:      pq.StringArray(input.Colors),
		Images:      pq.StringArray(input.Images),
		IsActive:    true,
		PriceTiers:  tiersFromInput(uuid.Nil, input.PriceTiers),
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	for i := range product.PriceTiers {
		product.PriceTiers[i].ProductID = product.ID
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if product.CategoryID != input.CategoryID {
		if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	product.CategoryID = input.CategoryID
	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Dimensions = input.Dimensions
	product.Features = pq.StringArray(input.Features)
	product.Colors = pq.StringArray(input.Colors)
	product.Images = pq.StringArray(input.Images)
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.PriceTiers = nil
	product.Category = nil

	if err := s.repo.ReplacePriceTiers(ctx, product.ID, tiersFromInput(product.ID, input.PriceTiers)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace price tiers")
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) SimilarProducts(ctx context.Context, query SimilarQuery) ([]models.Product, error) {
	if query.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if query.Limit <= 0 {
		query.Limit = defaultSimilarLimit
	}
	rows, err := s.repo.ListSimilarProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list similar products")
	}
	return rows, nil
}

func tiersFromInput(productID uuid.UUID, inputs []PriceTierInput) []models.ProductPriceTier {
	if len(inputs) == 0 {
		return nil
	}
	tiers := make([]models.ProductPriceTier, 0, len(inputs))
	for _, tier := range inputs {
		tiers = append(tiers, models.ProductPriceTier{
			ID:        uuid.New(),
			ProductID: productID,
			MinQty:    tier.MinQty,
			UnitPrice: tier.UnitPrice,
		})
	}
	return tiers
}
