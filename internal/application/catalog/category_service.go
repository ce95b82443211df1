package catalog

import (
	"context"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a category with a unique name
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(ctx, category.Name, 0); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Category with ID %d not found", id)
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List returns one page of categories
func (s *CategoryService) List(ctx context.Context, filter appshared.ListFilter) (shared.Paginated[CategoryResponse], error) {
	domainFilter := filter.ToDomain()

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}
	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}

	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = ToCategoryResponse(&categories[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update renames a category or changes its description
func (s *CategoryService) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Category with ID %d not found", id)
	}

	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, category.Name, id); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category that no product references
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return appshared.NotFound(err, "Category with ID %d not found", id)
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError(shared.CodeInvalidState,
			"Category still has products assigned and cannot be deleted.")
	}

	return s.categoryRepo.Delete(ctx, id)
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExistsf("Category with name '%s' already exists.", name)
	}
	return nil
}
