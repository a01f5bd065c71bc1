package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-api/internal/domain"
	"catalog-api/internal/dto"
	"catalog-api/internal/repository"
	"catalog-api/internal/result"
	"catalog-api/internal/rowversion"

	"go.uber.org/zap"
)

// CategoryService defines the interface for category business logic.
// Every method reports its outcome as a Result and never returns a Go error.
type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryCreateRequest) result.Result[string]
	GetByID(ctx context.Context, id int) result.Result[dto.CategoryView]
	GetAll(ctx context.Context) result.Result[[]dto.CategoryView]
	Update(ctx context.Context, routeID int, req dto.CategoryUpdateRequest) result.Outcome
	Delete(ctx context.Context, routeID int, req dto.CategoryDeleteRequest) result.Outcome
	ProductCountReport(ctx context.Context) result.Result[[]domain.CategoryProductCount]
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       newLogger(logger, "category_service"),
	}
}

// Create stores a new category under its trimmed name and returns its location
func (s *categoryService) Create(ctx context.Context, req dto.CategoryCreateRequest) result.Result[string] {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.logger.Warn("Category creation failed: empty name provided")
		return invalid[string]("name", "Category name cannot be empty or whitespace.")
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, name, 0)
	if err != nil {
		return unexpected[string](s.logger, "Category creation failed: name check error", err)
	}
	if exists {
		s.logger.Warn("Category creation failed: duplicate category", zap.String("name", name))
		return result.Conflict[string](fmt.Sprintf("Category '%s' already exists.", name))
	}

	category := &domain.Category{
		Name:        name,
		Description: domain.NullIfWhiteSpace(req.Description),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			s.logger.Warn("Category creation failed: duplicate category rejected by store", zap.String("name", name))
			return result.Conflict[string](fmt.Sprintf("Category '%s' already exists.", name))
		}
		return unexpected[string](s.logger, "Category creation failed", err, zap.String("name", name))
	}

	s.logger.Info("Category created",
		zap.Int("category_id", category.ID),
		zap.String("name", category.Name),
	)

	return result.Created(fmt.Sprintf("/api/categories/%d", category.ID))
}

func (s *categoryService) GetByID(ctx context.Context, id int) result.Result[dto.CategoryView] {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.logger.Warn("Category retrieval failed: not found", zap.Int("category_id", id))
			return result.NotFound[dto.CategoryView](categoryNotFound(id))
		}
		return unexpected[dto.CategoryView](s.logger, "Category retrieval failed", err, zap.Int("category_id", id))
	}

	s.logger.Info("Category retrieved", zap.Int("category_id", id))
	return result.Success(dto.NewCategoryView(category))
}

// GetAll lists every category ordered by name. No rows is an empty list.
func (s *categoryService) GetAll(ctx context.Context) result.Result[[]dto.CategoryView] {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return unexpected[[]dto.CategoryView](s.logger, "Category listing failed", err)
	}

	views := make([]dto.CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, dto.NewCategoryView(c))
	}

	s.logger.Info("Categories retrieved", zap.Int("count", len(views)))
	return result.Success(views)
}

// Update renames or re-describes a category. The request's row version must
// match the stored one or the change is rejected as a conflict.
func (s *categoryService) Update(ctx context.Context, routeID int, req dto.CategoryUpdateRequest) result.Outcome {
	if routeID != req.CategoryID {
		s.logger.Warn("Category update failed: route ID does not match payload ID",
			zap.Int("route_id", routeID),
			zap.Int("payload_id", req.CategoryID),
		)
		return invalid[result.Empty]("categoryId", msgRouteMismatch)
	}

	category, err := s.categoryRepo.FindByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.logger.Warn("Category update failed: not found", zap.Int("category_id", routeID))
			return result.NotFound[result.Empty](categoryNotFound(routeID))
		}
		return unexpected[result.Empty](s.logger, "Category update failed: lookup error", err, zap.Int("category_id", routeID))
	}

	expected, err := rowversion.Decode(req.RowVersion)
	if err != nil {
		s.logger.Warn("Category update failed: invalid row version", zap.Int("category_id", routeID))
		return invalid[result.Empty]("rowVersion", msgInvalidRowVersion)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.logger.Warn("Category update failed: empty name provided", zap.Int("category_id", routeID))
		return invalid[result.Empty]("name", "Category name cannot be empty or whitespace.")
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, name, routeID)
	if err != nil {
		return unexpected[result.Empty](s.logger, "Category update failed: name check error", err, zap.Int("category_id", routeID))
	}
	if exists {
		s.logger.Warn("Category update failed: duplicate category name",
			zap.Int("category_id", routeID),
			zap.String("name", name),
		)
		return result.Conflict[result.Empty](anotherCategoryExists(name))
	}

	category.Name = name
	category.Description = domain.NullIfWhiteSpace(req.Description)

	if err := s.categoryRepo.Update(ctx, category, expected); err != nil {
		switch {
		case errors.Is(err, repository.ErrConcurrencyConflict):
			s.logger.Warn("Category update concurrency conflict", zap.Int("category_id", routeID))
			return result.Conflict[result.Empty](msgConcurrencyConflict)
		case errors.Is(err, repository.ErrDuplicateName):
			s.logger.Warn("Category update failed: duplicate name rejected by store", zap.Int("category_id", routeID))
			return result.Conflict[result.Empty](anotherCategoryExists(name))
		}
		return unexpected[result.Empty](s.logger, "Category update failed", err, zap.Int("category_id", routeID))
	}

	s.logger.Info("Category updated", zap.Int("category_id", routeID))
	return result.Accepted[result.Empty]()
}

// Delete removes a category that no product references
func (s *categoryService) Delete(ctx context.Context, routeID int, req dto.CategoryDeleteRequest) result.Outcome {
	if routeID != req.CategoryID {
		s.logger.Warn("Category delete failed: route ID does not match payload ID",
			zap.Int("route_id", routeID),
			zap.Int("payload_id", req.CategoryID),
		)
		return invalid[result.Empty]("categoryId", msgRouteMismatch)
	}

	if _, err := s.categoryRepo.FindByID(ctx, routeID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.logger.Warn("Category delete failed: not found", zap.Int("category_id", routeID))
			return result.NotFound[result.Empty](categoryNotFound(routeID))
		}
		return unexpected[result.Empty](s.logger, "Category delete failed: lookup error", err, zap.Int("category_id", routeID))
	}

	expected, err := rowversion.Decode(req.RowVersion)
	if err != nil {
		s.logger.Warn("Category delete failed: invalid row version", zap.Int("category_id", routeID))
		return invalid[result.Empty]("rowVersion", msgInvalidRowVersion)
	}

	hasProducts, err := s.categoryRepo.HasProducts(ctx, routeID)
	if err != nil {
		return unexpected[result.Empty](s.logger, "Category delete failed: product check error", err, zap.Int("category_id", routeID))
	}
	if hasProducts {
		s.logger.Warn("Category delete restricted: associated products exist", zap.Int("category_id", routeID))
		return result.Conflict[result.Empty](msgCategoryInUse)
	}

	if err := s.categoryRepo.Delete(ctx, routeID, expected); err != nil {
		switch {
		case errors.Is(err, repository.ErrConcurrencyConflict):
			s.logger.Warn("Category delete concurrency conflict", zap.Int("category_id", routeID))
			return result.Conflict[result.Empty](msgConcurrencyConflict)
		case errors.Is(err, repository.ErrCategoryInUse):
			s.logger.Warn("Category delete restricted by store: associated products exist", zap.Int("category_id", routeID))
			return result.Conflict[result.Empty](msgCategoryInUse)
		}
		return unexpected[result.Empty](s.logger, "Category delete failed", err, zap.Int("category_id", routeID))
	}

	s.logger.Info("Category deleted", zap.Int("category_id", routeID))
	return result.Done()
}

// ProductCountReport returns the product count of every category, empty ones included
func (s *categoryService) ProductCountReport(ctx context.Context) result.Result[[]domain.CategoryProductCount] {
	s.logger.Info("Fetching category product count report")

	counts, err := s.categoryRepo.ProductCounts(ctx)
	if err != nil {
		s.logger.Error("Error while fetching category product count report", zap.Error(err))
		return result.Unexpected[[]domain.CategoryProductCount]("Error fetching category product count report")
	}

	s.logger.Info("Category product count report fetched", zap.Int("rows", len(counts)))
	return result.Success(counts)
}

const msgCategoryInUse = "Cannot delete category because associated products exist."

func categoryNotFound(id int) string {
	return fmt.Sprintf("Category with id '%d' was not found.", id)
}

func anotherCategoryExists(name string) string {
	return fmt.Sprintf("Another category with name '%s' already exists.", name)
}
