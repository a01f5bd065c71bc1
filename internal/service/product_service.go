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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, req dto.ProductCreateRequest) result.Result[string]
	GetByID(ctx context.Context, id uuid.UUID) result.Result[dto.ProductView]
	GetAll(ctx context.Context) result.Result[[]dto.ProductView]
	ListWithCategory(ctx context.Context) result.Result[[]domain.ProductWithCategory]
	Update(ctx context.Context, routeID uuid.UUID, req dto.ProductUpdateRequest) result.Outcome
	Delete(ctx context.Context, routeID uuid.UUID, req dto.ProductDeleteRequest) result.Outcome
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new instance of ProductService.
// The category repository is used to confirm that a product's category exists.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       newLogger(logger, "product_service"),
	}
}

// Create adds a product to an existing category. Names are unique per category.
func (s *productService) Create(ctx context.Context, req dto.ProductCreateRequest) result.Result[string] {
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		s.logger.Warn("Product creation failed: empty name provided")
		return invalid[string]("productName", "Product name cannot be empty or whitespace.")
	}

	found, err := s.categoryRepo.Exists(ctx, req.CategoryID)
	if err != nil {
		return unexpected[string](s.logger, "Product creation failed: category check error", err, zap.Int("category_id", req.CategoryID))
	}
	if !found {
		s.logger.Warn("Product creation failed: category not found", zap.Int("category_id", req.CategoryID))
		return result.NotFound[string](categoryNotFound(req.CategoryID))
	}

	duplicate, err := s.productRepo.ExistsByName(ctx, req.CategoryID, name, uuid.Nil)
	if err != nil {
		return unexpected[string](s.logger, "Product creation failed: name check error", err, zap.Int("category_id", req.CategoryID))
	}
	if duplicate {
		s.logger.Warn("Product creation failed: duplicate product in category",
			zap.String("product_name", name),
			zap.Int("category_id", req.CategoryID),
		)
		return result.Conflict[string](productExists(name))
	}

	product := &domain.Product{
		ProductName: name,
		Price:       req.Price,
		QtyInStock:  req.QtyInStock,
		CategoryID:  req.CategoryID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			s.logger.Warn("Product creation failed: duplicate rejected by store", zap.String("product_name", name))
			return result.Conflict[string](productExists(name))
		case errors.Is(err, repository.ErrCategoryNotFound):
			s.logger.Warn("Product creation failed: category removed concurrently", zap.Int("category_id", req.CategoryID))
			return result.NotFound[string](categoryNotFound(req.CategoryID))
		}
		return unexpected[string](s.logger, "Product creation failed", err, zap.String("product_name", name))
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("product_name", product.ProductName),
		zap.Int("category_id", product.CategoryID),
	)

	return result.Created(fmt.Sprintf("/api/products/%s", product.ID))
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) result.Result[dto.ProductView] {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Warn("Product retrieval failed: not found", zap.String("product_id", id.String()))
			return result.NotFound[dto.ProductView](productNotFound(id))
		}
		return unexpected[dto.ProductView](s.logger, "Product retrieval failed", err, zap.String("product_id", id.String()))
	}

	s.logger.Info("Product retrieved", zap.String("product_id", id.String()))
	return result.Success(dto.NewProductView(product))
}

// GetAll lists every product ordered by product name
func (s *productService) GetAll(ctx context.Context) result.Result[[]dto.ProductView] {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return unexpected[[]dto.ProductView](s.logger, "Product listing failed", err)
	}

	views := make([]dto.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, dto.NewProductView(p))
	}

	s.logger.Info("Products retrieved", zap.Int("count", len(views)))
	return result.Success(views)
}

// ListWithCategory reads the product/category view ordered by product name
func (s *productService) ListWithCategory(ctx context.Context) result.Result[[]domain.ProductWithCategory] {
	items, err := s.productRepo.ListWithCategory(ctx)
	if err != nil {
		return unexpected[[]domain.ProductWithCategory](s.logger, "Products with category listing failed", err)
	}
	if items == nil {
		items = []domain.ProductWithCategory{}
	}

	s.logger.Info("Products with category retrieved", zap.Int("count", len(items)))
	return result.Success(items)
}

// Update changes a product, possibly moving it to another existing category
func (s *productService) Update(ctx context.Context, routeID uuid.UUID, req dto.ProductUpdateRequest) result.Outcome {
	log := s.logger.With(zap.String("product_id", routeID.String()))

	if routeID != req.ProductID {
		log.Warn("Product update failed: route ID does not match payload ID",
			zap.String("payload_id", req.ProductID.String()),
		)
		return invalid[result.Empty]("productId", msgRouteMismatch)
	}

	product, err := s.productRepo.FindByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			log.Warn("Product update failed: not found")
			return result.NotFound[result.Empty](productNotFound(routeID))
		}
		return unexpected[result.Empty](log, "Product update failed: lookup error", err)
	}

	expected, err := rowversion.Decode(req.RowVersion)
	if err != nil {
		log.Warn("Product update failed: invalid row version")
		return invalid[result.Empty]("rowVersion", msgInvalidRowVersion)
	}

	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		log.Warn("Product update failed: empty name provided")
		return invalid[result.Empty]("productName", "Product name cannot be empty or whitespace.")
	}

	found, err := s.categoryRepo.Exists(ctx, req.CategoryID)
	if err != nil {
		return unexpected[result.Empty](log, "Product update failed: category check error", err)
	}
	if !found {
		log.Warn("Product update failed: category not found", zap.Int("category_id", req.CategoryID))
		return result.NotFound[result.Empty](categoryNotFound(req.CategoryID))
	}

	duplicate, err := s.productRepo.ExistsByName(ctx, req.CategoryID, name, routeID)
	if err != nil {
		return unexpected[result.Empty](log, "Product update failed: name check error", err)
	}
	if duplicate {
		log.Warn("Product update failed: duplicate product in category",
			zap.String("product_name", name),
			zap.Int("category_id", req.CategoryID),
		)
		return result.Conflict[result.Empty](anotherProductExists(name))
	}

	product.ProductName = name
	product.Price = req.Price
	product.QtyInStock = req.QtyInStock
	product.CategoryID = req.CategoryID

	if err := s.productRepo.Update(ctx, product, expected); err != nil {
		switch {
		case errors.Is(err, repository.ErrConcurrencyConflict):
			log.Warn("Product update concurrency conflict")
			return result.Conflict[result.Empty](msgConcurrencyConflict)
		case errors.Is(err, repository.ErrDuplicateName):
			log.Warn("Product update failed: duplicate rejected by store", zap.String("product_name", name))
			return result.Conflict[result.Empty](anotherProductExists(name))
		case errors.Is(err, repository.ErrCategoryNotFound):
			log.Warn("Product update failed: category removed concurrently", zap.Int("category_id", req.CategoryID))
			return result.NotFound[result.Empty](categoryNotFound(req.CategoryID))
		}
		return unexpected[result.Empty](log, "Product update failed", err)
	}

	log.Info("Product updated")
	return result.Accepted[result.Empty]()
}

// Delete hard-deletes a product
func (s *productService) Delete(ctx context.Context, routeID uuid.UUID, req dto.ProductDeleteRequest) result.Outcome {
	log := s.logger.With(zap.String("product_id", routeID.String()))

	if routeID != req.ProductID {
		log.Warn("Product delete failed: route ID does not match payload ID",
			zap.String("payload_id", req.ProductID.String()),
		)
		return invalid[result.Empty]("productId", msgRouteMismatch)
	}

	if _, err := s.productRepo.FindByID(ctx, routeID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			log.Warn("Product delete failed: not found")
			return result.NotFound[result.Empty](productNotFound(routeID))
		}
		return unexpected[result.Empty](log, "Product delete failed: lookup error", err)
	}

	expected, err := rowversion.Decode(req.RowVersion)
	if err != nil {
		log.Warn("Product delete failed: invalid row version")
		return invalid[result.Empty]("rowVersion", msgInvalidRowVersion)
	}

	if err := s.productRepo.Delete(ctx, routeID, expected); err != nil {
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			log.Warn("Product delete concurrency conflict")
			return result.Conflict[result.Empty](msgConcurrencyConflict)
		}
		return unexpected[result.Empty](log, "Product delete failed", err)
	}

	log.Info("Product deleted")
	return result.Done()
}

func productNotFound(id uuid.UUID) string {
	return fmt.Sprintf("Product with id '%s' was not found.", id)
}

func productExists(name string) string {
	return fmt.Sprintf("Product '%s' already exists in this category.", name)
}

func anotherProductExists(name string) string {
	return fmt.Sprintf("Another product with name '%s' already exists in this category.", name)
}
