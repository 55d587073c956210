package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrops-br/products-hexagonal-api/internal/app/dto"
	"github.com/mrops-br/products-hexagonal-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductManagementUseCase is the inbound port driven by transport adapters
type ProductManagementUseCase interface {
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	FindProduct(ctx context.Context, id domain.ProductID) (*dto.ProductResponse, error)
	FindAllProducts(ctx context.Context) ([]*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id domain.ProductID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id domain.ProductID) error
	ActivateProduct(ctx context.Context, id domain.ProductID) (*dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, id domain.ProductID) (*dto.ProductResponse, error)
}

// ProductManagementService handles product use cases
type ProductManagementService struct {
	repo                  domain.ProductRepository
	publisher             domain.ProductEventPublisher
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
	eventsFailed          metric.Int64Counter
}

var _ ProductManagementUseCase = (*ProductManagementService)(nil)

// NewProductManagementService creates a new product service
func NewProductManagementService(
	repo domain.ProductRepository,
	publisher domain.ProductEventPublisher,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductManagementService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	eventsFailed, _ := meter.Int64Counter(
		"products.events.failed",
		metric.WithDescription("Total number of product events that failed to publish"),
	)

	return &ProductManagementService{
		repo:                  repo,
		publisher:             publisher,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
		eventsFailed:          eventsFailed,
	}
}

// CreateProduct creates a new product
func (s *ProductManagementService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.name", req.Name))
	if req.Price != nil {
		span.SetAttributes(attribute.Float64("product.price", req.Price.Float64()))
	}

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
	)

	// Create domain entity
	product, err := domain.NewProduct(domain.NewProductID(), req.Name, req.Price)
	if err != nil {
		s.fail(ctx, span, "create", "Validation failed", err)
		return nil, err
	}

	span.SetAttributes(attribute.String("product.id", product.ID().String()))

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		s.fail(ctx, span, "create", "Failed to store product", err)
		return nil, err
	}

	s.notify(ctx, span, "created", func(ctx context.Context) error {
		return s.publisher.PublishProductCreated(ctx, saved)
	})

	s.productCreatedCounter.Add(ctx, 1)
	s.succeed(ctx, span, "create", "Product created successfully", saved.ID())
	return dto.ToProductResponse(saved), nil
}

// FindProduct retrieves a product by ID
func (s *ProductManagementService) FindProduct(ctx context.Context, id domain.ProductID) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.FindProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	s.logger.InfoContext(ctx, "Getting product by ID",
		slog.String("product_id", id.String()),
	)

	product, err := s.load(ctx, span, "read", id)
	if err != nil {
		return nil, err
	}

	s.succeed(ctx, span, "read", "Product retrieved successfully", id)
	return dto.ToProductResponse(product), nil
}

// FindAllProducts retrieves all products
func (s *ProductManagementService) FindAllProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.FindAllProducts")
	defer span.End()

	s.logger.InfoContext(ctx, "Listing all products")

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.fail(ctx, span, "list", "Failed to retrieve products", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	s.recordOperation(ctx, "list", "success")
	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductResponseList(products), nil
}

// UpdateProduct applies a partial patch to an existing product
func (s *ProductManagementService) UpdateProduct(ctx context.Context, id domain.ProductID, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	return s.mutate(ctx, "ProductService.UpdateProduct", "update", "updated", id,
		func(p *domain.Product) error {
			if req != nil {
				p.Update(req.Name, req.Price)
			}
			return nil
		},
		s.publisher.PublishProductUpdated,
	)
}

// ActivateProduct activates a product; rejected when its price is negative
func (s *ProductManagementService) ActivateProduct(ctx context.Context, id domain.ProductID) (*dto.ProductResponse, error) {
	return s.mutate(ctx, "ProductService.ActivateProduct", "activate", "activated", id,
		(*domain.Product).Activate,
		s.publisher.PublishProductActivated,
	)
}

// DeactivateProduct deactivates a product
func (s *ProductManagementService) DeactivateProduct(ctx context.Context, id domain.ProductID) (*dto.ProductResponse, error) {
	return s.mutate(ctx, "ProductService.DeactivateProduct", "deactivate", "deactivated", id,
		func(p *domain.Product) error {
			p.Deactivate()
			return nil
		},
		s.publisher.PublishProductDeactivated,
	)
}

// DeleteProduct removes an existing product
func (s *ProductManagementService) DeleteProduct(ctx context.Context, id domain.ProductID) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	s.logger.InfoContext(ctx, "Deleting product",
		slog.String("product_id", id.String()),
	)

	if _, err := s.load(ctx, span, "delete", id); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.fail(ctx, span, "delete", "Failed to delete product", err)
		return err
	}

	s.notify(ctx, span, "deleted", func(ctx context.Context) error {
		return s.publisher.PublishProductDeleted(ctx, id)
	})

	s.succeed(ctx, span, "delete", "Product deleted successfully", id)
	return nil
}

// mutate runs the load, change, save, publish sequence shared by the
// single-aggregate write use cases.
func (s *ProductManagementService) mutate(
	ctx context.Context,
	spanName, operation, event string,
	id domain.ProductID,
	change func(p *domain.Product) error,
	publish func(ctx context.Context, p *domain.Product) error,
) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	s.logger.InfoContext(ctx, "Changing product",
		slog.String("product_id", id.String()),
		slog.String("operation", operation),
	)

	product, err := s.load(ctx, span, operation, id)
	if err != nil {
		return nil, err
	}

	if err := change(product); err != nil {
		s.fail(ctx, span, operation, "Rejected by product rules", err)
		return nil, err
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		s.fail(ctx, span, operation, "Failed to store product", err)
		return nil, err
	}

	s.notify(ctx, span, event, func(ctx context.Context) error {
		return publish(ctx, saved)
	})

	span.SetAttributes(attribute.String("product.status", saved.Status().String()))
	s.succeed(ctx, span, operation, "Product "+event+" successfully", id)
	return dto.ToProductResponse(saved), nil
}

// load fetches a product and turns a repository miss into a ProductNotFoundError.
// Any other repository error is returned unchanged.
func (s *ProductManagementService) load(ctx context.Context, span trace.Span, operation string, id domain.ProductID) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return product, nil
	}

	if !errors.Is(err, domain.ErrProductNotFound) {
		s.fail(ctx, span, operation, "Failed to load product", err)
		return nil, err
	}

	notFound := &domain.ProductNotFoundError{ID: id}
	span.RecordError(notFound)
	span.SetStatus(codes.Error, "Product not found")
	s.logger.WarnContext(ctx, "Product not found",
		slog.String("product_id", id.String()),
	)
	s.recordOperation(ctx, operation, "not_found")
	return nil, notFound
}

// notify publishes an event without letting a publisher failure fail the use case
func (s *ProductManagementService) notify(ctx context.Context, span trace.Span, event string, publish func(ctx context.Context) error) {
	if err := publish(ctx); err != nil {
		s.eventsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
		span.AddEvent("product event publish failed", trace.WithAttributes(
			attribute.String("event", event),
			attribute.String("error", err.Error()),
		))
		s.logger.WarnContext(ctx, "Failed to publish product event",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

func (s *ProductManagementService) fail(ctx context.Context, span trace.Span, operation, msg string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)

	result := "failure"
	if errors.Is(err, domain.ErrInvalidProduct) {
		result = "invalid"
		s.logger.WarnContext(ctx, msg,
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.ErrorContext(ctx, msg,
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}

	s.recordOperation(ctx, operation, result)
}

func (s *ProductManagementService) succeed(ctx context.Context, span trace.Span, operation, msg string, id domain.ProductID) {
	s.recordOperation(ctx, operation, "success")
	s.logger.InfoContext(ctx, msg,
		slog.String("product_id", id.String()),
	)
	span.SetStatus(codes.Ok, msg)
}

func (s *ProductManagementService) recordOperation(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
