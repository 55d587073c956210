package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/products-hexagonal-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// Stored products are copied on the way in and out so callers never share state
// with the store.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[domain.ProductID]*domain.Product
	order    []domain.ProductID
	tracer   trace.Tracer
	logger   *slog.Logger
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[domain.ProductID]*domain.Product),
		tracer:   tracer,
		logger:   logger,
	}
}

// Save inserts a new product or replaces the stored one with the same ID
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID().String()),
		attribute.String("product.name", product.Name()),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID()]; !exists {
		r.order = append(r.order, product.ID())
	}
	r.products[product.ID()] = product.Clone()

	r.logger.InfoContext(ctx, "Product saved in repository",
		slog.String("product_id", product.ID().String()),
		slog.String("product_name", product.Name()),
	)

	span.SetStatus(codes.Ok, "Product saved successfully")
	return product.Clone(), nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id.String()),
		)
		return nil, domain.ErrProductNotFound
	}

	r.logger.DebugContext(ctx, "Product found in repository",
		slog.String("product_id", id.String()),
		slog.String("product_name", product.Name()),
	)

	span.SetStatus(codes.Ok, "Product found")
	return product.Clone(), nil
}

// FindAll retrieves all products in insertion order
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id].Clone())
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.InfoContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// DeleteByID removes a product; deleting an unknown ID is a no-op
func (r *ProductRepository) DeleteByID(ctx context.Context, id domain.ProductID) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; exists {
		delete(r.products, id)
		for i, existing := range r.order {
			if existing == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}
