package event

import (
	"context"
	"log/slog"

	"github.com/mrops-br/products-hexagonal-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	ProductCreated     = "product.created"
	ProductUpdated     = "product.updated"
	ProductDeleted     = "product.deleted"
	ProductActivated   = "product.activated"
	ProductDeactivated = "product.deactivated"
)

// LoggingPublisher emits product lifecycle events as structured log records,
// span events on the active trace and a per-event counter. Nothing leaves the
// process.
type LoggingPublisher struct {
	logger    *slog.Logger
	published metric.Int64Counter
}

var _ domain.ProductEventPublisher = (*LoggingPublisher)(nil)

// NewLoggingPublisher creates a publisher that writes events to logger
func NewLoggingPublisher(logger *slog.Logger, meter metric.Meter) *LoggingPublisher {
	published, _ := meter.Int64Counter(
		"products.events.published",
		metric.WithDescription("Total number of product events published"),
	)

	return &LoggingPublisher{
		logger:    logger,
		published: published,
	}
}

func (p *LoggingPublisher) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	p.publish(ctx, ProductCreated, product.ID(),
		slog.String("name", product.Name()),
		slog.String("price", product.Price().String()),
		slog.String("status", product.Status().String()),
	)
	return nil
}

func (p *LoggingPublisher) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	p.publish(ctx, ProductUpdated, product.ID(),
		slog.String("name", product.Name()),
		slog.String("price", product.Price().String()),
		slog.String("status", product.Status().String()),
	)
	return nil
}

func (p *LoggingPublisher) PublishProductDeleted(ctx context.Context, id domain.ProductID) error {
	p.publish(ctx, ProductDeleted, id)
	return nil
}

func (p *LoggingPublisher) PublishProductActivated(ctx context.Context, product *domain.Product) error {
	p.publish(ctx, ProductActivated, product.ID(),
		slog.String("status", product.Status().String()),
	)
	return nil
}

func (p *LoggingPublisher) PublishProductDeactivated(ctx context.Context, product *domain.Product) error {
	p.publish(ctx, ProductDeactivated, product.ID(),
		slog.String("status", product.Status().String()),
	)
	return nil
}

func (p *LoggingPublisher) publish(ctx context.Context, event string, id domain.ProductID, attrs ...slog.Attr) {
	trace.SpanFromContext(ctx).AddEvent(event, trace.WithAttributes(
		attribute.String("product.id", id.String()),
	))

	p.published.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))

	args := make([]any, 0, len(attrs)+2)
	args = append(args, slog.String("event", event), slog.String("product_id", id.String()))
	for _, a := range attrs {
		args = append(args, a)
	}
	p.logger.InfoContext(ctx, "Product event published", args...)
}
