package domain

import "context"

// ProductEventPublisher is notified after each successful product lifecycle change.
// Callers treat publishing as fire-and-forget.
type ProductEventPublisher interface {
	PublishProductCreated(ctx context.Context, product *Product) error
	PublishProductUpdated(ctx context.Context, product *Product) error
	PublishProductDeleted(ctx context.Context, id ProductID) error
	PublishProductActivated(ctx context.Context, product *Product) error
	PublishProductDeactivated(ctx context.Context, product *Product) error
}
