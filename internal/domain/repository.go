package domain

import (
	"context"
)

// ProductRepository defines the contract for product storage
type ProductRepository interface {
	// FindByID returns ErrProductNotFound when no product has the given id
	FindByID(ctx context.Context, id ProductID) (*Product, error)
	// FindAll returns products in creation order
	FindAll(ctx context.Context) ([]*Product, error)
	// Save inserts or replaces the product with the same id
	Save(ctx context.Context, product *Product) (*Product, error)
	DeleteByID(ctx context.Context, id ProductID) error
}
