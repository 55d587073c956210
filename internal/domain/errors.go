package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

var (
	ErrEmptyProductName    = &InvalidProductError{Reason: "Product name cannot be empty"}
	ErrMissingProductPrice = &InvalidProductError{Reason: "Product price is required"}
	ErrNegativePriceActive = &InvalidProductError{Reason: "Cannot activate product with negative price"}
)

// InvalidProductError reports a rejected change that would break a Product invariant
type InvalidProductError struct {
	Reason string
}

func (e *InvalidProductError) Error() string {
	return e.Reason
}

func (e *InvalidProductError) Is(target error) bool {
	return target == ErrInvalidProduct
}

// ProductNotFoundError reports that no Product exists for ID
type ProductNotFoundError struct {
	ID ProductID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product not found with id: %s", e.ID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
