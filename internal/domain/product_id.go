package domain

import "github.com/google/uuid"

// ProductID is the opaque identity of a Product
type ProductID string

// NewProductID generates a random identifier
func NewProductID() ProductID {
	return ProductID(uuid.New().String())
}

// ProductIDOf wraps a caller supplied identifier verbatim
func ProductIDOf(raw string) ProductID {
	return ProductID(raw)
}

func (id ProductID) String() string {
	return string(id)
}
