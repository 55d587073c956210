package dto

import (
	"github.com/mrops-br/products-hexagonal-api/internal/domain"
)

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Name  string        `json:"name"`
	Price *domain.Money `json:"price"`
}

// UpdateProductRequest is a partial patch; nil fields are left unchanged
type UpdateProductRequest struct {
	Name  *string       `json:"name,omitempty"`
	Price *domain.Money `json:"price,omitempty"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Price  domain.Money `json:"price"`
	Status string       `json:"status"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:     p.ID().String(),
		Name:   p.Name(),
		Price:  p.Price(),
		Status: p.Status().String(),
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
