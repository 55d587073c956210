package domain

import "strings"

// Product is the catalog aggregate root. All state changes go through its methods
// so that a product is never ACTIVE while its price is negative.
type Product struct {
	id     ProductID
	name   string
	price  Money
	status ProductStatus
}

// NewProduct validates name and price and derives the initial status:
// INACTIVE when the price is negative, ACTIVE otherwise.
func NewProduct(id ProductID, name string, price *Money) (*Product, error) {
	if isBlank(name) {
		return nil, ErrEmptyProductName
	}
	if price == nil {
		return nil, ErrMissingProductPrice
	}

	status := StatusActive
	if price.IsNegative() {
		status = StatusInactive
	}

	return &Product{
		id:     id,
		name:   name,
		price:  *price,
		status: status,
	}, nil
}

// RestoreProduct rebuilds a product from previously persisted state
func RestoreProduct(id ProductID, name string, price Money, status ProductStatus) *Product {
	return &Product{
		id:     id,
		name:   name,
		price:  price,
		status: status,
	}
}

func (p *Product) ID() ProductID         { return p.id }
func (p *Product) Name() string          { return p.name }
func (p *Product) Price() Money          { return p.price }
func (p *Product) Status() ProductStatus { return p.status }

// Update applies a partial patch. A nil or blank name leaves the name untouched.
// A negative price forces an active product to INACTIVE; a non-negative price
// never re-activates it, only Activate does.
func (p *Product) Update(name *string, price *Money) {
	if name != nil && !isBlank(*name) {
		p.name = *name
	}

	if price != nil {
		p.price = *price
		if p.status == StatusActive && price.IsNegative() {
			p.status = StatusInactive
		}
	}
}

// Activate marks the product ACTIVE unless its price is negative
func (p *Product) Activate() error {
	if p.price.IsNegative() {
		return ErrNegativePriceActive
	}
	p.status = StatusActive
	return nil
}

func (p *Product) Deactivate() {
	p.status = StatusInactive
}

// Clone returns an independent copy
func (p *Product) Clone() *Product {
	clone := *p
	return &clone
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
