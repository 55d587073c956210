package domain

import "fmt"

// ProductStatus is the closed set of states a Product can be in
type ProductStatus string

const (
	StatusActive   ProductStatus = "ACTIVE"
	StatusInactive ProductStatus = "INACTIVE"
)

// ParseProductStatus converts a stored status name back to a ProductStatus
func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(s) {
	case StatusActive, StatusInactive:
		return ProductStatus(s), nil
	default:
		return "", fmt.Errorf("unknown product status %q", s)
	}
}

func (s ProductStatus) String() string {
	return string(s)
}
