package model

import "strings"

// PropertyStatus tracks the sales lifecycle of a listing. PENDING marks a
// property under reservation but not yet sold.
type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "AVAILABLE"
	StatusPending   PropertyStatus = "PENDING"
	StatusSold      PropertyStatus = "SOLD"
)

// ParsePropertyStatus normalizes a user-supplied status string. The second
// return value is false for unknown values so callers can reject them.
func ParsePropertyStatus(s string) (PropertyStatus, bool) {
	switch PropertyStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusAvailable:
		return StatusAvailable, true
	case StatusPending:
		return StatusPending, true
	case StatusSold:
		return StatusSold, true
	}
	return "", false
}

// PropertyType classifies house listings.
type PropertyType string

const (
	TypeHouse      PropertyType = "HOUSE"
	TypeApartment  PropertyType = "APARTMENT"
	TypeVilla      PropertyType = "VILLA"
	TypeCommercial PropertyType = "COMMERCIAL"
)

// ParsePropertyType normalizes a user-supplied type string.
func ParsePropertyType(s string) (PropertyType, bool) {
	switch PropertyType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeHouse:
		return TypeHouse, true
	case TypeApartment:
		return TypeApartment, true
	case TypeVilla:
		return TypeVilla, true
	case TypeCommercial:
		return TypeCommercial, true
	}
	return "", false
}
