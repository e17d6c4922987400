package snpsap

import (
	"encoding/json"
	"fmt"
)

// ExternalID is the upstream identifier of a catalog item. The SNPSAP API is
// inconsistent about the wire type (some catalogs use numbers, others use
// strings), so it is kept as an opaque string.
type ExternalID string

// UnmarshalJSON accepts both JSON numbers and JSON strings.
func (e *ExternalID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = ExternalID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("external id must be a number or a string: %w", err)
	}
	*e = ExternalID(n.String())
	return nil
}

// String returns the id as a string.
func (e ExternalID) String() string {
	return string(e)
}

// CatalogItem is a single record of an upstream catalog as returned by the
// SNPSAP API.
type CatalogItem struct {
	ID          ExternalID `json:"id"`
	Description string     `json:"descripcion"`
}
