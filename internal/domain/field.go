package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType is the closed set of field sizes an event can be played on.
type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeFutbol5
	FieldTypeFutbol7
	FieldTypeFutbol11
)

// fieldTypeNames maps each field type to its API name and storage code.
var fieldTypeNames = map[FieldType]struct{ api, code string }{
	FieldTypeFutbol5:  {"futbol5", "F5"},
	FieldTypeFutbol7:  {"futbol7", "F7"},
	FieldTypeFutbol11: {"futbol11", "F11"},
}

// FieldTypes returns every supported field type, smallest first.
func FieldTypes() []FieldType {
	return []FieldType{FieldTypeFutbol5, FieldTypeFutbol7, FieldTypeFutbol11}
}

// ParseFieldType maps an API name ("futbol7") to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for ft, n := range fieldTypeNames {
		if n.api == name {
			return ft, nil
		}
	}
	return FieldTypeUnknown, NewValidationError("unsupported field type %q", s)
}

// FieldTypeFromCode maps a storage code ("F7") to a FieldType.
func FieldTypeFromCode(code string) (FieldType, error) {
	for ft, n := range fieldTypeNames {
		if n.code == code {
			return ft, nil
		}
	}
	return FieldTypeUnknown, NewValidationError("unknown field type code %q", code)
}

func (ft FieldType) Valid() bool {
	_, ok := fieldTypeNames[ft]
	return ok
}

// String returns the API name.
func (ft FieldType) String() string {
	if n, ok := fieldTypeNames[ft]; ok {
		return n.api
	}
	return fmt.Sprintf("FieldType(%d)", int(ft))
}

// Code returns the storage code. It panics on an invalid value since only
// parsed field types may reach a store.
func (ft FieldType) Code() string {
	n, ok := fieldTypeNames[ft]
	if !ok {
		panic(fmt.Sprintf("domain: no storage code for %s", ft))
	}
	return n.code
}

func (ft FieldType) MarshalJSON() ([]byte, error) {
	if !ft.Valid() {
		return nil, NewValidationError("cannot encode invalid field type %d", int(ft))
	}
	return json.Marshal(ft.String())
}

func (ft *FieldType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseFieldType(s)
	if err != nil {
		return err
	}
	*ft = parsed
	return nil
}

// GeoPoint is a WGS84 coordinate pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the coordinate bounds.
func (p GeoPoint) Valid() bool {
	// NaN fails every comparison, so it is rejected here too.
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Field is the hosting field's metadata. It is owned by another system and only
// read here.
// swagger:model Field
type Field struct {
	ID             string    `json:"id"`
	BusinessName   string    `json:"business_name"`
	Address        string    `json:"address"`
	Location       *GeoPoint `json:"location,omitempty"`
	PricePerPlayer *float64  `json:"price_per_player,omitempty"`
	Rating         *float64  `json:"rating,omitempty"`
	TimeZone       string    `json:"time_zone,omitempty"`
}

// FieldRepository reads field metadata. Implementations return ErrNotFound
// (by kind) for unknown ids.
type FieldRepository interface {
	GetByID(ctx context.Context, id string) (*Field, error)
}
