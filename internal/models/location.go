package models

import (
	"bytes"
	"encoding/json"
	"slices"
)

// LatLng represents a pair of coordinates
type LatLng struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

// SavedLocation represents one saved search configuration of a user
type SavedLocation struct {
	LatLng           *LatLng    `json:"LatLng"`
	TextQuery        string     `json:"TextQuery,omitempty"`
	Radius           uint       `json:"Radius"`
	PlacesCategories Categories `json:"PlacesCategories"`
	Title            string     `json:"Title,omitempty"`
	EditMode         bool       `json:"EditMode"`
	Places           []string   `json:"Places"`
}

// HasPosition reports whether the location has coordinates or a text query
func (l *SavedLocation) HasPosition() bool {
	return l.LatLng != nil || l.TextQuery != ""
}

// SearchReady reports whether the location has every field a search needs
func (l *SavedLocation) SearchReady() bool {
	return l.HasPosition() && l.Radius > 0 && l.PlacesCategories.IsSet()
}

// Clone returns a deep copy of the location
func (l SavedLocation) Clone() SavedLocation {
	if l.LatLng != nil {
		latLng := *l.LatLng
		l.LatLng = &latLng
	}
	l.PlacesCategories = l.PlacesCategories.Clone()
	l.Places = slices.Clone(l.Places)
	return l
}

// Categories is the selected category set of a location.
// The zero value is unset, which is different from a set but empty selection.
type Categories struct {
	set   bool
	items []string
}

// CategoriesOf returns a set selection holding the given categories
func CategoriesOf(items ...string) Categories {
	return Categories{set: true, items: append([]string{}, items...)}
}

// IsSet reports whether the selection was configured
func (c Categories) IsSet() bool {
	return c.set
}

// Items returns a copy of the selected categories, nil when unset
func (c Categories) Items() []string {
	if !c.set {
		return nil
	}
	return append([]string{}, c.items...)
}

// Len returns the number of selected categories
func (c Categories) Len() int {
	return len(c.items)
}

// Contains reports whether the category is selected
func (c Categories) Contains(category string) bool {
	return slices.Contains(c.items, category)
}

// With returns a set selection with the category appended if missing
func (c Categories) With(category string) Categories {
	next := CategoriesOf(c.items...)
	if !next.Contains(category) {
		next.items = append(next.items, category)
	}
	return next
}

// Without returns a set selection with the category removed
func (c Categories) Without(category string) Categories {
	next := CategoriesOf()
	for _, item := range c.items {
		if item != category {
			next.items = append(next.items, item)
		}
	}
	return next
}

// Clone returns a deep copy of the selection
func (c Categories) Clone() Categories {
	if !c.set {
		return Categories{}
	}
	return CategoriesOf(c.items...)
}

// MarshalJSON encodes an unset selection as null and a set one as an array
func (c Categories) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return json.Marshal(append([]string{}, c.items...))
}

// UnmarshalJSON decodes null as unset and any array as set
func (c *Categories) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Categories{}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = CategoriesOf(items...)
	return nil
}
