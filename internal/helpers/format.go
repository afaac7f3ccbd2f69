package helpers

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"goaround-bot/internal/i18n"
	"goaround-bot/internal/models"
)

// FormatCoordinate prints a coordinate with the shortest exact representation
func FormatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// LocationTitle returns the list label of a saved location
func LocationTitle(bundle *i18n.Bundle, lang models.Language, location models.SavedLocation) string {
	switch {
	case location.Title != "":
		return location.Title
	case location.TextQuery != "":
		return fmt.Sprintf("%s %s", bundle.Get(lang, "LocationAt"), location.TextQuery)
	case location.LatLng != nil:
		return fmt.Sprintf("%s %s %s", bundle.Get(lang, "LocationAt"),
			FormatCoordinate(location.LatLng.Latitude), FormatCoordinate(location.LatLng.Longitude))
	default:
		return bundle.Get(lang, "UnknownLocation")
	}
}

// CategoryNames returns the localized names of the given category keys
func CategoryNames(bundle *i18n.Bundle, lang models.Language, keys []string) []string {
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, bundle.Category(lang, key))
	}
	return names
}

// FormatLocationDetails formats the detail view of a saved location as HTML
func FormatLocationDetails(bundle *i18n.Bundle, lang models.Language, location models.SavedLocation) string {
	var sb strings.Builder

	title := location.Title
	if title == "" {
		title = bundle.Get(lang, "UnknownLocation")
	}
	sb.WriteString(fmt.Sprintf("📍 <b>%s</b>\n\n", html.EscapeString(title)))

	if location.LatLng != nil {
		sb.WriteString(fmt.Sprintf("%s: <code>%s</code>\n", bundle.Get(lang, "Longitude"), FormatCoordinate(location.LatLng.Longitude)))
		sb.WriteString(fmt.Sprintf("%s: <code>%s</code>\n\n", bundle.Get(lang, "Latitude"), FormatCoordinate(location.LatLng.Latitude)))
	}

	if location.TextQuery != "" {
		sb.WriteString(fmt.Sprintf("%s: %s\n\n", bundle.Get(lang, "Query"), html.EscapeString(location.TextQuery)))
	}

	if location.Radius > 0 {
		sb.WriteString(fmt.Sprintf("%s: %d %s\n\n", bundle.Get(lang, "Radius"), location.Radius, bundle.Get(lang, "Meters")))
	}

	if location.PlacesCategories.Len() > 0 {
		names := CategoryNames(bundle, lang, location.PlacesCategories.Items())
		sb.WriteString(fmt.Sprintf("%s: %s\n", bundle.Get(lang, "SelectedCategories"), strings.Join(names, ", ")))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatPlaceCaption formats the caption of a place card as HTML
func FormatPlaceCaption(bundle *i18n.Bundle, lang models.Language, place *models.Place) string {
	var sb strings.Builder

	if title := place.Title(); title != "" {
		sb.WriteString(fmt.Sprintf("<b>%s</b>\n\n", html.EscapeString(title)))
	}

	if place.Rating > 0 {
		sb.WriteString(fmt.Sprintf("%s: %.1f⭐️", bundle.Get(lang, "Rating"), place.Rating))
		if place.UserRatingCount > 0 {
			sb.WriteString(fmt.Sprintf(" (%d)", place.UserRatingCount))
		}
		sb.WriteString("\n\n")
	}

	if place.FormattedAddress != "" {
		sb.WriteString(fmt.Sprintf("%s: %s\n", bundle.Get(lang, "Address"), html.EscapeString(place.FormattedAddress)))
	}

	return strings.TrimRight(sb.String(), "\n")
}
