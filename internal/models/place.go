package models

// LocalizedText is a provider text value with its language
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// PlacePhoto references a photo of a place
type PlacePhoto struct {
	Name          string `json:"name"`
	WidthPx       int    `json:"widthPx,omitempty"`
	HeightPx      int    `json:"heightPx,omitempty"`
	GoogleMapsURI string `json:"googleMapsUri,omitempty"`
}

// PlaceLinks holds provider deep links of a place
type PlaceLinks struct {
	DirectionsURI string `json:"directionsUri,omitempty"`
	PlaceURI      string `json:"placeUri,omitempty"`
	ReviewsURI    string `json:"reviewsUri,omitempty"`
	PhotosURI     string `json:"photosUri,omitempty"`
}

// PlaceLatLng is the coordinate shape used by the places provider
type PlaceLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place represents a cached nearby-search result
type Place struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	DisplayName      *LocalizedText `json:"displayName,omitempty"`
	Types            []string       `json:"types,omitempty"`
	PrimaryType      string         `json:"primaryType,omitempty"`
	FormattedAddress string         `json:"formattedAddress,omitempty"`
	Location         *PlaceLatLng   `json:"location,omitempty"`
	Rating           float64        `json:"rating,omitempty"`
	UserRatingCount  int            `json:"userRatingCount,omitempty"`
	GoogleMapsURI    string         `json:"googleMapsUri,omitempty"`
	WebsiteURI       string         `json:"websiteUri,omitempty"`
	Photos           []PlacePhoto   `json:"photos,omitempty"`
	GoogleMapsLinks  *PlaceLinks    `json:"googleMapsLinks,omitempty"`
}

// Title returns the display name of the place, falling back to its resource name
func (p *Place) Title() string {
	if p.DisplayName != nil && p.DisplayName.Text != "" {
		return p.DisplayName.Text
	}
	return p.Name
}

// ReviewsURI returns the reviews link of the place if the provider sent one
func (p *Place) ReviewsURI() string {
	if p.GoogleMapsLinks == nil {
		return ""
	}
	return p.GoogleMapsLinks.ReviewsURI
}

// NearbySearchRequest describes one nearby-search call
type NearbySearchRequest struct {
	Center        LatLng
	Radius        uint
	IncludedTypes []string
	LanguageCode  string
	RegionCode    string
}

// GeocodeResult is one candidate returned by forward or reverse geocoding
type GeocodeResult struct {
	PlaceID          string
	FormattedAddress string
	Location         LatLng
	Types            []string
}
