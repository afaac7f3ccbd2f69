package constants

import "time"

const (
	// Session constants
	SessionTTL       = 30 * 24 * time.Hour
	SessionKeyFormat = "session:%d"
	GlobalKey        = "global"
	PlaceKeyPrefix   = "place:"

	// Session hash fields
	FieldLocations          = "Locations"
	FieldWorkingStage       = "WorkingStage"
	FieldLanguage           = "Language"
	FieldPromptMessage      = "ReplyKeyboardMarkupMessage"
	FieldSearchEnabled      = "searchEnabled"
	SearchEnabledValue      = "True"
	SearchDisabledValue     = "False"
	EmptyLocationsBlob      = "{}"
	LocationIDLength        = 8
	LocationIDMaxAttempts   = 16
	DefaultPlaceCacheSize   = 1000
	DefaultHTTPCacheTTL     = 24 * time.Hour
	HTTPCacheKeyPrefix      = "httpcache:"
	MemoryCleanupInterval   = 10 * time.Minute
	DefaultSnapshotFileMode = 0644

	// Radius constants
	MinRadius = 1
	MaxRadius = 50000

	// Network constants
	DefaultTimeout          = 30
	DefaultRetryCount       = 3
	DefaultRetryWaitTime    = 1
	DefaultRetryMaxWaitTime = 10

	// Provider defaults
	DefaultGeocodingURL = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultPlacesURL    = "https://places.googleapis.com/v1/places:searchNearby"
	DefaultPhotoURL     = "https://places.googleapis.com/v1"
	PlaceholderPhotoURL = "https://placehold.co/600x400/png?text=GoAround"
	DefaultLanguageCode = "uk"
	DefaultRegionCode   = "UA"
	PhotoMaxWidthPx     = 800

	// Keyboard constants
	CategoriesPerRow      = 2
	MaxCategoryLabelShort = 15

	// Formatting constants
	TimestampFormat = "2006-01-02 15:04:05"
)

// RadiusOptions are offered as quick replies on the radius prompt
var RadiusOptions = []uint{500, 1000, 1500, 2000, 2500, 3000}
