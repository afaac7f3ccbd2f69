package models

import "strings"

// WorkingStage represents what the conversation expects as the next user input
type WorkingStage string

const (
	// StageIdle means the user is in the menu and no input is expected
	StageIdle WorkingStage = ""
	// StageEnterLocation is the stage when the user is sharing a location or typing an address
	StageEnterLocation WorkingStage = "ENTER_LOCATION"
	// StageEnterRadius is the stage when the user is typing a search radius
	StageEnterRadius WorkingStage = "ENTER_RADIUS"
	// StageEnterPlacesCategories is the stage when the user is toggling place categories
	StageEnterPlacesCategories WorkingStage = "ENTER_PLACES_CATEGORIES"
	// StageEnterTextQuery is reserved; no flow enters it
	StageEnterTextQuery WorkingStage = "ENTER_TEXT_QUERY"
)

// ParseWorkingStage parses a persisted stage value
func ParseWorkingStage(value string) (WorkingStage, bool) {
	switch stage := WorkingStage(strings.TrimSpace(value)); stage {
	case StageIdle, StageEnterLocation, StageEnterRadius, StageEnterPlacesCategories, StageEnterTextQuery:
		return stage, true
	default:
		return StageIdle, false
	}
}

// String returns the stage name, IDLE for the empty stage
func (s WorkingStage) String() string {
	if s == StageIdle {
		return "IDLE"
	}
	return string(s)
}

// Language represents the interface locale of a user
type Language string

const (
	English   Language = "ENGLISH"
	Ukrainian Language = "UKRAINIAN"
)

// DefaultLanguage is used when nothing valid is stored for a user
const DefaultLanguage = Ukrainian

// Languages lists the supported interface languages in selector order
var Languages = []Language{English, Ukrainian}

// ParseLanguage parses a persisted language value
func ParseLanguage(value string) (Language, bool) {
	switch lang := Language(strings.ToUpper(strings.TrimSpace(value))); lang {
	case English, Ukrainian:
		return lang, true
	default:
		return DefaultLanguage, false
	}
}

// Code returns the short locale code used for translations
func (l Language) Code() string {
	switch l {
	case English:
		return "en"
	default:
		return "uk"
	}
}
