package commands

import (
	"fmt"
	"strconv"
	"strings"

	"goaround-bot/internal/models"
)

// Slash commands
const (
	Start     = "/start"
	Locations = "/locations"
	Language  = "/language"
	Search    = "/search"
)

// SlashCommands lists the commands registered with Telegram with their description keys
var SlashCommands = []struct {
	Command     string
	Description string
}{
	{Start, "CommandStart"},
	{Locations, "CommandLocations"},
	{Language, "CommandLanguage"},
}

// IsCommand reports whether text is a slash command, known or not
func IsCommand(text string) bool {
	return strings.HasPrefix(CommandName(text), "/")
}

// CommandName returns the first word of a command message without a bot mention
func CommandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return name
}

// Action is a button press handled by the bot
type Action string

// Callback actions
const (
	GoToMenu                Action = "GoToMenu"
	GoAround                Action = "GoAround"
	EnterOrSendLocation     Action = "EnterOrSendLocation"
	GoAroundLocation        Action = "GoAroundLocation"
	LocationInfo            Action = "LocInf"
	PlaceInfo               Action = "PlaceInf"
	ConfirmPlacesCategories Action = "ConfirmPlacesCategories"
	RemoveLocation          Action = "RemoveLocation"
	SelectPlacesCategory    Action = "SelLocPlcCat"
	ToLocationsList         Action = "ToLocationsList"
	SetLanguage             Action = "SetLang"
	SetSearchMode           Action = "SetSearchMode"
	ClearLocations          Action = "ClearLocations"
	PlaceQR                 Action = "PlaceQR"
)

type argument int

const (
	argLocation argument = iota
	argPlace
	argCategory
	argLanguage
	argSwitch
)

// actionArguments is the argument list every action carries, in order
var actionArguments = map[Action][]argument{
	GoToMenu:                nil,
	GoAround:                nil,
	EnterOrSendLocation:     nil,
	GoAroundLocation:        {argLocation},
	LocationInfo:            {argLocation},
	PlaceInfo:               {argLocation, argPlace},
	ConfirmPlacesCategories: {argLocation},
	RemoveLocation:          {argLocation},
	SelectPlacesCategory:    {argLocation, argCategory},
	ToLocationsList:         nil,
	SetLanguage:             {argLanguage},
	SetSearchMode:           {argSwitch},
	ClearLocations:          nil,
	PlaceQR:                 {argLocation, argPlace},
}

// Callback is a parsed button press
type Callback struct {
	Action     Action
	LocationID string
	PlaceID    string
	Category   string
	Language   models.Language
	Enabled    bool
}

// ParseCallback parses the data of a button press
func ParseCallback(data string) (Callback, error) {
	fields := strings.Fields(data)
	if len(fields) == 0 {
		return Callback{}, fmt.Errorf("empty callback data")
	}

	action := Action(fields[0])
	arguments, ok := actionArguments[action]
	if !ok {
		return Callback{}, fmt.Errorf("unknown callback action %q", fields[0])
	}
	if len(fields)-1 != len(arguments) {
		return Callback{}, fmt.Errorf("callback %s expects %d arguments, got %d", action, len(arguments), len(fields)-1)
	}

	cb := Callback{Action: action}
	for i, arg := range arguments {
		value := fields[i+1]
		switch arg {
		case argLocation:
			cb.LocationID = value
		case argPlace:
			cb.PlaceID = value
		case argCategory:
			if !models.IsKnownCategory(value) {
				return Callback{}, fmt.Errorf("unknown category %q", value)
			}
			cb.Category = value
		case argLanguage:
			lang, valid := models.ParseLanguage(value)
			if !valid {
				return Callback{}, fmt.Errorf("unknown language %q", value)
			}
			cb.Language = lang
		case argSwitch:
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return Callback{}, fmt.Errorf("invalid switch value %q", value)
			}
			cb.Enabled = enabled
		}
	}
	return cb, nil
}

// Data encodes the callback as button data
func (c Callback) Data() string {
	parts := []string{string(c.Action)}
	for _, arg := range actionArguments[c.Action] {
		switch arg {
		case argLocation:
			parts = append(parts, c.LocationID)
		case argPlace:
			parts = append(parts, c.PlaceID)
		case argCategory:
			parts = append(parts, c.Category)
		case argLanguage:
			parts = append(parts, string(c.Language))
		case argSwitch:
			if c.Enabled {
				parts = append(parts, "True")
			} else {
				parts = append(parts, "False")
			}
		}
	}
	return strings.Join(parts, " ")
}

// Data builds button data for an action without arguments
func Data(action Action) string {
	return Callback{Action: action}.Data()
}

// LocationData builds button data for an action on a location
func LocationData(action Action, locationID string) string {
	return Callback{Action: action, LocationID: locationID}.Data()
}

// PlaceData builds button data for an action on a place of a location
func PlaceData(action Action, locationID, placeID string) string {
	return Callback{Action: action, LocationID: locationID, PlaceID: placeID}.Data()
}

// CategoryData builds button data toggling a category of a location
func CategoryData(locationID, category string) string {
	return Callback{Action: SelectPlacesCategory, LocationID: locationID, Category: category}.Data()
}
