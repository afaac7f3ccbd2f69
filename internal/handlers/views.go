package handlers

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/commands"
	"goaround-bot/internal/constants"
	"goaround-bot/internal/helpers"
	"goaround-bot/internal/models"
	"goaround-bot/internal/services"
)

func (c *Controller) showMenu(ctx context.Context, ev Event, lang models.Language) error {
	locations, err := c.locations.GetAll(ctx, ev.UserID)
	if err != nil {
		return err
	}

	rows := [][]Button{
		{{Text: c.bundle.Get(lang, "GoAround"), Data: commands.Data(commands.GoAround)}},
	}
	if len(locations) > 0 {
		rows = append(rows, []Button{{Text: c.bundle.Get(lang, "ViewSavedLocations"), Data: commands.Data(commands.ToLocationsList)}})
	}

	return c.render(ctx, ev, View{Text: c.bundle.Get(lang, "HelloMessage"), Inline: rows})
}

// showGoAround offers a new or a saved location; users without locations go straight to the location request
func (c *Controller) showGoAround(ctx context.Context, ev Event, lang models.Language) error {
	locations, err := c.locations.GetAll(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		return c.requestLocation(ctx, ev, lang)
	}

	return c.render(ctx, ev, View{
		Text: c.bundle.Get(lang, "EnterLocation"),
		Inline: [][]Button{
			{{Text: c.bundle.Get(lang, "EnterLocationShort"), Data: commands.Data(commands.EnterOrSendLocation)}},
			{{Text: c.bundle.Get(lang, "UseSavedLocations"), Data: commands.Data(commands.ToLocationsList)}},
			{{Text: c.bundle.Get(lang, "BackToMenu"), Data: commands.Data(commands.GoToMenu)}},
		},
	})
}

func (c *Controller) showLocations(ctx context.Context, ev Event, lang models.Language) error {
	locations, err := c.locations.GetAll(ctx, ev.UserID)
	if err != nil {
		return err
	}

	if len(locations) == 0 {
		return c.render(ctx, ev, View{
			Text: c.bundle.Get(lang, "DontHaveSavedLocations"),
			Inline: [][]Button{
				{{Text: c.bundle.Get(lang, "GoAround"), Data: commands.Data(commands.GoAround)}},
				{{Text: c.bundle.Get(lang, "BackToMenu"), Data: commands.Data(commands.GoToMenu)}},
			},
		})
	}

	rows := make([][]Button, 0, len(locations)+2)
	for _, id := range services.SortedLocationIDs(locations) {
		rows = append(rows, []Button{{
			Text: helpers.LocationTitle(c.bundle, lang, locations[id]),
			Data: commands.LocationData(commands.LocationInfo, id),
		}})
	}
	rows = append(rows,
		[]Button{{Text: c.bundle.Get(lang, "ClearLocations"), Data: commands.Data(commands.ClearLocations)}},
		[]Button{{Text: c.bundle.Get(lang, "BackToMenu"), Data: commands.Data(commands.GoToMenu)}},
	)

	return c.render(ctx, ev, View{Text: c.bundle.Get(lang, "SavedLocations"), Inline: rows})
}

// showLocation renders the detail view of a location, notice is prepended when set
func (c *Controller) showLocation(ctx context.Context, ev Event, lang models.Language, locationID, notice string) error {
	location, err := c.locations.Get(ctx, ev.UserID, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return c.render(ctx, ev, c.locationNotFoundView(lang))
	}

	text := helpers.FormatLocationDetails(c.bundle, lang, *location)
	if notice != "" {
		text = notice + "\n\n" + text
	}

	var rows [][]Button
	if len(location.Places) == 0 {
		rows = append(rows, []Button{{Text: c.bundle.Get(lang, "GoAround"), Data: commands.LocationData(commands.GoAroundLocation, locationID)}})
	} else {
		rows = append(rows, []Button{{
			Text: fmt.Sprintf("%s (%d)", c.bundle.Get(lang, "GetPlaces"), len(location.Places)),
			Data: commands.PlaceData(commands.PlaceInfo, locationID, location.Places[0]),
		}})
	}
	rows = append(rows,
		[]Button{{Text: c.bundle.Get(lang, "Remove"), Data: commands.LocationData(commands.RemoveLocation, locationID)}},
		[]Button{{Text: c.bundle.Get(lang, "ViewSavedLocations"), Data: commands.Data(commands.ToLocationsList)}},
	)

	return c.render(ctx, ev, View{Text: text, Inline: rows})
}

func (c *Controller) locationNotFoundView(lang models.Language) View {
	return View{
		Text: c.bundle.Get(lang, "LocationNotFound"),
		Inline: [][]Button{
			{{Text: c.bundle.Get(lang, "ViewSavedLocations"), Data: commands.Data(commands.ToLocationsList)}},
		},
	}
}

// showPlace renders one place of a location's results; an unknown place ID shows the first place
func (c *Controller) showPlace(ctx context.Context, ev Event, lang models.Language, locationID, placeID string) error {
	location, err := c.locations.Get(ctx, ev.UserID, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return c.render(ctx, ev, c.locationNotFoundView(lang))
	}
	if len(location.Places) == 0 {
		return c.showLocation(ctx, ev, lang, locationID, "")
	}

	index := slices.Index(location.Places, placeID)
	if index < 0 {
		index = 0
	}
	placeID = location.Places[index]

	place, err := c.places.Get(ctx, placeID)
	if err != nil {
		return err
	}

	var rows [][]Button
	view := View{Text: c.bundle.Get(lang, "PlaceNotFound")}
	if place != nil {
		view.Text = helpers.FormatPlaceCaption(c.bundle, lang, place)
		view.Photo = c.placePhoto(ctx, place)

		if uri := place.ReviewsURI(); uri != "" {
			rows = append(rows, []Button{{Text: c.bundle.Get(lang, "Reviews"), URL: uri}})
		}
		if place.GoogleMapsURI != "" {
			rows = append(rows, []Button{{Text: c.bundle.Get(lang, "GoogleMaps"), URL: place.GoogleMapsURI}})
			rows = append(rows, []Button{{Text: c.bundle.Get(lang, "ShareQR"), Data: commands.PlaceData(commands.PlaceQR, locationID, placeID)}})
		}
	}

	var navigation []Button
	if index > 0 {
		navigation = append(navigation, Button{
			Text: "« " + c.bundle.Get(lang, "PreviousPlace"),
			Data: commands.PlaceData(commands.PlaceInfo, locationID, location.Places[index-1]),
		})
	}
	if index < len(location.Places)-1 {
		navigation = append(navigation, Button{
			Text: c.bundle.Get(lang, "NextPlace") + " »",
			Data: commands.PlaceData(commands.PlaceInfo, locationID, location.Places[index+1]),
		})
	}
	if len(navigation) > 0 {
		rows = append(rows, navigation)
	}
	rows = append(rows, []Button{{Text: c.bundle.Get(lang, "Back"), Data: commands.LocationData(commands.LocationInfo, locationID)}})
	view.Inline = rows

	return c.render(ctx, ev, view)
}

// placePhoto downloads the first photo of a place, falling back to the placeholder image
func (c *Controller) placePhoto(ctx context.Context, place *models.Place) *Photo {
	if c.photos == nil || len(place.Photos) == 0 || place.Photos[0].Name == "" {
		return &Photo{URL: constants.PlaceholderPhotoURL}
	}

	data, err := c.photos.FetchPhoto(ctx, place.Photos[0].Name)
	if err != nil {
		c.logger.WithField("place_id", place.ID).Warnf("Failed to fetch photo: %v", err)
		return &Photo{URL: constants.PlaceholderPhotoURL}
	}
	return &Photo{Data: data}
}

// sendPlaceQR sends a QR code of the place's map link as a new message
func (c *Controller) sendPlaceQR(ctx context.Context, ev Event, lang models.Language, locationID, placeID string) error {
	place, err := c.places.Get(ctx, placeID)
	if err != nil {
		return err
	}
	if place == nil {
		return c.showPlace(ctx, ev, lang, locationID, placeID)
	}

	png, err := c.qr.PlaceQR(place)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"user_id": ev.UserID, "place_id": placeID}).Warnf("Failed to build QR code: %v", err)
		return c.sendText(ctx, ev, c.bundle.Get(lang, "PlaceNotFound"), false)
	}

	_, err = c.renderer.Send(ctx, ev.ChatID, View{Text: helpers.FormatPlaceCaption(c.bundle, lang, place), Photo: &Photo{Data: png}})
	return err
}

func (c *Controller) removeLocation(ctx context.Context, ev Event, lang models.Language, locationID string) error {
	removed, err := c.locations.Remove(ctx, ev.UserID, locationID)
	if err != nil {
		return err
	}

	text := c.bundle.Get(lang, "LocationNotFound")
	if removed {
		c.logger.WithFields(logrus.Fields{"user_id": ev.UserID, "location_id": locationID}).Info("Removed location")
		text = c.bundle.Get(lang, "LocationRemoved")
	}

	return c.render(ctx, ev, View{
		Text: text,
		Inline: [][]Button{
			{{Text: c.bundle.Get(lang, "ViewSavedLocations"), Data: commands.Data(commands.ToLocationsList)}},
		},
	})
}

func (c *Controller) clearLocations(ctx context.Context, ev Event, lang models.Language) error {
	if err := c.locations.ClearAll(ctx, ev.UserID); err != nil {
		return err
	}
	if err := c.locations.ClearWorkingStage(ctx, ev.UserID); err != nil {
		return err
	}

	return c.render(ctx, ev, View{
		Text: c.bundle.Get(lang, "LocationsCleared"),
		Inline: [][]Button{
			{{Text: c.bundle.Get(lang, "GoAround"), Data: commands.Data(commands.GoAround)}},
			{{Text: c.bundle.Get(lang, "BackToMenu"), Data: commands.Data(commands.GoToMenu)}},
		},
	})
}

func (c *Controller) showLanguages(ctx context.Context, ev Event, lang models.Language) error {
	rows := make([][]Button, 0, len(models.Languages))
	for _, option := range models.Languages {
		label := helpers.SelectedLabel(c.bundle.Get(option, "Language_"+string(option)), option == lang)
		rows = append(rows, []Button{{Text: label, Data: commands.Callback{Action: commands.SetLanguage, Language: option}.Data()}})
	}

	return c.render(ctx, ev, View{Text: c.bundle.Get(lang, "SelectInterfaceLanguage"), Inline: rows})
}

func (c *Controller) setLanguage(ctx context.Context, ev Event, lang models.Language) error {
	if err := c.locations.SetLanguage(ctx, ev.UserID, lang); err != nil {
		return err
	}
	return c.render(ctx, ev, View{Text: c.bundle.Get(lang, "Done")})
}

func (c *Controller) showSearchMode(ctx context.Context, ev Event, lang models.Language) error {
	if err := c.permCtrl.RequireAdmin(ev.UserID); err != nil {
		c.logger.Debug(err)
		return c.sendText(ctx, ev, c.bundle.Get(lang, "Forbidden"), false)
	}

	enabled, err := c.settings.SearchEnabled(ctx)
	if err != nil {
		return err
	}

	return c.render(ctx, ev, View{
		Text: c.bundle.Get(lang, "SelectSearchMode"),
		Inline: [][]Button{{
			{Text: helpers.SelectedLabel(c.bundle.Get(lang, "Enable"), enabled), Data: commands.Callback{Action: commands.SetSearchMode, Enabled: true}.Data()},
			{Text: helpers.SelectedLabel(c.bundle.Get(lang, "Disable"), !enabled), Data: commands.Callback{Action: commands.SetSearchMode, Enabled: false}.Data()},
		}},
	})
}

func (c *Controller) setSearchMode(ctx context.Context, ev Event, lang models.Language, enabled bool) error {
	if err := c.permCtrl.RequireAdmin(ev.UserID); err != nil {
		c.logger.WithField("user_id", ev.UserID).Warnf("Rejected search mode change: %v", err)
		return c.render(ctx, ev, View{Text: c.bundle.Get(lang, "Forbidden")})
	}

	if err := c.settings.SetSearchEnabled(ctx, enabled); err != nil {
		return err
	}
	c.logger.WithField("user_id", ev.UserID).Infof("Search enabled set to %v", enabled)
	return c.render(ctx, ev, View{Text: c.bundle.Get(lang, "Done")})
}
