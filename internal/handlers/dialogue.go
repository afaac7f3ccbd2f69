package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/commands"
	"goaround-bot/internal/constants"
	"goaround-bot/internal/dialog"
	apperrors "goaround-bot/internal/errors"
	"goaround-bot/internal/helpers"
	"goaround-bot/internal/models"
	"goaround-bot/internal/services"
	"goaround-bot/internal/validation"
)

// handleLocationInput takes a pin or an address while the user is asked for a location.
// An edit target without coordinates is completed in place, otherwise a new location is saved.
func (c *Controller) handleLocationInput(ctx context.Context, ev Event, lang models.Language) error {
	log := c.logger.WithField("user_id", ev.UserID)

	targetID, location, err := c.positionlessTarget(ctx, ev.UserID)
	if err != nil {
		return err
	}

	switch {
	case ev.Kind == EventLocation && ev.Location != nil:
		latLng := *ev.Location
		location.LatLng = &latLng
		location.Title = ""
	default:
		text, err := validation.ValidateLocationText(ev.Text)
		if err != nil {
			log.Debugf("Rejected location text: %v", err)
			return c.sendLocationRequest(ctx, ev, lang, "EnterLocationErrorMessage")
		}
		location.TextQuery = text
		location.LatLng = nil
		location.Title = ""
	}

	resolution, err := c.search.Resolve(ctx, &location)
	switch {
	case errors.Is(err, apperrors.ErrNoGeocodeResults):
		return c.sendLocationRequest(ctx, ev, lang, "LocationNotResolved")
	case err != nil:
		log.Errorf("Failed to resolve location: %v", err)
		return c.sendText(ctx, ev, c.bundle.Get(lang, "SearchFailed"), false)
	case resolution.Status == services.Ambiguous:
		return c.sendCandidates(ctx, ev, lang, resolution.Candidates)
	}

	if err := c.locations.ClearWorkingStage(ctx, ev.UserID); err != nil {
		return err
	}

	locationID := targetID
	if locationID == "" {
		if locationID, err = c.locations.Add(ctx, ev.UserID, location); err != nil {
			return err
		}
		log.WithField("location_id", locationID).Info("Saved new location")
	} else if err := c.locations.Update(ctx, ev.UserID, locationID, location); err != nil {
		return err
	}

	if err := c.sendText(ctx, ev, c.bundle.Get(lang, "Done"), true); err != nil {
		return err
	}
	return c.AdvanceLocation(ctx, ev, lang, locationID)
}

// positionlessTarget returns the edit target when it still waits for coordinates
func (c *Controller) positionlessTarget(ctx context.Context, userID int64) (string, models.SavedLocation, error) {
	targetID, ok, err := c.locations.GetEditTargetID(ctx, userID)
	if err != nil || !ok {
		return "", models.SavedLocation{}, err
	}

	location, err := c.locations.Get(ctx, userID, targetID)
	if err != nil {
		return "", models.SavedLocation{}, err
	}
	if location == nil || location.LatLng != nil {
		return "", models.SavedLocation{}, nil
	}
	return targetID, *location, nil
}

// handleRadiusInput takes the radius of the edit target
func (c *Controller) handleRadiusInput(ctx context.Context, ev Event, lang models.Language) error {
	log := c.logger.WithField("user_id", ev.UserID)

	targetID, ok, err := c.locations.GetEditTargetID(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn("Radius received without an edit target")
		if err := c.locations.ClearWorkingStage(ctx, ev.UserID); err != nil {
			return err
		}
		return c.sendUsage(ctx, ev, lang)
	}

	radius, err := validation.ValidateRadius(ev.Text)
	if err != nil {
		log.Debugf("Rejected radius: %v", err)
		return c.sendRadiusRequest(ctx, ev, lang, "RadiusInvalid")
	}

	location, err := c.locations.Get(ctx, ev.UserID, targetID)
	if err != nil {
		return err
	}
	if location == nil {
		return c.showLocation(ctx, ev, lang, targetID, "")
	}

	location.Radius = radius
	if err := c.locations.Update(ctx, ev.UserID, targetID, *location); err != nil {
		return err
	}

	if err := c.sendText(ctx, ev, c.bundle.Get(lang, "Done"), true); err != nil {
		return err
	}
	return c.AdvanceLocation(ctx, ev, lang, targetID)
}

// AdvanceLocation moves a location to its first missing field, or searches it when nothing is missing
func (c *Controller) AdvanceLocation(ctx context.Context, ev Event, lang models.Language, locationID string) error {
	log := c.logger.WithFields(logrus.Fields{"user_id": ev.UserID, "location_id": locationID})

	location, err := c.locations.Get(ctx, ev.UserID, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return c.showLocation(ctx, ev, lang, locationID, "")
	}

	current, err := c.locations.GetWorkingStage(ctx, ev.UserID)
	if err != nil {
		return err
	}

	event := dialog.AdvanceEvent(location)
	next, err := c.machine.Next(ctx, ev.UserID, current, event)
	if err != nil {
		log.Warnf("Restarting dialogue: %v", err)
		if next, err = c.machine.Next(ctx, ev.UserID, models.StageIdle, event); err != nil {
			return err
		}
	}

	if event == dialog.EventComplete {
		if err := c.locations.ClearEditMode(ctx, ev.UserID); err != nil {
			return err
		}
	} else if err := c.locations.EnableEditMode(ctx, ev.UserID, locationID); err != nil {
		return err
	}

	if err := c.locations.SetWorkingStage(ctx, ev.UserID, next); err != nil {
		return err
	}

	switch event {
	case dialog.EventAskLocation:
		return c.sendLocationRequest(ctx, ev, lang, "ProvideLocation")
	case dialog.EventAskRadius:
		return c.sendRadiusRequest(ctx, ev, lang, "SpecifyRadius")
	case dialog.EventAskCategories:
		return c.showCategoryPicker(ctx, ev, lang, locationID, location.PlacesCategories)
	default:
		return c.runSearch(ctx, ev, lang, locationID)
	}
}

// runSearch executes the search of a configured location and shows the result
func (c *Controller) runSearch(ctx context.Context, ev Event, lang models.Language, locationID string) error {
	log := c.logger.WithFields(logrus.Fields{"user_id": ev.UserID, "location_id": locationID})

	outcome, err := c.search.Search(ctx, ev.UserID, locationID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			return c.showLocation(ctx, ev, lang, locationID, "")
		}
		log.Errorf("Search failed: %v", err)
		return c.showLocation(ctx, ev, lang, locationID, c.bundle.Get(lang, "SearchFailed"))
	}

	switch outcome.Status {
	case services.SearchDisabled:
		return c.showLocation(ctx, ev, lang, locationID, c.bundle.Get(lang, "SearchDisabled"))
	case services.SearchNotFound:
		return c.showLocation(ctx, ev, lang, locationID, c.bundle.Get(lang, "LocationNotResolved"))
	case services.SearchAmbiguous:
		if err := c.locations.EnableEditMode(ctx, ev.UserID, locationID); err != nil {
			return err
		}
		if err := c.locations.SetWorkingStage(ctx, ev.UserID, models.StageEnterLocation); err != nil {
			return err
		}
		return c.sendCandidates(ctx, ev, lang, outcome.Candidates)
	}

	if len(outcome.Location.Places) == 0 {
		return c.showLocation(ctx, ev, lang, locationID, c.bundle.Get(lang, "NoPlacesFound"))
	}
	return c.showLocation(ctx, ev, lang, locationID, "")
}

// requestLocation starts a new location
func (c *Controller) requestLocation(ctx context.Context, ev Event, lang models.Language) error {
	if err := c.locations.ClearEditMode(ctx, ev.UserID); err != nil {
		return err
	}
	if err := c.locations.SetWorkingStage(ctx, ev.UserID, models.StageEnterLocation); err != nil {
		return err
	}
	return c.sendLocationRequest(ctx, ev, lang, "ProvideLocation")
}

func (c *Controller) sendLocationRequest(ctx context.Context, ev Event, lang models.Language, key string) error {
	return c.sendPrompt(ctx, ev, View{
		Text: c.bundle.Get(lang, key),
		Reply: [][]ReplyButton{
			{{Text: c.bundle.Get(lang, "ShareLocationButton"), RequestLocation: true}},
		},
	})
}

func (c *Controller) sendRadiusRequest(ctx context.Context, ev Event, lang models.Language, key string) error {
	var rows [][]ReplyButton
	for _, labels := range helpers.RadiusRows(constants.RadiusOptions, 2) {
		row := make([]ReplyButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, ReplyButton{Text: label})
		}
		rows = append(rows, row)
	}

	return c.sendPrompt(ctx, ev, View{Text: c.bundle.Get(lang, key), Reply: rows})
}

// sendCandidates asks the user to pick one of several geocoding matches
func (c *Controller) sendCandidates(ctx context.Context, ev Event, lang models.Language, candidates []models.GeocodeResult) error {
	rows := make([][]ReplyButton, 0, len(candidates))
	for _, candidate := range candidates {
		rows = append(rows, []ReplyButton{{Text: candidate.FormattedAddress}})
	}

	return c.sendPrompt(ctx, ev, View{Text: c.bundle.Get(lang, "SelectAppropriateOption"), Reply: rows})
}

func (c *Controller) showCategoryPicker(ctx context.Context, ev Event, lang models.Language, locationID string, selected models.Categories) error {
	labels := make([]string, 0, len(models.PlaceCategories))
	for _, category := range models.PlaceCategories {
		labels = append(labels, helpers.SelectedLabel(c.bundle.Category(lang, category.Key), selected.Contains(category.Key)))
	}

	var rows [][]Button
	for _, indices := range helpers.LayoutRows(labels, constants.CategoriesPerRow, constants.MaxCategoryLabelShort) {
		row := make([]Button, 0, len(indices))
		for _, i := range indices {
			row = append(row, Button{Text: labels[i], Data: commands.CategoryData(locationID, models.PlaceCategories[i].Key)})
		}
		rows = append(rows, row)
	}
	rows = append(rows,
		[]Button{{Text: c.bundle.Get(lang, "Confirm"), Data: commands.LocationData(commands.ConfirmPlacesCategories, locationID)}},
		[]Button{{Text: c.bundle.Get(lang, "BackToMenu"), Data: commands.Data(commands.GoToMenu)}},
	)

	return c.render(ctx, ev, View{Text: c.bundle.Get(lang, "SpecifyPlacesCategories"), Inline: rows})
}

// toggleCategory flips one category of a location and redraws the picker
func (c *Controller) toggleCategory(ctx context.Context, ev Event, lang models.Language, locationID, category string) error {
	selected, err := c.locations.GetPlacesCategories(ctx, ev.UserID, locationID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			return c.showLocation(ctx, ev, lang, locationID, "")
		}
		return err
	}

	if selected.Contains(category) {
		err = c.locations.RemovePlacesCategory(ctx, ev.UserID, locationID, category)
	} else {
		err = c.locations.AddPlacesCategory(ctx, ev.UserID, locationID, category)
	}
	if err != nil {
		return fmt.Errorf("failed to toggle category %s: %w", category, err)
	}

	// A toggle on an older picker resumes the picker stage for that location
	if err := c.locations.EnableEditMode(ctx, ev.UserID, locationID); err != nil {
		return err
	}
	if err := c.locations.SetWorkingStage(ctx, ev.UserID, models.StageEnterPlacesCategories); err != nil {
		return err
	}

	selected, err = c.locations.GetPlacesCategories(ctx, ev.UserID, locationID)
	if err != nil {
		return err
	}
	return c.showCategoryPicker(ctx, ev, lang, locationID, selected)
}

// confirmCategories freezes the selection, an untouched picker confirms an empty selection
func (c *Controller) confirmCategories(ctx context.Context, ev Event, lang models.Language, locationID string) error {
	selected, err := c.locations.GetPlacesCategories(ctx, ev.UserID, locationID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			return c.showLocation(ctx, ev, lang, locationID, "")
		}
		return err
	}

	if !selected.IsSet() {
		selected = models.CategoriesOf()
	}
	if err := c.locations.SetPlacesCategories(ctx, ev.UserID, locationID, selected); err != nil {
		return err
	}
	return c.AdvanceLocation(ctx, ev, lang, locationID)
}
