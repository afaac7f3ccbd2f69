package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"goaround-bot/internal/constants"
	apperrors "goaround-bot/internal/errors"
	"goaround-bot/internal/models"
)

// IDGenerator produces candidate location IDs
type IDGenerator func() string

// ShortID returns the first characters of a random UUID without dashes
func ShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:constants.LocationIDLength]
}

// LocationRepository manages the saved locations and dialogue markers of a user.
// Every mutation rewrites the whole location map under the user's session.
type LocationRepository struct {
	sessions        *SessionService
	newID           IDGenerator
	defaultLanguage models.Language
	logger          *logrus.Logger
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(sessions *SessionService, logger *logrus.Logger) *LocationRepository {
	return &LocationRepository{
		sessions:        sessions,
		newID:           ShortID,
		defaultLanguage: models.DefaultLanguage,
		logger:          logger,
	}
}

// SetIDGenerator replaces the location ID generator
func (r *LocationRepository) SetIDGenerator(gen IDGenerator) {
	r.newID = gen
}

// SetDefaultLanguage replaces the language returned for users without a valid one
func (r *LocationRepository) SetDefaultLanguage(lang models.Language) {
	r.defaultLanguage = lang
}

// GetAll returns every saved location of a user.
// An unparsable blob is replaced with an empty map.
func (r *LocationRepository) GetAll(ctx context.Context, userID int64) (map[string]models.SavedLocation, error) {
	blob, ok, err := r.sessions.GetAttribute(ctx, userID, constants.FieldLocations)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(blob) == "" {
		return make(map[string]models.SavedLocation), nil
	}

	var locations map[string]models.SavedLocation
	if err := json.Unmarshal([]byte(blob), &locations); err != nil {
		r.logger.WithField("user_id", userID).Warnf("Resetting corrupt saved locations: %v", err)
		if err := r.sessions.SetAttribute(ctx, userID, constants.FieldLocations, constants.EmptyLocationsBlob); err != nil {
			return nil, err
		}
		return make(map[string]models.SavedLocation), nil
	}
	if locations == nil {
		locations = make(map[string]models.SavedLocation)
	}
	return locations, nil
}

// SetAll replaces every saved location of a user
func (r *LocationRepository) SetAll(ctx context.Context, userID int64, locations map[string]models.SavedLocation) error {
	if locations == nil {
		locations = make(map[string]models.SavedLocation)
	}
	blob, err := json.Marshal(locations)
	if err != nil {
		return fmt.Errorf("failed to encode saved locations: %w", err)
	}
	return r.sessions.SetAttribute(ctx, userID, constants.FieldLocations, string(blob))
}

// Get returns one saved location, nil when it does not exist
func (r *LocationRepository) Get(ctx context.Context, userID int64, id string) (*models.SavedLocation, error) {
	locations, err := r.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	location, ok := locations[id]
	if !ok {
		return nil, nil
	}
	return &location, nil
}

// Add stores a new location under a fresh ID and returns the ID
func (r *LocationRepository) Add(ctx context.Context, userID int64, location models.SavedLocation) (string, error) {
	locations, err := r.GetAll(ctx, userID)
	if err != nil {
		return "", err
	}

	id := ""
	for attempt := 0; attempt < constants.LocationIDMaxAttempts; attempt++ {
		candidate := r.newID()
		if _, taken := locations[candidate]; candidate != "" && !taken {
			id = candidate
			break
		}
	}
	if id == "" {
		return "", &apperrors.StateError{UserID: userID, State: "add location", Message: "could not generate a unique location ID"}
	}

	if location.Places == nil {
		location.Places = []string{}
	}
	locations[id] = location
	if err := r.SetAll(ctx, userID, locations); err != nil {
		return "", err
	}

	r.logger.WithFields(logrus.Fields{"user_id": userID, "location_id": id}).Debug("Added saved location")
	return id, nil
}

// Update writes a location under id, creating it when missing
func (r *LocationRepository) Update(ctx context.Context, userID int64, id string, location models.SavedLocation) error {
	locations, err := r.GetAll(ctx, userID)
	if err != nil {
		return err
	}
	if location.Places == nil {
		location.Places = []string{}
	}
	locations[id] = location
	return r.SetAll(ctx, userID, locations)
}

// Remove deletes a location and reports whether it existed
func (r *LocationRepository) Remove(ctx context.Context, userID int64, id string) (bool, error) {
	locations, err := r.GetAll(ctx, userID)
	if err != nil {
		return false, err
	}
	if _, ok := locations[id]; !ok {
		return false, nil
	}
	delete(locations, id)
	if err := r.SetAll(ctx, userID, locations); err != nil {
		return false, err
	}
	return true, nil
}

// ClearAll removes every saved location of a user
func (r *LocationRepository) ClearAll(ctx context.Context, userID int64) error {
	return r.SetAll(ctx, userID, nil)
}

// GetPlacesCategories returns the category selection of a location
func (r *LocationRepository) GetPlacesCategories(ctx context.Context, userID int64, id string) (models.Categories, error) {
	location, err := r.mustGet(ctx, userID, id)
	if err != nil {
		return models.Categories{}, err
	}
	return location.PlacesCategories, nil
}

// AddPlacesCategory selects a category, initializing an unset selection
func (r *LocationRepository) AddPlacesCategory(ctx context.Context, userID int64, id, category string) error {
	return r.modify(ctx, userID, id, func(location *models.SavedLocation) {
		location.PlacesCategories = location.PlacesCategories.With(category)
	})
}

// RemovePlacesCategory deselects a category, initializing an unset selection
func (r *LocationRepository) RemovePlacesCategory(ctx context.Context, userID int64, id, category string) error {
	return r.modify(ctx, userID, id, func(location *models.SavedLocation) {
		location.PlacesCategories = location.PlacesCategories.Without(category)
	})
}

// SetPlacesCategories replaces the category selection of a location
func (r *LocationRepository) SetPlacesCategories(ctx context.Context, userID int64, id string, categories models.Categories) error {
	return r.modify(ctx, userID, id, func(location *models.SavedLocation) {
		location.PlacesCategories = categories.Clone()
	})
}

// EnableEditMode makes id the only location under edit.
// Other locations are cleared in a separate write before id is marked.
func (r *LocationRepository) EnableEditMode(ctx context.Context, userID int64, id string) error {
	if err := r.ClearEditMode(ctx, userID); err != nil {
		return err
	}
	return r.modify(ctx, userID, id, func(location *models.SavedLocation) {
		location.EditMode = true
	})
}

// DisableEditMode clears the edit marker of one location
func (r *LocationRepository) DisableEditMode(ctx context.Context, userID int64, id string) error {
	return r.modify(ctx, userID, id, func(location *models.SavedLocation) {
		location.EditMode = false
	})
}

// ClearEditMode clears the edit marker of every location of a user
func (r *LocationRepository) ClearEditMode(ctx context.Context, userID int64) error {
	locations, err := r.GetAll(ctx, userID)
	if err != nil {
		return err
	}
	changed := false
	for id, location := range locations {
		if location.EditMode {
			location.EditMode = false
			locations[id] = location
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.SetAll(ctx, userID, locations)
}

// GetEditTargetID returns the location currently under edit
func (r *LocationRepository) GetEditTargetID(ctx context.Context, userID int64) (string, bool, error) {
	locations, err := r.GetAll(ctx, userID)
	if err != nil {
		return "", false, err
	}
	for _, id := range SortedLocationIDs(locations) {
		if locations[id].EditMode {
			return id, true, nil
		}
	}
	return "", false, nil
}

// GetWorkingStage returns the stored stage; an unknown value is cleared and reads as idle
func (r *LocationRepository) GetWorkingStage(ctx context.Context, userID int64) (models.WorkingStage, error) {
	value, ok, err := r.sessions.GetAttribute(ctx, userID, constants.FieldWorkingStage)
	if err != nil || !ok {
		return models.StageIdle, err
	}
	stage, valid := models.ParseWorkingStage(value)
	if !valid {
		r.logger.WithField("user_id", userID).Warnf("Clearing unknown working stage %q", value)
		if err := r.ClearWorkingStage(ctx, userID); err != nil {
			return models.StageIdle, err
		}
	}
	return stage, nil
}

// SetWorkingStage stores the stage; the idle stage clears it
func (r *LocationRepository) SetWorkingStage(ctx context.Context, userID int64, stage models.WorkingStage) error {
	if stage == models.StageIdle {
		return r.ClearWorkingStage(ctx, userID)
	}
	return r.sessions.SetAttribute(ctx, userID, constants.FieldWorkingStage, string(stage))
}

// ClearWorkingStage returns the user to the idle stage
func (r *LocationRepository) ClearWorkingStage(ctx context.Context, userID int64) error {
	return r.sessions.DeleteAttribute(ctx, userID, constants.FieldWorkingStage)
}

// GetLanguage returns the interface language of a user
func (r *LocationRepository) GetLanguage(ctx context.Context, userID int64) (models.Language, error) {
	value, ok, err := r.sessions.GetAttribute(ctx, userID, constants.FieldLanguage)
	if err != nil || !ok {
		return r.defaultLanguage, err
	}
	lang, valid := models.ParseLanguage(value)
	if !valid {
		return r.defaultLanguage, nil
	}
	return lang, nil
}

// SetLanguage stores the interface language of a user
func (r *LocationRepository) SetLanguage(ctx context.Context, userID int64, lang models.Language) error {
	return r.sessions.SetAttribute(ctx, userID, constants.FieldLanguage, string(lang))
}

// GetPromptMessageID returns the message carrying the last reply keyboard
func (r *LocationRepository) GetPromptMessageID(ctx context.Context, userID int64) (int, bool, error) {
	value, ok, err := r.sessions.GetAttribute(ctx, userID, constants.FieldPromptMessage)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

// SetPromptMessageID remembers the message carrying the last reply keyboard
func (r *LocationRepository) SetPromptMessageID(ctx context.Context, userID int64, messageID int) error {
	return r.sessions.SetAttribute(ctx, userID, constants.FieldPromptMessage, strconv.Itoa(messageID))
}

// ClearPromptMessageID forgets the last reply keyboard message
func (r *LocationRepository) ClearPromptMessageID(ctx context.Context, userID int64) error {
	return r.sessions.DeleteAttribute(ctx, userID, constants.FieldPromptMessage)
}

// SortedLocationIDs returns the keys of a location map in a stable order
func SortedLocationIDs(locations map[string]models.SavedLocation) []string {
	ids := make([]string, 0, len(locations))
	for id := range locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *LocationRepository) mustGet(ctx context.Context, userID int64, id string) (*models.SavedLocation, error) {
	location, err := r.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, &apperrors.NotFoundError{Kind: "location", ID: id}
	}
	return location, nil
}

func (r *LocationRepository) modify(ctx context.Context, userID int64, id string, mutate func(*models.SavedLocation)) error {
	locations, err := r.GetAll(ctx, userID)
	if err != nil {
		return err
	}
	location, ok := locations[id]
	if !ok {
		return &apperrors.NotFoundError{Kind: "location", ID: id}
	}
	mutate(&location)
	locations[id] = location
	return r.SetAll(ctx, userID, locations)
}
