package handlers

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/commands"
	"goaround-bot/internal/dialog"
	"goaround-bot/internal/i18n"
	"goaround-bot/internal/models"
	"goaround-bot/internal/permissions"
	"goaround-bot/internal/services"
)

// Controller runs the conversation: it reads the user's stage, dispatches the event
// and renders the next view
type Controller struct {
	locations *services.LocationRepository
	places    *services.PlaceCache
	search    *services.SearchService
	settings  *services.SettingsService
	qr        *services.QRService
	permCtrl  *permissions.PermissionController
	bundle    *i18n.Bundle
	machine   *dialog.Machine
	photos    PhotoFetcher
	renderer  Renderer
	locks     *userLocks
	logger    *logrus.Logger
}

// NewController creates a new conversation controller.
// photos may be nil, place cards then use the placeholder image.
func NewController(
	locations *services.LocationRepository,
	places *services.PlaceCache,
	search *services.SearchService,
	settings *services.SettingsService,
	qr *services.QRService,
	permCtrl *permissions.PermissionController,
	bundle *i18n.Bundle,
	machine *dialog.Machine,
	photos PhotoFetcher,
	renderer Renderer,
	logger *logrus.Logger,
) *Controller {
	return &Controller{
		locations: locations,
		places:    places,
		search:    search,
		settings:  settings,
		qr:        qr,
		permCtrl:  permCtrl,
		bundle:    bundle,
		machine:   machine,
		photos:    photos,
		renderer:  renderer,
		locks:     newUserLocks(),
		logger:    logger,
	}
}

// Handle processes one inbound event. Events of the same user are handled one at a time.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	unlock := c.locks.lock(ev.UserID)
	defer unlock()

	lang, err := c.locations.GetLanguage(ctx, ev.UserID)
	if err != nil {
		return err
	}

	c.removePrompt(ctx, ev)

	switch ev.Kind {
	case EventCallback:
		return c.handleCallback(ctx, ev, lang)
	case EventText:
		if commands.IsCommand(ev.Text) {
			return c.handleCommand(ctx, ev, lang)
		}
		return c.handleInput(ctx, ev, lang)
	case EventLocation:
		return c.handleInput(ctx, ev, lang)
	default:
		return c.sendUsage(ctx, ev, lang)
	}
}

// handleCommand handles slash commands; every command leaves the current stage
func (c *Controller) handleCommand(ctx context.Context, ev Event, lang models.Language) error {
	if err := c.locations.ClearWorkingStage(ctx, ev.UserID); err != nil {
		return err
	}

	switch commands.CommandName(ev.Text) {
	case commands.Start:
		return c.showMenu(ctx, ev, lang)
	case commands.Locations:
		return c.showLocations(ctx, ev, lang)
	case commands.Language:
		return c.showLanguages(ctx, ev, lang)
	case commands.Search:
		return c.showSearchMode(ctx, ev, lang)
	default:
		return c.sendUsage(ctx, ev, lang)
	}
}

// handleInput routes free text and pins by the working stage
func (c *Controller) handleInput(ctx context.Context, ev Event, lang models.Language) error {
	stage, err := c.locations.GetWorkingStage(ctx, ev.UserID)
	if err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{"user_id": ev.UserID, "stage": stage.String()}).Debug("Handling input")

	switch stage {
	case models.StageEnterLocation:
		return c.handleLocationInput(ctx, ev, lang)
	case models.StageEnterRadius:
		return c.handleRadiusInput(ctx, ev, lang)
	default:
		return c.sendUsage(ctx, ev, lang)
	}
}

// handleCallback dispatches a button press through the action table
func (c *Controller) handleCallback(ctx context.Context, ev Event, lang models.Language) error {
	cb, err := commands.ParseCallback(ev.CallbackData)
	if err != nil {
		c.logger.WithField("user_id", ev.UserID).Warnf("Ignoring callback: %v", err)
		return c.sendUsage(ctx, ev, lang)
	}

	switch cb.Action {
	case commands.GoToMenu:
		return c.showMenu(ctx, ev, lang)
	case commands.GoAround:
		return c.showGoAround(ctx, ev, lang)
	case commands.EnterOrSendLocation:
		return c.requestLocation(ctx, ev, lang)
	case commands.GoAroundLocation:
		return c.AdvanceLocation(ctx, ev, lang, cb.LocationID)
	case commands.LocationInfo:
		return c.showLocation(ctx, ev, lang, cb.LocationID, "")
	case commands.PlaceInfo:
		return c.showPlace(ctx, ev, lang, cb.LocationID, cb.PlaceID)
	case commands.PlaceQR:
		return c.sendPlaceQR(ctx, ev, lang, cb.LocationID, cb.PlaceID)
	case commands.SelectPlacesCategory:
		return c.toggleCategory(ctx, ev, lang, cb.LocationID, cb.Category)
	case commands.ConfirmPlacesCategories:
		return c.confirmCategories(ctx, ev, lang, cb.LocationID)
	case commands.RemoveLocation:
		return c.removeLocation(ctx, ev, lang, cb.LocationID)
	case commands.ToLocationsList:
		return c.showLocations(ctx, ev, lang)
	case commands.ClearLocations:
		return c.clearLocations(ctx, ev, lang)
	case commands.SetLanguage:
		return c.setLanguage(ctx, ev, cb.Language)
	case commands.SetSearchMode:
		return c.setSearchMode(ctx, ev, lang, cb.Enabled)
	default:
		return c.sendUsage(ctx, ev, lang)
	}
}

// render edits the pressed message for callbacks and sends a new one otherwise.
// Reply keyboards can only be attached to new messages.
func (c *Controller) render(ctx context.Context, ev Event, view View) error {
	if ev.Kind == EventCallback && ev.MessageID != 0 && len(view.Reply) == 0 && !view.RemoveReply {
		_, err := c.renderer.Edit(ctx, ev.ChatID, ev.MessageID, view)
		return err
	}
	_, err := c.renderer.Send(ctx, ev.ChatID, view)
	return err
}

// sendPrompt sends a reply keyboard prompt and remembers it for cleanup
func (c *Controller) sendPrompt(ctx context.Context, ev Event, view View) error {
	if ev.Kind == EventCallback && ev.MessageID != 0 {
		if err := c.renderer.Delete(ctx, ev.ChatID, ev.MessageID); err != nil {
			c.logger.WithField("user_id", ev.UserID).Warnf("Failed to delete message %d: %v", ev.MessageID, err)
		}
	}

	messageID, err := c.renderer.Send(ctx, ev.ChatID, view)
	if err != nil {
		return err
	}
	return c.locations.SetPromptMessageID(ctx, ev.UserID, messageID)
}

// removePrompt deletes the last reply keyboard prompt, failures are only logged
func (c *Controller) removePrompt(ctx context.Context, ev Event) {
	log := c.logger.WithField("user_id", ev.UserID)

	messageID, ok, err := c.locations.GetPromptMessageID(ctx, ev.UserID)
	if err != nil {
		log.Warnf("Failed to read prompt message: %v", err)
		return
	}
	if !ok {
		return
	}

	if err := c.renderer.Delete(ctx, ev.ChatID, messageID); err != nil {
		log.Warnf("Failed to delete prompt message %d: %v", messageID, err)
	}
	if err := c.locations.ClearPromptMessageID(ctx, ev.UserID); err != nil {
		log.Warnf("Failed to clear prompt message: %v", err)
	}
}

func (c *Controller) sendUsage(ctx context.Context, ev Event, lang models.Language) error {
	_, err := c.renderer.Send(ctx, ev.ChatID, View{Text: c.bundle.Get(lang, "Usage"), RemoveReply: true})
	return err
}

func (c *Controller) sendText(ctx context.Context, ev Event, text string, removeReply bool) error {
	_, err := c.renderer.Send(ctx, ev.ChatID, View{Text: text, RemoveReply: removeReply})
	return err
}

// userLocks serializes event handling per user. An entry lives only while someone
// holds or waits for it.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu    sync.Mutex
	users int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*userLock)}
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	entry, ok := l.locks[userID]
	if !ok {
		entry = &userLock{}
		l.locks[userID] = entry
	}
	entry.users++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.users--
		if entry.users == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
